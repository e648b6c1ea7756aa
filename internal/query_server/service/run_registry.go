package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spyglass-dev/spyglass/internal/events"
	"github.com/spyglass-dev/spyglass/internal/query_engine/query"
	"github.com/spyglass-dev/spyglass/internal/query_engine/timerange"
	"go.uber.org/zap"
)

// RunStatusTopic carries RunStatusEvent payloads for every run transition.
const RunStatusTopic = "query.run.status"

type RunStatus string

const (
	RunScheduled RunStatus = "scheduled"
	RunRunning   RunStatus = "running"
	RunComplete  RunStatus = "complete"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
	RunTimedOut  RunStatus = "timed_out"
)

func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunComplete, RunFailed, RunCancelled, RunTimedOut:
		return true
	default:
		return false
	}
}

type RunStatusEvent struct {
	RunId  string    `json:"run_id"`
	Status RunStatus `json:"status"`
}

// RunSnapshot is a point-in-time copy of a query run, safe to hand to
// handlers. Rows is populated only for complete runs whose results are still
// cached.
type RunSnapshot struct {
	Id           string
	Source       string
	Sql          string
	Status       RunStatus
	Rows         []query.ResultRow
	RowsExpired  bool
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

type queryRun struct {
	id         string
	source     string
	sql        string
	status     RunStatus
	errMessage string
	startedAt  time.Time
	finishedAt *time.Time
	cancel     context.CancelFunc
}

// RunManager owns asynchronous query runs: starting, observing and
// cancelling them. Cancellation is fire-and-forget: polling stops but an
// already accepted remote job is not retracted.
type RunManager interface {
	StartQueryRun(
		ctx context.Context,
		source string,
		sql string,
		selector timerange.Selector,
	) (string, error)
	GetRun(runId string) (RunSnapshot, bool)
	CancelRun(runId string) bool
}

type RunRegistryImpl struct {
	mu           sync.RWMutex
	runs         map[string]*queryRun
	executor     query.QueryExecutor
	results      *ResultCache
	bus          events.Bus[RunStatusEvent]
	queryTimeout time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

func NewRunRegistryImpl(
	executor query.QueryExecutor,
	results *ResultCache,
	bus events.Bus[RunStatusEvent],
	queryTimeout time.Duration,
	logger *zap.Logger,
) *RunRegistryImpl {
	return &RunRegistryImpl{
		runs:         make(map[string]*queryRun),
		executor:     executor,
		results:      results,
		bus:          bus,
		queryTimeout: queryTimeout,
		now:          time.Now,
		logger:       logger,
	}
}

// StartQueryRun registers a run and executes it on its own goroutine. The
// returned run id is immediately pollable via GetRun.
func (rr *RunRegistryImpl) StartQueryRun(
	ctx context.Context,
	source string,
	sql string,
	selector timerange.Selector,
) (string, error) {
	runId := uuid.New().String()
	var runCtx context.Context
	var cancel context.CancelFunc
	if rr.queryTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, rr.queryTimeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}

	run := &queryRun{
		id:        runId,
		source:    source,
		sql:       sql,
		status:    RunScheduled,
		startedAt: rr.now(),
		cancel:    cancel,
	}
	rr.mu.Lock()
	rr.runs[runId] = run
	rr.mu.Unlock()
	rr.publishStatus(runId, RunScheduled)

	go rr.execute(runCtx, cancel, run, selector)
	return runId, nil
}

func (rr *RunRegistryImpl) execute(
	ctx context.Context,
	cancel context.CancelFunc,
	run *queryRun,
	selector timerange.Selector,
) {
	defer cancel()
	rr.transition(run.id, RunRunning, "")

	rows, err := rr.executor.RunQuery(ctx, run.source, run.sql, selector, rr.now())
	if err != nil {
		rr.transition(run.id, classifyRunError(err), err.Error())
		return
	}
	if err := rr.results.Put(run.id, rows); err != nil {
		rr.logger.Error("Failed to cache completed query run results",
			zap.String("runId", run.id),
			zap.Error(err),
		)
	}
	rr.transition(run.id, RunComplete, "")
}

func classifyRunError(err error) RunStatus {
	switch {
	case errors.Is(err, query.ErrTimedOut):
		return RunTimedOut
	case errors.Is(err, context.Canceled):
		return RunCancelled
	default:
		return RunFailed
	}
}

func (rr *RunRegistryImpl) transition(runId string, status RunStatus, errMessage string) {
	rr.mu.Lock()
	run, ok := rr.runs[runId]
	applied := ok && !run.status.IsTerminal()
	if applied {
		run.status = status
		run.errMessage = errMessage
		if status.IsTerminal() {
			finished := rr.now()
			run.finishedAt = &finished
		}
	}
	rr.mu.Unlock()
	if applied {
		rr.publishStatus(runId, status)
	}
}

func (rr *RunRegistryImpl) publishStatus(runId string, status RunStatus) {
	err := rr.bus.Publish(RunStatusTopic, RunStatusEvent{RunId: runId, Status: status})
	if err != nil {
		rr.logger.Error("Failed to publish run status event",
			zap.String("runId", runId),
			zap.Error(err),
		)
	}
}

func (rr *RunRegistryImpl) GetRun(runId string) (RunSnapshot, bool) {
	rr.mu.RLock()
	run, ok := rr.runs[runId]
	if !ok {
		rr.mu.RUnlock()
		return RunSnapshot{}, false
	}
	snapshot := RunSnapshot{
		Id:           run.id,
		Source:       run.source,
		Sql:          run.sql,
		Status:       run.status,
		ErrorMessage: run.errMessage,
		StartedAt:    run.startedAt,
		FinishedAt:   run.finishedAt,
	}
	rr.mu.RUnlock()

	if snapshot.Status == RunComplete {
		rows, err := rr.results.Get(runId)
		if err != nil {
			snapshot.RowsExpired = true
		} else {
			snapshot.Rows = rows
		}
	}
	return snapshot, true
}

// CancelRun stops polling for an in-flight run. Returns false when the run is
// unknown or already terminal.
func (rr *RunRegistryImpl) CancelRun(runId string) bool {
	rr.mu.RLock()
	run, ok := rr.runs[runId]
	terminal := ok && run.status.IsTerminal()
	rr.mu.RUnlock()
	if !ok || terminal {
		return false
	}
	run.cancel()
	return true
}
