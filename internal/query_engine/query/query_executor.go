package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spyglass-dev/spyglass/internal/query_engine/timerange"
	"github.com/spyglass-dev/spyglass/internal/query_engine/translate"
	"github.com/spyglass-dev/spyglass/internal/transport"
	"go.uber.org/zap"
)

const defaultPollInterval = 1 * time.Second

// ResultRow is a shaped backend result row. Column sets may differ between
// rows of the same job, so consumers must not assume uniform columns.
type ResultRow map[string]string

// QueryExecutor runs one analytical query end to end: resolve the time
// window, translate the SQL-shaped text, submit, poll to a terminal status,
// and shape the rows.
type QueryExecutor interface {
	RunQuery(
		ctx context.Context,
		source string,
		sql string,
		selector timerange.Selector,
		now time.Time,
	) ([]ResultRow, error)
}

type QueryExecutorImpl struct {
	tp           transport.LogTransport
	pollInterval time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
	logger       *zap.Logger
}

func NewQueryExecutorImpl(tp transport.LogTransport, logger *zap.Logger) *QueryExecutorImpl {
	return &QueryExecutorImpl{
		tp:           tp,
		pollInterval: defaultPollInterval,
		sleep:        sleepContext,
		logger:       logger,
	}
}

// RunQuery blocks until the job reaches a terminal status or ctx is done.
// Cancellation stops further polling but does not retract the submission; the
// remote job may keep executing. There is no internal iteration cap: an upper
// bound must arrive as a ctx deadline, which surfaces as ErrTimedOut.
func (qe *QueryExecutorImpl) RunQuery(
	ctx context.Context,
	source string,
	sql string,
	selector timerange.Selector,
	now time.Time,
) ([]ResultRow, error) {
	window, err := timerange.Resolve(selector, now)
	if err != nil {
		qe.logger.Error("Failed to resolve time window for query", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}

	pipelineText := translate.Translate(sql).String()

	// The backend expects second-resolution bounds on submission.
	jobId, err := qe.tp.SubmitQuery(ctx, source, pipelineText, window.StartMs/1000, window.EndMs/1000)
	if err != nil {
		qe.logger.Error("Failed to submit query",
			zap.String("source", source),
			zap.String("pipeline", pipelineText),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	qe.logger.Info("Submitted query",
		zap.String("source", source),
		zap.String("pipeline", pipelineText),
		zap.String("jobId", jobId),
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, qe.mapContextErr(jobId, err)
		}
		poll, err := qe.tp.PollQuery(ctx, jobId)
		if err != nil {
			qe.logger.Error("Failed to poll query job",
				zap.String("jobId", jobId),
				zap.Error(err),
			)
			return nil, fmt.Errorf("poll query job %s: %w", jobId, err)
		}
		switch poll.Status {
		case transport.JobScheduled, transport.JobRunning:
			if err := qe.sleep(ctx, qe.pollInterval); err != nil {
				return nil, qe.mapContextErr(jobId, err)
			}
		case transport.JobComplete:
			// Rows are taken from this observation, so the latest
			// Complete report always wins.
			return shapeRows(poll.Rows), nil
		default:
			return nil, &JobFailedError{Status: poll.Status}
		}
	}
}

// mapContextErr translates context termination into the executor's error
// taxonomy: a deadline is a timeout, an explicit cancel is abandonment.
func (qe *QueryExecutorImpl) mapContextErr(jobId string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		qe.logger.Warn("Abandoning query job on deadline; remote job may keep running",
			zap.String("jobId", jobId),
		)
		return ErrTimedOut
	}
	qe.logger.Info("Abandoning query job on cancellation; remote job may keep running",
		zap.String("jobId", jobId),
	)
	return err
}

// shapeRows flattens the backend's ordered field lists into row maps. Each
// row carries its own column set; a later duplicate field in the same row
// overwrites the earlier one.
func shapeRows(raw [][]transport.ResultField) []ResultRow {
	rows := make([]ResultRow, len(raw))
	for i, fields := range raw {
		row := make(ResultRow, len(fields))
		for _, field := range fields {
			row[field.Field] = field.Value
		}
		rows[i] = row
	}
	return rows
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
