package stream

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spyglass-dev/spyglass/internal/query_engine/timerange"
	"github.com/spyglass-dev/spyglass/internal/transport"
	"go.uber.org/zap"
)

// StreamFetcher performs a single live-tail round trip: resolve the time
// window, fetch matching raw events, and hand them back newest first.
type StreamFetcher interface {
	FetchStream(
		ctx context.Context,
		source string,
		pattern *string,
		selector timerange.Selector,
		limit int64,
		now time.Time,
	) ([]transport.LogEvent, error)
}

type StreamFetcherImpl struct {
	tp     transport.LogTransport
	logger *zap.Logger
}

func NewStreamFetcherImpl(tp transport.LogTransport, logger *zap.Logger) *StreamFetcherImpl {
	return &StreamFetcherImpl{
		tp:     tp,
		logger: logger,
	}
}

// FetchStream returns events ordered descending by timestamp. The transport's
// native order is not guaranteed either way, so the sort always runs.
// Upstream failures are returned to the caller without retrying; re-running
// is a caller policy.
func (sf *StreamFetcherImpl) FetchStream(
	ctx context.Context,
	source string,
	pattern *string,
	selector timerange.Selector,
	limit int64,
	now time.Time,
) ([]transport.LogEvent, error) {
	window, err := timerange.Resolve(selector, now)
	if err != nil {
		sf.logger.Error("Failed to resolve time window for stream fetch", zap.Error(err))
		return nil, err
	}
	events, err := sf.tp.FilterEvents(ctx, source, pattern, window.StartMs, window.EndMs, limit)
	if err != nil {
		sf.logger.Error("Failed to filter events",
			zap.String("source", source),
			zap.Error(err),
		)
		return nil, fmt.Errorf("filter events from %s: %w", source, err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].TimestampMs > events[j].TimestampMs
	})
	return events, nil
}
