package transport

import "context"

// LogTransport is the client for the remote log-analytics backend. Stream
// mode uses FilterEvents for a direct filtered fetch; query mode submits a
// piped-stage query with SubmitQuery and observes it with PollQuery until a
// terminal status.
type LogTransport interface {
	FilterEvents(
		ctx context.Context,
		source string,
		pattern *string,
		startMs int64,
		endMs int64,
		limit int64,
	) ([]LogEvent, error)
	SubmitQuery(
		ctx context.Context,
		source string,
		pipelineText string,
		startSec int64,
		endSec int64,
	) (string, error)
	PollQuery(ctx context.Context, jobId string) (PollResult, error)
}
