package query

import (
	"errors"
	"fmt"

	"github.com/spyglass-dev/spyglass/internal/transport"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrSubmitFailed     = errors.New("query submission failed")
	ErrTimedOut         = errors.New("timed out waiting for query to reach a terminal state")
)

// JobFailedError is returned when the backend reports a terminal status other
// than Complete for a submitted job.
type JobFailedError struct {
	Status transport.JobStatus
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("query job reached terminal status %s", e.Status)
}
