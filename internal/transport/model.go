package transport

// JobStatus is the lifecycle status of an asynchronous query job as reported
// by the remote backend.
type JobStatus string

const (
	JobScheduled JobStatus = "Scheduled"
	JobRunning   JobStatus = "Running"
	JobComplete  JobStatus = "Complete"
	JobFailed    JobStatus = "Failed"
	JobCancelled JobStatus = "Cancelled"
	JobUnknown   JobStatus = "Unknown"
)

// IsTerminal reports whether no further status transition can occur.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobComplete, JobFailed, JobCancelled:
		return true
	default:
		return false
	}
}

// LogEvent is a single raw log line returned by a stream-mode fetch.
type LogEvent struct {
	EventId         string
	TimestampMs     int64
	Message         string
	IngestionTimeMs int64
}

// ResultField is one field/value pair of a backend result row. The backend
// returns rows as ordered field lists, not maps, and the field set may differ
// between rows of the same job.
type ResultField struct {
	Field string
	Value string
}

// PollResult is a single observation of a query job. Rows is only populated
// on a Complete observation.
type PollResult struct {
	Status JobStatus
	Rows   [][]ResultField
}
