package handler

// TimeSelectorDTO selects the time window of a request.
// Mode is one of "relative", "all" or "custom". Relative mode requires
// Window ("1h", "6h" or "24h"); custom mode requires local-time Start and End
// at minute precision, e.g. "2024-01-02T10:00".
// @swagger:model TimeSelectorDTO
type TimeSelectorDTO struct {
	Mode   string `json:"mode"`
	Window string `json:"window,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// StreamRequestDTO requests a synchronous filtered fetch of raw log events.
// @swagger:model StreamRequestDTO
type StreamRequestDTO struct {
	// The log source (log group) to read from
	Source string `json:"source"`
	// Optional filter pattern; events matching it are returned
	Pattern      *string         `json:"pattern,omitempty"`
	TimeSelector TimeSelectorDTO `json:"time_selector"`
	// Maximum number of events; the configured default applies when omitted
	Limit *int64 `json:"limit,omitempty"`
}

// LogEventDTO is a single raw log event.
// @swagger:model LogEventDTO
type LogEventDTO struct {
	EventId         string `json:"event_id"`
	TimestampMs     int64  `json:"timestamp_ms"`
	Message         string `json:"message"`
	IngestionTimeMs int64  `json:"ingestion_time_ms"`
}

// StreamResponseDTO carries fetched events, newest first.
// @swagger:model StreamResponseDTO
type StreamResponseDTO struct {
	Events []LogEventDTO `json:"events"`
}

// QueryRequestDTO starts an asynchronous analytical query run.
// @swagger:model QueryRequestDTO
type QueryRequestDTO struct {
	// The log source (log group) to query
	Source string `json:"source"`
	// The SQL-shaped query text
	Sql          string          `json:"sql"`
	TimeSelector TimeSelectorDTO `json:"time_selector"`
}

// StartQueryResponseDTO identifies the started run.
// @swagger:model StartQueryResponseDTO
type StartQueryResponseDTO struct {
	RunId string `json:"run_id"`
}

// QueryRunResponseDTO is the observable state of a query run. Rows is present
// only once the run is complete and its results are still cached.
// @swagger:model QueryRunResponseDTO
type QueryRunResponseDTO struct {
	RunId       string              `json:"run_id"`
	Status      string              `json:"status"`
	Rows        []map[string]string `json:"rows,omitempty"`
	RowsExpired bool                `json:"rows_expired,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// ErrorMessage is the stable error payload rendered to the UI.
// @swagger:model ErrorMessage
type ErrorMessage struct {
	Message string `json:"message"`
}
