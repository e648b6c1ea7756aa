package translate

import "strings"

// StageKind enumerates the piped-stage dialect's stage types.
type StageKind int

const (
	StageFilter StageKind = iota
	StageFields
	StageStats
	StageSort
	StageLimit
)

var stageNames = map[StageKind]string{
	StageFilter: "filter",
	StageFields: "fields",
	StageStats:  "stats",
	StageSort:   "sort",
	StageLimit:  "limit",
}

type Stage struct {
	Kind StageKind
	Expr string
}

// Pipeline is an ordered sequence of stages. Stage order is fixed regardless
// of clause order in the source query: filter, then fields or stats, then
// sort, then limit. The remote dialect requires filtering before projection
// or aggregation.
type Pipeline struct {
	Stages []Stage
}

// String serializes the pipeline into the literal text submitted to the
// backend, stages joined by a pipe separator.
func (p Pipeline) String() string {
	parts := make([]string, 0, len(p.Stages))
	for _, stage := range p.Stages {
		parts = append(parts, stageNames[stage.Kind]+" "+stage.Expr)
	}
	return strings.Join(parts, " | ")
}

// DefaultFieldList is the canonical projection used when the source query
// selects * without aggregation; the pipeline dialect has no wildcard.
const DefaultFieldList = "@timestamp, @message, @logStream, @log"

// DefaultPipeline is returned whenever no clause of the source query is
// recognized, so interactive editing never surfaces an error.
func DefaultPipeline() Pipeline {
	return Pipeline{Stages: []Stage{
		{Kind: StageFields, Expr: DefaultFieldList},
		{Kind: StageSort, Expr: "@timestamp desc"},
		{Kind: StageLimit, Expr: "20"},
	}}
}
