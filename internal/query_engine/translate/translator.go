package translate

import "strings"

var aggFunctions = []string{"count", "avg", "sum", "min", "max", "stddev", "pct", "bin"}

// Translate converts a restricted SQL-shaped query into a pipeline query. It
// is a total function: input in which no clause is recognized degrades to
// DefaultPipeline instead of erroring, since the text is edited interactively
// and the caller has no recovery path mid-edit.
func Translate(sql string) Pipeline {
	normalized := stripFrom(normalize(sql))
	clauses := scanClauses(normalized)

	bodies := make(map[clauseKind]string)
	present := make(map[clauseKind]bool)
	for _, c := range clauses {
		if present[c.kind] {
			continue
		}
		present[c.kind] = true
		bodies[c.kind] = c.body
	}

	var stages []Stage
	if present[clauseWhere] && bodies[clauseWhere] != "" {
		stages = append(stages, Stage{
			Kind: StageFilter,
			Expr: rewriteFilter(bodies[clauseWhere]),
		})
	}
	if projection, ok := buildProjection(
		bodies[clauseSelect], present[clauseSelect],
		bodies[clauseGroupBy], present[clauseGroupBy],
	); ok {
		stages = append(stages, projection)
	}
	if present[clauseOrderBy] && bodies[clauseOrderBy] != "" {
		stages = append(stages, Stage{Kind: StageSort, Expr: bodies[clauseOrderBy]})
	}
	if present[clauseLimit] {
		if expr := limitExpr(bodies[clauseLimit]); expr != "" {
			stages = append(stages, Stage{Kind: StageLimit, Expr: expr})
		}
	}

	if len(stages) == 0 {
		return DefaultPipeline()
	}
	return Pipeline{Stages: stages}
}

// buildProjection derives the fields or stats stage from the SELECT body and
// an optional GROUP BY body. A wildcard SELECT combined with aggregation or
// grouping emits no projection stage at all; the intent is ambiguous and left
// to the backend.
func buildProjection(
	selectBody string,
	haveSelect bool,
	groupBody string,
	haveGroup bool,
) (Stage, bool) {
	if !haveSelect || selectBody == "" {
		return Stage{}, false
	}
	aggregated := hasAggregation(selectBody) || haveGroup
	if selectBody == "*" {
		if aggregated {
			return Stage{}, false
		}
		return Stage{Kind: StageFields, Expr: DefaultFieldList}, true
	}
	if aggregated {
		expr := selectBody
		if haveGroup && groupBody != "" {
			expr += " by " + groupBody
		}
		return Stage{Kind: StageStats, Expr: expr}, true
	}
	return Stage{Kind: StageFields, Expr: selectBody}, true
}

// hasAggregation reports whether the SELECT body contains a call to one of
// the dialect's aggregation functions, case-insensitively.
func hasAggregation(body string) bool {
	lower := strings.ToLower(body)
	for _, fn := range aggFunctions {
		for offset := 0; ; {
			idx := strings.Index(lower[offset:], fn)
			if idx < 0 {
				break
			}
			idx += offset
			offset = idx + len(fn)
			if idx > 0 && isWordByte(lower[idx-1]) {
				continue
			}
			if offset < len(lower) && lower[offset] == '(' {
				return true
			}
		}
	}
	return false
}

// rewriteFilter rewrites a WHERE body into the pipeline boolean-expression
// grammar: LIKE with a quoted pattern becomes like /pattern/ with leading and
// trailing % wildcards stripped, and logical connectives are lowercased.
// Pattern text is passed through verbatim, without regex escaping.
func rewriteFilter(body string) string {
	var b strings.Builder
	for i := 0; i < len(body); {
		if !isWordByte(body[i]) || (i > 0 && isWordByte(body[i-1])) {
			b.WriteByte(body[i])
			i++
			continue
		}
		end := i
		for end < len(body) && isWordByte(body[end]) {
			end++
		}
		word := body[i:end]
		switch strings.ToLower(word) {
		case "and", "or", "not":
			b.WriteString(strings.ToLower(word))
			i = end
		case "like":
			pattern, next, ok := scanLikePattern(body, end)
			if !ok {
				b.WriteString(word)
				i = end
				continue
			}
			b.WriteString("like /")
			b.WriteString(strings.Trim(pattern, "%"))
			b.WriteString("/")
			i = next
		default:
			b.WriteString(word)
			i = end
		}
	}
	return b.String()
}

// scanLikePattern reads the single- or double-quoted pattern following a LIKE
// keyword, returning its contents and the index just past the closing quote.
func scanLikePattern(s string, start int) (string, int, bool) {
	i := start
	for i < len(s) && s[i] == ' ' {
		i++
	}
	if i >= len(s) || (s[i] != '\'' && s[i] != '"') {
		return "", 0, false
	}
	closing := strings.IndexByte(s[i+1:], s[i])
	if closing < 0 {
		return "", 0, false
	}
	return s[i+1 : i+1+closing], i + 1 + closing + 1, true
}

// limitExpr extracts the first integer token of a LIMIT body. Non-numeric
// content is not validated locally; a malformed limit is the backend's error
// to report.
func limitExpr(body string) string {
	for _, token := range strings.Fields(body) {
		if isInteger(token) {
			return token
		}
	}
	return strings.TrimSpace(body)
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
