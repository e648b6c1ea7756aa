package translate

import "strings"

type clauseKind int

const (
	clauseSelect clauseKind = iota
	clauseWhere
	clauseGroupBy
	clauseOrderBy
	clauseLimit
)

type clause struct {
	kind clauseKind
	body string
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '@'
}

// normalize strips SQL comments, collapses whitespace runs to single spaces
// and trims the result.
func normalize(sql string) string {
	return strings.Join(strings.Fields(stripComments(sql)), " ")
}

func stripComments(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '-' && i+1 < len(s) && s[i+1] == '-' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			b.WriteByte(' ')
			continue
		}
		if s[i] == '/' && i+1 < len(s) && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				i = len(s)
			} else {
				i += 2 + end + 2
			}
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// stripFrom removes the first FROM clause together with its source token. The
// source name is supplied to the backend out-of-band, never inside the
// pipeline text. The token may be backtick-, single- or double-quoted, or a
// bare run of non-whitespace characters.
func stripFrom(s string) string {
	lower := strings.ToLower(s)
	start := -1
	for i := 0; i+4 <= len(lower); i++ {
		if lower[i:i+4] != "from" {
			continue
		}
		if i > 0 && isWordByte(lower[i-1]) {
			continue
		}
		if i+4 < len(lower) && isWordByte(lower[i+4]) {
			continue
		}
		start = i
		break
	}
	if start < 0 {
		return s
	}
	j := start + 4
	for j < len(s) && s[j] == ' ' {
		j++
	}
	tokenEnd := j
	if j < len(s) {
		switch s[j] {
		case '`', '\'', '"':
			closing := strings.IndexByte(s[j+1:], s[j])
			if closing < 0 {
				tokenEnd = len(s)
			} else {
				tokenEnd = j + 1 + closing + 1
			}
		default:
			for tokenEnd < len(s) && s[tokenEnd] != ' ' {
				tokenEnd++
			}
		}
	}
	return strings.Join(strings.Fields(s[:start]+" "+s[tokenEnd:]), " ")
}

// scanClauses finds clause keyword boundaries in a single left-to-right pass
// over the normalized input. Text preceding the first recognized keyword is
// dropped. Keyword matching is case-insensitive and whole-word; quoted
// strings are not protected, matching the dialect's historical behavior.
func scanClauses(s string) []clause {
	lower := strings.ToLower(s)
	var clauses []clause
	current := clauseKind(-1)
	bodyStart := 0
	for i := 0; i < len(s); i++ {
		if !isWordByte(lower[i]) {
			continue
		}
		if i > 0 && isWordByte(lower[i-1]) {
			continue
		}
		kind, end, ok := matchKeyword(lower, i)
		if !ok {
			continue
		}
		if current >= 0 {
			clauses = append(clauses, clause{
				kind: current,
				body: strings.TrimSpace(s[bodyStart:i]),
			})
		}
		current = kind
		bodyStart = end
		i = end - 1
	}
	if current >= 0 {
		clauses = append(clauses, clause{
			kind: current,
			body: strings.TrimSpace(s[bodyStart:]),
		})
	}
	return clauses
}

// matchKeyword reports whether a clause keyword starts at position i of the
// lowercased input, returning its kind and the index just past the keyword.
func matchKeyword(lower string, i int) (clauseKind, int, bool) {
	if _, end, ok := matchWord(lower, i, "group"); ok {
		if byWord, byEnd, byOk := matchNextWord(lower, end); byOk && byWord == "by" {
			return clauseGroupBy, byEnd, true
		}
	}
	if _, end, ok := matchWord(lower, i, "order"); ok {
		if byWord, byEnd, byOk := matchNextWord(lower, end); byOk && byWord == "by" {
			return clauseOrderBy, byEnd, true
		}
	}
	if _, end, ok := matchWord(lower, i, "select"); ok {
		return clauseSelect, end, true
	}
	if _, end, ok := matchWord(lower, i, "where"); ok {
		return clauseWhere, end, true
	}
	if _, end, ok := matchWord(lower, i, "limit"); ok {
		return clauseLimit, end, true
	}
	return 0, 0, false
}

// matchWord matches the literal word at position i with a trailing word
// boundary. The caller guarantees the leading boundary.
func matchWord(lower string, i int, word string) (string, int, bool) {
	end := i + len(word)
	if end > len(lower) || lower[i:end] != word {
		return "", 0, false
	}
	if end < len(lower) && isWordByte(lower[end]) {
		return "", 0, false
	}
	return word, end, true
}

// matchNextWord skips spaces and returns the following word, if any.
func matchNextWord(lower string, i int) (string, int, bool) {
	for i < len(lower) && lower[i] == ' ' {
		i++
	}
	start := i
	for i < len(lower) && isWordByte(lower[i]) {
		i++
	}
	if i == start {
		return "", 0, false
	}
	return lower[start:i], i, true
}
