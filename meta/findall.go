package meta

import "unicode/utf8"

// FindAll returns successive non-overlapping matches, at most n of them
// (all when n < 0). After an empty match the next search starts one code
// point further on, so an empty match never repeats at the same position.
//
// Each search has its own budget. On a budget error the matches found so
// far are returned together with the error.
//
// Example:
//
//	engine, _ := meta.Compile(`x*`, 0)
//	ms, _ := engine.FindAll("abc", -1)
//	// len(ms) == 4: empty matches at 0, 1, 2 and 3
func (e *Engine) FindAll(input string, n int) ([]*Match, error) {
	var out []*Match
	for at := 0; at <= len(input) && (n < 0 || len(out) < n); {
		m, err := e.Find(input, at)
		if err != nil {
			return out, err
		}
		if m == nil {
			break
		}
		out = append(out, m)
		at = m.End()
		if m.IsEmpty() {
			at = AdvanceIndex(input, at)
		}
	}
	return out, nil
}

// AdvanceIndex returns the position one code point after i, or i+1 when
// i is at or past the end of input.
func AdvanceIndex(input string, i int) int {
	if i >= len(input) {
		return i + 1
	}
	_, w := utf8.DecodeRuneInString(input[i:])
	return i + w
}
