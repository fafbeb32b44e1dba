package modregex

import "github.com/coregx/modregex/meta"

// Split slices s into substrings separated by matches of the pattern and
// returns at most limit of them (all when limit < 0).
//
// Captured groups of each separator are spliced into the result, with ""
// for groups that did not participate. A match is only used as a separator
// when it ends past the previous separator, so an empty match at the start
// of a piece never splits it off. Splitting "" yields no pieces when the
// pattern matches it and [""] otherwise.
//
// Example:
//
//	re := modregex.MustCompile(`(-)|,`, "")
//	re.Split("a-b,c", -1) // ["a" "-" "b" "" "c"]
func (re *Regexp) Split(s string, limit int) []string {
	if limit == 0 {
		return []string{}
	}
	if s == "" {
		if m, _ := re.engine.FindAnchored(s, 0); m != nil {
			return []string{}
		}
		return []string{""}
	}

	var out []string
	full := func() bool { return limit > 0 && len(out) >= limit }

	p := 0
	for q := p; q < len(s); {
		m, _ := re.engine.FindAnchored(s, q)
		if m == nil {
			q = meta.AdvanceIndex(s, q)
			continue
		}
		e := min(m.End(), len(s))
		if e == p {
			q = meta.AdvanceIndex(s, q)
			continue
		}
		out = append(out, s[p:q])
		if full() {
			return out
		}
		p = e
		for i := 1; i < m.NumGroups(); i++ {
			g, _ := m.Group(i)
			out = append(out, g)
			if full() {
				return out
			}
		}
		q = p
	}
	return append(out, s[p:])
}
