package modregex

import (
	"strings"

	"github.com/coregx/modregex/syntax"
)

// ReplaceAllString returns a copy of src in which every match of the
// pattern is replaced by the template repl.
//
// The template understands these substitutions:
//
//	$$        a literal "$"
//	$&        the whole match
//	$`        the text before the match
//	$'        the text after the match
//	$n, $nn   group n (1-99); an unset group expands to ""
//	$<name>   the named group; only when the pattern has named groups
//
// Anything else, including a reference to a group that does not exist, is
// copied literally. If any search exceeds its budget, src is returned
// unchanged.
//
// Example:
//
//	re := modregex.MustCompile(`(?<w>\w+)@(\w+)`, "")
//	re.ReplaceAllString("me@host", "$2 at $<w>") // "host at me"
func (re *Regexp) ReplaceAllString(src, repl string) string {
	return re.replace(src, -1, func(dst []byte, res *Result) []byte {
		return re.expand(dst, repl, res)
	})
}

// Replace replaces the first match, or every match when the pattern has
// the global flag, using the same template syntax as ReplaceAllString.
func (re *Regexp) Replace(src, repl string) string {
	n := 1
	if re.flags&syntax.FlagGlobal != 0 {
		n = -1
	}
	return re.replace(src, n, func(dst []byte, res *Result) []byte {
		return re.expand(dst, repl, res)
	})
}

// ReplaceAllLiteralString returns a copy of src, replacing matches of the
// pattern with repl. The replacement is substituted directly, without
// expanding "$" templates.
func (re *Regexp) ReplaceAllLiteralString(src, repl string) string {
	return re.replace(src, -1, func(dst []byte, _ *Result) []byte {
		return append(dst, repl...)
	})
}

// ReplaceAllStringFunc returns a copy of src in which every match has been
// replaced by the return value of repl applied to the match result.
//
// Example:
//
//	re := modregex.MustCompile(`\d+`, "")
//	re.ReplaceAllStringFunc("1 22", func(r *modregex.Result) string {
//	    return strconv.Itoa(len(r.String()))
//	}) // "1 2"
func (re *Regexp) ReplaceAllStringFunc(src string, repl func(*Result) string) string {
	return re.replace(src, -1, func(dst []byte, res *Result) []byte {
		return append(dst, repl(res)...)
	})
}

// replace copies src replacing at most n matches (all when n < 0). A
// search that exceeds its budget leaves src unchanged rather than
// replacing only the matches found before it.
func (re *Regexp) replace(src string, n int, fn func([]byte, *Result) []byte) string {
	results, err := re.FindAllErr(src, n)
	if err != nil || len(results) == 0 {
		return src
	}

	buf := make([]byte, 0, len(src))
	last := 0
	for _, res := range results {
		buf = append(buf, src[last:res.Index[0]]...)
		buf = fn(buf, res)
		last = res.Index[1]
	}
	buf = append(buf, src[last:]...)
	return string(buf)
}

// expand appends template to dst, replacing "$" substitutions with text
// from res.
func (re *Regexp) expand(dst []byte, template string, res *Result) []byte {
	ngroups := len(res.Groups) - 1
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '$' || i+1 >= len(template) {
			dst = append(dst, c)
			continue
		}

		next := template[i+1]
		switch {
		case next == '$':
			dst = append(dst, '$')
			i++

		case next == '&':
			dst = append(dst, res.Groups[0].Value...)
			i++

		case next == '`':
			dst = append(dst, res.Input[:res.Index[0]]...)
			i++

		case next == '\'':
			dst = append(dst, res.Input[res.Index[1]:]...)
			i++

		case isDigit(next):
			n, width := groupRef(template[i+1:], ngroups)
			if width == 0 {
				dst = append(dst, '$')
				continue
			}
			dst = append(dst, res.Groups[n].Value...)
			i += width

		case next == '<' && res.Names != nil:
			end := strings.IndexByte(template[i+2:], '>')
			if end < 0 {
				dst = append(dst, '$')
				continue
			}
			name := template[i+2 : i+2+end]
			if g, ok := res.Named(name); ok {
				dst = append(dst, g.Value...)
			}
			i += 2 + end

		default:
			dst = append(dst, '$')
		}
	}
	return dst
}

// groupRef parses a one or two digit group number at the start of s. A two
// digit number wins when it names an existing group; otherwise one digit
// is used. It returns width 0 when neither names a group in 1..ngroups.
func groupRef(s string, ngroups int) (n, width int) {
	if len(s) >= 2 && isDigit(s[1]) {
		nn := int(s[0]-'0')*10 + int(s[1]-'0')
		if nn >= 1 && nn <= ngroups {
			return nn, 2
		}
	}
	d := int(s[0] - '0')
	if d >= 1 && d <= ngroups {
		return d, 1
	}
	return 0, 0
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
