package backtrack

import (
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/modregex/syntax"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// upperMemo caches the uppercase canonical form of non-ASCII runes.
	upperMemo sync.Map // rune -> rune

	// cases.Caser is stateful, so each lookup borrows one.
	caserPool = sync.Pool{
		New: func() any {
			c := cases.Upper(language.Und)
			return &c
		},
	}
)

// canonicalize returns the representative r is compared by under
// ignoreCase. In Unicode mode runes in the same simple case folding orbit
// share a representative. Otherwise the representative is the single-rune
// uppercase mapping, and mappings from non-ASCII into ASCII are rejected so
// that, for example, U+017F never matches 's'.
func canonicalize(r rune, unicodeMode bool) rune {
	if unicodeMode {
		return foldCanonical(r)
	}
	return upperCanonical(r)
}

// foldCanonical returns the smallest rune in r's simple folding orbit.
func foldCanonical(r rune) rune {
	if r < utf8.RuneSelf {
		if 'a' <= r && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}
	lowest := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < lowest {
			lowest = f
		}
	}
	return lowest
}

func upperCanonical(r rune) rune {
	if r < utf8.RuneSelf {
		if 'a' <= r && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}
	if v, ok := upperMemo.Load(r); ok {
		return v.(rune)
	}

	c := caserPool.Get().(*cases.Caser)
	upper := c.String(string(r))
	caserPool.Put(c)

	out := r
	if u, size := utf8.DecodeRuneInString(upper); size == len(upper) && u != utf8.RuneError && u >= utf8.RuneSelf {
		out = u
	}
	upperMemo.Store(r, out)
	return out
}

// foldEqual reports whether a and b are equal under ignoreCase.
func foldEqual(a, b rune, unicodeMode bool) bool {
	return a == b || canonicalize(a, unicodeMode) == canonicalize(b, unicodeMode)
}

// classContainsFold reports whether some member of ranges is equal to r
// under ignoreCase. Only r's folding orbit can hold such a member.
func classContainsFold(ranges []rune, r rune, unicodeMode bool) bool {
	if syntax.ClassContains(ranges, r) {
		return true
	}
	c := canonicalize(r, unicodeMode)
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if canonicalize(f, unicodeMode) == c && syntax.ClassContains(ranges, f) {
			return true
		}
	}
	return false
}
