package syntax

import (
	"sort"
	"unicode"
)

// Class range tables as lo, hi pairs.
var (
	digitRanges = []rune{'0', '9'}
	wordRanges  = []rune{'0', '9', 'A', 'Z', '_', '_', 'a', 'z'}
	spaceRanges = []rune{
		'\t', '\r', // \t \n \v \f \r
		' ', ' ',
		0x00a0, 0x00a0,
		0x1680, 0x1680,
		0x2000, 0x200a,
		0x2028, 0x2029,
		0x202f, 0x202f,
		0x205f, 0x205f,
		0x3000, 0x3000,
		0xfeff, 0xfeff,
	}
)

// classEscape returns the ranges for \d \D \w \W \s \S.
func classEscape(c byte) ([]rune, bool) {
	switch c {
	case 'd':
		return digitRanges, true
	case 'D':
		return complementRanges(digitRanges), true
	case 'w':
		return wordRanges, true
	case 'W':
		return complementRanges(wordRanges), true
	case 's':
		return spaceRanges, true
	case 'S':
		return complementRanges(spaceRanges), true
	}
	return nil, false
}

// normalizeRanges sorts r by lower bound and merges overlapping or
// adjacent pairs in place.
func normalizeRanges(r []rune) []rune {
	if len(r) < 4 {
		return r
	}
	pairs := make([][2]rune, 0, len(r)/2)
	for i := 0; i+1 < len(r); i += 2 {
		pairs = append(pairs, [2]rune{r[i], r[i+1]})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	out := r[:0]
	for _, p := range pairs {
		n := len(out)
		if n > 0 && p[0] <= out[n-1]+1 {
			if p[1] > out[n-1] {
				out[n-1] = p[1]
			}
			continue
		}
		out = append(out, p[0], p[1])
	}
	return out
}

// complementRanges returns the complement of normalized ranges r over the
// code point space.
func complementRanges(r []rune) []rune {
	out := make([]rune, 0, len(r)+2)
	next := rune(0)
	for i := 0; i+1 < len(r); i += 2 {
		if r[i] > next {
			out = append(out, next, r[i]-1)
		}
		next = r[i+1] + 1
	}
	if next <= unicode.MaxRune {
		out = append(out, next, unicode.MaxRune)
	}
	return out
}

// ClassContains reports whether r falls in the normalized ranges.
func ClassContains(ranges []rune, r rune) bool {
	// Binary search over pairs.
	lo, hi := 0, len(ranges)/2
	for lo < hi {
		m := lo + (hi-lo)/2
		switch {
		case r < ranges[2*m]:
			hi = m
		case r > ranges[2*m+1]:
			lo = m + 1
		default:
			return true
		}
	}
	return false
}

// ClassSize returns the number of code points covered by the ranges.
func ClassSize(ranges []rune) int {
	n := 0
	for i := 0; i+1 < len(ranges); i += 2 {
		n += int(ranges[i+1]-ranges[i]) + 1
	}
	return n
}
