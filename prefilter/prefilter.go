// Package prefilter provides fast candidate filtering for regex search using
// extracted literal sequences.
//
// A prefilter quickly rejects positions in the haystack that cannot begin a
// match, so the backtracking matcher only runs where one of the pattern's
// literal prefixes occurs.
//
// The strategy is chosen from the extracted prefixes:
//   - Single byte → memchr
//   - Single substring → memmem (rare-byte anchored)
//   - Single-byte set → memchr2/memchr3 or a byte table
//   - Up to three distinct lead bytes → memchr2/memchr3 plus verification
//   - Anything else → Aho-Corasick automaton
//
// Example usage:
//
//	tree, _ := syntax.Parse("hello|world", 0)
//	syntax.Resolve(tree.Root, syntax.Modifiers{})
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(tree.Root)
//
//	pf := prefilter.Build(prefixes)
//	pos := pf.Find([]byte("foo hello bar world baz"), 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/modregex/literal"
	"github.com/coregx/modregex/simd"
)

// Prefilter finds candidate match positions before the full matcher runs.
//
// A candidate is a position where one of the prefilter literals begins.
// It does NOT guarantee a match; the caller verifies each candidate with the
// matcher and resumes the prefilter after it on failure.
type Prefilter interface {
	// Find returns the index of the first candidate at or after start,
	// or -1 if no candidate exists. A start outside [0, len(haystack))
	// yields -1.
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is always a full match.
	// This holds only for a single literal that is the entire pattern.
	IsComplete() bool

	// LiteralLen returns the length of the matched literal when all
	// literals share one length, or 0 otherwise.
	LiteralLen() int

	// HeapBytes returns an estimate of the heap memory held.
	HeapBytes() int

	// Kind reports the search strategy behind the prefilter.
	Kind() Kind
}

// Kind identifies a prefilter implementation.
type Kind int

const (
	// KindMemchr searches for one byte.
	KindMemchr Kind = iota + 1
	// KindMemmem searches for one substring.
	KindMemmem
	// KindByteSet searches for up to three lead bytes.
	KindByteSet
	// KindByteTable searches for any byte of a set.
	KindByteTable
	// KindAhoCorasick runs a multi-pattern automaton.
	KindAhoCorasick
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMemchr:
		return "Memchr"
	case KindMemmem:
		return "Memmem"
	case KindByteSet:
		return "ByteSet"
	case KindByteTable:
		return "ByteTable"
	case KindAhoCorasick:
		return "AhoCorasick"
	default:
		return "Unknown"
	}
}

// Build selects a prefilter for prefixes. It returns nil when prefixes is
// nil or empty, or when some literal is empty; such a pattern can match
// anywhere and a prefilter would only add overhead.
func Build(prefixes *literal.Seq) Prefilter {
	if prefixes.IsEmpty() || prefixes.MinLen() == 0 {
		return nil
	}

	if prefixes.Len() == 1 {
		lit := prefixes.Get(0)
		if lit.Len() == 1 {
			return newMemchrPrefilter(lit.Bytes[0], lit.Complete)
		}
		return newMemmemPrefilter(lit.Bytes, lit.Complete)
	}

	lead := leadBytes(prefixes)
	lits := prefixes.Literals()
	allSingle := maxLen(lits) == 1

	switch {
	case allSingle && len(lead) <= 3:
		return newByteSetPrefilter(lead, nil)
	case allSingle:
		return newByteTablePrefilter(lead)
	case len(lead) <= 3:
		return newByteSetPrefilter(lead, lits)
	}

	if pf := newAhoCorasickPrefilter(lits); pf != nil {
		return pf
	}
	// The automaton could not be built; fall back to lead bytes.
	return newByteTablePrefilter(lead)
}

// leadBytes returns the distinct first bytes of the sequence in order of
// first appearance.
func leadBytes(seq *literal.Seq) []byte {
	var seen [256]bool
	var out []byte
	for i := 0; i < seq.Len(); i++ {
		b := seq.Get(i).Bytes[0]
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

func maxLen(lits [][]byte) int {
	m := 0
	for _, l := range lits {
		m = max(m, len(l))
	}
	return m
}

func sameLen(lits [][]byte) int {
	if len(lits) == 0 {
		return 0
	}
	n := len(lits[0])
	for _, l := range lits[1:] {
		if len(l) != n {
			return 0
		}
	}
	return n
}

// memchrPrefilter searches for a single byte.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) *memchrPrefilter {
	return &memchrPrefilter{needle: needle, complete: complete}
}

func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	pos := simd.Memchr(haystack[start:], p.needle)
	if pos == -1 {
		return -1
	}
	return start + pos
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }

func (p *memchrPrefilter) LiteralLen() int { return 1 }

func (p *memchrPrefilter) HeapBytes() int { return 0 }

func (p *memchrPrefilter) Kind() Kind { return KindMemchr }

// memmemPrefilter searches for a single substring.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

func newMemmemPrefilter(needle []byte, complete bool) *memmemPrefilter {
	return &memmemPrefilter{needle: bytes.Clone(needle), complete: complete}
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	pos := simd.Memmem(haystack[start:], p.needle)
	if pos == -1 {
		return -1
	}
	return start + pos
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }

func (p *memmemPrefilter) LiteralLen() int { return len(p.needle) }

func (p *memmemPrefilter) HeapBytes() int { return len(p.needle) }

func (p *memmemPrefilter) Kind() Kind { return KindMemmem }

// byteSetPrefilter searches for up to three lead bytes with memchr2/memchr3.
// When lits is non-nil every hit is checked against the literals before it
// is reported.
type byteSetPrefilter struct {
	n1, n2, n3 byte
	count      int
	lits       [][]byte
}

func newByteSetPrefilter(lead []byte, lits [][]byte) *byteSetPrefilter {
	p := &byteSetPrefilter{lits: lits, count: len(lead)}
	p.n1 = lead[0]
	p.n2, p.n3 = p.n1, p.n1
	if len(lead) > 1 {
		p.n2, p.n3 = lead[1], lead[1]
	}
	if len(lead) > 2 {
		p.n3 = lead[2]
	}
	return p
}

func (p *byteSetPrefilter) Find(haystack []byte, start int) int {
	if start < 0 {
		return -1
	}
	for start < len(haystack) {
		pos := p.index(haystack[start:])
		if pos == -1 {
			return -1
		}
		at := start + pos
		if p.verify(haystack[at:]) {
			return at
		}
		start = at + 1
	}
	return -1
}

func (p *byteSetPrefilter) index(haystack []byte) int {
	switch p.count {
	case 1:
		return simd.Memchr(haystack, p.n1)
	case 2:
		return simd.Memchr2(haystack, p.n1, p.n2)
	default:
		return simd.Memchr3(haystack, p.n1, p.n2, p.n3)
	}
}

func (p *byteSetPrefilter) verify(tail []byte) bool {
	if p.lits == nil {
		return true
	}
	for _, lit := range p.lits {
		if bytes.HasPrefix(tail, lit) {
			return true
		}
	}
	return false
}

func (p *byteSetPrefilter) IsComplete() bool { return false }

func (p *byteSetPrefilter) LiteralLen() int {
	if p.lits == nil {
		return 1
	}
	return sameLen(p.lits)
}

func (p *byteSetPrefilter) HeapBytes() int {
	n := 0
	for _, l := range p.lits {
		n += len(l)
	}
	return n
}

func (p *byteSetPrefilter) Kind() Kind { return KindByteSet }

// byteTablePrefilter scans for any byte of a set using a lookup table.
type byteTablePrefilter struct {
	table [256]bool
}

func newByteTablePrefilter(set []byte) *byteTablePrefilter {
	p := &byteTablePrefilter{}
	for _, b := range set {
		p.table[b] = true
	}
	return p
}

func (p *byteTablePrefilter) Find(haystack []byte, start int) int {
	if start < 0 {
		return -1
	}
	for i := start; i < len(haystack); i++ {
		if p.table[haystack[i]] {
			return i
		}
	}
	return -1
}

func (p *byteTablePrefilter) IsComplete() bool { return false }

func (p *byteTablePrefilter) LiteralLen() int { return 0 }

func (p *byteTablePrefilter) HeapBytes() int { return 0 }

func (p *byteTablePrefilter) Kind() Kind { return KindByteTable }

// ahoCorasickPrefilter finds the leftmost occurrence of any literal.
type ahoCorasickPrefilter struct {
	auto    *ahocorasick.Automaton
	litLen  int
	heapEst int
}

func newAhoCorasickPrefilter(lits [][]byte) *ahoCorasickPrefilter {
	builder := ahocorasick.NewBuilder()
	heap := 0
	for _, lit := range lits {
		builder.AddPattern(lit)
		heap += len(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{auto: auto, litLen: sameLen(lits), heapEst: heap * 8}
}

func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (p *ahoCorasickPrefilter) IsComplete() bool { return false }

func (p *ahoCorasickPrefilter) LiteralLen() int { return p.litLen }

func (p *ahoCorasickPrefilter) HeapBytes() int { return p.heapEst }

func (p *ahoCorasickPrefilter) Kind() Kind { return KindAhoCorasick }
