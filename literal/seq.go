// Package literal extracts literal byte sequences from resolved syntax trees
// so that searches can skip input that cannot start a match.
//
// Key concepts:
//   - A Literal is a byte sequence every match in some branch starts with
//   - A Seq is a set of alternative literals (e.g., from /foo|bar/)
//   - Minimize and LongestCommonPrefix shape a Seq for prefilter selection
package literal

import (
	"bytes"
	"sort"
)

// Literal is a byte sequence extracted from a pattern.
//
// Complete reports whether the literal covers the whole of the pattern
// text it was extracted from. Only complete literals can be extended by
// what follows them in a concatenation.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a new Literal.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a debugging form: "literal{bytes, complete=true}".
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals. Every match of the pattern the Seq
// was extracted from begins with at least one of them.
//
// A nil *Seq means the set is unknown or too large to be useful; it is
// distinct from an empty Seq, which no match can satisfy.
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i. Panics if i is out of range.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// Literals returns the literals as byte slices.
func (s *Seq) Literals() [][]byte {
	out := make([][]byte, s.Len())
	for i := range out {
		out[i] = s.literals[i].Bytes
	}
	return out
}

// AllComplete reports whether every literal is complete.
func (s *Seq) AllComplete() bool {
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// MinLen returns the length of the shortest literal, or 0 for an empty Seq.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := s.literals[0].Len()
	for _, lit := range s.literals[1:] {
		if lit.Len() < n {
			n = lit.Len()
		}
	}
	return n
}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	lits := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		lits[i] = NewLiteral(append([]byte(nil), lit.Bytes...), lit.Complete)
	}
	return NewSeq(lits...)
}

// Minimize drops duplicates and every literal that has another literal of
// the sequence as a prefix: for prefix search the shorter one already
// finds every position the longer one would.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}
	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})
	kept := make([]Literal, 0, len(s.literals))
	for _, lit := range s.literals {
		redundant := false
		for _, k := range kept {
			if bytes.HasPrefix(lit.Bytes, k.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, lit)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest prefix shared by all literals.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}
	prefix := s.literals[0].Bytes
	for _, lit := range s.literals[1:] {
		prefix = commonPrefix(prefix, lit.Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}
	return append([]byte(nil), prefix...)
}

func commonPrefix(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
