// Package backtrack implements a continuation-passing backtracking matcher
// over a resolved syntax tree.
//
// Every node carries its own effective modifiers, so the matcher never
// tracks modifier scope: anchors read Mods.Multiline, literals and classes
// read Mods.IgnoreCase and "." reads Mods.DotAll from the node itself.
package backtrack

import (
	"errors"
	"sync"

	"github.com/coregx/modregex/syntax"
)

// ErrBudgetExceeded is returned when a match attempt exceeds the configured
// step or depth budget. It is not a no-match: the caller may treat it as one
// or retry with a larger budget.
var ErrBudgetExceeded = errors.New("regexp: match budget exceeded")

// Config bounds the work of a single top-level match call.
type Config struct {
	// MaxSteps limits the number of node visits. 0 means unlimited.
	MaxSteps int

	// MaxDepth limits the nesting of active node visits, which grows with
	// the number of repeat iterations in flight. Repeats of a single rune,
	// character class or dot loop without nesting. 0 means unlimited.
	MaxDepth int

	// UnsetBackrefMatchesEmpty makes a backreference to a group that has
	// not participated succeed with an empty match, as ECMAScript does.
	// By default such a backreference fails.
	UnsetBackrefMatchesEmpty bool
}

// cont is a match continuation: it receives the position after the node
// just matched and reports whether the rest of the pattern matched.
type cont func(pos int) bool

// Matcher runs a resolved syntax tree against input strings.
// A Matcher is safe for concurrent use; per-attempt state lives in State.
type Matcher struct {
	root    *syntax.Node
	ncap    int
	unicode bool
	cfg     Config

	pool sync.Pool
}

// New creates a matcher for tree. The tree must have been resolved with
// syntax.Resolve and must not be modified afterwards.
func New(tree *syntax.Tree, cfg Config) *Matcher {
	m := &Matcher{
		root:    tree.Root,
		ncap:    tree.NumCap,
		unicode: tree.Flags&syntax.FlagUnicode != 0,
		cfg:     cfg,
	}
	m.pool.New = func() any {
		return &State{m: m, caps: make([]int, 2*(m.ncap+1))}
	}
	return m
}

// NumCaptures returns the number of groups, including group 0.
func (m *Matcher) NumCaptures() int {
	return m.ncap + 1
}

// Acquire returns a State for matching against input. The step budget
// covers every Try made with the returned State.
func (m *Matcher) Acquire(input string) *State {
	st := m.pool.Get().(*State)
	st.input = input
	st.steps = 0
	st.depth = 0
	st.err = nil
	st.backward = false
	return st
}

// Release returns st to the pool. st must not be used afterwards.
func (m *Matcher) Release(st *State) {
	st.input = ""
	m.pool.Put(st)
}

// Try attempts a match starting exactly at start. On success the capture
// slots of st hold the match. A budget error is sticky for st.
func (m *Matcher) Try(st *State, start int) (bool, error) {
	if st.err != nil {
		return false, st.err
	}
	for i := range st.caps {
		st.caps[i] = -1
	}
	ok := st.match(m.root, start, func(end int) bool {
		st.caps[0], st.caps[1] = start, end
		return true
	})
	if st.err != nil {
		return false, st.err
	}
	return ok, nil
}

// MatchAt attempts a single match anchored at start and returns a copy of
// the capture slots, or nil when there is no match.
func (m *Matcher) MatchAt(input string, start int) ([]int, error) {
	st := m.Acquire(input)
	defer m.Release(st)
	ok, err := m.Try(st, start)
	if !ok || err != nil {
		return nil, err
	}
	return st.Captures(), nil
}
