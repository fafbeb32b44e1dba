package meta

import (
	"errors"
	"unicode/utf8"

	"github.com/coregx/modregex/backtrack"
	"github.com/coregx/modregex/internal/conv"
)

// Find returns the leftmost match starting at or after at, or nil if there
// is none. With the sticky flag only at itself is tried.
//
// The error is non-nil only when the search exceeded its budget
// (backtrack.ErrBudgetExceeded); the result is then nil.
//
// Example:
//
//	engine, _ := meta.Compile(`(?<y>\d{4})-(?<m>\d{2})`, 0)
//	m, _ := engine.Find("on 2024-05-01", 0)
//	println(m.String())           // "2024-05"
//	println(m.NamedGroup("m"))    // "05" true
func (e *Engine) Find(input string, at int) (*Match, error) {
	caps, err := e.search(input, at, false)
	if caps == nil {
		return nil, err
	}
	return NewMatch(caps, e.tree.Names, input), nil
}

// FindAnchored returns the match that starts exactly at at, or nil.
func (e *Engine) FindAnchored(input string, at int) (*Match, error) {
	caps, err := e.search(input, at, true)
	if caps == nil {
		return nil, err
	}
	return NewMatch(caps, e.tree.Names, input), nil
}

// IsMatch reports whether the pattern matches anywhere in input.
func (e *Engine) IsMatch(input string) (bool, error) {
	caps, err := e.search(input, 0, false)
	return caps != nil, err
}

// search runs one top-level search. All attempts share one matcher state
// and therefore one step budget.
func (e *Engine) search(input string, at int, anchored bool) ([]int, error) {
	if at < 0 || at > len(input) {
		return nil, nil
	}
	e.stats.searches.Add(1)

	ss := e.statePool.get()
	st := e.matcher.Acquire(input)

	var caps []int
	var err error
	switch {
	case anchored || e.strategy == UseSticky:
		caps, err = e.try(ss, st, at)
	case e.strategy == UseAnchoredStart:
		if at == 0 {
			caps, err = e.try(ss, st, 0)
		}
	case ss.tracker != nil:
		caps, err = e.searchPrefilter(ss, st, input, at)
	default:
		caps, err = e.searchAll(ss, st, input, at)
	}

	e.record(ss, st)
	e.matcher.Release(st)
	e.statePool.put(ss)

	if err != nil {
		if errors.Is(err, backtrack.ErrBudgetExceeded) {
			e.stats.budgetExceeded.Add(1)
		}
		return nil, err
	}
	return caps, nil
}

// try attempts a match at pos and returns a copy of the capture slots.
func (e *Engine) try(ss *SearchState, st *backtrack.State, pos int) ([]int, error) {
	ss.attempts++
	ok, err := e.matcher.Try(st, pos)
	if !ok || err != nil {
		return nil, err
	}
	return st.Captures(), nil
}

// searchAll tries every code-point boundary from at through len(input).
func (e *Engine) searchAll(ss *SearchState, st *backtrack.State, input string, at int) ([]int, error) {
	for pos := at; ; {
		caps, err := e.try(ss, st, pos)
		if caps != nil || err != nil {
			return caps, err
		}
		if pos >= len(input) {
			return nil, nil
		}
		_, w := utf8.DecodeRuneInString(input[pos:])
		pos += w
	}
}

// searchPrefilter tries only the candidates reported by the prefilter.
// Every match begins with a prefix literal, so skipped positions cannot
// match.
func (e *Engine) searchPrefilter(ss *SearchState, st *backtrack.State, input string, at int) ([]int, error) {
	haystack := conv.StringBytes(input)
	for pos := at; pos < len(haystack); {
		cand := ss.tracker.Find(haystack, pos)
		if cand < 0 {
			return nil, nil
		}
		caps, err := e.try(ss, st, cand)
		if err != nil {
			return nil, err
		}
		if caps != nil {
			ss.tracker.ConfirmMatch()
			return caps, nil
		}
		pos = cand + 1
	}
	return nil, nil
}

// record folds the per-search counters into the engine statistics.
func (e *Engine) record(ss *SearchState, st *backtrack.State) {
	e.stats.attempts.Add(ss.attempts)
	e.stats.steps.Add(conv.IntToUint64(st.Steps()))
	if ss.tracker != nil {
		candidates, confirms, _ := ss.tracker.Stats()
		e.stats.prefilterHits.Add(confirms)
		e.stats.prefilterMisses.Add(candidates - confirms)
	}
}
