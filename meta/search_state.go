package meta

import (
	"sync"

	"github.com/coregx/modregex/prefilter"
)

// SearchState holds per-search mutable state for concurrent searches on
// one Engine. It is obtained from a sync.Pool and never shared between
// goroutines.
type SearchState struct {
	// tracker counts prefilter candidates and confirmations for this
	// search. Nil when the engine has no prefilter.
	tracker *prefilter.Tracker

	// attempts counts start positions tried during this search.
	attempts uint64
}

func newSearchState(pf prefilter.Prefilter) *SearchState {
	return &SearchState{tracker: prefilter.NewTracker(pf)}
}

// reset prepares the SearchState for reuse.
func (s *SearchState) reset() {
	s.attempts = 0
	if s.tracker != nil {
		s.tracker.Reset()
	}
}

// searchStatePool manages a pool of SearchState instances.
type searchStatePool struct {
	pool sync.Pool
	pf   prefilter.Prefilter
}

func newSearchStatePool(pf prefilter.Prefilter) *searchStatePool {
	p := &searchStatePool{pf: pf}
	p.pool = sync.Pool{
		New: func() any {
			return newSearchState(p.pf)
		},
	}
	return p
}

// get retrieves a SearchState from the pool, creating one if necessary.
func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

// put returns a SearchState to the pool for reuse.
func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	state.reset()
	p.pool.Put(state)
}
