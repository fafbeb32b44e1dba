package prefilter

// Tracker wraps a Prefilter and counts how many candidates it reports and
// how many of those the matcher confirms.
//
// A Tracker belongs to one search at a time; it is not safe for concurrent
// use. The engine keeps one per pooled search state and folds the counts
// into its statistics when the search ends.
//
// Example usage:
//
//	tracker := prefilter.NewTracker(pf)
//	for start := 0; ; {
//	    pos := tracker.Find(haystack, start)
//	    if pos == -1 {
//	        break
//	    }
//	    if fullRegexMatches(haystack, pos) {
//	        tracker.ConfirmMatch()
//	        return pos
//	    }
//	    start = pos + 1
//	}
type Tracker struct {
	inner Prefilter

	candidates uint64
	confirms   uint64
}

// NewTracker creates a tracker for the given prefilter.
//
// Returns nil if the inner prefilter is nil.
func NewTracker(inner Prefilter) *Tracker {
	if inner == nil {
		return nil
	}
	return &Tracker{inner: inner}
}

// Find returns the next candidate position, or -1 if none is found.
func (t *Tracker) Find(haystack []byte, start int) int {
	pos := t.inner.Find(haystack, start)
	if pos >= 0 {
		t.candidates++
	}
	return pos
}

// ConfirmMatch records that the last candidate was a real match.
func (t *Tracker) ConfirmMatch() {
	t.confirms++
}

// IsComplete delegates to the inner prefilter.
func (t *Tracker) IsComplete() bool {
	return t.inner.IsComplete()
}

// LiteralLen delegates to the inner prefilter.
func (t *Tracker) LiteralLen() int {
	return t.inner.LiteralLen()
}

// HeapBytes returns the memory used by the inner prefilter.
func (t *Tracker) HeapBytes() int {
	return t.inner.HeapBytes()
}

// Stats returns (candidates, confirms, efficiency). Efficiency is the
// ratio of confirms to candidates, or 0 before any candidate.
func (t *Tracker) Stats() (candidates, confirms uint64, efficiency float64) {
	candidates = t.candidates
	confirms = t.confirms
	if candidates > 0 {
		efficiency = float64(confirms) / float64(candidates)
	}
	return
}

// Reset clears the counters so the tracker can serve another search.
func (t *Tracker) Reset() {
	t.candidates = 0
	t.confirms = 0
}

// Inner returns the underlying prefilter.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}
