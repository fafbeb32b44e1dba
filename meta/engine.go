package meta

import (
	"sync/atomic"

	"github.com/coregx/modregex/backtrack"
	"github.com/coregx/modregex/prefilter"
	"github.com/coregx/modregex/syntax"
)

// Engine is a compiled pattern: the resolved tree, its matcher and the
// prefilter chosen for it.
//
// Thread safety: an Engine is immutable after compilation apart from its
// atomic statistics, and may be used from many goroutines at once.
//
// Example:
//
//	engine, err := meta.Compile(`(?i:hello) world`, 0)
//	if err != nil {
//	    return err
//	}
//	m, err := engine.Find("say HeLLo world", 0)
//	// m.String() == "HeLLo world"
type Engine struct {
	pattern   string
	tree      *syntax.Tree
	matcher   *backtrack.Matcher
	prefilter prefilter.Prefilter
	strategy  Strategy
	config    Config

	// statePool provides per-search state (prefilter tracking).
	statePool *searchStatePool

	stats engineStats
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts top-level searches (Find, FindAnchored, IsMatch).
	Searches uint64

	// Attempts counts start positions handed to the matcher.
	Attempts uint64

	// Steps counts matcher node visits.
	Steps uint64

	// PrefilterHits counts prefilter candidates that matched.
	PrefilterHits uint64

	// PrefilterMisses counts prefilter candidates that did not match.
	PrefilterMisses uint64

	// BudgetExceeded counts searches stopped by the step or depth budget.
	BudgetExceeded uint64
}

type engineStats struct {
	searches        atomic.Uint64
	attempts        atomic.Uint64
	steps           atomic.Uint64
	prefilterHits   atomic.Uint64
	prefilterMisses atomic.Uint64
	budgetExceeded  atomic.Uint64
}

// Pattern returns the source text the engine was compiled from.
func (e *Engine) Pattern() string {
	return e.pattern
}

// Flags returns the flags the engine was compiled with.
func (e *Engine) Flags() syntax.Flags {
	return e.tree.Flags
}

// Tree returns the resolved syntax tree. It must not be modified.
func (e *Engine) Tree() *syntax.Tree {
	return e.tree
}

// Strategy returns the execution strategy selected for this engine.
//
// Example:
//
//	strategy := engine.Strategy()
//	println(strategy.String()) // "UseMemmem"
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Prefilter returns the prefilter, or nil if none is used.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// IsStartAnchored returns true if the pattern can only match at the start
// of input.
func (e *Engine) IsStartAnchored() bool {
	return e.strategy == UseAnchoredStart
}

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config {
	return e.config
}

// NumCaptures returns the number of groups including group 0.
func (e *Engine) NumCaptures() int {
	return e.matcher.NumCaptures()
}

// SubexpNames returns the names of the groups. Index 0 is always ""
// (entire match); unnamed groups are "".
func (e *Engine) SubexpNames() []string {
	names := make([]string, len(e.tree.Names))
	copy(names, e.tree.Names)
	return names
}

// SubexpIndex returns the index of the group called name, or -1.
func (e *Engine) SubexpIndex(name string) int {
	return e.tree.GroupIndex(name)
}

// Stats returns a snapshot of execution statistics.
//
// Example:
//
//	stats := engine.Stats()
//	println("attempts:", stats.Attempts)
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:        e.stats.searches.Load(),
		Attempts:        e.stats.attempts.Load(),
		Steps:           e.stats.steps.Load(),
		PrefilterHits:   e.stats.prefilterHits.Load(),
		PrefilterMisses: e.stats.prefilterMisses.Load(),
		BudgetExceeded:  e.stats.budgetExceeded.Load(),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	e.stats.searches.Store(0)
	e.stats.attempts.Store(0)
	e.stats.steps.Store(0)
	e.stats.prefilterHits.Store(0)
	e.stats.prefilterMisses.Store(0)
	e.stats.budgetExceeded.Store(0)
}
