package meta

import (
	"github.com/coregx/modregex/prefilter"
	"github.com/coregx/modregex/syntax"
)

// Strategy represents how the engine chooses start positions for the
// backtracking matcher.
//
// Strategy selection is automatic based on pattern analysis.
type Strategy int

const (
	// UseBacktrack tries every code-point boundary in turn.
	// Selected when no prefix literals can be extracted.
	UseBacktrack Strategy = iota

	// UseAnchoredStart tries only the start of input.
	// Selected when every alternative begins with a non-multiline "^".
	UseAnchoredStart

	// UseSticky tries only the requested position ("y" flag).
	UseSticky

	// UseMemchr jumps between occurrences of a single lead byte.
	UseMemchr

	// UseMemmem jumps between occurrences of a single prefix literal.
	UseMemmem

	// UseByteSet jumps between occurrences of a few lead bytes.
	UseByteSet

	// UseByteTable jumps between bytes of a lead byte table.
	UseByteTable

	// UseAhoCorasick jumps between occurrences of any prefix literal.
	// Selected for alternations with many distinct literal prefixes.
	UseAhoCorasick
)

// String returns a human-readable representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case UseBacktrack:
		return "UseBacktrack"
	case UseAnchoredStart:
		return "UseAnchoredStart"
	case UseSticky:
		return "UseSticky"
	case UseMemchr:
		return "UseMemchr"
	case UseMemmem:
		return "UseMemmem"
	case UseByteSet:
		return "UseByteSet"
	case UseByteTable:
		return "UseByteTable"
	case UseAhoCorasick:
		return "UseAhoCorasick"
	default:
		return "Unknown"
	}
}

// SelectStrategy picks the strategy for a resolved tree and its prefilter
// (which may be nil).
func SelectStrategy(tree *syntax.Tree, pf prefilter.Prefilter) Strategy {
	switch {
	case tree.Flags&syntax.FlagSticky != 0:
		return UseSticky
	case isStartAnchored(tree.Root):
		return UseAnchoredStart
	case pf == nil:
		return UseBacktrack
	}

	switch pf.Kind() {
	case prefilter.KindMemchr:
		return UseMemchr
	case prefilter.KindMemmem:
		return UseMemmem
	case prefilter.KindByteSet:
		return UseByteSet
	case prefilter.KindByteTable:
		return UseByteTable
	case prefilter.KindAhoCorasick:
		return UseAhoCorasick
	default:
		return UseBacktrack
	}
}

// isStartAnchored reports whether every match of n must begin at input
// start. Only a "^" whose own modifiers leave multiline off counts; a
// (?m:^) inside the pattern can match after any line terminator.
func isStartAnchored(n *syntax.Node) bool {
	switch n.Op {
	case syntax.OpBeginLine:
		return !n.Mods.Multiline
	case syntax.OpConcat:
		return len(n.Sub) > 0 && isStartAnchored(n.Sub[0])
	case syntax.OpAlternate:
		for _, sub := range n.Sub {
			if !isStartAnchored(sub) {
				return false
			}
		}
		return len(n.Sub) > 0
	case syntax.OpCapture, syntax.OpGroup:
		return isStartAnchored(n.Sub[0])
	case syntax.OpRepeat:
		return n.Min > 0 && isStartAnchored(n.Sub[0])
	default:
		return false
	}
}
