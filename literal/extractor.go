package literal

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/modregex/syntax"
)

// maxExtractDepth bounds recursion over deeply nested trees.
const maxExtractDepth = 100

// ExtractorConfig configures literal extraction limits.
type ExtractorConfig struct {
	// MaxLiterals limits the size of a Seq. Alternations or classes that
	// would produce more literals yield no Seq at all. Default: 64.
	MaxLiterals int

	// MaxLiteralLen truncates literals, marking them incomplete. Default: 64.
	MaxLiteralLen int

	// MaxClassSize is the largest character class expanded into single
	// characters, e.g. [abc] becomes "a", "b", "c". Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts prefix literals from resolved syntax trees.
//
// Extraction reads each node's own resolved modifiers: a literal under
// ignoreCase contributes all of its case variants, so (?i:ab)c yields
// "abc", "aBc", "Abc" and "ABc" while ab(?i:c) yields "abc" and "abC".
//
// Example:
//
//	tree, _ := syntax.Parse("hello|world", 0)
//	syntax.Resolve(tree.Root, syntax.Modifiers{})
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(tree.Root)
//	// prefixes = ["hello", "world"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns a set of literals at least one of which starts
// every match of root, minimized for prefix search. It returns nil when no
// such set exists within the configured limits, or when the set would
// contain the empty string.
//
//	"hello"         → ["hello"]
//	"(foo|bar)"     → ["foo", "bar"]
//	"[abc]test"     → ["atest", "btest", "ctest"]
//	"^hello.*world" → ["hello"] (incomplete)
//	".*foo"         → nil
func (e *Extractor) ExtractPrefixes(root *syntax.Node) *Seq {
	seq := e.prefixes(root, 0)
	if seq.IsEmpty() {
		return nil
	}
	for _, lit := range seq.literals {
		if lit.Len() == 0 {
			return nil
		}
	}
	seq.Minimize()
	return seq
}

func (e *Extractor) prefixes(n *syntax.Node, depth int) *Seq {
	if depth > maxExtractDepth {
		return nil
	}
	if n.Op.IsAssertion() {
		// Zero-width: matches consume nothing here.
		return NewSeq(NewLiteral(nil, true))
	}

	switch n.Op {
	case syntax.OpEmpty:
		return NewSeq(NewLiteral(nil, true))

	case syntax.OpLiteral:
		variants, ok := runeVariants(n.Rune[0], n.Mods.IgnoreCase)
		if !ok {
			return nil
		}
		return e.runeSeq(variants)

	case syntax.OpCharClass:
		return e.expandCharClass(n)

	case syntax.OpGroup, syntax.OpCapture:
		return e.prefixes(n.Sub[0], depth+1)

	case syntax.OpConcat:
		return e.concat(n.Sub, depth)

	case syntax.OpAlternate:
		var all []Literal
		for _, sub := range n.Sub {
			seq := e.prefixes(sub, depth+1)
			if seq == nil {
				return nil
			}
			all = append(all, seq.literals...)
			if len(all) > e.config.MaxLiterals {
				return nil
			}
		}
		return NewSeq(all...)

	case syntax.OpRepeat:
		// x* and x? may match nothing, so nothing is known to follow.
		if n.Min == 0 {
			return nil
		}
		seq := e.prefixes(n.Sub[0], depth+1)
		if seq == nil || (n.Min == 1 && n.Max == 1) {
			return seq
		}
		seq.markIncomplete()
		return seq
	}

	// OpAnyChar, OpBackref: unbounded.
	return nil
}

// concat crosses the prefix sets of subs left to right until a member is
// unbounded, a literal is cut short, or the set grows past MaxLiterals.
func (e *Extractor) concat(subs []*syntax.Node, depth int) *Seq {
	acc := NewSeq(NewLiteral(nil, true))
	for _, sub := range subs {
		if !acc.AllComplete() {
			break
		}
		next := e.prefixes(sub, depth+1)
		if next == nil || acc.Len()*next.Len() > e.config.MaxLiterals {
			acc.markIncomplete()
			break
		}
		acc = e.cross(acc, next)
	}
	return acc
}

func (e *Extractor) cross(a, b *Seq) *Seq {
	out := make([]Literal, 0, a.Len()*b.Len())
	for _, x := range a.literals {
		for _, y := range b.literals {
			buf := make([]byte, 0, len(x.Bytes)+len(y.Bytes))
			buf = append(buf, x.Bytes...)
			buf = append(buf, y.Bytes...)
			complete := y.Complete
			if len(buf) > e.config.MaxLiteralLen {
				buf = buf[:e.config.MaxLiteralLen]
				complete = false
			}
			out = append(out, NewLiteral(buf, complete))
		}
	}
	return NewSeq(out...)
}

// expandCharClass turns a small positive class into one literal per member.
func (e *Extractor) expandCharClass(n *syntax.Node) *Seq {
	if n.Negate || syntax.ClassSize(n.Rune) > e.config.MaxClassSize {
		return nil
	}
	var runes []rune
	seen := map[rune]bool{}
	for i := 0; i+1 < len(n.Rune); i += 2 {
		for r := n.Rune[i]; r <= n.Rune[i+1]; r++ {
			variants, ok := runeVariants(r, n.Mods.IgnoreCase)
			if !ok {
				return nil
			}
			for _, v := range variants {
				if !seen[v] {
					seen[v] = true
					runes = append(runes, v)
				}
			}
		}
	}
	return e.runeSeq(runes)
}

func (e *Extractor) runeSeq(runes []rune) *Seq {
	if len(runes) > e.config.MaxLiterals {
		return nil
	}
	lits := make([]Literal, len(runes))
	for i, r := range runes {
		lits[i] = NewLiteral(utf8.AppendRune(nil, r), true)
	}
	return NewSeq(lits...)
}

func (s *Seq) markIncomplete() {
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}

// runeVariants returns the runes r may match. Under ignoreCase an ASCII
// rune expands to its whole simple folding orbit, which covers both the
// Unicode and the legacy case mapping; non-ASCII runes are not expanded
// and report false.
func runeVariants(r rune, ignoreCase bool) ([]rune, bool) {
	if !ignoreCase {
		return []rune{r}, true
	}
	if r >= utf8.RuneSelf {
		return nil, false
	}
	out := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		out = append(out, f)
	}
	return out, true
}
