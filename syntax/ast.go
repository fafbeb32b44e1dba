package syntax

import (
	"strconv"
	"strings"
)

// Op is a single regular expression operator.
type Op uint8

const (
	OpEmpty          Op = iota + 1 // matches empty string
	OpLiteral                      // matches Rune[0]
	OpCharClass                    // matches a rune in the Rune ranges (lo, hi pairs)
	OpAnyChar                      // "."; line terminators only with dotAll
	OpBeginLine                    // "^"
	OpEndLine                      // "$"
	OpWordBoundary                 // \b
	OpNoWordBoundary               // \B
	OpConcat                       // Sub[0] Sub[1] ...
	OpAlternate                    // Sub[0]|Sub[1]|..., first match wins
	OpRepeat                       // Sub[0]{Min,Max}; Max == -1 is unbounded
	OpCapture                      // capturing group Cap
	OpGroup                        // non-capturing group, optionally with Add/Remove modifiers
	OpBackref                      // \Cap or \k<Name>
	OpLookahead                    // (?=Sub[0])
	OpNegLookahead                 // (?!Sub[0])
	OpLookbehind                   // (?<=Sub[0])
	OpNegLookbehind                // (?<!Sub[0])
)

var opNames = [...]string{
	OpEmpty:          "empty",
	OpLiteral:        "lit",
	OpCharClass:      "class",
	OpAnyChar:        "dot",
	OpBeginLine:      "bol",
	OpEndLine:        "eol",
	OpWordBoundary:   "wb",
	OpNoWordBoundary: "nwb",
	OpConcat:         "cat",
	OpAlternate:      "alt",
	OpRepeat:         "rep",
	OpCapture:        "cap",
	OpGroup:          "grp",
	OpBackref:        "ref",
	OpLookahead:      "la",
	OpNegLookahead:   "nla",
	OpLookbehind:     "lb",
	OpNegLookbehind:  "nlb",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "op" + strconv.Itoa(int(op))
}

// IsAssertion reports whether op matches without consuming input.
func (op Op) IsAssertion() bool {
	switch op {
	case OpBeginLine, OpEndLine, OpWordBoundary, OpNoWordBoundary,
		OpLookahead, OpNegLookahead, OpLookbehind, OpNegLookbehind:
		return true
	}
	return false
}

// Node is a node in the regular expression syntax tree.
//
// A tree is owned by the pattern it was parsed from. Resolve fills in Mods;
// after that the tree is never mutated.
type Node struct {
	Op     Op
	Sub    []*Node
	Rune   []rune // OpLiteral: one rune; OpCharClass: sorted, merged lo-hi pairs
	Negate bool   // OpCharClass: [^...]
	Min    int    // OpRepeat
	Max    int    // OpRepeat; -1 means unbounded
	Greedy bool   // OpRepeat
	Cap    int    // OpCapture: group index; OpBackref: referenced group
	Name   string // OpCapture: group name; OpBackref: name for \k<...>

	// Add and Remove are the inline modifier deltas of an OpGroup.
	Add    Flags
	Remove Flags

	// CapLo and CapHi bound the capture groups inside an OpRepeat body,
	// [CapLo, CapHi). They are reset at the start of every iteration.
	CapLo int
	CapHi int

	// Pos is the byte offset of the node in the source.
	Pos int

	// Mods is the effective modifier triple, set by Resolve.
	Mods Modifiers
}

// Tree is the result of parsing a pattern.
type Tree struct {
	Root   *Node
	Source string
	Flags  Flags

	// NumCap is the number of capturing groups, not counting group 0.
	NumCap int

	// Names holds the group names indexed by group number; Names[0] is "".
	Names []string
}

// Walk calls fn for n and its descendants in pre-order. When fn returns
// false the children of that node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, sub := range n.Sub {
		sub.Walk(fn)
	}
}

// String returns a compact debugging form of the tree that includes the
// resolved modifiers of the nodes whose behaviour depends on them.
func (n *Node) String() string {
	var b strings.Builder
	n.writeTo(&b)
	return b.String()
}

func (n *Node) writeTo(b *strings.Builder) {
	b.WriteString(n.Op.String())
	switch n.Op {
	case OpLiteral:
		b.WriteByte('{')
		b.WriteString(strconv.QuoteRuneToGraphic(n.Rune[0]))
		b.WriteByte('}')
		writeMods(b, n.Mods.IgnoreCase, "i")
	case OpCharClass:
		b.WriteByte('{')
		if n.Negate {
			b.WriteByte('^')
		}
		for i := 0; i+1 < len(n.Rune); i += 2 {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.QuoteRuneToGraphic(n.Rune[i]))
			if n.Rune[i+1] != n.Rune[i] {
				b.WriteByte('-')
				b.WriteString(strconv.QuoteRuneToGraphic(n.Rune[i+1]))
			}
		}
		b.WriteByte('}')
		writeMods(b, n.Mods.IgnoreCase, "i")
	case OpAnyChar:
		writeMods(b, n.Mods.DotAll, "s")
	case OpBeginLine, OpEndLine:
		writeMods(b, n.Mods.Multiline, "m")
	case OpRepeat:
		b.WriteByte('{')
		b.WriteString(strconv.Itoa(n.Min))
		b.WriteByte(',')
		if n.Max >= 0 {
			b.WriteString(strconv.Itoa(n.Max))
		}
		b.WriteByte('}')
		if !n.Greedy {
			b.WriteByte('?')
		}
	case OpCapture:
		b.WriteString(strconv.Itoa(n.Cap))
	case OpBackref:
		b.WriteString(strconv.Itoa(n.Cap))
		return
	case OpGroup:
		if n.Add|n.Remove != 0 {
			b.WriteByte('(')
			b.WriteString(n.Add.String())
			if n.Remove != 0 {
				b.WriteByte('-')
				b.WriteString(n.Remove.String())
			}
			b.WriteByte(')')
		}
	}
	if len(n.Sub) == 0 {
		return
	}
	b.WriteByte('{')
	for i, sub := range n.Sub {
		if i > 0 {
			b.WriteByte(' ')
		}
		sub.writeTo(b)
	}
	b.WriteByte('}')
}

func writeMods(b *strings.Builder, on bool, letter string) {
	b.WriteByte('[')
	if on {
		b.WriteString(letter)
	} else {
		b.WriteByte('-')
	}
	b.WriteByte(']')
}
