package backtrack

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/modregex/syntax"
)

// State is the mutable state of one top-level match call: capture slots
// and budget counters. It is never shared between goroutines.
type State struct {
	m     *Matcher
	input string

	// caps holds start/end byte offsets per group; -1 means unset.
	caps []int

	steps int
	depth int
	err   error

	// backward is set while a lookbehind body runs: nodes consume the
	// input right to left, ending at the current position.
	backward bool
}

// Captures returns a copy of the capture slots.
func (st *State) Captures() []int {
	out := make([]int, len(st.caps))
	copy(out, st.caps)
	return out
}

// Steps returns the number of node visits made so far.
func (st *State) Steps() int {
	return st.steps
}

func accept(int) bool { return true }

// match matches n at pos and calls k with the end position of every way n
// can match, in priority order, until k succeeds.
func (st *State) match(n *syntax.Node, pos int, k cont) bool {
	if !st.tick() {
		return false
	}
	st.depth++
	if limit := st.m.cfg.MaxDepth; limit > 0 && st.depth > limit {
		st.err = ErrBudgetExceeded
		st.depth--
		return false
	}
	ok := st.matchNode(n, pos, k)
	st.depth--
	return ok
}

// tick counts one step against the budget.
func (st *State) tick() bool {
	if st.err != nil {
		return false
	}
	st.steps++
	if limit := st.m.cfg.MaxSteps; limit > 0 && st.steps > limit {
		st.err = ErrBudgetExceeded
		return false
	}
	return true
}

func (st *State) matchNode(n *syntax.Node, pos int, k cont) bool {
	switch n.Op {
	case syntax.OpEmpty:
		return k(pos)

	case syntax.OpLiteral, syntax.OpCharClass, syntax.OpAnyChar:
		next, ok := st.single(n, pos)
		if !ok {
			return false
		}
		return k(next)

	case syntax.OpBeginLine:
		if pos == 0 {
			return k(pos)
		}
		if n.Mods.Multiline {
			if r, _ := st.runeBefore(pos); isLineTerminator(r) {
				return k(pos)
			}
		}
		return false

	case syntax.OpEndLine:
		if pos == len(st.input) {
			return k(pos)
		}
		if n.Mods.Multiline {
			if r, _ := st.runeAt(pos); isLineTerminator(r) {
				return k(pos)
			}
		}
		return false

	case syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		extended := n.Mods.IgnoreCase && st.m.unicode
		before, _ := st.runeBefore(pos)
		after, w := st.runeAt(pos)
		a := pos > 0 && isWordChar(before, extended)
		b := w > 0 && isWordChar(after, extended)
		if (a != b) != (n.Op == syntax.OpWordBoundary) {
			return false
		}
		return k(pos)

	case syntax.OpConcat:
		if st.backward {
			return st.matchSeqBackward(n.Sub, pos, k)
		}
		return st.matchSeq(n.Sub, pos, k)

	case syntax.OpAlternate:
		for _, sub := range n.Sub {
			if st.match(sub, pos, k) {
				return true
			}
			if st.err != nil {
				return false
			}
		}
		return false

	case syntax.OpGroup:
		return st.match(n.Sub[0], pos, k)

	case syntax.OpCapture:
		i := 2 * n.Cap
		backward := st.backward
		return st.match(n.Sub[0], pos, func(end int) bool {
			oldStart, oldEnd := st.caps[i], st.caps[i+1]
			if backward {
				st.caps[i], st.caps[i+1] = end, pos
			} else {
				st.caps[i], st.caps[i+1] = pos, end
			}
			if k(end) {
				return true
			}
			st.caps[i], st.caps[i+1] = oldStart, oldEnd
			return false
		})

	case syntax.OpBackref:
		return st.matchBackref(n, pos, k)

	case syntax.OpRepeat:
		if isSingle(n.Sub[0]) {
			return st.repeatSingle(n, pos, k)
		}
		return st.repeat(n, pos, 0, k)

	case syntax.OpLookahead, syntax.OpNegLookahead:
		saved := st.Captures()
		backward := st.backward
		st.backward = false
		found := st.match(n.Sub[0], pos, accept)
		st.backward = backward
		if st.err != nil {
			return false
		}
		if found == (n.Op == syntax.OpLookahead) {
			if k(pos) {
				return true
			}
		}
		copy(st.caps, saved)
		return false

	case syntax.OpLookbehind, syntax.OpNegLookbehind:
		saved := st.Captures()
		backward := st.backward
		st.backward = true
		found := st.match(n.Sub[0], pos, accept)
		st.backward = backward
		if st.err != nil {
			return false
		}
		if found == (n.Op == syntax.OpLookbehind) {
			if k(pos) {
				return true
			}
		}
		copy(st.caps, saved)
		return false
	}
	return false
}

// single matches a one-rune node (literal, class or dot) at pos in the
// current direction and returns the position after it.
func (st *State) single(n *syntax.Node, pos int) (int, bool) {
	r, next, ok := st.next(pos)
	if !ok {
		return pos, false
	}
	switch n.Op {
	case syntax.OpLiteral:
		if r != n.Rune[0] && !(n.Mods.IgnoreCase && foldEqual(r, n.Rune[0], st.m.unicode)) {
			return pos, false
		}
	case syntax.OpCharClass:
		var in bool
		if n.Mods.IgnoreCase {
			in = classContainsFold(n.Rune, r, st.m.unicode)
		} else {
			in = syntax.ClassContains(n.Rune, r)
		}
		if in == n.Negate {
			return pos, false
		}
	case syntax.OpAnyChar:
		if !n.Mods.DotAll && isLineTerminator(r) {
			return pos, false
		}
	default:
		return pos, false
	}
	return next, true
}

func isSingle(n *syntax.Node) bool {
	switch n.Op {
	case syntax.OpLiteral, syntax.OpCharClass, syntax.OpAnyChar:
		return true
	}
	return false
}

// matchSeq matches subs in order, threading the position through.
func (st *State) matchSeq(subs []*syntax.Node, pos int, k cont) bool {
	if len(subs) == 0 {
		return k(pos)
	}
	return st.match(subs[0], pos, func(next int) bool {
		return st.matchSeq(subs[1:], next, k)
	})
}

// matchSeqBackward matches subs from last to first, ending at pos.
func (st *State) matchSeqBackward(subs []*syntax.Node, pos int, k cont) bool {
	if len(subs) == 0 {
		return k(pos)
	}
	last := len(subs) - 1
	return st.match(subs[last], pos, func(next int) bool {
		return st.matchSeqBackward(subs[:last], next, k)
	})
}

// repeatSingle matches a repeat of a one-rune node with a loop, so the
// depth stays flat however many runes it consumes.
func (st *State) repeatSingle(n *syntax.Node, pos int, k cont) bool {
	sub := n.Sub[0]
	if !n.Greedy {
		for count := 0; ; count++ {
			if count >= n.Min {
				if k(pos) {
					return true
				}
				if st.err != nil {
					return false
				}
			}
			if n.Max >= 0 && count >= n.Max {
				return false
			}
			if !st.tick() {
				return false
			}
			next, ok := st.single(sub, pos)
			if !ok {
				return false
			}
			pos = next
		}
	}

	ends := []int{pos}
	for n.Max < 0 || len(ends)-1 < n.Max {
		if !st.tick() {
			return false
		}
		next, ok := st.single(sub, ends[len(ends)-1])
		if !ok {
			break
		}
		ends = append(ends, next)
	}
	for i := len(ends) - 1; i >= n.Min; i-- {
		if k(ends[i]) {
			return true
		}
		if st.err != nil {
			return false
		}
	}
	return false
}

// repeat matches further iterations of n after count have matched.
func (st *State) repeat(n *syntax.Node, pos, count int, k cont) bool {
	if n.Max >= 0 && count >= n.Max {
		return k(pos)
	}
	iterate := func() bool {
		saved := st.clearCaps(n.CapLo, n.CapHi)
		ok := st.match(n.Sub[0], pos, func(end int) bool {
			// Once the minimum is met an iteration must consume input.
			if end == pos && count >= n.Min {
				return false
			}
			return st.repeat(n, end, count+1, k)
		})
		if !ok {
			copy(st.caps[2*n.CapLo:2*n.CapHi], saved)
		}
		return ok
	}
	if count < n.Min {
		return iterate()
	}
	if n.Greedy {
		if iterate() {
			return true
		}
		if st.err != nil {
			return false
		}
		return k(pos)
	}
	if k(pos) {
		return true
	}
	if st.err != nil {
		return false
	}
	return iterate()
}

// clearCaps unsets groups [lo, hi) and returns their previous slots.
func (st *State) clearCaps(lo, hi int) []int {
	if lo >= hi {
		return nil
	}
	slots := st.caps[2*lo : 2*hi]
	saved := make([]int, len(slots))
	copy(saved, slots)
	for i := range slots {
		slots[i] = -1
	}
	return saved
}

func (st *State) matchBackref(n *syntax.Node, pos int, k cont) bool {
	i := 2 * n.Cap
	start, end := st.caps[i], st.caps[i+1]
	if start < 0 || end < 0 {
		if st.m.cfg.UnsetBackrefMatchesEmpty {
			return k(pos)
		}
		return false
	}
	want := st.input[start:end]
	if st.backward {
		return st.matchBackrefBackward(n, want, pos, k)
	}
	rest := st.input[pos:]
	if !n.Mods.IgnoreCase {
		if !strings.HasPrefix(rest, want) {
			return false
		}
		return k(pos + len(want))
	}
	consumed := 0
	for _, wr := range want {
		if consumed >= len(rest) {
			return false
		}
		r, w := utf8.DecodeRuneInString(rest[consumed:])
		if !foldEqual(r, wr, st.m.unicode) {
			return false
		}
		consumed += w
	}
	return k(pos + consumed)
}

// matchBackrefBackward matches want so that it ends at pos.
func (st *State) matchBackrefBackward(n *syntax.Node, want string, pos int, k cont) bool {
	head := st.input[:pos]
	if !n.Mods.IgnoreCase {
		if !strings.HasSuffix(head, want) {
			return false
		}
		return k(pos - len(want))
	}
	end := len(head)
	for rest := want; rest != ""; {
		wr, ww := utf8.DecodeLastRuneInString(rest)
		if end == 0 {
			return false
		}
		r, w := utf8.DecodeLastRuneInString(head[:end])
		if !foldEqual(r, wr, st.m.unicode) {
			return false
		}
		rest = rest[:len(rest)-ww]
		end -= w
	}
	return k(end)
}

// next decodes the rune consumed from pos in the current direction and
// returns it with the position on its far side.
func (st *State) next(pos int) (rune, int, bool) {
	if st.backward {
		r, w := st.runeBefore(pos)
		return r, pos - w, w > 0
	}
	r, w := st.runeAt(pos)
	return r, pos + w, w > 0
}

// runeAt decodes the rune at pos; the width is 0 at the end of input.
func (st *State) runeAt(pos int) (rune, int) {
	if pos >= len(st.input) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(st.input[pos:])
}

// runeBefore decodes the rune ending at pos; the width is 0 at the start.
func (st *State) runeBefore(pos int) (rune, int) {
	if pos <= 0 {
		return utf8.RuneError, 0
	}
	return utf8.DecodeLastRuneInString(st.input[:pos])
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}

// isWordChar reports whether r is in [0-9A-Za-z_]. extended adds the two
// non-ASCII runes that fold into that set under Unicode ignoreCase.
func isWordChar(r rune, extended bool) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9', r == '_':
		return true
	case extended:
		return r == 0x017f || r == 0x212a
	}
	return false
}
