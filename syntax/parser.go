package syntax

import (
	"strconv"
	"unicode/utf8"
)

// DefaultMaxDepth is the group nesting limit used by Parse.
const DefaultMaxDepth = 1000

// maxRepeat caps explicit {n,m} counts.
const maxRepeat = 100_000

// Parse parses source under the given top-level flags and returns the
// unresolved syntax tree. Call Resolve on the root before matching.
func Parse(source string, flags Flags) (*Tree, error) {
	return ParseDepth(source, flags, DefaultMaxDepth)
}

// ParseDepth is like Parse but with an explicit group nesting limit.
func ParseDepth(source string, flags Flags, maxDepth int) (*Tree, error) {
	p := &parser{
		src:      source,
		flags:    flags,
		maxDepth: maxDepth,
		names:    map[string]int{},
	}
	p.totalCap, p.declared = scanGroups(source)

	root, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		// Only an unmatched ')' stops the top-level disjunction early.
		return nil, p.errorAt(ErrUnexpectedParen, p.pos)
	}

	names := make([]string, p.ncap+1)
	for name, idx := range p.names {
		names[idx] = name
	}
	// Named backreferences may point forward, so bind them last.
	root.Walk(func(n *Node) bool {
		if n.Op == OpBackref && n.Name != "" {
			n.Cap = p.names[n.Name]
		}
		return true
	})
	return &Tree{
		Root:   root,
		Source: source,
		Flags:  flags,
		NumCap: p.ncap,
		Names:  names,
	}, nil
}

type parser struct {
	src      string
	pos      int
	flags    Flags
	depth    int
	maxDepth int

	ncap     int            // capture groups opened so far
	totalCap int            // capture groups in the whole pattern
	names    map[string]int // group name -> index, filled while parsing
	declared map[string]bool
}

func (p *parser) unicode() bool {
	return p.flags&FlagUnicode != 0
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) errorAt(code ErrorCode, offset int) *Error {
	return &Error{Code: code, Expr: p.src, Offset: offset}
}

// errorSpan reports an error whose expression is src[start:end].
func (p *parser) errorSpan(code ErrorCode, start, end, offset int) *Error {
	if end > len(p.src) {
		end = len(p.src)
	}
	return &Error{Code: code, Expr: p.src[start:end], Offset: offset}
}

// Disjunction :: Alternative ( '|' Alternative )*
func (p *parser) parseDisjunction() (*Node, error) {
	start := p.pos
	first, err := p.parseAlternative()
	if err != nil {
		return nil, err
	}
	if p.peek() != '|' {
		return first, nil
	}
	alt := &Node{Op: OpAlternate, Pos: start, Sub: []*Node{first}}
	for p.peek() == '|' {
		p.pos++
		next, err := p.parseAlternative()
		if err != nil {
			return nil, err
		}
		alt.Sub = append(alt.Sub, next)
	}
	return alt, nil
}

// Alternative :: Term*
func (p *parser) parseAlternative() (*Node, error) {
	start := p.pos
	var terms []*Node
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	switch len(terms) {
	case 0:
		return &Node{Op: OpEmpty, Pos: start}, nil
	case 1:
		return terms[0], nil
	}
	return &Node{Op: OpConcat, Pos: start, Sub: terms}, nil
}

// Term :: Assertion | Atom Quantifier?
func (p *parser) parseTerm() (*Node, error) {
	start := p.pos
	capBefore := p.ncap

	atom, quantifiable, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	min, max, greedy, ok, err := p.parseQuantifier()
	if err != nil {
		return nil, err
	}
	if !ok {
		return atom, nil
	}
	if !quantifiable {
		return nil, p.errorSpan(ErrMissingRepeatArgument, start, p.pos, start)
	}
	return &Node{
		Op:     OpRepeat,
		Pos:    start,
		Sub:    []*Node{atom},
		Min:    min,
		Max:    max,
		Greedy: greedy,
		CapLo:  capBefore + 1,
		CapHi:  p.ncap + 1,
	}, nil
}

// parseQuantifier consumes a quantifier if one follows.
func (p *parser) parseQuantifier() (min, max int, greedy, ok bool, err error) {
	start := p.pos
	switch p.peek() {
	case '*':
		min, max = 0, -1
		p.pos++
	case '+':
		min, max = 1, -1
		p.pos++
	case '?':
		min, max = 0, 1
		p.pos++
	case '{':
		var valid bool
		min, max, valid = p.scanBraces()
		if !valid {
			if p.unicode() {
				return 0, 0, false, false, p.errorAt(ErrInvalidRepeatSize, start)
			}
			// Annex B: a brace that does not form a quantifier is a literal.
			return 0, 0, false, false, nil
		}
		if min > maxRepeat || max > maxRepeat || (max >= 0 && min > max) {
			return 0, 0, false, false, p.errorSpan(ErrInvalidRepeatSize, start, p.pos, start)
		}
	default:
		return 0, 0, false, false, nil
	}
	greedy = true
	if p.peek() == '?' {
		greedy = false
		p.pos++
	}
	return min, max, greedy, true, nil
}

// scanBraces parses {n}, {n,} or {n,m} at the current position. On success
// the position is advanced past the closing brace.
func (p *parser) scanBraces() (min, max int, ok bool) {
	i := p.pos + 1
	min, i, ok = scanInt(p.src, i)
	if !ok {
		return 0, 0, false
	}
	max = min
	if i < len(p.src) && p.src[i] == ',' {
		i++
		if i < len(p.src) && p.src[i] == '}' {
			max = -1
		} else {
			max, i, ok = scanInt(p.src, i)
			if !ok {
				return 0, 0, false
			}
		}
	}
	if i >= len(p.src) || p.src[i] != '}' {
		return 0, 0, false
	}
	p.pos = i + 1
	return min, max, true
}

// scanInt reads decimal digits at s[i:], saturating above maxRepeat.
func scanInt(s string, i int) (int, int, bool) {
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if n <= maxRepeat {
			n = n*10 + int(s[i]-'0')
		}
		i++
	}
	return n, i, i > start
}

// parseAtom parses a single atom or assertion. quantifiable is false for
// assertions that may not carry a quantifier.
func (p *parser) parseAtom() (node *Node, quantifiable bool, err error) {
	start := p.pos
	c := p.peek()
	switch c {
	case '^':
		p.pos++
		return &Node{Op: OpBeginLine, Pos: start}, false, nil
	case '$':
		p.pos++
		return &Node{Op: OpEndLine, Pos: start}, false, nil
	case '.':
		p.pos++
		return &Node{Op: OpAnyChar, Pos: start}, true, nil
	case '(':
		return p.parseGroup()
	case '[':
		n, err := p.parseClass()
		return n, true, err
	case '\\':
		return p.parseAtomEscape()
	case '*', '+', '?':
		return nil, false, p.errorSpan(ErrMissingRepeatArgument, start, start+1, start)
	case '{':
		save := p.pos
		if _, _, ok := p.scanBraces(); ok {
			p.pos = save
			return nil, false, p.errorSpan(ErrMissingRepeatArgument, start, start+1, start)
		}
		if p.unicode() {
			return nil, false, p.errorAt(ErrInvalidRepeatSize, start)
		}
	case ']', '}':
		if p.unicode() {
			return nil, false, p.errorAt(ErrInvalidEscape, start)
		}
	}
	r, w := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += w
	return &Node{Op: OpLiteral, Pos: start, Rune: []rune{r}}, true, nil
}

func (p *parser) enter(start int) error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorAt(ErrNestingDepth, start)
	}
	return nil
}

// parseGroup parses everything that starts with '('.
func (p *parser) parseGroup() (*Node, bool, error) {
	start := p.pos
	if err := p.enter(start); err != nil {
		return nil, false, err
	}
	defer func() { p.depth-- }()
	p.pos++ // (

	node := &Node{Pos: start}
	quantifiable := true

	if p.peek() != '?' {
		p.ncap++
		node.Op = OpCapture
		node.Cap = p.ncap
	} else {
		p.pos++ // ?
		switch c := p.peek(); {
		case c == ':':
			p.pos++
			node.Op = OpGroup
		case c == '=':
			p.pos++
			node.Op = OpLookahead
			// Annex B allows quantified lookaheads outside Unicode mode.
			quantifiable = !p.unicode()
		case c == '!':
			p.pos++
			node.Op = OpNegLookahead
			quantifiable = !p.unicode()
		case c == '<' && (p.peekAt(1) == '=' || p.peekAt(1) == '!'):
			if p.peekAt(1) == '=' {
				node.Op = OpLookbehind
			} else {
				node.Op = OpNegLookbehind
			}
			p.pos += 2
			quantifiable = false
		case c == '<':
			p.pos++
			name, err := p.parseGroupName(start)
			if err != nil {
				return nil, false, err
			}
			if _, dup := p.names[name]; dup {
				return nil, false, p.errorSpan(ErrDuplicateGroupName, start, p.pos, start)
			}
			p.ncap++
			p.names[name] = p.ncap
			node.Op = OpCapture
			node.Cap = p.ncap
			node.Name = name
		default:
			add, remove, err := p.parseModifiers(start)
			if err != nil {
				return nil, false, err
			}
			node.Op = OpGroup
			node.Add = add
			node.Remove = remove
		}
	}

	sub, err := p.parseDisjunction()
	if err != nil {
		return nil, false, err
	}
	if p.peek() != ')' {
		return nil, false, p.errorAt(ErrMissingParen, start)
	}
	p.pos++
	node.Sub = []*Node{sub}
	return node, quantifiable, nil
}

// parseModifiers parses the flag letters of (?add-remove: and consumes the
// colon. start is the offset of the opening parenthesis.
func (p *parser) parseModifiers(start int) (add, remove Flags, err error) {
	dash := false
	for {
		if p.eof() {
			return 0, 0, p.errorAt(ErrMissingParen, start)
		}
		c := p.peek()
		at := p.pos
		switch {
		case c == ':':
			p.pos++
			if dash && add == 0 && remove == 0 {
				return 0, 0, p.errorSpan(ErrInvalidGroup, start, p.pos, at)
			}
			if add&remove != 0 {
				return 0, 0, p.errorSpan(ErrConflictingModifiers, start, p.pos, start)
			}
			return add, remove, nil
		case c == '-':
			if dash {
				return 0, 0, p.errorSpan(ErrInvalidGroup, start, at+1, at)
			}
			dash = true
			p.pos++
		case isASCIILetter(c):
			f, ok := modifierForLetter(c)
			if !ok {
				return 0, 0, p.errorSpan(ErrUnsupportedModifier, start, at+1, at)
			}
			set := &add
			if dash {
				set = &remove
			}
			if *set&f != 0 {
				return 0, 0, p.errorSpan(ErrRepeatedModifier, start, at+1, at)
			}
			*set |= f
			p.pos++
		default:
			return 0, 0, p.errorSpan(ErrInvalidGroup, start, at+1, at)
		}
	}
}

// parseGroupName reads "name>" after "(?<" or "\k<".
func (p *parser) parseGroupName(start int) (string, error) {
	nameStart := p.pos
	for !p.eof() && p.peek() != '>' {
		r, w := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isIdentRune(r, p.pos == nameStart) {
			return "", p.errorSpan(ErrInvalidGroupName, start, p.pos+w, p.pos)
		}
		p.pos += w
	}
	if p.eof() || p.pos == nameStart {
		return "", p.errorSpan(ErrInvalidGroupName, start, p.pos, p.pos)
	}
	name := p.src[nameStart:p.pos]
	p.pos++ // >
	return name, nil
}

// parseAtomEscape parses an escape outside a character class.
func (p *parser) parseAtomEscape() (*Node, bool, error) {
	start := p.pos
	p.pos++ // backslash
	if p.eof() {
		return nil, false, p.errorAt(ErrInvalidEscape, start)
	}
	c := p.peek()
	switch {
	case c == 'b':
		p.pos++
		return &Node{Op: OpWordBoundary, Pos: start}, false, nil
	case c == 'B':
		p.pos++
		return &Node{Op: OpNoWordBoundary, Pos: start}, false, nil
	case c >= '1' && c <= '9':
		n, end, _ := scanInt(p.src, p.pos)
		if n > p.totalCap {
			return nil, false, p.errorSpan(ErrInvalidBackref, start, end, start)
		}
		p.pos = end
		return &Node{Op: OpBackref, Pos: start, Cap: n}, true, nil
	case c == 'k':
		if p.peekAt(1) == '<' && (p.unicode() || len(p.declared) > 0) {
			p.pos += 2
			name, err := p.parseGroupName(start)
			if err != nil {
				return nil, false, err
			}
			if !p.declared[name] {
				return nil, false, p.errorSpan(ErrInvalidBackref, start, p.pos, start)
			}
			return &Node{Op: OpBackref, Pos: start, Name: name}, true, nil
		}
		if p.unicode() || len(p.declared) > 0 {
			return nil, false, p.errorSpan(ErrInvalidEscape, start, p.pos+1, start)
		}
	}
	if ranges, ok := classEscape(c); ok {
		p.pos++
		return &Node{Op: OpCharClass, Pos: start, Rune: append([]rune(nil), ranges...)}, true, nil
	}
	r, err := p.parseCharEscape(start, false)
	if err != nil {
		return nil, false, err
	}
	return &Node{Op: OpLiteral, Pos: start, Rune: []rune{r}}, true, nil
}

// parseCharEscape parses a character escape after the backslash.
func (p *parser) parseCharEscape(start int, inClass bool) (rune, error) {
	c := p.peek()
	switch c {
	case 'f':
		p.pos++
		return '\f', nil
	case 'n':
		p.pos++
		return '\n', nil
	case 'r':
		p.pos++
		return '\r', nil
	case 't':
		p.pos++
		return '\t', nil
	case 'v':
		p.pos++
		return '\v', nil
	case 'c':
		if l := p.peekAt(1); isASCIILetter(l) {
			p.pos += 2
			return rune(l % 32), nil
		}
		if p.unicode() {
			return 0, p.errorSpan(ErrInvalidEscape, start, p.pos+1, start)
		}
		// Annex B: "\c" without a letter is a literal backslash; the 'c'
		// is parsed again as an ordinary character.
		return '\\', nil
	case '0':
		if d := p.peekAt(1); d < '0' || d > '9' {
			p.pos++
			return 0, nil
		}
		if p.unicode() {
			return 0, p.errorSpan(ErrInvalidEscape, start, p.pos+2, start)
		}
		return p.parseLegacyOctal(), nil
	case 'x':
		if r, ok := parseHex(p.src, p.pos+1, 2); ok {
			p.pos += 3
			return r, nil
		}
		if p.unicode() {
			return 0, p.errorSpan(ErrInvalidEscape, start, p.pos+1, start)
		}
		p.pos++
		return 'x', nil
	case 'u':
		return p.parseUnicodeEscape(start)
	}
	if inClass && c >= '1' && c <= '7' && !p.unicode() {
		return p.parseLegacyOctal(), nil
	}
	r, w := utf8.DecodeRuneInString(p.src[p.pos:])
	if p.unicode() && !isSyntaxChar(r) && !(inClass && r == '-') && r != '/' {
		return 0, p.errorSpan(ErrInvalidEscape, start, p.pos+w, start)
	}
	if r == 'k' && len(p.declared) > 0 {
		return 0, p.errorSpan(ErrInvalidEscape, start, p.pos+w, start)
	}
	p.pos += w
	return r, nil
}

// parseLegacyOctal reads up to three octal digits with a value of at most 0377.
func (p *parser) parseLegacyOctal() rune {
	var v rune
	for i := 0; i < 3; i++ {
		d := p.peek()
		if d < '0' || d > '7' {
			break
		}
		next := v*8 + rune(d-'0')
		if next > 0377 {
			break
		}
		v = next
		p.pos++
	}
	return v
}

func (p *parser) parseUnicodeEscape(start int) (rune, error) {
	// p.pos is at 'u'.
	if p.unicode() && p.peekAt(1) == '{' {
		i := p.pos + 2
		var v rune
		digits := 0
		for i < len(p.src) && p.src[i] != '}' {
			d, ok := hexVal(p.src[i])
			if !ok {
				return 0, p.errorSpan(ErrInvalidEscape, start, i+1, start)
			}
			v = v*16 + d
			if v > utf8.MaxRune {
				return 0, p.errorSpan(ErrInvalidEscape, start, i+1, start)
			}
			digits++
			i++
		}
		if i >= len(p.src) || digits == 0 {
			return 0, p.errorSpan(ErrInvalidEscape, start, i, start)
		}
		p.pos = i + 1
		return v, nil
	}
	r, ok := parseHex(p.src, p.pos+1, 4)
	if !ok {
		if p.unicode() {
			return 0, p.errorSpan(ErrInvalidEscape, start, p.pos+1, start)
		}
		p.pos++
		return 'u', nil
	}
	p.pos += 5
	// Join an escaped surrogate pair into one code point in Unicode mode.
	if p.unicode() && r >= 0xd800 && r <= 0xdbff && p.peek() == '\\' && p.peekAt(1) == 'u' {
		if lo, ok := parseHex(p.src, p.pos+2, 4); ok && lo >= 0xdc00 && lo <= 0xdfff {
			p.pos += 6
			return (r-0xd800)<<10 + (lo - 0xdc00) + 0x10000, nil
		}
	}
	return r, nil
}

// parseClass parses a bracket expression.
func (p *parser) parseClass() (*Node, error) {
	start := p.pos
	p.pos++ // [
	node := &Node{Op: OpCharClass, Pos: start}
	if p.peek() == '^' {
		node.Negate = true
		p.pos++
	}
	var ranges []rune
	for {
		if p.eof() {
			return nil, p.errorAt(ErrMissingBracket, start)
		}
		if p.peek() == ']' {
			p.pos++
			break
		}
		atomStart := p.pos
		lo, loSet, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		if p.peek() != '-' || p.peekAt(1) == ']' || p.peekAt(1) == 0 {
			ranges = appendClassAtom(ranges, lo, loSet)
			continue
		}
		p.pos++ // -
		hi, hiSet, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		if loSet != nil || hiSet != nil {
			if p.unicode() {
				return nil, p.errorSpan(ErrInvalidRange, atomStart, p.pos, atomStart)
			}
			// Annex B: a class escape in a range makes '-' a literal.
			ranges = appendClassAtom(ranges, lo, loSet)
			ranges = appendClassAtom(ranges, hi, hiSet)
			ranges = append(ranges, '-', '-')
			continue
		}
		if lo > hi {
			return nil, p.errorSpan(ErrInvalidRange, atomStart, p.pos, atomStart)
		}
		ranges = append(ranges, lo, hi)
	}
	node.Rune = normalizeRanges(ranges)
	return node, nil
}

func appendClassAtom(ranges []rune, r rune, set []rune) []rune {
	if set != nil {
		return append(ranges, set...)
	}
	return append(ranges, r, r)
}

// parseClassAtom returns either a single rune or, for class escapes, a
// range set.
func (p *parser) parseClassAtom() (rune, []rune, error) {
	if p.peek() != '\\' {
		r, w := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += w
		return r, nil, nil
	}
	start := p.pos
	p.pos++
	if p.eof() {
		return 0, nil, p.errorAt(ErrInvalidEscape, start)
	}
	c := p.peek()
	if ranges, ok := classEscape(c); ok {
		p.pos++
		return 0, ranges, nil
	}
	switch c {
	case 'b':
		p.pos++
		return '\b', nil, nil
	case '-':
		p.pos++
		return '-', nil, nil
	}
	if p.unicode() && c >= '1' && c <= '9' {
		return 0, nil, p.errorSpan(ErrInvalidEscape, start, p.pos+1, start)
	}
	if c == '8' || c == '9' {
		p.pos++
		return rune(c), nil, nil
	}
	r, err := p.parseCharEscape(start, true)
	return r, nil, err
}

// scanGroups counts capturing groups and collects group names ahead of
// parsing so that forward backreferences can be validated.
func scanGroups(src string) (int, map[string]bool) {
	n := 0
	names := map[string]bool{}
	inClass := false
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '(':
			if inClass {
				continue
			}
			if i+1 >= len(src) || src[i+1] != '?' {
				n++
				continue
			}
			if i+2 < len(src) && src[i+2] == '<' && i+3 < len(src) && src[i+3] != '=' && src[i+3] != '!' {
				n++
				if end := indexByteFrom(src, '>', i+3); end > 0 {
					names[src[i+3:end]] = true
				}
			}
		}
	}
	return n, names
}

func indexByteFrom(s string, c byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func parseHex(s string, i, n int) (rune, bool) {
	if i+n > len(s) {
		return 0, false
	}
	var v rune
	for j := i; j < i+n; j++ {
		d, ok := hexVal(s[j])
		if !ok {
			return 0, false
		}
		v = v*16 + d
	}
	return v, true
}

func hexVal(c byte) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return rune(c - '0'), true
	case c >= 'a' && c <= 'f':
		return rune(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return rune(c-'A') + 10, true
	}
	return 0, false
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSyntaxChar(r rune) bool {
	switch r {
	case '^', '$', '\\', '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '|':
		return true
	}
	return false
}

// isIdentRune reports whether r may appear in a group name. Names follow
// identifier rules: letters, '$' and '_' anywhere, digits after the first.
func isIdentRune(r rune, first bool) bool {
	switch {
	case r == '$' || r == '_':
		return true
	case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return !first
	case r >= utf8.RuneSelf:
		return r != utf8.RuneError
	}
	return false
}

// GroupIndex returns the group number for name, or -1.
func (t *Tree) GroupIndex(name string) int {
	for i, n := range t.Names {
		if n == name && name != "" {
			return i
		}
	}
	return -1
}

// String returns the source and flags in literal form, for diagnostics.
func (t *Tree) String() string {
	return "/" + t.Source + "/" + t.Flags.String() + " (" + strconv.Itoa(t.NumCap) + " groups)"
}
