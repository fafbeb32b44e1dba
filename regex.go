// Package modregex provides an ECMAScript-style regular expression engine
// with inline modifier groups for Go.
//
// Besides the usual flags ("dgimsuy"), a pattern may switch the i, m and s
// modifiers for part of itself:
//
//	(?i:abc)     case-insensitive inside the group only
//	(?-m:^x$)    single-line anchors inside a multiline pattern
//	(?s-i:a.b)   several changes at once
//
// A modifier group affects exactly the nodes it contains. It never leaks
// into siblings or into the enclosing pattern.
//
// Basic usage:
//
//	re, err := modregex.Compile(`^a$|(?-m:^b$)`, "m")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(re.Test("x\na\ny")) // true
//	fmt.Println(re.Test("x\nb\ny")) // false
//
// Matching uses backtracking with a literal prefilter in front. Work per
// search is bounded by the step and depth budgets of meta.Config; a search
// that exceeds them fails with backtrack.ErrBudgetExceeded, which the Err
// variants of the methods report and the others treat as no match.
package modregex

import (
	"strings"

	"github.com/coregx/modregex/backtrack"
	"github.com/coregx/modregex/meta"
	"github.com/coregx/modregex/syntax"
)

// ErrBudgetExceeded is returned when a search exceeds its step or depth
// budget.
var ErrBudgetExceeded = backtrack.ErrBudgetExceeded

// Regexp represents a compiled regular expression.
//
// A Regexp is immutable and safe to use concurrently from multiple
// goroutines.
//
// Example:
//
//	re := modregex.MustCompile(`hello`, "i")
//	if re.Test("HELLO world") {
//	    println("matched!")
//	}
type Regexp struct {
	engine *meta.Engine
	source string
	flags  syntax.Flags
	names  map[string]int
}

// Group is one capture group of a match.
type Group struct {
	// Value is the captured text, or "" when the group did not participate.
	Value string

	// Start and End are byte offsets into the input, or -1 when the group
	// did not participate.
	Start, End int

	// Matched reports whether the group participated in the match.
	Matched bool
}

// Result is a successful match.
type Result struct {
	// Index holds the start and end byte offsets of the whole match.
	Index [2]int

	// Groups holds every group; Groups[0] is the whole match.
	Groups []Group

	// Names maps group names to group numbers. Nil when the pattern has
	// no named groups.
	Names map[string]int

	// Input is the text that was searched.
	Input string
}

// String returns the matched text.
func (r *Result) String() string {
	return r.Groups[0].Value
}

// Named returns the group called name.
func (r *Result) Named(name string) (Group, bool) {
	i, ok := r.Names[name]
	if !ok {
		return Group{Start: -1, End: -1}, false
	}
	return r.Groups[i], true
}

// Compile parses a pattern and its flags string and returns a Regexp.
//
// Flags are letters from "dgimsuy" in any order. Syntax errors, including
// conflicting or unsupported inline modifiers, are reported as a
// *meta.CompileError wrapping a *syntax.Error.
//
// Example:
//
//	re, err := modregex.Compile(`(?i-m:^abc$)`, "m")
func Compile(source, flags string) (*Regexp, error) {
	return CompileWithConfig(source, flags, meta.DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern or flags are
// invalid.
//
// Example:
//
//	var wordRe = modregex.MustCompile(`\b(?i:go)\b`, "")
func MustCompile(source, flags string) *Regexp {
	re, err := Compile(source, flags)
	if err != nil {
		panic("regexp: Compile(`" + source + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with a custom configuration.
//
// Example:
//
//	config := modregex.DefaultConfig()
//	config.MaxSteps = 100_000
//	re, err := modregex.CompileWithConfig(`(a+)+b`, "", config)
func CompileWithConfig(source, flags string, config meta.Config) (*Regexp, error) {
	f, err := syntax.ParseFlags(flags)
	if err != nil {
		return nil, &meta.CompileError{Pattern: source, Err: err}
	}
	engine, err := meta.CompileWithConfig(source, f, config)
	if err != nil {
		return nil, err
	}

	var names map[string]int
	for i, name := range engine.SubexpNames() {
		if name == "" {
			continue
		}
		if names == nil {
			names = make(map[string]int)
		}
		names[name] = i
	}

	return &Regexp{
		engine: engine,
		source: source,
		flags:  f,
		names:  names,
	}, nil
}

// DefaultConfig returns the default configuration for compilation.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// QuoteMeta returns a string that escapes all regular expression
// metacharacters inside the argument text; the returned string is a
// pattern matching the literal text, with or without the "u" flag.
//
// Example:
//
//	escaped := modregex.QuoteMeta("1.5/2")
//	// escaped = `1\.5\/2`
func QuoteMeta(s string) string {
	const special = `^$\.*+?()[]{}|/`

	n := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+n)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

// Test reports whether the pattern matches somewhere in text. With the
// sticky flag only position 0 is tried. A budget overrun counts as no
// match; use TestErr to tell the two apart.
//
// Repeats of a single character, class or "." run in constant depth, but
// every iteration of a repeated group nests one level, so a pattern such
// as `(ab)*` over a very long line can exceed Config.MaxDepth.
func (re *Regexp) Test(text string) bool {
	ok, _ := re.TestErr(text)
	return ok
}

// TestErr is like Test but reports ErrBudgetExceeded.
func (re *Regexp) TestErr(text string) (bool, error) {
	return re.engine.IsMatch(text)
}

// Exec returns the leftmost match in text, or nil. The lastIndex state of
// the global and sticky flags is not used; see ExecAt.
func (re *Regexp) Exec(text string) *Result {
	res, _ := re.ExecErr(text)
	return res
}

// ExecErr is like Exec but reports ErrBudgetExceeded.
func (re *Regexp) ExecErr(text string) (*Result, error) {
	m, err := re.engine.Find(text, 0)
	if m == nil {
		return nil, err
	}
	return re.result(m), nil
}

// ExecAt runs one step of a stateful iteration. For a global or sticky
// pattern the search starts at lastIndex (sticky: only at lastIndex) and
// the returned index is the new lastIndex: the match end, or 0 when there
// is no match. Other patterns ignore lastIndex and always return 0.
//
// Example:
//
//	re := modregex.MustCompile(`\d`, "g")
//	last := 0
//	for {
//	    res, next, _ := re.ExecAt("a1b2", last)
//	    if res == nil {
//	        break
//	    }
//	    fmt.Println(res.String()) // "1", then "2"
//	    last = next
//	}
func (re *Regexp) ExecAt(text string, lastIndex int) (*Result, int, error) {
	stateful := re.flags&(syntax.FlagGlobal|syntax.FlagSticky) != 0
	if !stateful {
		lastIndex = 0
	}
	if lastIndex < 0 || lastIndex > len(text) {
		return nil, 0, nil
	}
	m, err := re.engine.Find(text, lastIndex)
	if m == nil {
		return nil, 0, err
	}
	next := 0
	if stateful {
		next = m.End()
	}
	return re.result(m), next, nil
}

// Search returns the byte offset of the leftmost match, or -1.
func (re *Regexp) Search(text string) int {
	m, _ := re.engine.Find(text, 0)
	if m == nil {
		return -1
	}
	return m.Start()
}

// FindAll returns successive matches, at most n of them (all when n < 0).
// After an empty match the search resumes one code point further on.
// A budget overrun ends the iteration; use FindAllErr to observe it.
func (re *Regexp) FindAll(text string, n int) []*Result {
	out, _ := re.FindAllErr(text, n)
	return out
}

// FindAllErr is like FindAll but reports ErrBudgetExceeded together with
// the matches found before it.
func (re *Regexp) FindAllErr(text string, n int) ([]*Result, error) {
	ms, err := re.engine.FindAll(text, n)
	if len(ms) == 0 {
		return nil, err
	}
	out := make([]*Result, len(ms))
	for i, m := range ms {
		out[i] = re.result(m)
	}
	return out, err
}

func (re *Regexp) result(m *meta.Match) *Result {
	res := &Result{
		Index:  [2]int{m.Start(), m.End()},
		Groups: make([]Group, m.NumGroups()),
		Names:  re.names,
		Input:  m.Input(),
	}
	for i := range res.Groups {
		start, end := m.GroupIndex(i)
		if start < 0 {
			res.Groups[i] = Group{Start: -1, End: -1}
			continue
		}
		res.Groups[i] = Group{Value: m.Input()[start:end], Start: start, End: end, Matched: true}
	}
	return res
}

// String returns the pattern in literal form, "/source/flags". An empty
// source is shown as "(?:)"; unescaped "/" outside a class and line
// terminators are escaped so the result parses back to the same pattern.
func (re *Regexp) String() string {
	return "/" + escapeSource(re.source) + "/" + re.flags.String()
}

func escapeSource(src string) string {
	if src == "" {
		return "(?:)"
	}
	var b strings.Builder
	inClass, escaped := false, false
	for _, r := range src {
		switch {
		case escaped:
			escaped = false
			if s, ok := lineTerminatorEscape(r); ok {
				b.WriteString(s[1:])
				continue
			}
		case r == '\\':
			escaped = true
		case r == '[':
			inClass = true
		case r == ']':
			inClass = false
		case r == '/' && !inClass:
			b.WriteString(`\/`)
			continue
		default:
			if s, ok := lineTerminatorEscape(r); ok {
				b.WriteString(s)
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func lineTerminatorEscape(r rune) (string, bool) {
	switch r {
	case '\n':
		return `\n`, true
	case '\r':
		return `\r`, true
	case '\u2028':
		return `\u2028`, true
	case '\u2029':
		return `\u2029`, true
	}
	return "", false
}

// Source returns the pattern text.
func (re *Regexp) Source() string {
	return re.source
}

// Flags returns the flags in canonical order ("dgimsuy").
func (re *Regexp) Flags() string {
	return re.flags.String()
}

// HasIndices reports the "d" flag.
func (re *Regexp) HasIndices() bool { return re.flags&syntax.FlagHasIndices != 0 }

// Global reports the "g" flag.
func (re *Regexp) Global() bool { return re.flags&syntax.FlagGlobal != 0 }

// IgnoreCase reports the "i" flag.
func (re *Regexp) IgnoreCase() bool { return re.flags&syntax.FlagIgnoreCase != 0 }

// Multiline reports the "m" flag.
func (re *Regexp) Multiline() bool { return re.flags&syntax.FlagMultiline != 0 }

// DotAll reports the "s" flag.
func (re *Regexp) DotAll() bool { return re.flags&syntax.FlagDotAll != 0 }

// Unicode reports the "u" flag.
func (re *Regexp) Unicode() bool { return re.flags&syntax.FlagUnicode != 0 }

// Sticky reports the "y" flag.
func (re *Regexp) Sticky() bool { return re.flags&syntax.FlagSticky != 0 }

// NumSubexp returns the number of capture groups, not counting group 0.
func (re *Regexp) NumSubexp() int {
	return re.engine.NumCaptures() - 1
}

// SubexpNames returns the names of the capture groups. names[0] is always
// "" and unnamed groups are "".
func (re *Regexp) SubexpNames() []string {
	return re.engine.SubexpNames()
}

// SubexpIndex returns the number of the group called name, or -1.
func (re *Regexp) SubexpIndex(name string) int {
	if i, ok := re.names[name]; ok {
		return i
	}
	return -1
}

// Stats returns the engine's execution statistics.
func (re *Regexp) Stats() meta.Stats {
	return re.engine.Stats()
}
