package modregex

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/modregex/meta"
	"github.com/coregx/modregex/syntax"
)

const scopingPattern = `^a$|(?-m:^b$|(?m:^c$)|^d$|(?-m:^e$)|^f$)|^g$|(?m:^h$)|^k$`

// TestModifierScoping runs the nesting table on "\nX\n" for every letter:
// each alternative is matched with the modifiers of its own group only.
func TestModifierScoping(t *testing.T) {
	tests := []struct {
		flags string
		want  string
	}{
		{"m", "tftfffttt"},
		{"", "ftftttfff"},
	}
	for _, tt := range tests {
		re := MustCompile(scopingPattern, tt.flags)
		for i, c := range "abcdefghk" {
			text := "\n" + string(c) + "\n"
			want := tt.want[i] == 't'
			if got := re.Test(text); got != want {
				t.Errorf("/%s/%s Test(%q) = %v, want %v", scopingPattern, tt.flags, text, got, want)
			}
		}
	}
}

// TestExecAgreesWithTest checks Exec(P, T) != nil exactly when Test(P, T).
func TestExecAgreesWithTest(t *testing.T) {
	patterns := []struct{ src, flags string }{
		{scopingPattern, "m"},
		{scopingPattern, ""},
		{`(?i:ab)c`, ""},
		{`(?s:a.b)|c.d`, ""},
		{`\bfoo\b`, "i"},
		{`(a)|b\1`, ""},
		{`^$`, "m"},
		{`(?<=x)y`, "u"},
	}
	texts := []string{"", "abc", "ABc", "a\nb", "c\nd", "FOO bar", "b", "\n", "xy", "\na\n"}
	for _, p := range patterns {
		re := MustCompile(p.src, p.flags)
		for _, text := range texts {
			if got, want := re.Exec(text) != nil, re.Test(text); got != want {
				t.Errorf("/%s/%s on %q: Exec matched %v, Test %v", p.src, p.flags, text, got, want)
			}
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		src, flags string
		code       syntax.ErrorCode
	}{
		{"(?m-m:a)", "", syntax.ErrConflictingModifiers},
		{"(?i-si:a)", "", syntax.ErrConflictingModifiers},
		{"(?x:a)", "", syntax.ErrUnsupportedModifier},
		{"(?ii:a)", "", syntax.ErrRepeatedModifier},
		{"(?-:a)", "", syntax.ErrInvalidGroup},
		{"(a", "", syntax.ErrMissingParen},
		{"a)", "", syntax.ErrUnexpectedParen},
		{"a", "v", syntax.ErrUnsupportedFlag},
		{"a", "x", syntax.ErrUnsupportedFlag},
		{"a", "gg", syntax.ErrRepeatedFlag},
	}
	for _, tt := range tests {
		_, err := Compile(tt.src, tt.flags)
		if !errors.Is(err, tt.code) {
			t.Errorf("Compile(%q, %q) error = %v, want %v", tt.src, tt.flags, err, tt.code)
		}
		var compileErr *meta.CompileError
		if !errors.As(err, &compileErr) || compileErr.Pattern != tt.src {
			t.Errorf("Compile(%q, %q) error %v is not a *meta.CompileError for the pattern", tt.src, tt.flags, err)
		}
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		r := recover()
		msg, ok := r.(string)
		if !ok || !strings.HasPrefix(msg, "regexp: Compile(`(?m-m:a)`): ") {
			t.Errorf("panic = %v", r)
		}
	}()
	MustCompile("(?m-m:a)", "")
}

func TestExec(t *testing.T) {
	re := MustCompile(`(?<user>\w+)@(?<host>\w+)(\.com)?`, "")
	res := re.Exec("mail me@example now")
	if res == nil {
		t.Fatal("Exec returned nil")
	}
	if res.Index != [2]int{5, 15} || res.String() != "me@example" {
		t.Errorf("Index = %v, String = %q", res.Index, res.String())
	}
	if len(res.Groups) != 4 {
		t.Fatalf("len(Groups) = %d, want 4", len(res.Groups))
	}
	if g := res.Groups[1]; g.Value != "me" || g.Start != 5 || g.End != 7 || !g.Matched {
		t.Errorf("Groups[1] = %+v", g)
	}
	if g := res.Groups[3]; g.Matched || g.Start != -1 || g.Value != "" {
		t.Errorf("Groups[3] = %+v, want unmatched", g)
	}
	if g, ok := res.Named("host"); !ok || g.Value != "example" {
		t.Errorf("Named(host) = %+v, %v", g, ok)
	}
	if _, ok := res.Named("nope"); ok {
		t.Error("Named(nope) should fail")
	}
	if res.Input != "mail me@example now" {
		t.Errorf("Input = %q", res.Input)
	}
	if re.Exec("nothing here") != nil {
		t.Error("Exec should return nil on no match")
	}
}

func TestExecAt(t *testing.T) {
	re := MustCompile(`\d`, "g")
	var got []string
	last := 0
	for {
		res, next, err := re.ExecAt("a1b2", last)
		if err != nil {
			t.Fatal(err)
		}
		if res == nil {
			if next != 0 {
				t.Errorf("lastIndex after failure = %d, want 0", next)
			}
			break
		}
		got = append(got, res.String())
		last = next
	}
	if strings.Join(got, ",") != "1,2" {
		t.Errorf("global iteration = %q", got)
	}

	sticky := MustCompile(`a`, "y")
	if res, _, _ := sticky.ExecAt("ba", 0); res != nil {
		t.Error("sticky match must start at lastIndex")
	}
	if res, next, _ := sticky.ExecAt("ba", 1); res == nil || next != 2 {
		t.Errorf("sticky ExecAt at 1 = %v, %d", res, next)
	}
	if res, _, _ := sticky.ExecAt("ba", 5); res != nil {
		t.Error("lastIndex past the end must fail")
	}

	plain := MustCompile(`a`, "")
	if res, next, _ := plain.ExecAt("aa", 1); res == nil || res.Index[0] != 0 || next != 0 {
		t.Errorf("non-global ExecAt ignores lastIndex: %v, %d", res, next)
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		src, flags, text string
		want             int
	}{
		{"b", "", "abc", 1},
		{"z", "", "abc", -1},
		{"(?i:B)", "", "abc", 1},
		{"b", "y", "abc", -1},
		{"$", "", "abc", 3},
	}
	for _, tt := range tests {
		if got := MustCompile(tt.src, tt.flags).Search(tt.text); got != tt.want {
			t.Errorf("/%s/%s Search(%q) = %d, want %d", tt.src, tt.flags, tt.text, got, tt.want)
		}
	}
}

func TestFindAll(t *testing.T) {
	re := MustCompile(`(?i:a)\w`, "")
	results := re.FindAll("ab Ac ad", -1)
	var got []string
	for _, r := range results {
		got = append(got, r.String())
	}
	if strings.Join(got, ",") != "ab,Ac,ad" {
		t.Errorf("FindAll = %q", got)
	}
	if n := len(re.FindAll("ab Ac ad", 2)); n != 2 {
		t.Errorf("FindAll limit 2 returned %d", n)
	}
	if re.FindAll("zzz", -1) != nil {
		t.Error("FindAll with no matches should be nil")
	}
}

func TestBudget(t *testing.T) {
	config := DefaultConfig()
	config.MaxSteps = 5_000
	re, err := CompileWithConfig(`(a+)+b`, "", config)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("a", 28)
	if ok, err := re.TestErr(text); ok || !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("TestErr = %v, %v, want budget error", ok, err)
	}
	if re.Test(text) {
		t.Error("Test should report no match on budget overrun")
	}
	if res, err := re.ExecErr(text); res != nil || !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("ExecErr = %v, %v", res, err)
	}
	if _, err := re.FindAllErr(text, -1); !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("FindAllErr error = %v", err)
	}
	if re.Stats().BudgetExceeded == 0 {
		t.Error("Stats should count budget overruns")
	}
	if !re.Test("aab") {
		t.Error("short input should match within budget")
	}
}

func TestLongLineWithinDefaultBudget(t *testing.T) {
	text := strings.Repeat("a", 600_000)
	re := MustCompile(`^.*$`, "")
	if ok, err := re.TestErr(text); !ok || err != nil {
		t.Errorf("TestErr = %v, %v, want true, nil", ok, err)
	}
	res := MustCompile(`^a+?(a)$`, "").Exec(text)
	if res == nil || res.Groups[1].Start != len(text)-1 {
		t.Errorf("Exec = %+v", res)
	}
}

func TestLookbehindMatchesRightToLeft(t *testing.T) {
	res := MustCompile(`(?<=(\d+)(\d+))$`, "").Exec("1053")
	if res == nil || res.Groups[1].Value != "1" || res.Groups[2].Value != "053" {
		t.Fatalf("Exec = %+v, want groups 1 and 053", res)
	}
	res = MustCompile(`(?<=\1(a))b`, "").Exec("aab")
	if res == nil || res.Index != [2]int{2, 3} || res.Groups[1].Start != 1 {
		t.Errorf("backreference to a later group: Exec = %+v", res)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		src, flags, want string
	}{
		{"a", "", "/a/"},
		{"", "g", "/(?:)/g"},
		{"a/b", "", `/a\/b/`},
		{`a\/b`, "", `/a\/b/`},
		{"[/]", "", "/[/]/"},
		{"a\nb", "", `/a\nb/`},
		{"a\u2028", "", `/a\u2028/`},
		{"x", "yusmigd", "/x/dgimsuy"},
	}
	for _, tt := range tests {
		if got := MustCompile(tt.src, tt.flags).String(); got != tt.want {
			t.Errorf("String() of %q/%q = %q, want %q", tt.src, tt.flags, got, tt.want)
		}
	}
}

func TestFlagAccessors(t *testing.T) {
	re := MustCompile("x", "ysmd")
	if re.Flags() != "dmsy" || re.Source() != "x" {
		t.Errorf("Flags() = %q, Source() = %q", re.Flags(), re.Source())
	}
	got := []bool{re.HasIndices(), re.Global(), re.IgnoreCase(), re.Multiline(), re.DotAll(), re.Unicode(), re.Sticky()}
	want := []bool{true, false, false, true, true, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("flag getter %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSubexp(t *testing.T) {
	re := MustCompile(`(a)(?<mid>b)(c)`, "")
	if re.NumSubexp() != 3 {
		t.Errorf("NumSubexp() = %d", re.NumSubexp())
	}
	names := re.SubexpNames()
	if strings.Join(names, ",") != ",,mid," {
		t.Errorf("SubexpNames() = %q", names)
	}
	if re.SubexpIndex("mid") != 2 || re.SubexpIndex("x") != -1 {
		t.Error("SubexpIndex mismatch")
	}
}

func TestQuoteMeta(t *testing.T) {
	special := `1.5/2 ^$\.*+?()[]{}| a-b`
	quoted := QuoteMeta(special)
	for _, flags := range []string{"", "u"} {
		re := MustCompile("^"+quoted+"$", flags)
		if !re.Test(special) {
			t.Errorf("QuoteMeta(%q) = %q does not match itself with flags %q", special, quoted, flags)
		}
	}
	if QuoteMeta("plain") != "plain" {
		t.Error("QuoteMeta should not change plain text")
	}
}

func TestConcurrentUse(t *testing.T) {
	re := MustCompile(`(?i:hello) (\w+)`, "")
	done := make(chan string)
	for i := 0; i < 8; i++ {
		go func() {
			var last string
			for j := 0; j < 200; j++ {
				if res := re.Exec("say HeLLo world"); res != nil {
					last = res.Groups[1].Value
				}
			}
			done <- last
		}()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; got != "world" {
			t.Errorf("goroutine saw %q", got)
		}
	}
}
