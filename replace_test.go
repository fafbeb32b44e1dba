package modregex

import (
	"strconv"
	"strings"
	"testing"
)

func TestReplaceAllString(t *testing.T) {
	tests := []struct {
		pattern, flags string
		src, repl      string
		want           string
	}{
		{`\d+`, "", "a1b22c", "#", "a#b#c"},
		{`x*`, "", "abc", "-", "-a-b-c-"},
		{`(\w+)@(\w+)`, "", "me@host", "$2 at $1", "host at me"},
		{`(?<u>\w+)@(?<h>\w+)`, "", "me@host", "$<h>/$<u>", "host/me"},
		{`(?<u>\w+)`, "", "ab", "$<missing>!", "!"},
		{`(?<u>\w+)`, "", "ab", "$<u", "$<u"},
		{`(\w)`, "", "ab", "$<u>", "$<u>$<u>"},
		{`b`, "", "abc", "[$`|$&|$']", "a[a|b|c]c"},
		{`b`, "", "abc", "$$", "a$c"},
		{`b`, "", "abc", "$", "a$c"},
		{`b`, "", "abc", "$x", "a$xc"},
		{`(b)`, "", "abc", "$0", "a$0c"},
		{`(b)`, "", "abc", "$01", "abc"},
		{`(b)`, "", "abc", "$10", "ab0c"},
		{`(b)`, "", "abc", "$2", "a$2c"},
		{`(b)|(z)`, "", "abc", "[$2]", "a[]c"},
		{`(a)(b)(c)(d)(e)(f)(g)(h)(i)(j)(k)`, "", "abcdefghijk", "$11$10$1", "kja"},
		{`(?i:B)`, "", "abBc", "_", "a__c"},
		{`z`, "", "abc", "_", "abc"},
	}
	for _, tt := range tests {
		re := MustCompile(tt.pattern, tt.flags)
		if got := re.ReplaceAllString(tt.src, tt.repl); got != tt.want {
			t.Errorf("/%s/ ReplaceAllString(%q, %q) = %q, want %q", tt.pattern, tt.src, tt.repl, got, tt.want)
		}
	}
}

func TestReplace(t *testing.T) {
	if got := MustCompile("a", "").Replace("aaa", "b"); got != "baa" {
		t.Errorf("non-global Replace = %q, want %q", got, "baa")
	}
	if got := MustCompile("a", "g").Replace("aaa", "b"); got != "bbb" {
		t.Errorf("global Replace = %q, want %q", got, "bbb")
	}
}

func TestReplaceAllLiteralString(t *testing.T) {
	re := MustCompile(`(\d)`, "")
	if got := re.ReplaceAllLiteralString("a1b2", "$1"); got != "a$1b$1" {
		t.Errorf("ReplaceAllLiteralString = %q", got)
	}
}

func TestReplaceAllStringFunc(t *testing.T) {
	re := MustCompile(`\d+`, "")
	got := re.ReplaceAllStringFunc("1 22 333", func(r *Result) string {
		return strconv.Itoa(len(r.String()))
	})
	if got != "1 2 3" {
		t.Errorf("ReplaceAllStringFunc = %q", got)
	}
}

func TestReplaceBudgetLeavesSourceUnchanged(t *testing.T) {
	config := DefaultConfig()
	config.MaxSteps = 5_000
	re, err := CompileWithConfig(`(a+)+b|x`, "", config)
	if err != nil {
		t.Fatal(err)
	}
	src := "x" + strings.Repeat("a", 28)
	if _, err := re.FindAllErr(src, -1); err == nil {
		t.Fatal("expected the second search to exceed its budget")
	}
	if got := re.ReplaceAllString(src, "-"); got != src {
		t.Errorf("ReplaceAllString = %q, want source unchanged", got)
	}
	if got := re.ReplaceAllLiteralString(src, "-"); got != src {
		t.Errorf("ReplaceAllLiteralString = %q, want source unchanged", got)
	}
	if got := re.ReplaceAllString("xx", "-"); got != "--" {
		t.Errorf("within budget: ReplaceAllString = %q, want %q", got, "--")
	}
}
