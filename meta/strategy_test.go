package meta

import (
	"testing"

	"github.com/coregx/modregex/syntax"
)

func TestStrategySelection(t *testing.T) {
	tests := []struct {
		pattern string
		flags   syntax.Flags
		want    Strategy
	}{
		{"x", 0, UseMemchr},
		{"hello", 0, UseMemmem},
		{"^abc", 0, UseAnchoredStart},
		{"^abc", syntax.FlagMultiline, UseMemmem},
		{"(?m:^)abc", 0, UseMemmem},
		{"(?-m:^abc)", syntax.FlagMultiline, UseAnchoredStart},
		{"^a|^b", 0, UseAnchoredStart},
		{"^a|b", 0, UseByteSet},
		{"(^a)+", 0, UseAnchoredStart},
		{"(^a)*b", 0, UseBacktrack},
		{"a|b|c|d", 0, UseByteTable},
		{`\d+`, 0, UseByteTable},
		{"foo|bar|baz", 0, UseByteSet},
		{"apple|banana|cherry|date", 0, UseAhoCorasick},
		{".*x", 0, UseBacktrack},
		{"[a-z]+", 0, UseBacktrack},
		{"é", syntax.FlagIgnoreCase, UseBacktrack},
		{"abc", syntax.FlagSticky, UseSticky},
		{"^abc", syntax.FlagSticky, UseSticky},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			engine, err := Compile(tt.pattern, tt.flags)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.pattern, err)
			}
			if got := engine.Strategy(); got != tt.want {
				t.Errorf("Strategy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategyWithoutPrefilter(t *testing.T) {
	c := DefaultConfig()
	c.EnablePrefilter = false
	engine, err := CompileWithConfig("hello", 0, c)
	if err != nil {
		t.Fatal(err)
	}
	if engine.Strategy() != UseBacktrack || engine.Prefilter() != nil {
		t.Errorf("Strategy() = %v with prefilter %v, want UseBacktrack and none", engine.Strategy(), engine.Prefilter())
	}

	c = DefaultConfig()
	c.MinLiteralLen = 4
	engine, err = CompileWithConfig("abc|abcd", 0, c)
	if err != nil {
		t.Fatal(err)
	}
	if engine.Strategy() != UseBacktrack {
		t.Errorf("short literals: Strategy() = %v, want UseBacktrack", engine.Strategy())
	}
}

func TestStrategyString(t *testing.T) {
	for s := UseBacktrack; s <= UseAhoCorasick; s++ {
		if s.String() == "Unknown" {
			t.Errorf("Strategy(%d) has no name", s)
		}
	}
	if Strategy(99).String() != "Unknown" {
		t.Error("out-of-range strategy should be Unknown")
	}
}
