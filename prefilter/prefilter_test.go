package prefilter

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/coregx/modregex/literal"
)

// seqOf builds a sequence of complete literals.
func seqOf(lits ...string) *literal.Seq {
	out := make([]literal.Literal, len(lits))
	for i, l := range lits {
		out[i] = literal.NewLiteral([]byte(l), true)
	}
	return literal.NewSeq(out...)
}

// naiveFind is the reference: the leftmost position at or after start where
// any literal begins.
func naiveFind(haystack []byte, start int, lits []string) int {
	if start < 0 {
		return -1
	}
	for i := start; i < len(haystack); i++ {
		for _, l := range lits {
			if bytes.HasPrefix(haystack[i:], []byte(l)) {
				return i
			}
		}
	}
	return -1
}

func TestBuildEmpty(t *testing.T) {
	if pf := Build(nil); pf != nil {
		t.Errorf("Build(nil) = %T, want nil", pf)
	}
	if pf := Build(literal.NewSeq()); pf != nil {
		t.Errorf("Build(empty) = %T, want nil", pf)
	}
	if pf := Build(seqOf("a", "")); pf != nil {
		t.Errorf("Build with empty literal = %T, want nil", pf)
	}
}

func TestBuildSelection(t *testing.T) {
	tests := []struct {
		lits []string
		want Kind
	}{
		{[]string{"x"}, KindMemchr},
		{[]string{"hello"}, KindMemmem},
		{[]string{"a", "b"}, KindByteSet},
		{[]string{"a", "b", "c", "d"}, KindByteTable},
		{[]string{"foo", "fab", "bar"}, KindByteSet},
		{[]string{"apple", "banana", "cherry", "date"}, KindAhoCorasick},
	}
	for _, tt := range tests {
		pf := Build(seqOf(tt.lits...))
		if got := pf.Kind(); got != tt.want {
			t.Errorf("Build(%q).Kind() = %v, want %v", tt.lits, got, tt.want)
		}
	}
	if got := Kind(0).String(); got != "Unknown" {
		t.Errorf("Kind(0).String() = %q", got)
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		lits     []string
		haystack string
		start    int
		want     int
	}{
		{[]string{"o"}, "hello world", 0, 4},
		{[]string{"o"}, "hello world", 5, 7},
		{[]string{"o"}, "hello world", 11, -1},
		{[]string{"world"}, "hello world", 0, 6},
		{[]string{"world"}, "hello world", 7, -1},
		{[]string{"a", "b"}, "xxxbxa", 0, 3},
		{[]string{"foo", "bar"}, "fobbfoo bar", 0, 4},
		{[]string{"foo", "bar"}, "fobbfoo bar", 5, 8},
		{[]string{"apple", "banana", "cherry", "date"}, "a dat, a date", 0, 9},
		{[]string{"1", "2", "3", "4"}, "abc4", 0, 3},
		{[]string{"x"}, "abc", -1, -1},
	}
	for _, tt := range tests {
		pf := Build(seqOf(tt.lits...))
		if got := pf.Find([]byte(tt.haystack), tt.start); got != tt.want {
			t.Errorf("%T.Find(%q, %d) = %d, want %d", pf, tt.haystack, tt.start, got, tt.want)
		}
	}
}

func TestFindMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	alphabet := "abcdxy"
	word := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(b)
	}
	for trial := 0; trial < 300; trial++ {
		lits := make([]string, 1+rng.Intn(6))
		for i := range lits {
			lits[i] = word(1 + rng.Intn(3))
		}
		pf := Build(seqOf(lits...))
		haystack := []byte(word(rng.Intn(60)))
		for start := 0; start <= len(haystack); start++ {
			want := naiveFind(haystack, start, lits)
			if got := pf.Find(haystack, start); got != want {
				t.Fatalf("%T lits=%q Find(%q, %d) = %d, want %d", pf, lits, haystack, start, got, want)
			}
		}
	}
}

func TestIsCompleteAndLiteralLen(t *testing.T) {
	pf := Build(seqOf("abc"))
	if !pf.IsComplete() || pf.LiteralLen() != 3 {
		t.Errorf("single complete literal: IsComplete=%v LiteralLen=%d", pf.IsComplete(), pf.LiteralLen())
	}

	pf = Build(literal.NewSeq(literal.NewLiteral([]byte("abc"), false)))
	if pf.IsComplete() {
		t.Error("incomplete literal reported complete")
	}

	pf = Build(seqOf("ab", "cd"))
	if pf.IsComplete() || pf.LiteralLen() != 2 {
		t.Errorf("two literals: IsComplete=%v LiteralLen=%d", pf.IsComplete(), pf.LiteralLen())
	}

	pf = Build(seqOf("apple", "banana", "cherry", "date"))
	if pf.LiteralLen() != 0 {
		t.Errorf("mixed lengths: LiteralLen=%d, want 0", pf.LiteralLen())
	}
	if pf.HeapBytes() <= 0 {
		t.Errorf("HeapBytes=%d, want > 0", pf.HeapBytes())
	}
}

func ExampleBuild() {
	pf := Build(seqOf("hello", "world"))
	fmt.Println(pf.Find([]byte("foo hello bar world baz"), 0))
	fmt.Println(pf.Find([]byte("foo hello bar world baz"), 5))
	// Output:
	// 4
	// 14
}
