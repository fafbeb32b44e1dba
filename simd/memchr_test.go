package simd

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"
)

// naiveIndexAny is the reference implementation for the SWAR searches.
func naiveIndexAny(haystack []byte, needles ...byte) int {
	for i, c := range haystack {
		for _, n := range needles {
			if c == n {
				return i
			}
		}
	}
	return -1
}

func TestMemchr(t *testing.T) {
	tests := []struct {
		haystack string
		needle   byte
		want     int
	}{
		{"", 'a', -1},
		{"a", 'a', 0},
		{"hello world", 'o', 4},
		{"hello world", 'x', -1},
		{"0123456789abcdefghijklmnopqrstuvwxyz!", '!', 36},
	}
	for _, tt := range tests {
		if got := Memchr([]byte(tt.haystack), tt.needle); got != tt.want {
			t.Errorf("Memchr(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestMemchr2And3(t *testing.T) {
	tests := []struct {
		haystack string
		needles  []byte
		want     int
	}{
		{"", []byte("ab"), -1},
		{"xxxxxxb", []byte("ab"), 6},
		{"xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxa", []byte("ab"), 39},
		{"xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", []byte("ab"), -1},
		{"xxxxxxxxxxcxxxxxxxxxxxxxxxbxxxxxxxxxxxxa", []byte("abc"), 10},
		{"short", []byte("tso"), 0},
	}
	for _, tt := range tests {
		var got int
		if len(tt.needles) == 2 {
			got = Memchr2([]byte(tt.haystack), tt.needles[0], tt.needles[1])
		} else {
			got = Memchr3([]byte(tt.haystack), tt.needles[0], tt.needles[1], tt.needles[2])
		}
		if got != tt.want {
			t.Errorf("Memchr%d(%q, %q) = %d, want %d", len(tt.needles), tt.haystack, tt.needles, got, tt.want)
		}
	}
}

// TestSWARMatchesNaive drives both loops directly so they are covered
// regardless of the CPU the test runs on.
func TestSWARMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, size := range []int{0, 1, 7, 8, 9, 31, 32, 33, 64, 100, 257} {
		for trial := 0; trial < 50; trial++ {
			haystack := make([]byte, size)
			for i := range haystack {
				haystack[i] = byte('a' + rng.Intn(20))
			}
			n1, n2, n3 := byte('a'+rng.Intn(26)), byte('a'+rng.Intn(26)), byte('a'+rng.Intn(26))
			want := naiveIndexAny(haystack, n1, n2, n3)
			if got := memchrGeneric(haystack, n1, n2, n3); got != want {
				t.Fatalf("memchrGeneric(%q, %c%c%c) = %d, want %d", haystack, n1, n2, n3, got, want)
			}
			if got := memchrWide(haystack, n1, n2, n3); got != want {
				t.Fatalf("memchrWide(%q, %c%c%c) = %d, want %d", haystack, n1, n2, n3, got, want)
			}
		}
	}
}

func TestSWARHighBytes(t *testing.T) {
	// 0x80 and 0x01 neighbours exercise the borrow in zeroBytes.
	haystack := []byte{0x01, 0x80, 0x00, 0xff, 0x01, 0x01, 0x80, 0x7f, 0xfe}
	for _, n := range []byte{0x00, 0x01, 0x7f, 0x80, 0xfe, 0xff, 0x02} {
		want := naiveIndexAny(haystack, n)
		if got := memchrGeneric(haystack, n, n, n); got != want {
			t.Errorf("memchrGeneric(%#x) = %d, want %d", n, got, want)
		}
	}
}

func TestMemmem(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             int
	}{
		{"hello world", "world", 6},
		{"hello world", "xyz", -1},
		{"aaaaaabaaaa", "aab", 4},
		{"abc", "", 0},
		{"", "a", -1},
		{"ab", "abc", -1},
		{"zzzq", "q", 3},
		{"user@example.com", "@ex", 4},
	}
	for _, tt := range tests {
		if got := Memmem([]byte(tt.haystack), []byte(tt.needle)); got != tt.want {
			t.Errorf("Memmem(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestMemmemMatchesBytesIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 500; trial++ {
		haystack := make([]byte, rng.Intn(80))
		for i := range haystack {
			haystack[i] = "abc@"[rng.Intn(4)]
		}
		needle := make([]byte, 1+rng.Intn(4))
		for i := range needle {
			needle[i] = "abc@"[rng.Intn(4)]
		}
		want := bytes.Index(haystack, needle)
		if got := Memmem(haystack, needle); got != want {
			t.Fatalf("Memmem(%q, %q) = %d, want %d", haystack, needle, got, want)
		}
	}
}

func TestRarestByte(t *testing.T) {
	tests := []struct {
		needle   string
		wantByte byte
		wantIdx  int
	}{
		{"", 0, -1},
		{"e", 'e', 0},
		{"hello@", '@', 5},
		{"zebra", 'z', 0},
		{"aa", 'a', 1},
	}
	for _, tt := range tests {
		b, idx := RarestByte([]byte(tt.needle))
		if b != tt.wantByte || idx != tt.wantIdx {
			t.Errorf("RarestByte(%q) = (%q, %d), want (%q, %d)", tt.needle, b, idx, tt.wantByte, tt.wantIdx)
		}
	}
	if ByteRank(' ') <= ByteRank('Z') {
		t.Error("space should rank as more common than 'Z'")
	}
}

func ExampleMemmem() {
	fmt.Println(Memmem([]byte("hello world"), []byte("world")))
	// Output: 6
}
