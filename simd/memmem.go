package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present. An empty needle matches at 0.
//
// The search anchors on the rarest byte of needle, per ByteFrequencies:
// Memchr finds each occurrence of that byte and the full needle is
// verified around it.
//
// Example:
//
//	pos := simd.Memmem([]byte("aaaaaabaaaa"), []byte("aab"))
//	// pos == 4
func Memmem(haystack, needle []byte) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return Memchr(haystack, needle[0])
	}

	rare, rareIdx := RarestByte(needle)
	// Candidates for the rare byte start at rareIdx and end where the
	// needle would run past the haystack.
	last := len(haystack) - len(needle) + rareIdx
	for at := rareIdx; at <= last; {
		pos := Memchr(haystack[at:last+1], rare)
		if pos < 0 {
			return -1
		}
		at += pos
		start := at - rareIdx
		if bytes.Equal(haystack[start:start+len(needle)], needle) {
			return start
		}
		at++
	}
	return -1
}
