// Package simd provides the byte-search primitives behind the prefilters:
// single, double and triple byte search and substring search.
//
// Multi-byte searches use SWAR (SIMD Within A Register) loops. On CPUs with
// wide vector units (AVX2 on x86-64, ASIMD on arm64) a 32-byte unrolled
// loop is selected at init; elsewhere the 8-byte loop runs.
package simd

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// wideMinLen is the shortest haystack worth the unrolled loop.
const wideMinLen = 32

// useWide is set from CPU features at package initialization.
var useWide = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present.
//
// Example:
//
//	pos := simd.Memchr([]byte("hello world"), 'o')
//	// pos == 4
func Memchr(haystack []byte, needle byte) int {
	// The runtime's IndexByte is already vectorized on every platform.
	return bytes.IndexByte(haystack, needle)
}

// Memchr2 returns the index of the first instance of either needle1 or
// needle2 in haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	if useWide && len(haystack) >= wideMinLen {
		return memchrWide(haystack, needle1, needle2, needle2)
	}
	return memchrGeneric(haystack, needle1, needle2, needle2)
}

// Memchr3 returns the index of the first instance of needle1, needle2 or
// needle3 in haystack, or -1 if none is present.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	if useWide && len(haystack) >= wideMinLen {
		return memchrWide(haystack, needle1, needle2, needle3)
	}
	return memchrGeneric(haystack, needle1, needle2, needle3)
}
