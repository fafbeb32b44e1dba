// Package conv provides conversion helpers for the regex engine.
//
// The integer helpers check bounds before narrowing or changing sign and
// panic on overflow, since that indicates a programming error.
package conv

import (
	"math"
	"unsafe"
)

// IntToUint64 converts a non-negative int to uint64.
// Panics if n < 0.
//
//go:inline
func IntToUint64(n int) uint64 {
	if n < 0 {
		panic("integer overflow: negative int converted to uint64")
	}
	return uint64(n)
}

// Uint64ToInt converts a uint64 to int.
// Panics if n > math.MaxInt.
//
//go:inline
func Uint64ToInt(n uint64) int {
	if n > math.MaxInt {
		panic("integer overflow: uint64 value out of int range")
	}
	return int(n)
}

// StringBytes returns the bytes of s without copying.
// The result must not be modified.
func StringBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
