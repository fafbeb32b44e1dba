package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// broadcast replicates b into every byte of a uint64.
// Example: 0x42 → 0x4242424242424242.
func broadcast(b byte) uint64 {
	return uint64(b) * lo8
}

// zeroBytes sets the high bit of every zero byte of v (Hacker's Delight).
// A borrow can also mark bytes above a true zero, so only the lowest
// marked byte is reliable.
func zeroBytes(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}

// firstIn returns the byte index of the lowest marked byte.
func firstIn(z uint64) int {
	return bits.TrailingZeros64(z) / 8
}

// memchrGeneric returns the index of the first byte equal to any needle,
// reading the haystack eight bytes at a time as little-endian words. XOR
// with a broadcast needle turns matching bytes into zero bytes.
func memchrGeneric(haystack []byte, n1, n2, n3 byte) int {
	m1, m2, m3 := broadcast(n1), broadcast(n2), broadcast(n3)
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		w := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(w^m1) | zeroBytes(w^m2) | zeroBytes(w^m3); z != 0 {
			return i + firstIn(z)
		}
	}
	for ; i < len(haystack); i++ {
		if c := haystack[i]; c == n1 || c == n2 || c == n3 {
			return i
		}
	}
	return -1
}

// memchrWide is memchrGeneric unrolled over four words per iteration.
func memchrWide(haystack []byte, n1, n2, n3 byte) int {
	m1, m2, m3 := broadcast(n1), broadcast(n2), broadcast(n3)
	match := func(w uint64) uint64 {
		return zeroBytes(w^m1) | zeroBytes(w^m2) | zeroBytes(w^m3)
	}
	i := 0
	for ; i+32 <= len(haystack); i += 32 {
		z0 := match(binary.LittleEndian.Uint64(haystack[i:]))
		z1 := match(binary.LittleEndian.Uint64(haystack[i+8:]))
		z2 := match(binary.LittleEndian.Uint64(haystack[i+16:]))
		z3 := match(binary.LittleEndian.Uint64(haystack[i+24:]))
		if z0|z1|z2|z3 == 0 {
			continue
		}
		switch {
		case z0 != 0:
			return i + firstIn(z0)
		case z1 != 0:
			return i + 8 + firstIn(z1)
		case z2 != 0:
			return i + 16 + firstIn(z2)
		default:
			return i + 24 + firstIn(z3)
		}
	}
	if j := memchrGeneric(haystack[i:], n1, n2, n3); j >= 0 {
		return i + j
	}
	return -1
}
