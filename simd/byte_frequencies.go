package simd

// ByteFrequencies ranks bytes by how often they appear in typical text and
// source code. Lower rank means rarer, which makes a better anchor for
// substring search.
var ByteFrequencies = [256]byte{
	// 0x00-0x1F: control characters
	0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	// 0x20-0x2F: Space, punctuation
	255, 60, 140, 50, 40, 35, 30, 160, 130, 130, 80, 55, 200, 140, 210, 100,
	// 0x30-0x3F: Digits and more punctuation
	180, 190, 170, 150, 140, 140, 130, 120, 120, 120, 150, 100, 70, 160, 70, 50,
	// 0x40-0x4F: '@' and uppercase A-O
	25, 120, 80, 90, 85, 130, 75, 70, 80, 115, 30, 35, 90, 85, 100, 105,
	// 0x50-0x5F: Uppercase P-Z and brackets
	80, 15, 100, 110, 115, 70, 45, 55, 20, 50, 10, 90, 60, 90, 20, 110,
	// 0x60-0x6F: Backtick and lowercase a-o
	30, 225, 140, 170, 165, 245, 135, 130, 150, 200, 25, 65, 175, 155, 195, 205,
	// 0x70-0x7F: Lowercase p-z and braces
	145, 15, 195, 200, 215, 150, 75, 95, 45, 120, 20, 85, 40, 85, 15, 0,
	// 0x80-0xFF: non-ASCII and UTF-8 continuation bytes
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
}

// ByteRank returns the frequency rank of b. Lower values are rarer.
func ByteRank(b byte) byte {
	return ByteFrequencies[b]
}

// RarestByte returns the rarest byte of needle and its index, preferring
// the later position on ties. It returns (0, -1) for an empty needle.
func RarestByte(needle []byte) (byte, int) {
	if len(needle) == 0 {
		return 0, -1
	}
	idx := len(needle) - 1
	for i := len(needle) - 2; i >= 0; i-- {
		if ByteFrequencies[needle[i]] < ByteFrequencies[needle[idx]] {
			idx = i
		}
	}
	return needle[idx], idx
}
