// Package bitconv converts between byte sequences and bit sequences.
// Bits are ordered MSB-first: the first bit of a stream is the most
// significant bit of the first byte.
package bitconv

import "fmt"

// BytesToBools expands each byte into 8 bits, most significant first.
func BytesToBools(b []byte) []bool {
	bits := make([]bool, 0, len(b)*8)
	for _, bb := range b {
		for i := 7; i >= 0; i-- {
			bits = append(bits, ((bb>>uint(i))&1) == 1)
		}
	}
	return bits
}

// BoolsToBytes packs bits back into bytes, most significant first.
// A trailing group of fewer than 8 bits is right-padded with zero
// bits. Callers that need exact payload boundaries must pass an exact
// multiple of 8 bits; the padding is a completion rule, not a format.
func BoolsToBytes(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// TextToBytes maps a string to one byte per code point. Code points
// above 0xFF have no single-byte representation and are rejected
// rather than silently truncated.
func TextToBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("code point %q (U+%04X) exceeds single-byte range", r, r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

// BytesToText is the inverse of TextToBytes: each byte becomes one
// code point in the 0x00-0xFF range.
func BytesToText(b []byte) string {
	runes := make([]rune, len(b))
	for i, bb := range b {
		runes[i] = rune(bb)
	}
	return string(runes)
}
