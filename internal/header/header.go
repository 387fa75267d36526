// Package header serializes the fixed-size metadata record that
// precedes every embedded payload. The layout is a frozen wire
// format shared with other implementations:
//
//	1 bit   payload type (1 = file, 0 = text)
//	3 bits  storage method code of the payload
//	512 bits filename, 64 bytes NUL-padded on the right
//	32 bits  first payload bit offset, big-endian
//	32 bits  last payload bit offset, big-endian, inclusive
package header

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pcomorek/stegimg/internal/bitconv"
	"github.com/pcomorek/stegimg/internal/traverse"
)

const (
	// SizeBits is the exact bit length of a serialized header.
	SizeBits = 1 + 3 + MaxFilename*8 + 32 + 32

	// MaxFilename is the filename capacity in bytes. Longer names
	// are truncated, shorter ones NUL-padded.
	MaxFilename = 64
)

// ErrShort reports a candidate bit sequence too small to hold a header.
var ErrShort = errors.New("header candidate shorter than 580 bits")

// Header is the decoded metadata record.
type Header struct {
	IsFile   bool
	Method   traverse.Method
	Filename string
	// StartBit and EndBit are flat bit addresses in the traversal
	// sequence declared by Method. EndBit is inclusive; an empty
	// payload has EndBit == StartBit-1.
	StartBit uint32
	EndBit   uint32
}

// Build serializes h into exactly SizeBits bits.
func (h Header) Build() ([]bool, error) {
	name, err := bitconv.TextToBytes(h.Filename)
	if err != nil {
		return nil, fmt.Errorf("filename: %w", err)
	}
	if len(name) > MaxFilename {
		name = name[:MaxFilename]
	}
	padded := make([]byte, MaxFilename)
	copy(padded, name)

	bits := make([]bool, 0, SizeBits)
	bits = append(bits, h.IsFile)
	bits = appendUint(bits, uint32(h.Method), 3)
	bits = append(bits, bitconv.BytesToBools(padded)...)
	bits = appendUint(bits, h.StartBit, 32)
	bits = appendUint(bits, h.EndBit, 32)
	return bits, nil
}

// Parse decodes a header from the first SizeBits entries of bits.
// It fails with ErrShort when fewer bits are available; it never
// inspects anything past the fixed size.
func Parse(bits []bool) (Header, error) {
	if len(bits) < SizeBits {
		return Header{}, fmt.Errorf("%w: got %d", ErrShort, len(bits))
	}
	var h Header
	off := 0

	h.IsFile = bits[off]
	off++

	h.Method = traverse.Method(readUint(bits[off : off+3]))
	off += 3

	name := bitconv.BoolsToBytes(bits[off : off+MaxFilename*8])
	h.Filename = strings.TrimRight(bitconv.BytesToText(name), "\x00")
	off += MaxFilename * 8

	h.StartBit = readUint(bits[off : off+32])
	off += 32
	h.EndBit = readUint(bits[off : off+32])
	return h, nil
}

// PayloadBits returns the declared payload length in bits.
func (h Header) PayloadBits() int {
	if h.EndBit < h.StartBit {
		return 0
	}
	return int(h.EndBit-h.StartBit) + 1
}

func appendUint(bits []bool, v uint32, width int) []bool {
	for i := width - 1; i >= 0; i-- {
		bits = append(bits, (v>>uint(i))&1 == 1)
	}
	return bits
}

func readUint(bits []bool) uint32 {
	var v uint32
	for _, bit := range bits {
		v <<= 1
		if bit {
			v |= 1
		}
	}
	return v
}
