// Package armor wraps payload bytes in a Golay error-correcting code
// before they are hidden in an image, so that a few damaged LSBs
// (e.g. an accidentally touched pixel) remain recoverable. The
// armored bytes are an opaque payload to the codec; the image wire
// format is unchanged and armoring is purely opt-in between the two
// ends.
//
// Layout: a 4-byte big-endian length of the original payload,
// followed by the Golay-coded bit stream packed MSB-first.
package armor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/golay"
)

var (
	// ErrTruncated reports armored data too short to carry its own
	// declared payload.
	ErrTruncated = errors.New("armored payload truncated")
)

// Option adjusts the armoring scheme. Both ends must use identical
// options.
type Option func(*codec)

type codec struct {
	shuffleSeed int64
	shuffled    bool
}

// WithShuffle deterministically permutes the coded bits so that a
// burst of damaged slots spreads across many codewords instead of
// overwhelming one. The same seed must be used for decoding.
func WithShuffle(seed int64) Option {
	return func(c *codec) {
		c.shuffleSeed = seed
		c.shuffled = true
	}
}

// Encode returns data wrapped in the Golay-coded armor layout.
func Encode(data []byte, opts ...Option) ([]byte, error) {
	var c codec
	for _, opt := range opts {
		opt(&c)
	}

	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, b := range data {
		w.Write8(0, 8, b)
	}
	var encoded []uint64
	enc := golay.NewEncoder(&encoded)
	if err := enc.Encode(w.Data(), w.Bits()); err != nil {
		return nil, fmt.Errorf("golay encode: %w", err)
	}
	encodedLen := enc.Bits()

	bits := wordsToBools(encoded, encodedLen)
	// pad to a byte boundary before shuffling so the decode side,
	// which only sees whole bytes, permutes the same bit count
	for len(bits)%8 != 0 {
		bits = append(bits, false)
	}
	if c.shuffled {
		applySwaps(bits, c.swaps(len(bits)), false)
	}

	out := make([]byte, 4+len(bits)/8)
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	for i, bit := range bits {
		if bit {
			out[4+i/8] |= 1 << uint(7-i%8)
		}
	}
	return out, nil
}

// Decode unwraps armored bytes, correcting what the Golay code can,
// and returns the original payload.
func Decode(data []byte, opts ...Option) ([]byte, error) {
	var c codec
	for _, opt := range opts {
		opt(&c)
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	n := int(binary.BigEndian.Uint32(data))
	coded := data[4:]

	bits := make([]bool, len(coded)*8)
	for i := range bits {
		bits[i] = coded[i/8]&(1<<uint(7-i%8)) != 0
	}
	if c.shuffled {
		applySwaps(bits, c.swaps(len(bits)), true)
	}

	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, bit := range bits {
		w.WriteBool(bit)
	}
	var decoded []byte
	if err := golay.DecodeBinay(w.Data(), &decoded); err != nil {
		return nil, fmt.Errorf("golay decode: %w", err)
	}
	if len(decoded) < n {
		return nil, fmt.Errorf("%w: declared %d bytes, decoded %d", ErrTruncated, n, len(decoded))
	}
	return decoded[:n], nil
}

// swaps records the swap sequence of the seeded shuffle so it can be
// replayed forwards for encoding and backwards for decoding.
func (c codec) swaps(n int) [][2]int {
	var swaps [][2]int
	rd := rand.New(rand.NewSource(c.shuffleSeed))
	rd.Shuffle(n, func(i, j int) {
		swaps = append(swaps, [2]int{i, j})
	})
	return swaps
}

func applySwaps(bits []bool, swaps [][2]int, reverse bool) {
	if reverse {
		for i := len(swaps) - 1; i >= 0; i-- {
			s := swaps[i]
			bits[s[0]], bits[s[1]] = bits[s[1]], bits[s[0]]
		}
		return
	}
	for _, s := range swaps {
		bits[s[0]], bits[s[1]] = bits[s[1]], bits[s[0]]
	}
}

func wordsToBools(words []uint64, n int) []bool {
	r := bitstream.NewBitReader(words, 0, 0)
	r.SetBits(n)
	bits := make([]bool, n)
	for i := range bits {
		bits[i], _ = r.ReadBitAt(i)
	}
	return bits
}
