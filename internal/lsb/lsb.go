// Package lsb reads and writes bit streams in the least-significant
// bits of RGB channel values, following the pixel orders produced by
// the traverse package.
package lsb

import (
	"context"
	"errors"
	"fmt"

	"github.com/pcomorek/stegimg/internal/header"
	"github.com/pcomorek/stegimg/internal/traverse"
)

// Grid is the pixel array the codec operates on: width x height
// coordinates with three 8-bit channels each (R=0, G=1, B=2).
// Embedding mutates it in place; extraction only reads it.
type Grid interface {
	Width() int
	Height() int
	At(x, y, channel int) uint8
	Set(x, y, channel int, v uint8)
}

var (
	// ErrCapacity reports a bit stream larger than the slots the
	// chosen method can address.
	ErrCapacity = errors.New("not enough pixel capacity")

	// ErrNoHeader reports that no traversal produced a header whose
	// declared method matches the traversal that read it.
	ErrNoHeader = errors.New("no valid header found")
)

// trialOrder is the fixed sequence of methods attempted during blind
// header detection. It matches the protocol's numeric order so that
// detection is reproducible across implementations.
var trialOrder = [...]traverse.Method{
	traverse.All,
	traverse.Even,
	traverse.Odd,
	traverse.Border,
}

// Embed writes bits into the LSBs of g along the traversal of m.
// Capacity is validated before the first write so a failed call
// never hands back a partially mutated grid. Slots past the last
// bit keep their original values.
func Embed(g Grid, bits []bool, m traverse.Method) error {
	pos, err := traverse.Positions(g.Width(), g.Height(), m)
	if err != nil {
		return err
	}
	if avail := len(pos) * traverse.Channels; len(bits) > avail {
		return fmt.Errorf("%w: need %d bits, available %d", ErrCapacity, len(bits), avail)
	}
	i := 0
	for _, p := range pos {
		for ch := 0; ch < traverse.Channels; ch++ {
			if i == len(bits) {
				return nil
			}
			v := g.At(p.X, p.Y, ch) &^ 1
			if bits[i] {
				v |= 1
			}
			g.Set(p.X, p.Y, ch, v)
			i++
		}
	}
	return nil
}

// ExtractRange collects the LSBs at flat bit addresses [start, end]
// (inclusive) of the traversal of m. The address of channel ch at
// coordinate rank r is 3*r+ch, mirroring Embed exactly. When the
// range extends past the last slot the available prefix is returned;
// an inverted range yields no bits.
func ExtractRange(g Grid, m traverse.Method, start, end int) ([]bool, error) {
	pos, err := traverse.Positions(g.Width(), g.Height(), m)
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, nil
	}
	// a corrupt header may declare a range far past the image; never
	// size the buffer beyond the slots that actually exist
	n := end - start + 1
	if max := len(pos) * traverse.Channels; n > max {
		n = max
	}
	bits := make([]bool, 0, n)
	addr := 0
	for _, p := range pos {
		for ch := 0; ch < traverse.Channels; ch++ {
			if addr > end {
				return bits, nil
			}
			if addr >= start {
				bits = append(bits, g.At(p.X, p.Y, ch)&1 == 1)
			}
			addr++
		}
	}
	return bits, nil
}

// DetectHeader recovers the header without being told the storage
// method: each candidate traversal is used to read the fixed-size
// header region, and a parse is accepted only when the method it
// declares is the one that read it. Parse failures fail the trial,
// not the detection.
func DetectHeader(ctx context.Context, g Grid, trials []traverse.Method) (header.Header, error) {
	if trials == nil {
		trials = trialOrder[:]
	}
	for _, m := range trials {
		if err := ctx.Err(); err != nil {
			return header.Header{}, err
		}
		bits, err := ExtractRange(g, m, 0, header.SizeBits-1)
		if err != nil {
			continue
		}
		h, err := header.Parse(bits)
		if err != nil {
			continue
		}
		if h.Method == m {
			return h, nil
		}
	}
	return header.Header{}, fmt.Errorf("%w: tried %d storage methods", ErrNoHeader, len(trials))
}
