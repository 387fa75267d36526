package lsb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcomorek/stegimg/internal/header"
	"github.com/pcomorek/stegimg/internal/traverse"
)

// memGrid is a plain in-memory RGB grid for engine tests.
type memGrid struct {
	w, h int
	px   []uint8
}

func newMemGrid(w, h int) *memGrid {
	g := &memGrid{w: w, h: h, px: make([]uint8, w*h*3)}
	for i := range g.px {
		// deterministic odd channel values: every untouched LSB is 1,
		// so a detection trial reading only untouched pixels decodes
		// method code 7 and never matches by accident
		g.px[i] = uint8(2*i + 101)
	}
	return g
}

func (g *memGrid) Width() int  { return g.w }
func (g *memGrid) Height() int { return g.h }
func (g *memGrid) At(x, y, ch int) uint8 {
	return g.px[(y*g.w+x)*3+ch]
}
func (g *memGrid) Set(x, y, ch int, v uint8) {
	g.px[(y*g.w+x)*3+ch] = v
}

func (g *memGrid) clone() *memGrid {
	c := &memGrid{w: g.w, h: g.h, px: make([]uint8, len(g.px))}
	copy(c.px, g.px)
	return c
}

func patternBits(n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = i%3 == 0 || i%7 == 0
	}
	return bits
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	for m := traverse.All; m <= traverse.Border; m++ {
		t.Run(m.String(), func(t *testing.T) {
			g := newMemGrid(40, 30)
			avail, err := traverse.Capacity(40, 30, m)
			require.NoError(t, err)

			bits := patternBits(avail / 2)
			require.NoError(t, Embed(g, bits, m))

			got, err := ExtractRange(g, m, 0, len(bits)-1)
			require.NoError(t, err)
			assert.Equal(t, bits, got)
		})
	}
}

func TestEmbedCapacityBoundary(t *testing.T) {
	for m := traverse.All; m <= traverse.Border; m++ {
		t.Run(m.String(), func(t *testing.T) {
			avail, err := traverse.Capacity(12, 9, m)
			require.NoError(t, err)

			g := newMemGrid(12, 9)
			assert.NoError(t, Embed(g, patternBits(avail), m))

			err = Embed(g, patternBits(avail+1), m)
			require.ErrorIs(t, err, ErrCapacity)
			assert.Contains(t, err.Error(), "need")
		})
	}
}

func TestEmbedFailureLeavesGridUntouched(t *testing.T) {
	g := newMemGrid(4, 4)
	before := g.clone()
	err := Embed(g, patternBits(4*4*3+1), traverse.All)
	require.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, before.px, g.px)
}

func TestEmbedTouchesOnlyLSBs(t *testing.T) {
	g := newMemGrid(20, 20)
	before := g.clone()
	bits := patternBits(200)
	require.NoError(t, Embed(g, bits, traverse.All))

	for i := range g.px {
		assert.Equal(t, before.px[i]&0xFE, g.px[i]&0xFE, "high bits at slot %d", i)
	}
	// slots past the written range are bit-for-bit identical
	assert.Equal(t, before.px[len(bits):], g.px[len(bits):])
}

func TestExtractRangeEdges(t *testing.T) {
	g := newMemGrid(5, 5)

	t.Run("inverted_range_is_empty", func(t *testing.T) {
		bits, err := ExtractRange(g, traverse.All, 580, 579)
		require.NoError(t, err)
		assert.Empty(t, bits)
	})
	t.Run("range_past_last_slot_truncates", func(t *testing.T) {
		bits, err := ExtractRange(g, traverse.All, 0, 5*5*3+50)
		require.NoError(t, err)
		assert.Len(t, bits, 5*5*3)
	})
	t.Run("unknown_method", func(t *testing.T) {
		_, err := ExtractRange(g, traverse.Method(7), 0, 10)
		assert.Error(t, err)
	})
}

func TestExtractRangeOffset(t *testing.T) {
	g := newMemGrid(10, 10)
	bits := patternBits(120)
	require.NoError(t, Embed(g, bits, traverse.Even))

	got, err := ExtractRange(g, traverse.Even, 40, 79)
	require.NoError(t, err)
	assert.Equal(t, bits[40:80], got)
}

func TestDetectHeader(t *testing.T) {
	for m := traverse.All; m <= traverse.Border; m++ {
		t.Run(m.String(), func(t *testing.T) {
			g := newMemGrid(200, 4)
			h := header.Header{
				IsFile:   true,
				Method:   m,
				Filename: "payload.bin",
				StartBit: header.SizeBits,
				EndBit:   header.SizeBits + 15,
			}
			bits, err := h.Build()
			require.NoError(t, err)
			require.NoError(t, Embed(g, append(bits, patternBits(16)...), m))

			got, err := DetectHeader(context.Background(), g, nil)
			require.NoError(t, err)
			assert.Equal(t, h, got)
		})
	}
}

func TestDetectHeaderNone(t *testing.T) {
	t.Run("all_lsbs_set", func(t *testing.T) {
		// every trial decodes method code 7, matching none of them
		g := newMemGrid(100, 10)
		for i := range g.px {
			g.px[i] |= 1
		}
		_, err := DetectHeader(context.Background(), g, nil)
		assert.ErrorIs(t, err, ErrNoHeader)
	})
	t.Run("image_smaller_than_header", func(t *testing.T) {
		g := newMemGrid(3, 3)
		_, err := DetectHeader(context.Background(), g, nil)
		assert.ErrorIs(t, err, ErrNoHeader)
	})
}

func TestDetectHeaderRestrictedTrials(t *testing.T) {
	g := newMemGrid(200, 4)
	h := header.Header{Method: traverse.Odd, Filename: "t", StartBit: header.SizeBits, EndBit: header.SizeBits + 7}
	bits, err := h.Build()
	require.NoError(t, err)
	require.NoError(t, Embed(g, append(bits, patternBits(8)...), traverse.Odd))

	_, err = DetectHeader(context.Background(), g, []traverse.Method{traverse.All, traverse.Border})
	assert.ErrorIs(t, err, ErrNoHeader)

	got, err := DetectHeader(context.Background(), g, []traverse.Method{traverse.Odd})
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDetectHeaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DetectHeader(ctx, newMemGrid(100, 10), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
