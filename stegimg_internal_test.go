package stegimg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcomorek/stegimg/imgio"
	"github.com/pcomorek/stegimg/internal/header"
	"github.com/pcomorek/stegimg/internal/lsb"
	"github.com/pcomorek/stegimg/internal/traverse"
)

// A damaged end offset near the top of the uint32 range must behave
// the same everywhere: clamped to the slots the image actually has,
// never wrapped negative where int is 32 bits wide.
func TestExtractCorruptEndOffset(t *testing.T) {
	const w, h = 20, 20
	g := imgio.NewRGBGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < 3; ch++ {
				g.Set(x, y, ch, uint8(x*19+y*7+ch*3)|1)
			}
		}
	}

	hdr := header.Header{
		Method:   traverse.All,
		Filename: DefaultTextFilename,
		StartBit: header.SizeBits,
		EndBit:   0xFFFFFFFF,
	}
	bits, err := hdr.Build()
	require.NoError(t, err)
	require.NoError(t, lsb.Embed(g, bits, traverse.All))

	got, err := Extract(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, DefaultTextFilename, got.Filename)

	slots, err := traverse.Capacity(w, h, traverse.All)
	require.NoError(t, err)
	payloadBits := slots - header.SizeBits
	require.Len(t, got.Data, (payloadBits+7)/8)
	// every carrier LSB past the header is untouched and reads 1
	for i := 0; i < payloadBits/8; i++ {
		assert.Equalf(t, byte(0xFF), got.Data[i], "byte %d", i)
	}
}

// An inverted range (end before start) in an otherwise valid header
// yields an empty payload rather than an error.
func TestExtractInvertedRange(t *testing.T) {
	const w, h = 20, 20
	g := imgio.NewRGBGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < 3; ch++ {
				g.Set(x, y, ch, uint8(x*19+y*7+ch*3)|1)
			}
		}
	}

	hdr := header.Header{
		Method:   traverse.All,
		Filename: DefaultTextFilename,
		StartBit: header.SizeBits,
		EndBit:   header.SizeBits - 1,
	}
	bits, err := hdr.Build()
	require.NoError(t, err)
	require.NoError(t, lsb.Embed(g, bits, traverse.All))

	got, err := Extract(context.Background(), g)
	require.NoError(t, err)
	assert.Empty(t, got.Data)
}
