// Package imgio adapts decoded images to the codec's pixel grid and
// handles reading and writing the lossless container formats the
// codec depends on.
package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ErrLossyFormat reports an output format that would recompress the
// pixel data and destroy the embedded bits.
var ErrLossyFormat = errors.New("lossless image format required")

// RGBGrid is an in-memory RGB raster with 8 bits per channel. It
// implements the codec's Grid interface. Alpha is discarded on input
// and written back as opaque, matching the RGB-only wire format.
type RGBGrid struct {
	width, height int
	px            []uint8 // row-major, 3 bytes per pixel
}

// NewRGBGrid returns a zero-valued (black) grid.
func NewRGBGrid(width, height int) *RGBGrid {
	return &RGBGrid{width: width, height: height, px: make([]uint8, width*height*3)}
}

// FromImage copies the pixels of src into a new grid.
func FromImage(src image.Image) *RGBGrid {
	bounds := src.Bounds()
	g := NewRGBGrid(bounds.Dx(), bounds.Dy())
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, gr, b, _ := src.At(x, y).RGBA()
			g.px[idx] = uint8(r >> 8)
			g.px[idx+1] = uint8(gr >> 8)
			g.px[idx+2] = uint8(b >> 8)
			idx += 3
		}
	}
	return g
}

func (g *RGBGrid) Width() int  { return g.width }
func (g *RGBGrid) Height() int { return g.height }

// At returns the 8-bit value of channel ch (R=0, G=1, B=2) at (x, y).
func (g *RGBGrid) At(x, y, ch int) uint8 {
	return g.px[(y*g.width+x)*3+ch]
}

// Set replaces the 8-bit value of channel ch at (x, y).
func (g *RGBGrid) Set(x, y, ch int, v uint8) {
	g.px[(y*g.width+x)*3+ch] = v
}

// Clone returns an independent copy of the grid.
func (g *RGBGrid) Clone() *RGBGrid {
	c := NewRGBGrid(g.width, g.height)
	copy(c.px, g.px)
	return c
}

// Image rebuilds the grid as an opaque NRGBA image suitable for
// lossless encoding.
func (g *RGBGrid) Image() image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	idx := 0
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			dst.SetNRGBA(x, y, color.NRGBA{g.px[idx], g.px[idx+1], g.px[idx+2], 0xff})
			idx += 3
		}
	}
	return dst
}

// Load reads and decodes the image at path into a grid. PNG and BMP
// are registered; any format image.Decode knows about is accepted,
// since decoding is lossless once the file exists.
func Load(path string) (*RGBGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes an image stream into a grid.
func Decode(r io.Reader) (*RGBGrid, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(src), nil
}

// Save encodes the grid to path. The format follows the extension:
// .png and .bmp are supported, anything else fails with
// ErrLossyFormat since a lossy re-encode would corrupt the LSBs.
func Save(path string, g *RGBGrid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Encode(f, g, filepath.Ext(path))
}

// Encode writes the grid to w in the format named by ext.
func Encode(w io.Writer, g *RGBGrid, ext string) error {
	switch strings.ToLower(ext) {
	case ".png", "png":
		return png.Encode(w, g.Image())
	case ".bmp", "bmp":
		return bmp.Encode(w, g.Image())
	}
	return fmt.Errorf("%w: %q", ErrLossyFormat, ext)
}
