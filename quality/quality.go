// Package quality measures the visual cost of an embedding by
// comparing the stego grid against the original.
package quality

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pcomorek/stegimg/imgio"
	"github.com/pcomorek/stegimg/internal/traverse"
)

// ErrShapeMismatch reports grids of different dimensions.
var ErrShapeMismatch = errors.New("grids have different dimensions")

// MSE returns the mean squared error over all channel values of the
// two grids.
func MSE(a, b *imgio.RGBGrid) (float64, error) {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return 0, ErrShapeMismatch
	}
	n := a.Width() * a.Height() * traverse.Channels
	if n == 0 {
		return 0, nil
	}
	diff := make([]float64, 0, n)
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			for ch := 0; ch < traverse.Channels; ch++ {
				diff = append(diff, float64(a.At(x, y, ch))-float64(b.At(x, y, ch)))
			}
		}
	}
	return floats.Dot(diff, diff) / float64(n), nil
}

// PSNR returns the peak signal-to-noise ratio in decibels for 8-bit
// channels. Identical grids give +Inf.
func PSNR(a, b *imgio.RGBGrid) (float64, error) {
	mse, err := MSE(a, b)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 20*math.Log10(255) - 10*math.Log10(mse), nil
}
