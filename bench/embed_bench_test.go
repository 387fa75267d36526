package bench_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pcomorek/stegimg"
	"github.com/pcomorek/stegimg/imgio"
)

func coverGrid(w, h int) *imgio.RGBGrid {
	g := imgio.NewRGBGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < 3; ch++ {
				g.Set(x, y, ch, uint8(x^y+ch)|1)
			}
		}
	}
	return g
}

// BenchmarkHideFile_VGA embeds a 4kB payload into a 640x480 image
// with each storage method that can hold it.
func BenchmarkHideFile_VGA(b *testing.B) {
	payload := bytes.Repeat([]byte{0xC3}, 4096)
	for _, m := range []stegimg.Method{stegimg.MethodAll, stegimg.MethodEven, stegimg.MethodOdd} {
		b.Run(m.String(), func(b *testing.B) {
			src := coverGrid(640, 480)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				g := src.Clone()
				b.StartTimer()
				if err := stegimg.HideFile(context.Background(), g, payload, "bench.bin", m); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkExtract_VGA measures blind detection plus payload
// extraction on a 640x480 image.
func BenchmarkExtract_VGA(b *testing.B) {
	payload := bytes.Repeat([]byte{0x96}, 4096)
	for _, m := range []stegimg.Method{stegimg.MethodAll, stegimg.MethodEven, stegimg.MethodOdd} {
		b.Run(m.String(), func(b *testing.B) {
			g := coverGrid(640, 480)
			if err := stegimg.HideFile(context.Background(), g, payload, "bench.bin", m); err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := stegimg.Extract(context.Background(), g); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
