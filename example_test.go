package stegimg_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/pcomorek/stegimg"
	"github.com/pcomorek/stegimg/imgio"
)

func Example() {
	// Create a simple gradient image (200x200 pixels)
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / 200),
				G: uint8(y * 255 / 200),
				B: uint8((x + y) * 255 / 400),
				A: 255,
			})
		}
	}

	// Hide a text payload in the least-significant bits
	grid := imgio.FromImage(img)
	ctx := context.Background()
	if _, err := stegimg.HideText(ctx, grid, "The cake is a lie.", stegimg.MethodAll); err != nil {
		fmt.Println("hide:", err)
		return
	}

	// Round-trip the stego image through its lossless container
	var buf bytes.Buffer
	if err := imgio.Encode(&buf, grid, ".png"); err != nil {
		fmt.Println("encode:", err)
		return
	}
	loaded, err := imgio.Decode(&buf)
	if err != nil {
		fmt.Println("decode:", err)
		return
	}

	// Recover the payload without knowing the storage method
	payload, err := stegimg.Extract(ctx, loaded)
	if err != nil {
		fmt.Println("extract:", err)
		return
	}
	fmt.Println(payload.Filename)
	fmt.Println(payload.Text())

	// Output:
	// user_text.txt
	// The cake is a lie.
}

func ExampleHideFile() {
	grid := imgio.FromImage(image.NewNRGBA(image.Rect(0, 0, 64, 64)))

	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := stegimg.HideFile(context.Background(), grid, data, "tiny.bin", stegimg.MethodBorder); err != nil {
		fmt.Println("hide:", err)
		return
	}

	payload, err := stegimg.Extract(context.Background(), grid)
	if err != nil {
		fmt.Println("extract:", err)
		return
	}
	fmt.Printf("%s: %x\n", payload.Filename, payload.Data)

	// Output:
	// tiny.bin: deadbeef
}
