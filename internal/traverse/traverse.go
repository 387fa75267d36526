// Package traverse plans the deterministic pixel orders used for
// embedding and extraction. Every method filters the same canonical
// row-major scan, so the i-th emitted coordinate is reproducible for
// a given (width, height, method) triple.
package traverse

import "fmt"

// Method selects which pixels of an image participate in embedding
// and in which order. The numeric codes are part of the image wire
// format and must not change.
type Method uint8

const (
	// All visits every pixel of the canonical row-major scan.
	All Method = 0
	// Even keeps pixels whose canonical scan index is even.
	Even Method = 1
	// Odd keeps pixels whose canonical scan index is odd.
	Odd Method = 2
	// Border keeps only the outermost pixel ring: the top and bottom
	// rows interleaved per column, then the left and right columns
	// interleaved per row. Corners belong to the rows.
	Border Method = 3
)

// Channels is the number of bit slots contributed by one coordinate,
// one per RGB channel.
const Channels = 3

func (m Method) String() string {
	switch m {
	case All:
		return "all"
	case Even:
		return "even"
	case Odd:
		return "odd"
	case Border:
		return "border"
	}
	return fmt.Sprintf("method(%d)", uint8(m))
}

// Valid reports whether m is one of the four protocol methods.
func (m Method) Valid() bool {
	return m <= Border
}

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Positions returns the ordered coordinates eligible for embedding
// under m. The result is identical across calls for the same inputs.
func Positions(width, height int, m Method) ([]Point, error) {
	switch m {
	case All:
		pos := make([]Point, 0, width*height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				pos = append(pos, Point{x, y})
			}
		}
		return pos, nil

	case Even, Odd:
		want := 0
		if m == Odd {
			want = 1
		}
		pos := make([]Point, 0, (width*height+1)/2)
		count := 0
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if count%2 == want {
					pos = append(pos, Point{x, y})
				}
				count++
			}
		}
		return pos, nil

	case Border:
		var pos []Point
		for x := 0; x < width; x++ {
			pos = append(pos, Point{x, 0})
			if height > 1 {
				pos = append(pos, Point{x, height - 1})
			}
		}
		for y := 1; y < height-1; y++ {
			pos = append(pos, Point{0, y})
			if width > 1 {
				pos = append(pos, Point{width - 1, y})
			}
		}
		return pos, nil
	}
	return nil, fmt.Errorf("storage method code %d outside 0-%d", uint8(m), uint8(Border))
}

// Capacity returns the number of addressable bit slots for m:
// three per eligible coordinate.
func Capacity(width, height int, m Method) (int, error) {
	pos, err := Positions(width, height, m)
	if err != nil {
		return 0, err
	}
	return len(pos) * Channels, nil
}
