// Package stegimg hides arbitrary payloads in the least-significant
// bits of RGB images and recovers them blindly: a self-describing
// 580-bit header in front of the payload records the payload type,
// filename and bit range, and extraction finds the storage method by
// replaying the header read against every known pixel traversal.
//
// The codec requires a lossless round trip of the pixel data; any
// recompression or resampling between hiding and extraction destroys
// the embedded bits.
package stegimg

import (
	"context"
	"errors"
	"fmt"

	"github.com/pcomorek/stegimg/internal/bitconv"
	"github.com/pcomorek/stegimg/internal/header"
	"github.com/pcomorek/stegimg/internal/lsb"
	"github.com/pcomorek/stegimg/internal/traverse"
)

// DefaultTextFilename is recorded in the header when hiding text
// without an explicit filename option.
const DefaultTextFilename = "user_text.txt"

// HeaderBits is the fixed size of the metadata header. The payload
// always starts at this flat bit address.
const HeaderBits = header.SizeBits

var (
	// ErrInsufficientCapacity reports that header plus payload need
	// more bit slots than the chosen method can address.
	ErrInsufficientCapacity = errors.New("insufficient image capacity")

	// ErrNoValidHeader reports that blind detection exhausted all
	// trial methods without finding a self-consistent header.
	ErrNoValidHeader = errors.New("no valid header")

	// ErrHeaderTooShort reports a header candidate with fewer than
	// HeaderBits bits, i.e. an image too small to hold a header.
	ErrHeaderTooShort = errors.New("header too short")

	// ErrEncodingUnsupported reports text containing code points
	// outside the single-byte range the bit codec can represent.
	ErrEncodingUnsupported = errors.New("unsupported text encoding")

	// ErrUnknownMethod reports a storage method code outside 0-3.
	ErrUnknownMethod = errors.New("unknown storage method")
)

func errUnknownMethod(m Method) error {
	return fmt.Errorf("%w: code %d", ErrUnknownMethod, uint8(m))
}

// Payload is the result of a successful extraction.
type Payload struct {
	// IsFile distinguishes binary file payloads from text payloads.
	IsFile bool
	// Filename is the name recorded in the header, trailing NULs
	// stripped.
	Filename string
	// Data holds the raw payload bytes.
	Data []byte
}

// Text decodes Data as single-byte code points. It is only
// meaningful for payloads with IsFile == false.
func (p Payload) Text() string {
	return bitconv.BytesToText(p.Data)
}

// CapacityReport describes how a text payload fits the image. It is
// populated even when HideText fails the capacity check, so callers
// can report how much would have fit.
type CapacityReport struct {
	RequiredBits  int
	AvailableBits int
	// MaxTextLen is the longest single-byte text the image can hold
	// with this method after the header.
	MaxTextLen int
	// Utilization is RequiredBits / AvailableBits.
	Utilization float64
}

// HideFile embeds the bytes of a file into grid using the given
// storage method, mutating the grid in place. The recorded filename
// is truncated to 64 bytes. A capacity failure leaves the grid
// untouched.
func HideFile(ctx context.Context, grid Grid, data []byte, filename string, m Method, opts ...Option) error {
	if _, err := newSettings(opts); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return hide(grid, header.Header{IsFile: true, Filename: filename}, bitconv.BytesToBools(data), m)
}

// HideText embeds a text payload into grid, mutating it in place.
// The text must consist of single-byte code points; anything wider
// fails with ErrEncodingUnsupported. The returned report describes
// capacity usage whether or not the embedding succeeded.
func HideText(ctx context.Context, grid Grid, text string, m Method, opts ...Option) (CapacityReport, error) {
	s, err := newSettings(opts)
	if err != nil {
		return CapacityReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return CapacityReport{}, err
	}
	if !m.Valid() {
		return CapacityReport{}, errUnknownMethod(m)
	}

	data, err := bitconv.TextToBytes(text)
	if err != nil {
		return CapacityReport{}, fmt.Errorf("%w: %w", ErrEncodingUnsupported, err)
	}
	bits := bitconv.BytesToBools(data)

	// pre-flight capacity report, redundant with the embed engine's
	// own check: both must agree
	available, err := traverse.Capacity(grid.Width(), grid.Height(), m)
	if err != nil {
		return CapacityReport{}, fmt.Errorf("%w: %w", ErrUnknownMethod, err)
	}
	report := CapacityReport{
		RequiredBits:  HeaderBits + len(bits),
		AvailableBits: available,
	}
	if available > HeaderBits {
		report.MaxTextLen = (available - HeaderBits) / 8
	}
	if available > 0 {
		report.Utilization = float64(report.RequiredBits) / float64(available)
	}
	if report.RequiredBits > available {
		return report, fmt.Errorf("%w: need %d bits, available %d, at most %d characters",
			ErrInsufficientCapacity, report.RequiredBits, available, report.MaxTextLen)
	}

	return report, hide(grid, header.Header{IsFile: false, Filename: s.textFilename}, bits, m)
}

// Extract recovers the payload from a grid produced by HideFile or
// HideText without being told the storage method.
func Extract(ctx context.Context, grid Grid, opts ...Option) (Payload, error) {
	s, err := newSettings(opts)
	if err != nil {
		return Payload{}, err
	}

	h, err := lsb.DetectHeader(ctx, grid, s.trials)
	if err != nil {
		if errors.Is(err, lsb.ErrNoHeader) {
			if n, cerr := traverse.Capacity(grid.Width(), grid.Height(), traverse.All); cerr == nil && n < HeaderBits {
				return Payload{}, fmt.Errorf("%w: image holds only %d bits", ErrHeaderTooShort, n)
			}
			return Payload{}, fmt.Errorf("%w: %w", ErrNoValidHeader, err)
		}
		return Payload{}, err
	}

	// the wire offsets are 32-bit; clamp through int64 so a corrupt
	// value cannot wrap negative where int is 32 bits wide
	start, end := int64(h.StartBit), int64(h.EndBit)
	if n, cerr := traverse.Capacity(grid.Width(), grid.Height(), h.Method); cerr == nil && end > int64(n)-1 {
		end = int64(n) - 1
	}
	var bits []bool
	if start <= end {
		bits, err = lsb.ExtractRange(grid, h.Method, int(start), int(end))
		if err != nil {
			return Payload{}, err
		}
	}
	return Payload{
		IsFile:   h.IsFile,
		Filename: h.Filename,
		Data:     bitconv.BoolsToBytes(bits),
	}, nil
}

// Capacity returns the number of addressable bit slots of a
// width x height image under m, header included.
func Capacity(width, height int, m Method) (int, error) {
	n, err := traverse.Capacity(width, height, m)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnknownMethod, err)
	}
	return n, nil
}

// MaxPayloadBytes returns the largest payload, in whole bytes, that
// fits a width x height image under m once the header is accounted
// for.
func MaxPayloadBytes(width, height int, m Method) (int, error) {
	n, err := Capacity(width, height, m)
	if err != nil {
		return 0, err
	}
	if n <= HeaderBits {
		return 0, nil
	}
	return (n - HeaderBits) / 8, nil
}

// hide serializes the header for bits, concatenates the two streams
// and writes them along the traversal of m. The header always
// occupies the head of the traversal, so the payload begins at
// HeaderBits.
func hide(grid Grid, h header.Header, bits []bool, m Method) error {
	if !m.Valid() {
		return errUnknownMethod(m)
	}
	h.Method = m
	h.StartBit = HeaderBits
	h.EndBit = uint32(HeaderBits + len(bits) - 1)

	headerBits, err := h.Build()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingUnsupported, err)
	}
	if err := lsb.Embed(grid, append(headerBits, bits...), m); err != nil {
		if errors.Is(err, lsb.ErrCapacity) {
			return fmt.Errorf("%w: %w", ErrInsufficientCapacity, err)
		}
		return err
	}
	return nil
}
