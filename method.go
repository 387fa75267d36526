package stegimg

import (
	"fmt"

	"github.com/pcomorek/stegimg/internal/traverse"
)

// Method selects the deterministic pixel traversal used for
// embedding. The numeric codes 0-3 are part of the image wire format
// shared with other implementations and must not be renumbered.
type Method = traverse.Method

const (
	// MethodAll embeds into every pixel in row-major order.
	MethodAll Method = traverse.All
	// MethodEven embeds into pixels at even positions of the
	// row-major scan.
	MethodEven Method = traverse.Even
	// MethodOdd embeds into pixels at odd positions of the
	// row-major scan.
	MethodOdd Method = traverse.Odd
	// MethodBorder embeds only into the outermost pixel ring.
	MethodBorder Method = traverse.Border
)

// Methods lists the four storage methods in protocol order, which is
// also the order blind detection tries them in.
func Methods() []Method {
	return []Method{MethodAll, MethodEven, MethodOdd, MethodBorder}
}

// ParseMethod resolves a method from its name ("all", "even", "odd",
// "border") or numeric code ("0".."3").
func ParseMethod(s string) (Method, error) {
	switch s {
	case "all", "0":
		return MethodAll, nil
	case "even", "1":
		return MethodEven, nil
	case "odd", "2":
		return MethodOdd, nil
	case "border", "3":
		return MethodBorder, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}
