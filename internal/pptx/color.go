package pptx

import (
	"fmt"
	"strconv"
)

// RGB is an sRGB colour as written to a:srgbClr.
type RGB struct {
	R, G, B uint8
}

// Hex returns the upper-case six digit form used in the val attribute.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}

// ParseRGB parses a six digit hex colour such as "4DBFAF".
func ParseRGB(hex string) (RGB, error) {
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("pptx: invalid colour %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("pptx: invalid colour %q: %w", hex, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
