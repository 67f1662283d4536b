package grid

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// NewRGB validates that each component is in [0, 255] and returns the
// color. Components arrive as ints because callers (theme files, config)
// deal in untyped numbers.
func NewRGB(r, g, b int) (RGB, error) {
	for _, c := range []int{r, g, b} {
		if c < 0 || c > 255 {
			return RGB{}, fmt.Errorf("color component %d out of range [0, 255]", c)
		}
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// RGBFromHex parses a "#rrggbb" or "#rgb" string.
func RGBFromHex(hex string) (RGB, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGB{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Packed returns the color as 0xRRGGBB. Packed values key the native
// backend's color and attribute caches.
func (c RGB) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return c.Hex()
}

// Pair is a registered foreground/background color combination.
type Pair struct {
	FG RGB
	BG RGB
}

// Default colors for pair 0.
var (
	// DefaultFG is white.
	DefaultFG = RGB{R: 255, G: 255, B: 255}

	// DefaultBG is black.
	DefaultBG = RGB{R: 0, G: 0, B: 0}
)
