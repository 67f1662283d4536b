package native

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/tessera-ui/tessera/internal/render"
)

// lineSpacingFactor pads the measured glyph height so rows do not
// touch. Matches typical terminal line spacing.
const lineSpacingFactor = 1.2

// cellMetrics is the fixed pixel size of one grid cell.
type cellMetrics struct {
	W, H float32
}

// measureCell validates that the active monospace face really is
// fixed-pitch and derives the cell size from one glyph.
//
// A narrow and a wide run of equal length must measure the same width;
// a proportional face substituted through the environment fails here
// with ErrInvalidFont rather than producing a misaligned grid later.
func measureCell(size float32) (cellMetrics, error) {
	style := fyne.TextStyle{Monospace: true}
	narrow := fyne.MeasureText("iiiiiiiiii", size, style)
	wide := fyne.MeasureText("MMMMMMMMMM", size, style)
	if abs32(narrow.Width-wide.Width) > 0.5 {
		return cellMetrics{}, fmt.Errorf("%w: font is not fixed-pitch (%.1f vs %.1f)",
			render.ErrInvalidFont, narrow.Width, wide.Width)
	}

	one := fyne.MeasureText("M", size, style)
	if one.Width <= 0 || one.Height <= 0 {
		return cellMetrics{}, fmt.Errorf("%w: zero glyph metrics", render.ErrInvalidFont)
	}
	return cellMetrics{
		W: one.Width,
		H: one.Height * lineSpacingFactor,
	}, nil
}
