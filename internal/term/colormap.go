package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/tessera-ui/tessera/internal/grid"
)

// The 8 standard terminal colors. tcell uses W3C names for the base
// palette: Maroon is terminal red, Olive is yellow, Navy is blue,
// Purple is magenta, Teal is cyan, Silver is white.
const (
	basicBlack   = tcell.ColorBlack
	basicRed     = tcell.ColorMaroon
	basicGreen   = tcell.ColorGreen
	basicYellow  = tcell.ColorOlive
	basicBlue    = tcell.ColorNavy
	basicMagenta = tcell.ColorPurple
	basicCyan    = tcell.ColorTeal
	basicWhite   = tcell.ColorSilver
)

// approximateBasic maps an RGB color onto one of the 8 standard
// terminal colors using a dominant-channel heuristic.
//
// This is deliberately not a nearest-color search: the thresholds are
// tuned so common UI colors (directory yellow, executable green,
// selection blue) land on the palette entry a user expects, which a
// straight Euclidean distance would not always pick.
func approximateBasic(c grid.RGB) tcell.Color {
	r, g, b := int(c.R), int(c.G), int(c.B)

	brightness := (r + g + b) / 3
	if brightness < 30 {
		return basicBlack
	}
	if brightness > 200 {
		return basicWhite
	}

	// Gray tones map to white for visibility on dark backgrounds.
	saturation := max(r, g, b) - min(r, g, b)
	if saturation < 40 {
		return basicWhite
	}

	switch {
	case r > 180 && g > 180 && b < 150:
		return basicYellow
	case g > max(r, b)+50:
		return basicGreen
	case b > max(r, g)+30:
		return basicBlue
	case g > 180 && b > 180 && r < 100:
		return basicCyan
	case r > 180 && b > 180 && g < 100:
		return basicMagenta
	case r > max(g, b)+50:
		return basicRed
	case r > 180 && g > 180:
		return basicYellow
	}
	return basicWhite
}
