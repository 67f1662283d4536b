package grid

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cell is one character position in the grid.
//
// Glyph is a single grapheme cluster, not necessarily a single rune
// (combining marks and emoji sequences stay together). A wide glyph
// occupies two adjacent cells: the first holds the glyph, the second is
// a continuation cell with an empty Glyph that must never be drawn on
// its own.
type Cell struct {
	// Glyph is the grapheme cluster to display. Empty for continuation
	// cells.
	Glyph string

	// Pair is the color-pair id, an index into the ColorTable.
	Pair uint8

	// Attrs is the attribute bitmask.
	Attrs Attr
}

// EmptyCell returns a space cell with default colors and no attributes.
func EmptyCell() Cell {
	return Cell{Glyph: " "}
}

// IsContinuation reports whether this is the trailing half of a wide
// glyph.
func (c Cell) IsContinuation() bool {
	return c.Glyph == ""
}

// IsBlank reports whether the cell shows nothing beyond its background.
func (c Cell) IsBlank() bool {
	return c.Glyph == " " || c.Glyph == ""
}

// Width returns the number of columns the cell's glyph occupies:
// 0 for continuation cells, 2 for wide glyphs, otherwise 1.
func (c Cell) Width() int {
	if c.IsContinuation() {
		return 0
	}
	return GlyphWidth(c.Glyph)
}

// GlyphWidth returns the display width of a grapheme cluster, clamped
// to [1, 2]. Zero-width input (a bare combining mark) still occupies
// one cell when stored alone.
func GlyphWidth(g string) int {
	w := runewidth.StringWidth(g)
	if w < 1 {
		return 1
	}
	if w > 2 {
		return 2
	}
	return w
}

// CellsFrom segments text into cells, inserting continuation cells
// after wide glyphs. The resulting slice length equals the display
// width of the text.
func CellsFrom(text string, pair uint8, attrs Attr) []Cell {
	cells := make([]Cell, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		glyph := g.Str()
		cells = append(cells, Cell{Glyph: glyph, Pair: pair, Attrs: attrs})
		if GlyphWidth(glyph) == 2 {
			cells = append(cells, Cell{Pair: pair, Attrs: attrs})
		}
	}
	return cells
}
