// Package grid provides the shared character-grid data model: cells,
// attributes, RGB colors, the color-pair table, and the grid itself.
//
// The grid is a plain 2D store of cells. It performs no drawing of its
// own; backends mutate it through draw operations and consume it during
// their render pass.
package grid

import "strings"

// Attr is a bitmask of text attributes applied to a cell.
type Attr uint8

const (
	// AttrBold renders the glyph with a bold face.
	AttrBold Attr = 1 << iota

	// AttrUnderline draws an underline beneath the glyph.
	AttrUnderline

	// AttrReverse swaps the foreground and background colors.
	AttrReverse
)

// AttrNone is the zero attribute set.
const AttrNone Attr = 0

// Has reports whether all bits in mask are set.
func (a Attr) Has(mask Attr) bool {
	return a&mask == mask
}

// With returns a copy with the given bits set.
func (a Attr) With(mask Attr) Attr {
	return a | mask
}

// Without returns a copy with the given bits cleared.
func (a Attr) Without(mask Attr) Attr {
	return a &^ mask
}

// String returns a readable representation like "bold|underline".
func (a Attr) String() string {
	if a == AttrNone {
		return "none"
	}
	var parts []string
	if a.Has(AttrBold) {
		parts = append(parts, "bold")
	}
	if a.Has(AttrUnderline) {
		parts = append(parts, "underline")
	}
	if a.Has(AttrReverse) {
		parts = append(parts, "reverse")
	}
	return strings.Join(parts, "|")
}
