// Package render defines the backend-agnostic renderer contract: the
// Renderer interface, the unified input event types, the error
// taxonomy, and shared drawing primitives composed from DrawText.
//
// Backends (terminal, native window) implement Renderer with identical
// observable behavior; the compositor and application depend only on
// this package.
package render

import (
	"strings"
	"time"

	"github.com/tessera-ui/tessera/internal/grid"
)

// Renderer is the abstract drawing and input contract every backend
// implements.
//
// All coordinates are (row, col) with origin at the top-left. Draw
// operations clip silently at the grid edges and no-op for
// out-of-range rows; they never fail. Drawing mutates backend state
// only; nothing is visible until Refresh.
type Renderer interface {
	// Init acquires backend resources (terminal mode, window, font).
	// Failure wraps ErrInitialization or ErrInvalidFont.
	Init() error

	// Shutdown releases resources. Safe to call after a failed or
	// partial Init, and safe to call twice.
	Shutdown()

	// Size returns the grid dimensions, always positive.
	Size() (rows, cols int)

	// Clear resets every cell to a space with default attributes.
	Clear()

	// ClearRegion resets an h x w region anchored at (row, col),
	// clamped to the grid.
	ClearRegion(row, col, h, w int)

	// DrawText writes text at (row, col), clipping at the right edge.
	DrawText(row, col int, text string, pair uint8, attrs grid.Attr)

	// DrawHLine draws length copies of glyph across a row.
	DrawHLine(row, col, length int, glyph string, pair uint8, attrs grid.Attr)

	// DrawVLine draws length copies of glyph down a column.
	DrawVLine(row, col, length int, glyph string, pair uint8, attrs grid.Attr)

	// DrawRect draws an h x w rectangle of glyph, filled or outline.
	DrawRect(row, col, h, w int, glyph string, pair uint8, attrs grid.Attr, filled bool)

	// InitColorPair registers pair id with the given colors. Id must
	// be in [1, 255]; failure wraps ErrInvalidArgument and leaves the
	// color table unchanged.
	InitColorPair(id int, fg, bg grid.RGB) error

	// Refresh makes all pending drawing visible.
	Refresh()

	// RefreshRegion makes an h x w region visible. Backends without
	// partial updates may refresh everything.
	RefreshRegion(row, col, h, w int)

	// PollEvent returns the next input event. A negative timeout
	// blocks, zero polls, positive waits up to the duration. ok is
	// false when the timeout expires with no event.
	PollEvent(timeout time.Duration) (ev Event, ok bool)

	// SetCursorVisible shows or hides the cell cursor.
	SetCursorVisible(visible bool)

	// MoveCursor positions the cell cursor.
	MoveCursor(row, col int)

	// SetCaretPosition positions the input-method composition caret.
	// No-op on backends without IME integration.
	SetCaretPosition(row, col int)

	// SetMenu installs the native menu bar. No-op on terminals.
	SetMenu(menu *Menu)

	// Suspend releases the device for a shell-out; Resume reclaims
	// it. No-ops on windowed backends.
	Suspend() error
	Resume() error
}

// Menu describes a native menu bar.
type Menu struct {
	Groups []MenuGroup
}

// MenuGroup is one top-level menu.
type MenuGroup struct {
	Title string
	Items []MenuItem
}

// MenuItem is one selectable entry. Selections arrive as
// MenuEvent{ItemID}.
type MenuItem struct {
	ID        string
	Label     string
	Separator bool
}

// TextDrawer is the subset of Renderer the shared primitives need.
type TextDrawer interface {
	DrawText(row, col int, text string, pair uint8, attrs grid.Attr)
}

// HLine draws a horizontal run of glyph. Backends delegate DrawHLine
// here so line and rectangle behavior stays identical across them.
func HLine(d TextDrawer, row, col, length int, glyph string, pair uint8, attrs grid.Attr) {
	if length <= 0 {
		return
	}
	d.DrawText(row, col, strings.Repeat(glyph, length), pair, attrs)
}

// VLine draws a vertical run of glyph.
func VLine(d TextDrawer, row, col, length int, glyph string, pair uint8, attrs grid.Attr) {
	for i := 0; i < length; i++ {
		d.DrawText(row+i, col, glyph, pair, attrs)
	}
}

// Rect draws an h x w rectangle of glyph. Filled rectangles paint
// every cell; outlines paint the border only.
func Rect(d TextDrawer, row, col, h, w int, glyph string, pair uint8, attrs grid.Attr, filled bool) {
	if h <= 0 || w <= 0 {
		return
	}
	if filled {
		for r := 0; r < h; r++ {
			HLine(d, row+r, col, w, glyph, pair, attrs)
		}
		return
	}
	HLine(d, row, col, w, glyph, pair, attrs)
	if h > 1 {
		HLine(d, row+h-1, col, w, glyph, pair, attrs)
	}
	for r := 1; r < h-1; r++ {
		d.DrawText(row+r, col, glyph, pair, attrs)
		if w > 1 {
			d.DrawText(row+r, col+w-1, glyph, pair, attrs)
		}
	}
}
