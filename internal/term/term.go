// Package term implements the renderer contract over a character-cell
// terminal using tcell.
//
// Color pairs are registered against the terminal palette at
// registration time: true-color terminals get exact RGB, everything
// else gets an approximation to the 8 standard colors. Draw operations
// write into tcell's back buffer; Refresh makes them visible.
package term

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tessera-ui/tessera/internal/grid"
	"github.com/tessera-ui/tessera/internal/render"
)

// Backend renders to a terminal. Not safe for concurrent use; all
// calls must come from the event/render thread.
type Backend struct {
	screen tcell.Screen
	pairs  *grid.ColorTable

	// fullColor is set when the terminal can represent arbitrary RGB.
	fullColor bool

	events chan render.Event
	quit   chan struct{}

	cursorVisible bool
	cursorRow     int
	cursorCol     int

	initialized bool
}

// Compile-time interface check.
var _ render.Renderer = (*Backend)(nil)

// New creates an uninitialized terminal backend.
func New() *Backend {
	return &Backend{
		pairs:  grid.NewColorTable(),
		events: make(chan render.Event, 128),
		quit:   make(chan struct{}),
	}
}

// Init acquires the terminal and starts the event pump.
func (b *Backend) Init() error {
	if b.initialized {
		return nil
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("%w: create screen: %s", render.ErrInitialization, err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("%w: init screen: %s", render.ErrInitialization, err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	b.screen = screen
	b.fullColor = screen.Colors() >= 256
	b.initialized = true

	go b.pump()
	return nil
}

// pump forwards tcell events to the unified queue until the screen is
// finalized. It runs on its own goroutine; PollEvent drains the
// channel from the render thread.
func (b *Backend) pump() {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		var out render.Event
		switch tev := ev.(type) {
		case *tcell.EventKey:
			out = convertKey(tev)
		case *tcell.EventMouse:
			x, y := tev.Position()
			out = render.MouseEvent{Row: y, Col: x, Button: convertButton(tev.Buttons())}
		case *tcell.EventResize:
			out = render.SystemEvent{Kind: render.SystemResize}
		default:
			continue
		}
		select {
		case b.events <- out:
		case <-b.quit:
			return
		}
	}
}

// Shutdown restores the terminal. Safe after partial init and safe to
// call twice.
func (b *Backend) Shutdown() {
	if !b.initialized {
		return
	}
	b.initialized = false
	close(b.quit)
	b.screen.Fini()
}

// Size returns the terminal dimensions as (rows, cols).
func (b *Backend) Size() (rows, cols int) {
	w, h := b.screen.Size()
	return max(h, 1), max(w, 1)
}

// style builds the tcell style for a pair/attribute combination.
// REVERSE is applied by swapping colors so behavior matches the
// windowed backend exactly.
func (b *Backend) style(pair uint8, attrs grid.Attr) tcell.Style {
	p := b.pairs.Effective(pair, attrs)
	return tcell.StyleDefault.
		Foreground(b.color(p.FG)).
		Background(b.color(p.BG)).
		Bold(attrs.Has(grid.AttrBold)).
		Underline(attrs.Has(grid.AttrUnderline))
}

func (b *Backend) color(c grid.RGB) tcell.Color {
	if b.fullColor {
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return approximateBasic(c)
}

// Clear resets the whole screen to spaces with the default pair.
func (b *Backend) Clear() {
	b.screen.Fill(' ', b.style(0, grid.AttrNone))
}

// ClearRegion resets a region to spaces, clamped to the screen.
func (b *Backend) ClearRegion(row, col, h, w int) {
	rows, cols := b.Size()
	style := b.style(0, grid.AttrNone)
	for r := max(row, 0); r < min(row+h, rows); r++ {
		for c := max(col, 0); c < min(col+w, cols); c++ {
			b.screen.SetContent(c, r, ' ', nil, style)
		}
	}
}

// DrawText writes text at (row, col), clipping at the right edge.
// Out-of-range rows are a no-op.
func (b *Backend) DrawText(row, col int, text string, pair uint8, attrs grid.Attr) {
	rows, cols := b.Size()
	if row < 0 || row >= rows {
		return
	}
	style := b.style(pair, attrs)
	for i, cell := range grid.CellsFrom(text, pair, attrs) {
		c := col + i
		if c < 0 || cell.IsContinuation() {
			continue
		}
		if c >= cols {
			break
		}
		runes := []rune(cell.Glyph)
		b.screen.SetContent(c, row, runes[0], runes[1:], style)
	}
}

// DrawHLine implements render.Renderer.
func (b *Backend) DrawHLine(row, col, length int, glyph string, pair uint8, attrs grid.Attr) {
	render.HLine(b, row, col, length, glyph, pair, attrs)
}

// DrawVLine implements render.Renderer.
func (b *Backend) DrawVLine(row, col, length int, glyph string, pair uint8, attrs grid.Attr) {
	render.VLine(b, row, col, length, glyph, pair, attrs)
}

// DrawRect implements render.Renderer.
func (b *Backend) DrawRect(row, col, h, w int, glyph string, pair uint8, attrs grid.Attr, filled bool) {
	render.Rect(b, row, col, h, w, glyph, pair, attrs, filled)
}

// InitColorPair registers a pair. The color table doubles as the
// terminal's only cache: styles are rebuilt from it on every draw.
func (b *Backend) InitColorPair(id int, fg, bg grid.RGB) error {
	if err := b.pairs.Set(id, fg, bg); err != nil {
		return fmt.Errorf("%w: %s", render.ErrInvalidArgument, err)
	}
	return nil
}

// Refresh flushes pending drawing to the terminal.
func (b *Backend) Refresh() {
	if b.cursorVisible {
		b.screen.ShowCursor(b.cursorCol, b.cursorRow)
	} else {
		b.screen.HideCursor()
	}
	b.screen.Show()
}

// RefreshRegion flushes pending drawing. The terminal device has no
// partial present, so this refreshes everything.
func (b *Backend) RefreshRegion(row, col, h, w int) {
	b.Refresh()
}

// PollEvent returns the next unified event per the shared timeout
// contract.
func (b *Backend) PollEvent(timeout time.Duration) (render.Event, bool) {
	if timeout < 0 {
		select {
		case ev := <-b.events:
			return ev, true
		case <-b.quit:
			return nil, false
		}
	}
	if timeout == 0 {
		select {
		case ev := <-b.events:
			return ev, true
		default:
			return nil, false
		}
	}
	select {
	case ev := <-b.events:
		return ev, true
	case <-time.After(timeout):
		return nil, false
	case <-b.quit:
		return nil, false
	}
}

// SetCursorVisible implements render.Renderer.
func (b *Backend) SetCursorVisible(visible bool) {
	b.cursorVisible = visible
	if !visible {
		b.screen.HideCursor()
	}
}

// MoveCursor implements render.Renderer.
func (b *Backend) MoveCursor(row, col int) {
	b.cursorRow, b.cursorCol = row, col
	if b.cursorVisible {
		b.screen.ShowCursor(col, row)
	}
}

// SetCaretPosition is a no-op: terminals have no IME caret distinct
// from the cell cursor.
func (b *Backend) SetCaretPosition(row, col int) {}

// SetMenu is a no-op: terminals have no native menu bar.
func (b *Backend) SetMenu(menu *render.Menu) {}

// Suspend releases the terminal so the application can shell out.
func (b *Backend) Suspend() error {
	return b.screen.Suspend()
}

// Resume reclaims the terminal after Suspend.
func (b *Backend) Resume() error {
	return b.screen.Resume()
}
