package render

import (
	"fmt"
	"time"

	"github.com/tessera-ui/tessera/internal/grid"
)

// Null is an in-memory Renderer for tests and headless operation. It
// draws into a grid, records operations, and serves posted events.
type Null struct {
	grid  *grid.Grid
	pairs *grid.ColorTable

	events chan Event

	// RefreshCount counts Refresh and RefreshRegion calls.
	RefreshCount int

	// Ops records draw operations in call order.
	Ops []string

	cursorVisible bool
	cursorRow     int
	cursorCol     int
}

// Compile-time interface check.
var _ Renderer = (*Null)(nil)

// NewNull creates a null renderer with the given dimensions.
func NewNull(rows, cols int) *Null {
	return &Null{
		grid:   grid.New(rows, cols),
		pairs:  grid.NewColorTable(),
		events: make(chan Event, 100),
	}
}

// Init implements Renderer.
func (n *Null) Init() error { return nil }

// Shutdown implements Renderer.
func (n *Null) Shutdown() {}

// Size implements Renderer.
func (n *Null) Size() (rows, cols int) { return n.grid.Size() }

// Grid exposes the backing grid for assertions.
func (n *Null) Grid() *grid.Grid { return n.grid }

// Pairs exposes the color table for assertions.
func (n *Null) Pairs() *grid.ColorTable { return n.pairs }

// Clear implements Renderer.
func (n *Null) Clear() {
	n.Ops = append(n.Ops, "clear")
	n.grid.Clear()
}

// ClearRegion implements Renderer.
func (n *Null) ClearRegion(row, col, h, w int) {
	n.Ops = append(n.Ops, fmt.Sprintf("clear-region %d,%d %dx%d", row, col, h, w))
	n.grid.ClearRegion(row, col, h, w)
}

// DrawText implements Renderer.
func (n *Null) DrawText(row, col int, text string, pair uint8, attrs grid.Attr) {
	n.Ops = append(n.Ops, fmt.Sprintf("text %d,%d %q", row, col, text))
	n.grid.SetText(row, col, text, pair, attrs)
}

// DrawHLine implements Renderer.
func (n *Null) DrawHLine(row, col, length int, glyph string, pair uint8, attrs grid.Attr) {
	HLine(n, row, col, length, glyph, pair, attrs)
}

// DrawVLine implements Renderer.
func (n *Null) DrawVLine(row, col, length int, glyph string, pair uint8, attrs grid.Attr) {
	VLine(n, row, col, length, glyph, pair, attrs)
}

// DrawRect implements Renderer.
func (n *Null) DrawRect(row, col, h, w int, glyph string, pair uint8, attrs grid.Attr, filled bool) {
	Rect(n, row, col, h, w, glyph, pair, attrs, filled)
}

// InitColorPair implements Renderer.
func (n *Null) InitColorPair(id int, fg, bg grid.RGB) error {
	if err := n.pairs.Set(id, fg, bg); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, err)
	}
	return nil
}

// Refresh implements Renderer.
func (n *Null) Refresh() {
	n.RefreshCount++
}

// RefreshRegion implements Renderer.
func (n *Null) RefreshRegion(row, col, h, w int) {
	n.RefreshCount++
}

// PollEvent implements Renderer.
func (n *Null) PollEvent(timeout time.Duration) (Event, bool) {
	if timeout < 0 {
		ev := <-n.events
		return ev, true
	}
	if timeout == 0 {
		select {
		case ev := <-n.events:
			return ev, true
		default:
			return nil, false
		}
	}
	select {
	case ev := <-n.events:
		return ev, true
	case <-time.After(timeout):
		return nil, false
	}
}

// PostEvent queues an event for PollEvent. Drops the event if the
// queue is full rather than blocking the poster.
func (n *Null) PostEvent(ev Event) {
	select {
	case n.events <- ev:
	default:
	}
}

// SetCursorVisible implements Renderer.
func (n *Null) SetCursorVisible(visible bool) { n.cursorVisible = visible }

// MoveCursor implements Renderer.
func (n *Null) MoveCursor(row, col int) { n.cursorRow, n.cursorCol = row, col }

// CursorVisible reports the cursor state for assertions.
func (n *Null) CursorVisible() bool { return n.cursorVisible }

// Cursor returns the cursor position for assertions.
func (n *Null) Cursor() (row, col int) { return n.cursorRow, n.cursorCol }

// SetCaretPosition implements Renderer.
func (n *Null) SetCaretPosition(row, col int) {}

// SetMenu implements Renderer.
func (n *Null) SetMenu(menu *Menu) {}

// Suspend implements Renderer.
func (n *Null) Suspend() error { return nil }

// Resume implements Renderer.
func (n *Null) Resume() error { return nil }
