// Package native implements the renderer contract in a real window
// using fyne.
//
// Draw operations mutate an in-memory grid only; Refresh runs the
// render pass, which coalesces cell backgrounds into batched fills and
// cell glyphs into shaped text runs, both served by a four-cache set
// (font, color, attribute descriptor, shaped string). An optional
// acceleration path rasterizes frames directly; it falls back to the
// managed canvas path if a frame faults.
package native

import (
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	clog "github.com/charmbracelet/log"

	"github.com/tessera-ui/tessera/internal/grid"
	"github.com/tessera-ui/tessera/internal/render"
)

// Backend renders to a native window. All Renderer methods must be
// called from the single render/event thread; fyne callbacks marshal
// onto it through the event queue.
type Backend struct {
	title       string
	fontSize    float32
	rows, cols  int
	accelerated bool
	log         *clog.Logger

	app fyne.App
	win fyne.Window

	grid   *grid.Grid
	pairs  *grid.ColorTable
	caches *Caches
	cell   cellMetrics

	events chan render.Event
	quit   chan struct{}

	cursorVisible bool
	cursorRow     int
	cursorCol     int

	caretSet bool
	caretRow int
	caretCol int

	bridge *bridgePainter
	raster *rasterPainter
	area   *gridArea

	// mods is keyboard modifier state, owned by the fyne event thread.
	mods render.ModMask

	lastCanvas  fyne.Size
	initialized bool
}

// Compile-time interface check.
var _ render.Renderer = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(b *Backend) { b.title = title }
}

// WithFontSize sets the font size in points.
func WithFontSize(size float32) Option {
	return func(b *Backend) {
		if size > 0 {
			b.fontSize = size
		}
	}
}

// WithGridSize sets the initial grid dimensions.
func WithGridSize(rows, cols int) Option {
	return func(b *Backend) {
		if rows > 0 && cols > 0 {
			b.rows, b.cols = rows, cols
		}
	}
}

// WithAcceleration enables the direct raster path.
func WithAcceleration(on bool) Option {
	return func(b *Backend) { b.accelerated = on }
}

// WithLogger sets the logger.
func WithLogger(l *clog.Logger) Option {
	return func(b *Backend) { b.log = l }
}

// New creates an uninitialized windowed backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		title:    "tessera",
		fontSize: 14,
		rows:     24,
		cols:     80,
		events:   make(chan render.Event, 128),
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = clog.Default()
	}
	return b
}

// Init creates the application, validates the font, sizes the window
// to the requested grid, and wires input. The window becomes visible
// when Run is called.
func (b *Backend) Init() error {
	if b.initialized {
		return nil
	}
	b.app = app.New()

	cell, err := measureCell(b.fontSize)
	if err != nil {
		return err
	}
	b.cell = cell
	b.caches = NewCaches(b.fontSize, func(text string, face *FontFace) float32 {
		return fyne.MeasureText(text, face.Size, face.Style).Width
	})
	b.grid = grid.New(b.rows, b.cols)
	b.pairs = grid.NewColorTable()

	width := float32(b.cols) * cell.W
	height := float32(b.rows) * cell.H

	b.bridge = newBridgePainter()
	if b.accelerated {
		rp, rerr := newRasterPainter(width, height, b.fontSize)
		if rerr != nil {
			b.log.Warn("acceleration unavailable, using canvas path", "err", rerr)
		} else {
			b.raster = rp
		}
	}

	b.win = b.app.NewWindow(b.title)
	b.win.SetPadded(false)
	b.area = newGridArea(b.activeContent(), b.onMouse, func() {
		b.post(render.SystemEvent{Kind: render.SystemResize})
	})
	b.area.lastSize = fyne.NewSize(width, height)
	b.win.SetContent(b.area)
	b.win.Resize(fyne.NewSize(width, height))
	b.win.SetCloseIntercept(func() {
		b.post(render.SystemEvent{Kind: render.SystemClose})
	})
	b.installInput()

	b.lastCanvas = fyne.NewSize(width, height)
	b.initialized = true
	return nil
}

func (b *Backend) activeContent() fyne.CanvasObject {
	if b.raster != nil {
		return b.raster.raster
	}
	return b.bridge.container
}

// Run shows the window and enters the fyne main loop, with loop
// running on the render goroutine. It returns when the application
// quits.
func (b *Backend) Run(loop func()) {
	go func() {
		loop()
		fyne.Do(b.app.Quit)
	}()
	b.win.ShowAndRun()
}

// Shutdown releases the window. Safe after partial init and safe to
// call twice.
func (b *Backend) Shutdown() {
	if !b.initialized {
		return
	}
	b.initialized = false
	close(b.quit)
	if b.win != nil {
		fyne.Do(b.win.Close)
	}
}

// Size returns the grid dimensions.
func (b *Backend) Size() (rows, cols int) {
	return b.grid.Size()
}

// Grid exposes the cell grid for inspection.
func (b *Backend) Grid() *grid.Grid { return b.grid }

// Caches exposes the render caches for inspection.
func (b *Backend) Caches() *Caches { return b.caches }

// Clear implements render.Renderer.
func (b *Backend) Clear() {
	b.grid.Clear()
}

// ClearRegion implements render.Renderer.
func (b *Backend) ClearRegion(row, col, h, w int) {
	b.grid.ClearRegion(row, col, h, w)
}

// DrawText implements render.Renderer. It mutates the grid only;
// nothing reaches the window until Refresh.
func (b *Backend) DrawText(row, col int, text string, pair uint8, attrs grid.Attr) {
	b.grid.SetText(row, col, text, pair, attrs)
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

// InitColorPair registers a pair and invalidates all caches: entries
// keyed on the old colors of a reused id must not survive.
func (b *Backend) InitColorPair(id int, fg, bg grid.RGB) error {
	if err := b.pairs.Set(id, fg, bg); err != nil {
		return fmt.Errorf("%w: %s", render.ErrInvalidArgument, err)
	}
	b.caches.InvalidateAll()
	return nil
}

// Refresh renders the full grid to the window.
func (b *Backend) Refresh() {
	b.checkResize()
	rows, cols := b.grid.Size()
	b.renderFrame(CellRange{Row0: 0, Col0: 0, Row1: rows, Col1: cols})
}

// RefreshRegion renders the given cell region. Only the raster path
// can present a region alone; the canvas path presents the full grid.
func (b *Backend) RefreshRegion(row, col, h, w int) {
	b.checkResize()
	cr := b.refreshRange(row, col, h, w)
	if cr.Empty() {
		return
	}
	b.renderFrame(cr)
}

// refreshRange clamps a refresh request to the grid and widens it to
// the full grid on the canvas path. The canvas painter replaces its
// whole object set each frame, so a partial frame there would drop
// every object outside the region.
func (b *Backend) refreshRange(row, col, h, w int) CellRange {
	rows, cols := b.grid.Size()
	cr := CellRange{
		Row0: max(row, 0),
		Col0: max(col, 0),
		Row1: min(row+h, rows),
		Col1: min(col+w, cols),
	}
	if cr.Empty() {
		return CellRange{}
	}
	if b.raster == nil {
		return CellRange{Row1: rows, Col1: cols}
	}
	return cr
}

// checkResize reacts to window size changes: reallocate the grid
// preserving the top-left, drop every cache, and queue a resize event.
func (b *Backend) checkResize() {
	size := b.win.Canvas().Size()
	if size == b.lastCanvas || size.Width <= 0 || size.Height <= 0 {
		return
	}
	b.lastCanvas = size

	rows := max(int(size.Height/b.cell.H), 1)
	cols := max(int(size.Width/b.cell.W), 1)
	curRows, curCols := b.grid.Size()
	if rows == curRows && cols == curCols {
		return
	}
	b.grid.Resize(rows, cols)
	b.caches.InvalidateAll()
	b.post(render.SystemEvent{Kind: render.SystemResize})
}

// renderFrame runs the two-phase render pass over a cell range and
// hands the result to the active painter.
func (b *Backend) renderFrame(cr CellRange) {
	b.paint(b.buildFrame(cr))
}

// buildFrame produces one frame: the background pass batches adjacent
// same-color cell fills, the character pass coalesces adjacent
// same-style glyphs into shaped runs.
func (b *Backend) buildFrame(cr CellRange) *frame {
	rows, cols := b.grid.Size()
	f := &frame{
		width:  float32(cols) * b.cell.W,
		height: float32(rows) * b.cell.H,
		cellW:  b.cell.W,
		cellH:  b.cell.H,
	}

	// Background pass: one batched fill per contiguous same-color run.
	var rb RectBatcher
	for r := cr.Row0; r < cr.Row1; r++ {
		for c := cr.Col0; c < cr.Col1; c++ {
			cell, ok := b.grid.Cell(r, c)
			if !ok {
				continue
			}
			p := b.pairs.Effective(cell.Pair, cell.Attrs)
			x, y := CellOrigin(r, c, b.cell.W, b.cell.H, rows)
			rb.Add(x, y, b.cell.W, b.cell.H, *b.caches.Color(p.BG.Packed()))
		}
		rb.FinishRow()
	}
	f.batches = rb.Batches()

	// Character pass: coalesce adjacent cells with identical styling
	// into single shaped runs. Spaces are skipped (the background pass
	// painted them) and continuation cells ride along with their wide
	// glyph.
	for r := cr.Row0; r < cr.Row1; r++ {
		var (
			text     strings.Builder
			runKey   AttrKey
			startCol int
			open     bool
		)
		flush := func() {
			if open {
				x, y := CellOrigin(r, startCol, b.cell.W, b.cell.H, rows)
				f.runs = append(f.runs, positionedRun{
					X: x, Y: y,
					Run: b.caches.String(text.String(), runKey),
				})
				text.Reset()
				open = false
			}
		}
		for c := cr.Col0; c < cr.Col1; c++ {
			cell, ok := b.grid.Cell(r, c)
			if !ok || cell.IsContinuation() {
				continue
			}
			if cell.IsBlank() {
				flush()
				continue
			}
			p := b.pairs.Effective(cell.Pair, cell.Attrs)
			key := AttrKey{
				Font:      cell.Attrs.Without(grid.AttrUnderline | grid.AttrReverse),
				RGB:       p.FG.Packed(),
				Underline: cell.Attrs.Has(grid.AttrUnderline),
			}
			if open && key != runKey {
				flush()
			}
			if !open {
				open = true
				runKey = key
				startCol = c
			}
			text.WriteString(cell.Glyph)
		}
		flush()
	}

	// Cursor and IME caret draw last so cell content never occludes
	// them.
	if b.cursorVisible {
		if x, y, ok := b.cellRect(b.cursorRow, b.cursorCol); ok {
			f.cursor = &RectBatch{X: x, Y: y, W: b.cell.W, H: b.cell.H, BG: cursorColor}
		}
	}
	if b.caretSet {
		if x, y, ok := b.cellRect(b.caretRow, b.caretCol); ok {
			f.caret = &RectBatch{X: x, Y: y, W: 2, H: b.cell.H, BG: caretColor}
		}
	}

	return f
}

// paint dispatches the frame to the raster path when enabled, falling
// back to the canvas path if the frame faults.
func (b *Backend) paint(f *frame) {
	if b.raster != nil {
		err := b.raster.Paint(f)
		if err == nil {
			return
		}
		b.log.Warn("raster frame failed, falling back to canvas path", "err", err)
		b.raster = nil
		fyne.Do(func() {
			b.area.setContent(b.bridge.container)
		})
		// The faulted frame may cover only part of the grid; the canvas
		// path needs all of it.
		rows, cols := b.grid.Size()
		f = b.buildFrame(CellRange{Row1: rows, Col1: cols})
	}
	b.bridge.Paint(f)
}

func (b *Backend) cellRect(row, col int) (x, y float32, ok bool) {
	rows, cols := b.grid.Size()
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return 0, 0, false
	}
	x, y = CellOrigin(row, col, b.cell.W, b.cell.H, rows)
	return x, y, true
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

// post queues an event, dropping it if the queue is full so fyne's
// event thread never blocks on a slow consumer.
func (b *Backend) post(ev render.Event) {
	select {
	case b.events <- ev:
	default:
		b.log.Warn("event queue full, dropping event")
	}
}

// SetCursorVisible implements render.Renderer.
func (b *Backend) SetCursorVisible(visible bool) {
	b.cursorVisible = visible
}

// MoveCursor implements render.Renderer.
func (b *Backend) MoveCursor(row, col int) {
	b.cursorRow, b.cursorCol = row, col
}

// SetCaretPosition places the IME composition caret. A negative row or
// col hides it.
func (b *Backend) SetCaretPosition(row, col int) {
	if row < 0 || col < 0 {
		b.caretSet = false
		return
	}
	b.caretSet = true
	b.caretRow, b.caretCol = row, col
}

// Suspend is a no-op: a window does not release the display.
func (b *Backend) Suspend() error { return nil }

// Resume is a no-op.
func (b *Backend) Resume() error { return nil }
