package native

import (
	"testing"

	"github.com/tessera-ui/tessera/internal/grid"
)

// testBackend builds a backend with no window, enough for the render
// pass.
func testBackend(rows, cols int) *Backend {
	return &Backend{
		grid:   grid.New(rows, cols),
		pairs:  grid.NewColorTable(),
		caches: NewCaches(14, fakeMeasure),
		cell:   cellMetrics{W: 10, H: 20},
	}
}

func fullRange(b *Backend) CellRange {
	rows, cols := b.grid.Size()
	return CellRange{Row1: rows, Col1: cols}
}

func TestBuildFrameBackgroundBatches(t *testing.T) {
	b := testBackend(2, 8)
	// Uniform background: one batch per row.
	f := b.buildFrame(fullRange(b))
	if len(f.batches) != 2 {
		t.Fatalf("len(batches) = %d, want 2", len(f.batches))
	}
	for _, bt := range f.batches {
		if bt.W != 80 {
			t.Errorf("batch width = %v, want 80", bt.W)
		}
	}

	// A different background mid-row splits that row into three.
	_ = b.pairs.Set(1, grid.RGB{R: 255}, grid.RGB{B: 200})
	b.caches.InvalidateAll()
	b.grid.SetText(0, 3, "ab", 1, grid.AttrNone)
	f = b.buildFrame(fullRange(b))
	if len(f.batches) != 4 {
		t.Errorf("len(batches) = %d, want 4 (3 on row 0, 1 on row 1)", len(f.batches))
	}
}

func TestBuildFrameReverseSwapsBackground(t *testing.T) {
	b := testBackend(1, 4)
	_ = b.pairs.Set(1, grid.RGB{R: 10}, grid.RGB{B: 20})
	b.grid.SetText(0, 0, "r", 1, grid.AttrReverse)
	f := b.buildFrame(fullRange(b))

	// The reversed cell's background is the pair's foreground.
	if f.batches[0].BG.R != 10 {
		t.Errorf("reversed bg = %+v, want R=10", f.batches[0].BG)
	}
	// And its run color is the pair's background.
	if len(f.runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(f.runs))
	}
	if f.runs[0].Run.Attrs.Color.B != 20 {
		t.Errorf("reversed fg = %+v, want B=20", f.runs[0].Run.Attrs.Color)
	}
}

func TestBuildFrameCoalescesRuns(t *testing.T) {
	b := testBackend(1, 20)
	b.grid.SetText(0, 2, "abc", 1, grid.AttrBold)
	b.grid.SetText(0, 5, "def", 1, grid.AttrBold)
	b.grid.SetText(0, 9, "xyz", 2, grid.AttrNone)

	f := b.buildFrame(fullRange(b))
	if len(f.runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(f.runs))
	}
	// abc/def are adjacent with identical style: one run.
	if f.runs[0].Run.Text != "abcdef" {
		t.Errorf("runs[0] = %q, want abcdef", f.runs[0].Run.Text)
	}
	if f.runs[0].X != 20 {
		t.Errorf("runs[0].X = %v, want 20", f.runs[0].X)
	}
	if f.runs[1].Run.Text != "xyz" {
		t.Errorf("runs[1] = %q, want xyz", f.runs[1].Run.Text)
	}
}

func TestBuildFrameSkipsSpacesAndContinuations(t *testing.T) {
	b := testBackend(1, 10)
	b.grid.SetText(0, 0, "a 日b", 0, grid.AttrNone)

	f := b.buildFrame(fullRange(b))
	// "a" then "日b": the space splits, the continuation cell does not.
	if len(f.runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(f.runs))
	}
	if f.runs[0].Run.Text != "a" || f.runs[1].Run.Text != "日b" {
		t.Errorf("runs = %q, %q", f.runs[0].Run.Text, f.runs[1].Run.Text)
	}
	// The second run starts at the wide glyph's first cell.
	if f.runs[1].X != 20 {
		t.Errorf("runs[1].X = %v, want 20", f.runs[1].X)
	}
}

func TestBuildFrameSecondDrawHitsStringCache(t *testing.T) {
	b := testBackend(24, 80)
	_ = b.pairs.Set(2, grid.RGB{G: 255}, grid.RGB{})
	b.caches.InvalidateAll()
	b.grid.SetText(3, 5, "README.md", 2, grid.AttrUnderline)

	b.buildFrame(fullRange(b))
	s1 := b.caches.Stats()["string"]
	if s1.Misses != 1 || s1.Hits != 0 {
		t.Fatalf("first frame: hits %d misses %d, want 0/1", s1.Hits, s1.Misses)
	}

	b.grid.SetText(3, 5, "README.md", 2, grid.AttrUnderline)
	b.buildFrame(fullRange(b))
	s2 := b.caches.Stats()["string"]
	if s2.Hits != 1 || s2.Misses != 1 {
		t.Errorf("second frame: hits %d misses %d, want 1/1", s2.Hits, s2.Misses)
	}
}

func TestBuildFrameCursorOverlay(t *testing.T) {
	b := testBackend(4, 4)
	f := b.buildFrame(fullRange(b))
	if f.cursor != nil {
		t.Error("cursor present while hidden")
	}

	b.SetCursorVisible(true)
	b.MoveCursor(1, 2)
	f = b.buildFrame(fullRange(b))
	if f.cursor == nil {
		t.Fatal("cursor missing while visible")
	}
	if f.cursor.X != 20 || f.cursor.Y != 40 {
		t.Errorf("cursor at %v,%v, want 20,40", f.cursor.X, f.cursor.Y)
	}

	// Out-of-bounds cursor is suppressed, not drawn.
	b.MoveCursor(99, 99)
	if f = b.buildFrame(fullRange(b)); f.cursor != nil {
		t.Error("out-of-bounds cursor drawn")
	}
}

func TestBuildFrameCaretOverlay(t *testing.T) {
	b := testBackend(4, 4)
	b.SetCaretPosition(0, 1)
	f := b.buildFrame(fullRange(b))
	if f.caret == nil {
		t.Fatal("caret missing after SetCaretPosition")
	}
	if f.caret.W != 2 {
		t.Errorf("caret width = %v, want 2", f.caret.W)
	}
	b.SetCaretPosition(-1, -1)
	if f = b.buildFrame(fullRange(b)); f.caret != nil {
		t.Error("caret still drawn after hide")
	}
}

func TestInitColorPairInvalidatesCaches(t *testing.T) {
	b := testBackend(2, 2)
	b.grid.SetText(0, 0, "x", 1, grid.AttrNone)
	b.buildFrame(fullRange(b))
	if b.caches.Empty() {
		t.Fatal("caches empty after a frame")
	}
	if err := b.InitColorPair(1, grid.RGB{R: 1}, grid.RGB{}); err != nil {
		t.Fatalf("InitColorPair: %v", err)
	}
	if !b.caches.Empty() {
		t.Error("caches not empty after color pair change")
	}
}

func TestRefreshRangeCanvasPathCoversGrid(t *testing.T) {
	b := testBackend(24, 80)
	b.grid.SetText(2, 2, "keep", 0, grid.AttrNone)
	b.grid.SetText(20, 60, "far", 0, grid.AttrNone)

	// The canvas painter replaces its object set wholesale, so a
	// one-cell refresh must still frame the whole grid or everything
	// outside the region disappears.
	cr := b.refreshRange(2, 2, 1, 1)
	if cr != fullRange(b) {
		t.Fatalf("canvas refresh range = %+v, want full grid", cr)
	}

	f := b.buildFrame(cr)
	var keep, far bool
	for _, run := range f.runs {
		switch run.Run.Text {
		case "keep":
			keep = true
		case "far":
			far = true
		}
	}
	if !keep || !far {
		t.Errorf("frame runs keep=%v far=%v, want both", keep, far)
	}
}

func TestRefreshRangeRasterPathStaysPartial(t *testing.T) {
	b := testBackend(24, 80)
	b.raster = &rasterPainter{}

	cr := b.refreshRange(2, 2, 3, 4)
	if want := (CellRange{Row0: 2, Col0: 2, Row1: 5, Col1: 6}); cr != want {
		t.Errorf("refreshRange = %+v, want %+v", cr, want)
	}

	// Requests are clamped at the grid edges.
	cr = b.refreshRange(-1, 78, 2, 10)
	if want := (CellRange{Row0: 0, Col0: 78, Row1: 1, Col1: 80}); cr != want {
		t.Errorf("clamped refreshRange = %+v, want %+v", cr, want)
	}

	// Fully out-of-grid requests stay empty on both paths.
	if cr = b.refreshRange(30, 0, 2, 2); !cr.Empty() {
		t.Errorf("out-of-grid raster range = %+v, want empty", cr)
	}
	b.raster = nil
	if cr = b.refreshRange(30, 0, 2, 2); !cr.Empty() {
		t.Errorf("out-of-grid canvas range = %+v, want empty", cr)
	}
}

func TestBuildFrameCursorY(t *testing.T) {
	// Cursor on the bottom row lands at pixel y 0.
	b := testBackend(3, 3)
	b.SetCursorVisible(true)
	b.MoveCursor(2, 0)
	f := b.buildFrame(fullRange(b))
	if f.cursor == nil || f.cursor.Y != 0 {
		t.Errorf("bottom-row cursor = %+v, want Y=0", f.cursor)
	}
}
