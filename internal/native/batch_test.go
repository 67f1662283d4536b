package native

import (
	"image/color"
	"testing"
)

var (
	black = color.NRGBA{A: 0xff}
	blue  = color.NRGBA{B: 0xff, A: 0xff}
)

func TestBatcherCoalescesRun(t *testing.T) {
	var rb RectBatcher
	for i := 0; i < 5; i++ {
		rb.Add(float32(i)*10, 100, 10, 20, black)
	}
	batches := rb.Batches()
	if len(batches) != 1 {
		t.Fatalf("len(batches) = %d, want 1", len(batches))
	}
	b := batches[0]
	if b.X != 0 || b.W != 50 || b.Y != 100 || b.H != 20 {
		t.Errorf("batch = %+v, want X=0 W=50 Y=100 H=20", b)
	}
}

func TestBatcherSplitsOnColorChange(t *testing.T) {
	var rb RectBatcher
	rb.Add(0, 0, 10, 20, black)
	rb.Add(10, 0, 10, 20, black)
	rb.Add(20, 0, 10, 20, blue)
	rb.Add(30, 0, 10, 20, blue)
	batches := rb.Batches()
	if len(batches) != 2 {
		t.Fatalf("len(batches) = %d, want 2", len(batches))
	}
	if batches[0].W != 20 || batches[0].BG != black {
		t.Errorf("batches[0] = %+v", batches[0])
	}
	if batches[1].X != 20 || batches[1].W != 20 || batches[1].BG != blue {
		t.Errorf("batches[1] = %+v", batches[1])
	}
}

func TestBatcherSplitsOnGap(t *testing.T) {
	var rb RectBatcher
	rb.Add(0, 0, 10, 20, black)
	rb.Add(25, 0, 10, 20, black) // not adjacent
	if batches := rb.Batches(); len(batches) != 2 {
		t.Errorf("len(batches) = %d, want 2", len(batches))
	}
}

func TestBatcherToleratesFloatDrift(t *testing.T) {
	// Accumulated float error below the epsilon must not split a run.
	var rb RectBatcher
	rb.Add(0, 0, 10, 20, black)
	rb.Add(10.05, 0, 10, 20, black)
	if batches := rb.Batches(); len(batches) != 1 {
		t.Errorf("len(batches) = %d, want 1", len(batches))
	}
}

func TestBatcherFinishRow(t *testing.T) {
	var rb RectBatcher
	rb.Add(0, 20, 10, 20, black)
	rb.FinishRow()
	// Same color, x-adjacent, but a new row: must not merge.
	rb.Add(10, 0, 10, 20, black)
	batches := rb.Batches()
	if len(batches) != 2 {
		t.Fatalf("len(batches) = %d, want 2", len(batches))
	}
}

// Batching must cover exactly the cells fed in: same area, no overlap,
// regardless of how runs split.
func TestBatcherCoverageEquivalence(t *testing.T) {
	colors := []color.NRGBA{black, blue, black, black, blue, blue, black, blue}
	var rb RectBatcher
	const cw, ch = 9, 18
	for i, col := range colors {
		rb.Add(float32(i)*cw, 0, cw, ch, col)
	}
	batches := rb.Batches()

	var area float32
	for _, b := range batches {
		area += b.W * b.H
	}
	if want := float32(len(colors)) * cw * ch; area != want {
		t.Errorf("covered area = %v, want %v", area, want)
	}

	// Every cell must fall inside exactly one batch of its own color.
	for i, col := range colors {
		x := float32(i)*cw + cw/2
		found := 0
		for _, b := range batches {
			if x >= b.X && x < b.X+b.W {
				found++
				if b.BG != col {
					t.Errorf("cell %d covered by wrong color %v", i, b.BG)
				}
			}
		}
		if found != 1 {
			t.Errorf("cell %d covered by %d batches, want 1", i, found)
		}
	}
}

func TestCellsForRect(t *testing.T) {
	const cw, ch = 10, 20
	const rows, cols = 24, 80

	// The bottom-left cell of the grid is row 23, col 0.
	cr := CellsForRect(PixelRect{X: 0, Y: 0, W: cw, H: ch}, cw, ch, rows, cols)
	if cr.Row0 != 23 || cr.Row1 != 24 || cr.Col0 != 0 || cr.Col1 < 1 {
		t.Errorf("bottom-left range = %+v", cr)
	}

	// The top row of pixels maps to row 0.
	cr = CellsForRect(PixelRect{X: 0, Y: float32((rows - 1) * ch), W: 5, H: 5}, cw, ch, rows, cols)
	if cr.Row0 != 0 {
		t.Errorf("top rect Row0 = %d, want 0", cr.Row0)
	}

	// Out-of-bounds rects clamp rather than fail.
	cr = CellsForRect(PixelRect{X: -100, Y: -100, W: 5000, H: 5000}, cw, ch, rows, cols)
	if cr.Row0 < 0 || cr.Col0 < 0 || cr.Row1 > rows || cr.Col1 > cols {
		t.Errorf("clamped range = %+v escapes the grid", cr)
	}
}

func TestCellOriginFlip(t *testing.T) {
	const cw, ch = 10, 20
	const rows = 24

	// Top-left grid cell sits at the top of the pixel space.
	x, y := CellOrigin(0, 0, cw, ch, rows)
	if x != 0 || y != float32((rows-1)*ch) {
		t.Errorf("origin(0,0) = %v,%v, want 0,%v", x, y, (rows-1)*ch)
	}

	// Bottom row sits at pixel y 0.
	_, y = CellOrigin(rows-1, 3, cw, ch, rows)
	if y != 0 {
		t.Errorf("origin(bottom) y = %v, want 0", y)
	}
}
