package native

import (
	"image/color"
	"math"
)

// xEpsilon is the adjacency tolerance when extending a batch: two
// rectangles whose edges are within this many pixels are treated as
// touching, absorbing float accumulation error across a row.
const xEpsilon = 0.1

// RectBatch is one coalesced background fill in pixel coordinates
// (bottom-left origin, matching the render pass).
type RectBatch struct {
	X, Y, W, H float32
	BG         color.NRGBA
}

// RectBatcher coalesces horizontally-adjacent same-color cell
// backgrounds into single fill rectangles. Feed cells row-major; call
// FinishRow at each row boundary; Batches drains the result.
//
// Batching is a pure optimization: the union of emitted rectangles is
// exactly the union of the cells fed in.
type RectBatcher struct {
	current *RectBatch
	batches []RectBatch
}

// Add feeds one cell background. The current batch extends when the
// cell is on the same row, has the same color, and starts where the
// batch ends; otherwise the batch is flushed and a new one starts.
func (rb *RectBatcher) Add(x, y, w, h float32, bg color.NRGBA) {
	if rb.current != nil {
		cur := rb.current
		sameRow := cur.Y == y && cur.H == h
		adjacent := abs32(x-(cur.X+cur.W)) < xEpsilon
		if sameRow && cur.BG == bg && adjacent {
			cur.W = x + w - cur.X
			return
		}
		rb.flush()
	}
	rb.current = &RectBatch{X: x, Y: y, W: w, H: h, BG: bg}
}

// FinishRow flushes the open batch. Runs never span rows.
func (rb *RectBatcher) FinishRow() {
	rb.flush()
}

// Batches flushes and returns all accumulated batches, resetting the
// batcher.
func (rb *RectBatcher) Batches() []RectBatch {
	rb.flush()
	out := rb.batches
	rb.batches = nil
	return out
}

func (rb *RectBatcher) flush() {
	if rb.current != nil {
		rb.batches = append(rb.batches, *rb.current)
		rb.current = nil
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func floor32(f float32) float32 {
	return float32(math.Floor(float64(f)))
}

func ceil32(f float32) float32 {
	return float32(math.Ceil(float64(f)))
}

// PixelRect is a dirty rectangle in pixel coordinates with a
// bottom-left origin.
type PixelRect struct {
	X, Y, W, H float32
}

// CellRange is a half-open range of grid cells: rows [Row0, Row1),
// cols [Col0, Col1).
type CellRange struct {
	Row0, Col0 int
	Row1, Col1 int
}

// Empty reports whether the range covers no cells.
func (cr CellRange) Empty() bool {
	return cr.Row0 >= cr.Row1 || cr.Col0 >= cr.Col1
}

// CellsForRect converts a dirty pixel rectangle to the range of cells
// it touches, clamped to a rows x cols grid.
//
// Rows count down from the top of the grid while pixel y grows upward,
// so the cell row for a pixel y is rows-1 - y/cellH.
func CellsForRect(r PixelRect, cellW, cellH float32, rows, cols int) CellRange {
	if cellW <= 0 || cellH <= 0 {
		return CellRange{}
	}
	col0 := int(floor32(r.X / cellW))
	col1 := int(ceil32((r.X + r.W) / cellW))

	// The rect's top edge (larger y) is the smaller row number.
	row0 := rows - int(ceil32((r.Y+r.H)/cellH))
	row1 := rows - int(floor32(r.Y/cellH))

	cr := CellRange{
		Row0: max(row0, 0),
		Col0: max(col0, 0),
		Row1: min(row1, rows),
		Col1: min(col1, cols),
	}
	if cr.Empty() {
		return CellRange{}
	}
	return cr
}

// CellOrigin returns the bottom-left pixel position of a cell.
func CellOrigin(row, col int, cellW, cellH float32, rows int) (x, y float32) {
	return float32(col) * cellW, float32(rows-row-1) * cellH
}
