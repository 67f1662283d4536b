package grid

// Grid is a rows x cols array of cells, owned by the active backend.
//
// All mutation methods clip silently: out-of-bounds coordinates are a
// no-op, and regions are clamped to the grid, so draw call sites stay
// free of bounds checks.
type Grid struct {
	rows  int
	cols  int
	cells [][]Cell
}

// New allocates a grid of empty cells. Dimensions below 1 are clamped
// to 1 so a grid always has at least one cell.
func New(rows, cols int) *Grid {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	g := &Grid{rows: rows, cols: cols}
	g.cells = allocCells(rows, cols)
	return g
}

func allocCells(rows, cols int) [][]Cell {
	cells := make([][]Cell, rows)
	for r := range cells {
		row := make([]Cell, cols)
		for c := range row {
			row[c] = EmptyCell()
		}
		cells[r] = row
	}
	return cells
}

// Size returns (rows, cols).
func (g *Grid) Size() (rows, cols int) {
	return g.rows, g.cols
}

// Cell returns the cell at (row, col). ok is false out of bounds.
func (g *Grid) Cell(row, col int) (Cell, bool) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Cell{}, false
	}
	return g.cells[row][col], true
}

// SetCell stores a cell at (row, col), ignoring out-of-bounds writes.
func (g *Grid) SetCell(row, col int, cell Cell) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.cells[row][col] = cell
}

// SetText writes text starting at (row, col), clipping at the right
// edge. A wide glyph that would straddle the right edge is replaced by
// a space. An out-of-range row is a no-op; a negative col clips the
// leading cells.
func (g *Grid) SetText(row, col int, text string, pair uint8, attrs Attr) {
	if row < 0 || row >= g.rows {
		return
	}
	cells := CellsFrom(text, pair, attrs)
	for i, cell := range cells {
		c := col + i
		if c < 0 {
			continue
		}
		if c >= g.cols {
			break
		}
		// A wide glyph whose continuation would fall past the edge
		// cannot be shown; degrade to a space.
		if !cell.IsContinuation() && cell.Width() == 2 && c == g.cols-1 {
			cell.Glyph = " "
		}
		g.cells[row][c] = cell
	}
}

// Clear resets every cell to a space with default attributes.
func (g *Grid) Clear() {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			g.cells[r][c] = EmptyCell()
		}
	}
}

// ClearRegion resets a h x w region anchored at (row, col), clamped to
// the grid bounds.
func (g *Grid) ClearRegion(row, col, h, w int) {
	r0, c0, r1, c1 := clampRegion(row, col, h, w, g.rows, g.cols)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			g.cells[r][c] = EmptyCell()
		}
	}
}

// Resize reallocates the grid to the new dimensions, preserving the
// overlapping top-left content.
func (g *Grid) Resize(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if rows == g.rows && cols == g.cols {
		return
	}
	next := allocCells(rows, cols)
	copyRows := min(rows, g.rows)
	copyCols := min(cols, g.cols)
	for r := 0; r < copyRows; r++ {
		copy(next[r][:copyCols], g.cells[r][:copyCols])
	}
	g.rows, g.cols, g.cells = rows, cols, next
}

// clampRegion intersects a (row, col, h, w) region with a rows x cols
// grid and returns half-open [r0, r1) x [c0, c1) bounds.
func clampRegion(row, col, h, w, rows, cols int) (r0, c0, r1, c1 int) {
	r0, c0 = max(row, 0), max(col, 0)
	r1, c1 = min(row+h, rows), min(col+w, cols)
	if r1 < r0 {
		r1 = r0
	}
	if c1 < c0 {
		c1 = c0
	}
	return r0, c0, r1, c1
}
