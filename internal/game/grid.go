package game

import "fmt"

// CellContent identifies what occupies a grid cell.
type CellContent uint8

const (
	CellEmpty CellContent = iota
	CellWall
	CellMine
	CellTank1
	CellTank2
)

func (c CellContent) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellWall:
		return "wall"
	case CellMine:
		return "mine"
	case CellTank1:
		return "tank1"
	case CellTank2:
		return "tank2"
	default:
		return "unknown"
	}
}

// wallBreakHits is the number of shell hits that clear a wall.
const wallBreakHits = 2

// Cell is one square of the battlefield.
type Cell struct {
	Content  CellContent
	WallHits int // only ever > 0 on a wall
	// ShellOverlay marks a resting shell for display; never used for collisions.
	ShellOverlay bool
}

// Pos is a grid coordinate.
type Pos struct {
	X, Y int
}

// Add returns p translated by o.
func (p Pos) Add(o Pos) Pos { return Pos{p.X + o.X, p.Y + o.Y} }

func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Grid is the authoritative toroidal cell matrix.
type Grid struct {
	Cols  int
	Rows  int
	Cells []Cell // row-major: index = row*Cols + col
}

// NewGrid creates an all-empty grid. Dimensions below 1 are clamped to 1.
func NewGrid(cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
}

// InBounds reports whether (x, y) lies inside the raw, unwrapped bounds.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Cols && y >= 0 && y < g.Rows
}

// Wrap applies toroidal wrapping to p.
func (g *Grid) Wrap(p Pos) Pos {
	return Pos{
		X: (p.X%g.Cols + g.Cols) % g.Cols,
		Y: (p.Y%g.Rows + g.Rows) % g.Rows,
	}
}

// Step returns the wrapped neighbour of p in direction d.
func (g *Grid) Step(p Pos, d Direction) Pos {
	return g.Wrap(p.Add(d.Offset()))
}

// At returns a pointer to the cell at p after wrapping.
func (g *Grid) At(p Pos) *Cell {
	p = g.Wrap(p)
	return &g.Cells[p.Y*g.Cols+p.X]
}

// Content returns the content at p after wrapping.
func (g *Grid) Content(p Pos) CellContent {
	return g.At(p).Content
}

// SetContent replaces the content at p. Leaving a wall resets its hit count.
func (g *Grid) SetContent(p Pos, c CellContent) {
	cell := g.At(p)
	cell.Content = c
	if c != CellWall {
		cell.WallHits = 0
	}
}

// HitWall applies one shell hit to the wall at p and reports whether it broke.
// Non-wall cells are left untouched.
func (g *Grid) HitWall(p Pos) (broken bool) {
	cell := g.At(p)
	if cell.Content != CellWall {
		return false
	}
	cell.WallHits++
	if cell.WallHits >= wallBreakHits {
		cell.Content = CellEmpty
		cell.WallHits = 0
		return true
	}
	return false
}

// ClearTankMarks empties every Tank1/Tank2 cell.
func (g *Grid) ClearTankMarks() {
	for i := range g.Cells {
		if c := g.Cells[i].Content; c == CellTank1 || c == CellTank2 {
			g.Cells[i].Content = CellEmpty
		}
	}
}

// ClearShellMarks drops every shell overlay flag.
func (g *Grid) ClearShellMarks() {
	for i := range g.Cells {
		g.Cells[i].ShellOverlay = false
	}
}

// Find returns the first cell (row-major) holding c.
func (g *Grid) Find(c CellContent) (Pos, bool) {
	for i, cell := range g.Cells {
		if cell.Content == c {
			return Pos{X: i % g.Cols, Y: i / g.Cols}, true
		}
	}
	return Pos{}, false
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cp := &Grid{Cols: g.Cols, Rows: g.Rows, Cells: make([]Cell, len(g.Cells))}
	copy(cp.Cells, g.Cells)
	return cp
}
