package game

import (
	"container/heap"
	"math"
)

// NavGrid is a walkability view over a Grid: walls and mines are blocked.
// It is rebuilt cheaply per search, so it always reflects the current grid.
type NavGrid struct {
	cols    int
	rows    int
	blocked []bool
}

// NewNavGrid builds the walkability mask for g.
func NewNavGrid(g *Grid) *NavGrid {
	ng := &NavGrid{
		cols:    g.Cols,
		rows:    g.Rows,
		blocked: make([]bool, len(g.Cells)),
	}
	for i, c := range g.Cells {
		ng.blocked[i] = c.Content == CellWall || c.Content == CellMine
	}
	return ng
}

// IsBlocked returns true if (cx, cy) is not walkable or lies off the grid.
func (ng *NavGrid) IsBlocked(cx, cy int) bool {
	if cx < 0 || cy < 0 || cx >= ng.cols || cy >= ng.rows {
		return true
	}
	return ng.blocked[cy*ng.cols+cx]
}

// --- A* pathfinding ---

type pathNode struct {
	cx, cy int
	g, h   float64
	seq    int // insertion order, breaks f/h ties deterministically
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	if ol[i].h != ol[j].h {
		return ol[i].h < ol[j].h
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// FindPath returns the cells from start to goal inclusive along a cheapest
// 8-connected route (orthogonal steps cost 1, diagonal steps √2). Returns nil
// if the goal is blocked or unreachable. The search does not wrap.
func (ng *NavGrid) FindPath(start, goal Pos) []Pos {
	if start.X < 0 || start.Y < 0 || start.X >= ng.cols || start.Y >= ng.rows {
		return nil
	}
	if ng.IsBlocked(goal.X, goal.Y) {
		return nil
	}

	key := func(cx, cy int) int { return cy*ng.cols + cx }
	heuristic := func(cx, cy int) float64 {
		return math.Hypot(float64(goal.X-cx), float64(goal.Y-cy))
	}

	seq := 0
	startNode := &pathNode{cx: start.X, cy: start.Y, h: heuristic(start.X, start.Y)}
	ol := &openList{startNode}
	heap.Init(ol)

	closed := make([]bool, ng.cols*ng.rows)
	best := make(map[int]*pathNode)
	best[key(start.X, start.Y)] = startNode

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cx == goal.X && cur.cy == goal.Y {
			return buildPath(cur)
		}
		k := key(cur.cx, cur.cy)
		if closed[k] {
			continue
		}
		closed[k] = true

		for d, off := range dirOffsets {
			nx, ny := cur.cx+off.X, cur.cy+off.Y
			if ng.IsBlocked(nx, ny) {
				continue
			}
			nk := key(nx, ny)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if Direction(d).IsDiagonal() {
				cost = math.Sqrt2
			}
			g := cur.g + cost
			if prev, ok := best[nk]; ok && g >= prev.g {
				continue
			}
			seq++
			node := &pathNode{cx: nx, cy: ny, g: g, h: heuristic(nx, ny), seq: seq, parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

func buildPath(end *pathNode) []Pos {
	var cells []Pos
	for n := end; n != nil; n = n.parent {
		cells = append(cells, Pos{X: n.cx, Y: n.cy})
	}
	// Reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

// FindPath searches g from start to goal; see NavGrid.FindPath.
func FindPath(g *Grid, start, goal Pos) []Pos {
	return NewNavGrid(g).FindPath(start, goal)
}

// PathCost sums the step costs along path.
func PathCost(path []Pos) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		if path[i].X != path[i-1].X && path[i].Y != path[i-1].Y {
			total += math.Sqrt2
		} else {
			total += 1
		}
	}
	return total
}
