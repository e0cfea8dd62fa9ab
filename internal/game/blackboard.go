package game

// pathRefreshTicks is how often the pursuer recomputes a still-valid path.
const pathRefreshTicks = 4

// Blackboard is the cross-tick memory of one agent. It belongs to whoever
// drives the agent; decision functions only read and update the copy they are
// handed.
type Blackboard struct {
	Path       []Pos // remaining cells, may start with the current cell
	Goal       Pos   // opponent cell the path was computed for
	ComputedAt int   // tick of the last search
	HasPath    bool
	Searches   int // total A* invocations, for reporting
}

// Invalidate drops the cached path.
func (bb *Blackboard) Invalidate() {
	bb.Path = nil
	bb.HasPath = false
}

// stale reports whether the cached path must be recomputed this tick.
func (bb *Blackboard) stale(tick int, goal Pos) bool {
	if !bb.HasPath || len(bb.Path) == 0 {
		return true
	}
	if bb.Goal != goal {
		return true
	}
	return tick-bb.ComputedAt >= pathRefreshTicks
}

// refresh runs a new search and stores it.
func (bb *Blackboard) refresh(g *Grid, tick int, from, goal Pos) {
	bb.Path = FindPath(g, from, goal)
	bb.Goal = goal
	bb.ComputedAt = tick
	bb.HasPath = bb.Path != nil
	bb.Searches++
}

// advanceTo drops every cell up to and including pos. It reports false when
// pos is neither on the cached path nor next to its first remaining cell.
func (bb *Blackboard) advanceTo(pos Pos) bool {
	for i, p := range bb.Path {
		if p == pos {
			bb.Path = bb.Path[i+1:]
			return true
		}
	}
	// Still turning toward the next cell.
	return len(bb.Path) > 0 && adjacent(pos, bb.Path[0])
}

// adjacent reports whether a and b are distinct 8-neighbours, without wrap.
func adjacent(a, b Pos) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	return a != b && dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}
