package game

// sign returns -1, 0 or 1.
func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// DirectionTo maps the sign of the displacement from a to b onto one of the 8
// directions. It is only exact when b lies on one of a's 8 rays. Identical
// points yield DirUp.
func DirectionTo(a, b Pos) Direction {
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	for d, off := range dirOffsets {
		if off.X == sx && off.Y == sy {
			return Direction(d)
		}
	}
	return DirUp
}

// RotateTowards returns the single rotation that most reduces the angular
// distance from current to target, or ActionNone when already aligned.
func RotateTowards(current, target Direction) Action {
	diff := int(target.Rotate(0)-current.Rotate(0)+dirCount) % int(dirCount)
	switch {
	case diff == 0:
		return ActionNone
	case diff == 4:
		return ActionRotateRightQuarter
	case diff < 4:
		return ActionRotateRightEighth
	default:
		return ActionRotateLeftEighth
	}
}

// onRay reports whether to lies exactly on one of the 8 rays leaving from.
func onRay(from, to Pos) (Direction, bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	d := DirectionTo(from, to)
	u := d.Offset()
	cross := u.X*dy - u.Y*dx
	dot := u.X*dx + u.Y*dy
	return d, cross == 0 && dot > 0
}

// HasLineOfSight reports whether to is visible from from: it must sit exactly
// on one of the 8 rays and no cell along the ray, target included, may be a
// wall. Sight does not wrap around the board edges.
func HasLineOfSight(g *Grid, from, to Pos) bool {
	d, ok := onRay(from, to)
	if !ok {
		return false
	}
	step := d.Offset()
	for p := from.Add(step); ; p = p.Add(step) {
		if !g.InBounds(p.X, p.Y) || g.Content(p) == CellWall {
			return false
		}
		if p == to {
			return true
		}
	}
}
