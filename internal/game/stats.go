package game

import "fmt"

// TankStats accumulates per-tank counters over a match.
type TankStats struct {
	ShotsFired     int
	Kills          int
	SelfHits       int // destroyed by its own shell
	WallHits       int // hits landed on walls, including the breaking one
	WallsDestroyed int
	Moves          int
	WallsOverrun   int // moves onto an intact wall
	Rotations      int
	BackwardMoves  int
}

func (s TankStats) String() string {
	return fmt.Sprintf("shots=%d kills=%d self=%d wall_hits=%d walls_destroyed=%d moves=%d overrun=%d rotations=%d backward=%d",
		s.ShotsFired, s.Kills, s.SelfHits, s.WallHits, s.WallsDestroyed,
		s.Moves, s.WallsOverrun, s.Rotations, s.BackwardMoves)
}

// statsFor returns the mutable stats block for tank id.
func (e *Engine) statsFor(id int) *TankStats {
	if id == 2 {
		return &e.stats[1]
	}
	return &e.stats[0]
}
