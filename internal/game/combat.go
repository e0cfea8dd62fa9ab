package game

import "fmt"

// shellSubSteps is how many one-cell moves a shell makes per tick.
const shellSubSteps = 2

// Shell is a projectile in flight.
type Shell struct {
	pos   Pos
	dir   Direction
	owner int // firing tank id; bookkeeping only, shells hit their owner too
}

// ShellState is a read-only copy of a shell.
type ShellState struct {
	Pos   Pos
	Dir   Direction
	Owner int
}

func (s *Shell) state() ShellState {
	return ShellState{Pos: s.pos, Dir: s.dir, Owner: s.owner}
}

// livingTankAt returns the live tank standing on p, if any.
func (e *Engine) livingTankAt(p Pos) *Tank {
	for _, t := range e.tanks {
		if t.alive && t.pos == p {
			return t
		}
	}
	return nil
}

// hitWall applies one hit from s to the wall at p.
func (e *Engine) hitWall(p Pos, s *Shell) {
	broken := e.grid.HitWall(p)
	st := e.statsFor(s.owner)
	st.WallHits++
	if broken {
		st.WallsDestroyed++
		e.log.Add(e.tick, "--", CategoryWall, "destroyed", p.String())
		return
	}
	e.log.Add(e.tick, "--", CategoryWall, "hit", fmt.Sprintf("%s hits=%d", p, e.grid.At(p).WallHits))
}

// collide applies the wall/tank rule for a shell occupying p and reports
// whether the shell was consumed.
func (e *Engine) collide(p Pos, s *Shell) bool {
	if e.grid.Content(p) == CellWall {
		e.hitWall(p, s)
		return true
	}
	if t := e.livingTankAt(p); t != nil {
		t.destroy()
		if c := e.grid.Content(p); c == CellTank1 || c == CellTank2 {
			e.grid.SetContent(p, CellEmpty)
		}
		if t.id == s.owner {
			e.statsFor(s.owner).SelfHits++
		} else {
			e.statsFor(s.owner).Kills++
		}
		e.log.Add(e.tick, t.Label(), CategoryTank, "destroyed", fmt.Sprintf("shell from P%d at %s", s.owner, p))
		return true
	}
	return false
}

// advanceShell moves s through its sub-steps and reports whether it survived.
func (e *Engine) advanceShell(s *Shell) bool {
	for i := 0; i < shellSubSteps; i++ {
		next := s.pos.Add(s.dir.Offset())
		if !e.grid.InBounds(next.X, next.Y) {
			wrapped := e.grid.Wrap(next)
			// An intact wall on the far side absorbs the shell at the border.
			if e.grid.Content(wrapped) == CellWall {
				e.hitWall(wrapped, s)
				return false
			}
			next = wrapped
		}
		s.pos = next
		if e.collide(s.pos, s) {
			return false
		}
	}
	return true
}

// advanceShells runs the per-tick shell movement and returns the survivors in
// their original order.
func (e *Engine) advanceShells() []*Shell {
	e.grid.ClearShellMarks()
	survivors := make([]*Shell, 0, len(e.shells))
	for _, s := range e.shells {
		if e.advanceShell(s) {
			survivors = append(survivors, s)
		}
	}
	return survivors
}

// resolveRestingCells annihilates shells sharing a resting cell and applies
// the collision rule once more to lone shells.
func (e *Engine) resolveRestingCells(shells []*Shell) {
	groups := make(map[Pos][]*Shell, len(shells))
	order := make([]Pos, 0, len(shells))
	for _, s := range shells {
		if _, ok := groups[s.pos]; !ok {
			order = append(order, s.pos)
		}
		groups[s.pos] = append(groups[s.pos], s)
	}

	remaining := make([]*Shell, 0, len(shells))
	for _, p := range order {
		group := groups[p]
		if len(group) > 1 {
			e.log.Add(e.tick, "--", CategoryShell, "annihilated", fmt.Sprintf("%d shells at %s", len(group), p))
			continue
		}
		s := group[0]
		if e.collide(p, s) {
			continue
		}
		e.grid.At(p).ShellOverlay = true
		remaining = append(remaining, s)
	}
	e.shells = remaining
}

// spawnShells fires for every tank whose accepted action was Shoot. All
// shooters are decided before any muzzle collision so simultaneous point-blank
// shots are symmetric.
func (e *Engine) spawnShells(accepted [2]Action) {
	var firing []*Tank
	for i, t := range e.tanks {
		if accepted[i] != ActionShoot || !t.alive {
			continue
		}
		if !t.CanShoot() {
			e.log.AddVerbose(e.tick, t.Label(), CategoryShell, "not_ready",
				fmt.Sprintf("cooldown=%d ammo=%d", t.shootCooldown, t.ammo))
			continue
		}
		t.consumeShot()
		e.stats[i].ShotsFired++
		firing = append(firing, t)
	}

	for _, t := range firing {
		muzzle := e.grid.Step(t.pos, t.facing)
		s := &Shell{pos: muzzle, dir: t.facing, owner: t.id}
		e.log.Add(e.tick, t.Label(), CategoryShell, "fired", fmt.Sprintf("%s %s ammo=%d", muzzle, t.facing, t.ammo))
		if e.collide(muzzle, s) {
			continue
		}
		e.grid.At(muzzle).ShellOverlay = true
		e.shells = append(e.shells, s)
	}
}
