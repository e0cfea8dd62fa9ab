package game

import (
	"errors"
	"fmt"
)

// ErrTankMissing is returned when a grid lacks a starting cell for a player.
var ErrTankMissing = errors.New("tank start position missing")

// Default starting facings.
const (
	defaultFacing1 = DirLeft
	defaultFacing2 = DirRight
)

// Engine owns one match: the grid, both tanks and every live shell. All
// mutable match state lives here so independent matches never share anything.
type Engine struct {
	grid   *Grid
	tanks  [2]*Tank
	shells []*Shell

	tick           int
	emptyAmmoTicks int
	outcome        Outcome
	lastActions    [2]Action

	stats [2]TankStats
	log   *SimLog
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithFacing overrides the starting facing of player 1 or 2.
func WithFacing(player int, d Direction) EngineOption {
	return func(e *Engine) {
		e.tankByID(player).facing = d.Rotate(0)
	}
}

// WithFacingTurn turns the starting facing of player 1 or 2 by n eighths
// clockwise. It applies on top of any earlier WithFacing.
func WithFacingTurn(player, n int) EngineOption {
	return func(e *Engine) {
		e.tankByID(player).rotate(n)
	}
}

// WithSimLog attaches an event log.
func WithSimLog(sl *SimLog) EngineOption {
	return func(e *Engine) {
		e.log = sl
	}
}

// NewEngine builds a match over grid, taking ownership of it. The tanks start
// on the first Tank1 and Tank2 cells.
func NewEngine(grid *Grid, opts ...EngineOption) (*Engine, error) {
	p1, ok := grid.Find(CellTank1)
	if !ok {
		return nil, fmt.Errorf("player 1: %w", ErrTankMissing)
	}
	p2, ok := grid.Find(CellTank2)
	if !ok {
		return nil, fmt.Errorf("player 2: %w", ErrTankMissing)
	}
	e := &Engine{
		grid:        grid,
		tanks:       [2]*Tank{NewTank(1, p1, defaultFacing1), NewTank(2, p2, defaultFacing2)},
		lastActions: [2]Action{ActionNone, ActionNone},
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

func (e *Engine) tankByID(id int) *Tank {
	if id == 2 {
		return e.tanks[1]
	}
	return e.tanks[0]
}

// Step advances the match by one tick and reports whether it is over.
// Calling Step on a finished match does nothing.
func (e *Engine) Step(a1, a2 Action) bool {
	if e.outcome != OutcomeOngoing {
		return true
	}
	e.tick++
	actions := [2]Action{a1, a2}
	e.lastActions = actions
	for i, t := range e.tanks {
		e.log.AddVerbose(e.tick, t.Label(), CategoryAction, "requested", actions[i].String())
	}

	e.handleMineCollisions()
	e.updateCooldowns()
	accepted := e.applyActions(actions)
	e.confirmBackwardMoves()
	e.commitPositions()
	survivors := e.advanceShells()
	e.resolveRestingCells(survivors)
	e.spawnShells(accepted)
	e.checkEndConditions()

	return e.outcome != OutcomeOngoing
}

func (e *Engine) handleMineCollisions() {
	for _, t := range e.tanks {
		if t.alive && e.grid.Content(t.pos) == CellMine {
			t.destroy()
			e.grid.SetContent(t.pos, CellEmpty)
			e.log.Add(e.tick, t.Label(), CategoryTank, "destroyed", "mine at "+t.pos.String())
		}
	}
}

func (e *Engine) updateCooldowns() {
	for _, t := range e.tanks {
		t.updateCooldowns()
	}
}

// applyActions applies both requests and returns what each tank actually
// accepted; a refused request is reported as ActionNone.
func (e *Engine) applyActions(actions [2]Action) [2]Action {
	var accepted [2]Action
	for i, t := range e.tanks {
		accepted[i] = e.applyAction(t, actions[i])
	}
	return accepted
}

func (e *Engine) applyAction(t *Tank, a Action) Action {
	if !t.alive {
		return ActionNone
	}
	if t.WaitingToMoveBack() {
		// Committed: only a forward request gets through, and it just cancels.
		if a == ActionMoveForward {
			t.cancelBackward()
			e.log.Add(e.tick, t.Label(), CategoryMove, "backward_cancelled", t.pos.String())
		}
		return ActionNone
	}

	switch a {
	case ActionMoveForward:
		t.cancelBackward()
		e.moveTank(t, t.facing)
	case ActionMoveBackward:
		t.requestBackward()
	case ActionRotateLeftEighth, ActionRotateRightEighth,
		ActionRotateLeftQuarter, ActionRotateRightQuarter:
		t.rotate(a.rotation())
		e.statsFor(t.id).Rotations++
	case ActionShoot:
		// resolved in spawnShells
	default:
		return ActionNone
	}
	return a
}

// moveTank moves t one wrapped cell along d. Walls do not stop a tank; the
// wall under it is flattened when positions are committed.
func (e *Engine) moveTank(t *Tank, d Direction) {
	next := e.grid.Step(t.pos, d)
	st := e.statsFor(t.id)
	if e.grid.Content(next) == CellWall {
		st.WallsOverrun++
		e.log.Add(e.tick, t.Label(), CategoryWall, "overrun", next.String())
	}
	e.log.AddVerbose(e.tick, t.Label(), CategoryMove, "position", fmt.Sprintf("%s -> %s", t.pos, next))
	t.pos = next
	st.Moves++
}

func (e *Engine) confirmBackwardMoves() {
	for _, t := range e.tanks {
		if !t.alive || !t.backwardRequested || t.backwardDelay > 0 {
			continue
		}
		e.moveTank(t, t.facing.Opposite())
		e.statsFor(t.id).BackwardMoves++
		t.cancelBackward()
	}
}

func (e *Engine) commitPositions() {
	e.grid.ClearTankMarks()
	t1, t2 := e.tanks[0], e.tanks[1]
	if t1.alive && t2.alive && t1.pos == t2.pos {
		t1.destroy()
		t2.destroy()
		e.log.Add(e.tick, "--", CategoryTank, "collision", "both destroyed at "+t1.pos.String())
		return
	}
	for _, t := range e.tanks {
		// A mine keeps its marker so it still triggers next tick. A wall
		// under the tank is replaced, which also clears its hit count.
		if c := e.grid.Content(t.pos); t.alive && (c == CellEmpty || c == CellWall) {
			e.grid.SetContent(t.pos, t.marker())
		}
	}
}

func (e *Engine) checkEndConditions() {
	t1, t2 := e.tanks[0], e.tanks[1]
	if t1.alive && t2.alive {
		if t1.ammo == 0 && t2.ammo == 0 {
			e.emptyAmmoTicks++
		} else {
			e.emptyAmmoTicks = 0
		}
	}
	e.outcome = determineOutcome(t1, t2, e.emptyAmmoTicks)
	if e.outcome != OutcomeOngoing {
		e.log.Add(e.tick, "--", CategoryMatch, "over", e.outcome.Result())
	}
}

// --- Read-only accessors ---

// Tick returns how many ticks have been played.
func (e *Engine) Tick() int { return e.tick }

// IsOver reports whether the match has reached a terminal state.
func (e *Engine) IsOver() bool { return e.outcome != OutcomeOngoing }

// Outcome returns the current terminal state.
func (e *Engine) Outcome() Outcome { return e.outcome }

// Result returns the result line, or "" while the match is running.
func (e *Engine) Result() string { return e.outcome.Result() }

// EmptyAmmoTicks returns the consecutive ticks both tanks have had no ammo.
func (e *Engine) EmptyAmmoTicks() int { return e.emptyAmmoTicks }

// Grid returns the live grid. Callers must treat it as read-only.
func (e *Engine) Grid() *Grid { return e.grid }

// Tank returns a copy of player 1's or player 2's state.
func (e *Engine) Tank(player int) TankState { return e.tankByID(player).State() }

// Stats returns a copy of a player's counters.
func (e *Engine) Stats(player int) TankStats { return *e.statsFor(player) }

// LastActions returns the actions submitted on the most recent tick.
func (e *Engine) LastActions() [2]Action { return e.lastActions }

// SimLog returns the attached event log, possibly nil.
func (e *Engine) SimLog() *SimLog { return e.log }

// Shells returns copies of all live shells.
func (e *Engine) Shells() []ShellState {
	out := make([]ShellState, len(e.shells))
	for i, s := range e.shells {
		out[i] = s.state()
	}
	return out
}

// View is the read-only snapshot an agent decides from.
type View struct {
	Tick     int
	Grid     *Grid // shared with the engine; do not modify
	Self     TankState
	Opponent TankState
	Shells   []ShellState
}

// View returns the decision snapshot for player 1 or 2.
func (e *Engine) View(player int) View {
	other := 2
	if player == 2 {
		other = 1
	}
	return View{
		Tick:     e.tick,
		Grid:     e.grid,
		Self:     e.Tank(player),
		Opponent: e.Tank(other),
		Shells:   e.Shells(),
	}
}

// Frame is a self-contained copy of the match state for renderers.
type Frame struct {
	Tick    int
	Grid    *Grid
	Tanks   [2]TankState
	Shells  []ShellState
	Actions [2]Action
	Outcome Outcome
}

// Result returns the frame's result line.
func (f Frame) Result() string { return f.Outcome.Result() }

// Snapshot deep-copies the current state.
func (e *Engine) Snapshot() Frame {
	return Frame{
		Tick:    e.tick,
		Grid:    e.grid.Clone(),
		Tanks:   [2]TankState{e.Tank(1), e.Tank(2)},
		Shells:  e.Shells(),
		Actions: e.lastActions,
		Outcome: e.outcome,
	}
}
