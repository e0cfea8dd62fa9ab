package game

import (
	"fmt"
	"strings"
)

// TestMatch is a headless match harness used by tests. It builds a board from
// options, wires a SimLog and drives the engine with scripted or policy agents.
type TestMatch struct {
	Cols   int
	Rows   int
	Grid   *Grid
	Engine *Engine
	Match  *Match
	SimLog *SimLog

	facings [2]*Direction
	agents  [2]Agent
	shells  []*Shell
}

// matchOptionKind controls the pass in which an option is applied.
type matchOptionKind int

const (
	matchOptInfra   matchOptionKind = iota // board size, verbose: applied first
	matchOptTerrain                        // walls, mines, tanks: applied once the grid exists
	matchOptEngine                         // shells, agents: applied before the engine is built
)

// MatchOption is a builder function applied to a TestMatch during construction.
type MatchOption struct {
	kind matchOptionKind
	fn   func(*TestMatch)
}

// WithBoardSize sets the board dimensions.
func WithBoardSize(cols, rows int) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		tm.Cols = cols
		tm.Rows = rows
	}}
}

// WithVerbose enables per-tick action and movement logging.
func WithVerbose(v bool) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		tm.SimLog = NewSimLog(v)
	}}
}

// WithBoard replaces the empty board with rows of board characters
// ('#', '@', '1', '2', ' '). The board size follows the rows given.
func WithBoard(rows ...string) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		w := 0
		for _, r := range rows {
			if len(r) > w {
				w = len(r)
			}
		}
		src := fmt.Sprintf("%d %d\n%s\n", w, len(rows), strings.Join(rows, "\n"))
		g, _, err := ParseBoard(strings.NewReader(src))
		if err != nil {
			panic(fmt.Sprintf("WithBoard: %v", err))
		}
		tm.Grid = g
		tm.Cols, tm.Rows = g.Cols, g.Rows
	}}
}

// WithWall places a wall.
func WithWall(x, y int) MatchOption {
	return MatchOption{matchOptTerrain, func(tm *TestMatch) {
		tm.Grid.SetContent(Pos{X: x, Y: y}, CellWall)
	}}
}

// WithMine places a mine.
func WithMine(x, y int) MatchOption {
	return MatchOption{matchOptTerrain, func(tm *TestMatch) {
		tm.Grid.SetContent(Pos{X: x, Y: y}, CellMine)
	}}
}

// WithTank1 places player 1 at (x, y) facing d.
func WithTank1(x, y int, d Direction) MatchOption {
	return MatchOption{matchOptTerrain, func(tm *TestMatch) {
		tm.Grid.SetContent(Pos{X: x, Y: y}, CellTank1)
		tm.facings[0] = &d
	}}
}

// WithTank2 places player 2 at (x, y) facing d.
func WithTank2(x, y int, d Direction) MatchOption {
	return MatchOption{matchOptTerrain, func(tm *TestMatch) {
		tm.Grid.SetContent(Pos{X: x, Y: y}, CellTank2)
		tm.facings[1] = &d
	}}
}

// WithShell injects a shell already in flight at (x, y).
func WithShell(x, y int, d Direction, owner int) MatchOption {
	return MatchOption{matchOptEngine, func(tm *TestMatch) {
		tm.shells = append(tm.shells, &Shell{pos: Pos{X: x, Y: y}, dir: d, owner: owner})
	}}
}

// WithAgents sets the agents used by RunMatch and Step.
func WithAgents(a1, a2 Agent) MatchOption {
	return MatchOption{matchOptEngine, func(tm *TestMatch) {
		tm.agents = [2]Agent{a1, a2}
	}}
}

// NewTestMatch constructs a TestMatch from the given options in ordered passes:
//  1. Infrastructure (board size, verbose)
//  2. Build the empty grid
//  3. Terrain and tanks
//  4. Engine, injected shells and agents
//
// When no tank is placed, player 1 goes to (0,0) and player 2 to the opposite
// corner.
func NewTestMatch(opts ...MatchOption) *TestMatch {
	tm := &TestMatch{
		Cols:   10,
		Rows:   10,
		SimLog: NewSimLog(false),
		agents: [2]Agent{Idle{}, Idle{}},
	}
	for _, o := range opts {
		if o.kind == matchOptInfra {
			o.fn(tm)
		}
	}
	if tm.Grid == nil {
		tm.Grid = NewGrid(tm.Cols, tm.Rows)
	}
	for _, o := range opts {
		if o.kind == matchOptTerrain {
			o.fn(tm)
		}
	}
	if _, ok := tm.Grid.Find(CellTank1); !ok {
		tm.Grid.SetContent(Pos{}, CellTank1)
	}
	if _, ok := tm.Grid.Find(CellTank2); !ok {
		tm.Grid.SetContent(Pos{X: tm.Cols - 1, Y: tm.Rows - 1}, CellTank2)
	}
	for _, o := range opts {
		if o.kind == matchOptEngine {
			o.fn(tm)
		}
	}

	engineOpts := []EngineOption{WithSimLog(tm.SimLog)}
	for i, d := range tm.facings {
		if d != nil {
			engineOpts = append(engineOpts, WithFacing(i+1, *d))
		}
	}
	e, err := NewEngine(tm.Grid, engineOpts...)
	if err != nil {
		panic(fmt.Sprintf("NewTestMatch: %v", err))
	}
	for _, s := range tm.shells {
		e.shells = append(e.shells, s)
		e.grid.At(s.pos).ShellOverlay = true
	}
	tm.Engine = e
	tm.Match = NewMatch(e, tm.agents[0], tm.agents[1])
	return tm
}

// Step advances one tick with explicit actions, bypassing the agents.
func (tm *TestMatch) Step(a1, a2 Action) bool {
	return tm.Engine.Step(a1, a2)
}

// RunTicks advances n ticks with the configured agents.
func (tm *TestMatch) RunTicks(n int) {
	for i := 0; i < n; i++ {
		if tm.Match.Step() {
			return
		}
	}
}

// RunUntil advances up to maxTicks, stopping early once predicate holds.
// Returns the tick at which the predicate was satisfied, or -1.
func (tm *TestMatch) RunUntil(predicate func(*TestMatch) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		tm.Match.Step()
		if predicate(tm) {
			return tm.Engine.Tick()
		}
		if tm.Engine.IsOver() {
			return -1
		}
	}
	return -1
}

// Tank returns player 1's or player 2's state.
func (tm *TestMatch) Tank(player int) TankState { return tm.Engine.Tank(player) }

// ShellsAt returns the live shells resting on (x, y).
func (tm *TestMatch) ShellsAt(x, y int) []ShellState {
	var out []ShellState
	for _, s := range tm.Engine.Shells() {
		if s.Pos == (Pos{X: x, Y: y}) {
			out = append(out, s)
		}
	}
	return out
}

// DumpState returns the board and recent events, for t.Log on failure.
func (tm *TestMatch) DumpState() string {
	return DebugReport(tm.Engine.Snapshot(), tm.SimLog, 10)
}
