package game

import (
	"errors"
	"sync"
	"testing"
)

// --- Pursuer ---

func TestPursuer_ShootsWhenAligned(t *testing.T) {
	tm := NewTestMatch(WithTank1(1, 5, DirRight), WithTank2(7, 5, DirLeft))
	var bb Blackboard
	if got := PursuerAction(tm.Engine.View(1), &bb); got != ActionShoot {
		t.Fatalf("expected Shoot, got %s", got)
	}
	if bb.Searches != 0 {
		t.Fatal("a clear shot should not trigger a path search")
	}
}

func TestPursuer_RotatesTowardTargetInSight(t *testing.T) {
	tm := NewTestMatch(WithTank1(1, 5, DirUp), WithTank2(7, 5, DirLeft))
	var bb Blackboard
	if got := PursuerAction(tm.Engine.View(1), &bb); got != ActionRotateRightEighth {
		t.Fatalf("expected RotateRightEighth, got %s", got)
	}
}

func TestPursuer_FollowsCorridor(t *testing.T) {
	tm := NewTestMatch(WithBoard(
		"#######",
		"#1    #",
		"##### #",
		"#    2#",
		"#######",
	))
	// Facing left by default: the only way out is to the right.
	var bb Blackboard
	v := tm.Engine.View(1)
	got := PursuerAction(v, &bb)
	if got != ActionRotateRightQuarter {
		t.Fatalf("expected a half turn to face the corridor, got %s", got)
	}
	if !bb.HasPath || bb.Searches != 1 {
		t.Fatalf("expected one cached search, got %+v", bb)
	}
	if bb.Path[0] != (Pos{2, 1}) {
		t.Fatalf("expected next cell (2,1), got %v", bb.Path)
	}

	tm.Engine.tankByID(1).facing = DirRight
	if got := PursuerAction(tm.Engine.View(1), &bb); got != ActionMoveForward {
		t.Fatalf("expected MoveForward once facing the path, got %s", got)
	}
	if bb.Searches != 1 {
		t.Fatal("cached path should be reused within the refresh window")
	}
}

func TestPursuer_HoldsBeforeRammingOpponent(t *testing.T) {
	tm := NewTestMatch(WithTank1(1, 1, DirDownRight), WithTank2(2, 2, DirLeft))
	tm.Engine.tankByID(1).shootCooldown = 2
	var bb Blackboard
	if got := PursuerAction(tm.Engine.View(1), &bb); got != ActionNone {
		t.Fatalf("expected None next to the opponent, got %s", got)
	}
}

func TestPursuer_UnreachableYieldsNone(t *testing.T) {
	opts := []MatchOption{WithTank1(0, 1, DirRight), WithTank2(4, 4, DirLeft)}
	for y := 3; y <= 5; y++ {
		for x := 3; x <= 5; x++ {
			if x != 4 || y != 4 {
				opts = append(opts, WithWall(x, y))
			}
		}
	}
	tm := NewTestMatch(opts...)
	var bb Blackboard
	if got := PursuerAction(tm.Engine.View(1), &bb); got != ActionNone {
		t.Fatalf("expected None for an unreachable target, got %s", got)
	}
	if bb.HasPath {
		t.Fatal("no path should be cached")
	}
}

func TestPursuer_DeadTanksDoNothing(t *testing.T) {
	tm := NewTestMatch(WithTank1(1, 5, DirRight), WithTank2(7, 5, DirLeft))
	tm.Engine.tankByID(2).destroy()
	var bb Blackboard
	if got := PursuerAction(tm.Engine.View(1), &bb); got != ActionNone {
		t.Fatalf("expected None with no living opponent, got %s", got)
	}
}

// --- Evader ---

func evaderView(t *testing.T, facing Direction, opts ...MatchOption) View {
	t.Helper()
	base := []MatchOption{WithTank1(5, 5, facing), WithTank2(5, 1, DirDown)}
	tm := NewTestMatch(append(base, opts...)...)
	return tm.Engine.View(1)
}

func TestEvader_PerpendicularThreatDrivesForward(t *testing.T) {
	v := evaderView(t, DirUp, WithShell(2, 5, DirRight, 2))
	if got := EvaderAction(v); got != ActionMoveForward {
		t.Fatalf("expected MoveForward out of the line of fire, got %s", got)
	}
}

func TestEvader_ParallelThreatTurnsRight(t *testing.T) {
	v := evaderView(t, DirRight, WithShell(2, 5, DirRight, 2))
	if got := EvaderAction(v); got != ActionRotateRightQuarter {
		t.Fatalf("expected RotateRightQuarter, got %s", got)
	}
}

func TestEvader_RightBlockedTurnsLeft(t *testing.T) {
	v := evaderView(t, DirRight, WithShell(2, 5, DirRight, 2), WithWall(5, 6))
	if got := EvaderAction(v); got != ActionRotateLeftQuarter {
		t.Fatalf("expected RotateLeftQuarter, got %s", got)
	}
}

func TestEvader_BoxedInRotatesInPlace(t *testing.T) {
	v := evaderView(t, DirRight, WithShell(2, 5, DirRight, 2), WithWall(5, 6), WithWall(5, 4))
	if got := EvaderAction(v); got != ActionRotateRightEighth {
		t.Fatalf("expected RotateRightEighth, got %s", got)
	}
}

func TestEvader_DiagonalFacingStepsOffLine(t *testing.T) {
	v := evaderView(t, DirUpRight, WithShell(2, 5, DirRight, 2))
	if got := EvaderAction(v); got != ActionMoveForward {
		t.Fatalf("a diagonal heading already leaves the line of fire, expected MoveForward, got %s", got)
	}
}

func TestEvader_DiagonalBlockedTurnsToFreeDiagonal(t *testing.T) {
	v := evaderView(t, DirUpRight, WithShell(2, 5, DirRight, 2), WithWall(6, 4))
	if got := EvaderAction(v); got != ActionRotateRightQuarter {
		t.Fatalf("expected RotateRightQuarter toward DR, got %s", got)
	}
}

func TestEvader_PerpendicularBlockedAvoidsParallelTurn(t *testing.T) {
	v := evaderView(t, DirUp, WithShell(2, 5, DirRight, 2), WithWall(5, 4))
	if got := EvaderAction(v); got != ActionRotateRightEighth {
		t.Fatalf("a quarter turn would face along the shell, expected RotateRightEighth, got %s", got)
	}
}

func TestEvader_DodgesShellFromDiagonalFacing(t *testing.T) {
	tm := NewTestMatch(
		WithBoardSize(12, 12),
		WithTank1(5, 5, DirUpRight),
		WithTank2(5, 1, DirDown),
		WithShell(2, 5, DirRight, 2),
		WithAgents(Evader{}, Idle{}),
	)
	var actions []Action
	tm.Match.OnStep = func(sr StepRecord) { actions = append(actions, sr.Actions[0]) }
	tm.RunTicks(8)

	if !tm.Tank(1).Alive {
		t.Fatalf("evader should survive the shell, actions %v", actions)
	}
	if actions[0] != ActionMoveForward {
		t.Fatalf("evader should step off row 5 at once, actions %v", actions)
	}
	if tm.Engine.Stats(1).Moves == 0 {
		t.Fatalf("evader never moved: %v", actions)
	}
}

func TestEvader_WallShieldsThreat(t *testing.T) {
	v := evaderView(t, DirRight, WithShell(2, 5, DirRight, 2), WithWall(4, 5))
	// No threat, so it orbits: bearing Up, tangent Right, already facing it.
	if got := EvaderAction(v); got != ActionMoveForward {
		t.Fatalf("expected orbit MoveForward, got %s", got)
	}
}

func TestEvader_ThreatBeyondHorizonIgnored(t *testing.T) {
	g := NewGrid(20, 3)
	s := ShellState{Pos: Pos{0, 1}, Dir: DirRight}
	if shellThreatens(g, s, Pos{evadeHorizon + 1, 1}) {
		t.Fatal("targets beyond the horizon should be ignored")
	}
	if !shellThreatens(g, s, Pos{evadeHorizon, 1}) {
		t.Fatal("target at the horizon should be threatened")
	}
}

func TestEvader_OrbitRotatesToTangent(t *testing.T) {
	v := evaderView(t, DirUp)
	if got := EvaderAction(v); got != ActionRotateRightEighth {
		t.Fatalf("expected RotateRightEighth toward the tangent, got %s", got)
	}
}

func TestEvader_OrbitUsesOtherTangentWhenBlocked(t *testing.T) {
	v := evaderView(t, DirLeft, WithWall(6, 5))
	if got := EvaderAction(v); got != ActionMoveForward {
		t.Fatalf("expected MoveForward along the left tangent, got %s", got)
	}
}

// --- Scripted / Relay / factory ---

func TestScripted_ReplaysThenIdles(t *testing.T) {
	s := &Scripted{Actions: []Action{ActionShoot, ActionMoveForward}}
	got := []Action{s.Decide(View{}), s.Decide(View{}), s.Decide(View{})}
	want := []Action{ActionShoot, ActionMoveForward, ActionNone}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("step %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestScripted_Loop(t *testing.T) {
	s := &Scripted{Actions: []Action{ActionShoot, ActionNone}, Loop: true}
	for i := 0; i < 6; i++ {
		want := ActionShoot
		if i%2 == 1 {
			want = ActionNone
		}
		if got := s.Decide(View{}); got != want {
			t.Fatalf("step %d: got %s want %s", i, got, want)
		}
	}
}

func TestRelay_ConcurrentPush(t *testing.T) {
	var r Relay
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Push(ActionShoot)
		}()
	}
	wg.Wait()
	if r.Pending() != 8 {
		t.Fatalf("expected 8 queued actions, got %d", r.Pending())
	}
	for i := 0; i < 8; i++ {
		if r.Decide(View{}) != ActionShoot {
			t.Fatal("expected queued Shoot")
		}
	}
	if r.Decide(View{}) != ActionNone {
		t.Fatal("empty relay should yield None")
	}
}

func TestNewAgent(t *testing.T) {
	for _, name := range Policies {
		if _, err := NewAgent(name, nil); err != nil {
			t.Fatalf("NewAgent(%q): %v", name, err)
		}
	}
	if a, _ := NewAgent("HUMAN", nil); a == nil {
		t.Fatal("human should map to a relay")
	}
	if _, err := NewAgent("sniper", nil); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}
