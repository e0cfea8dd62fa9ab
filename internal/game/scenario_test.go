package game

import "testing"

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, tm *TestMatch) {
	t.Helper()
	entries := tm.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// --- Scenario: Drive Across Open Board ---

func TestScenario_DriveAcrossOpenBoard(t *testing.T) {
	t.Log("=== TestScenario_DriveAcrossOpenBoard ===")
	t.Log("--- Setup: 5x5 open board, P1 at (0,0) facing right, P2 at (4,4) ---")

	tm := NewTestMatch(
		WithBoardSize(5, 5),
		WithVerbose(true),
		WithTank1(0, 0, DirRight),
		WithTank2(4, 4, DirRight),
	)
	for i := 0; i < 4; i++ {
		tm.Step(ActionMoveForward, ActionNone)
	}
	dumpLog(t, tm)

	if got := tm.Tank(1).Pos; got != (Pos{4, 0}) {
		t.Fatalf("expected P1 at (4,0) after 4 ticks, got %s", got)
	}
	if !tm.Tank(1).Alive || !tm.Tank(2).Alive {
		t.Fatal("no collision should occur")
	}
	if tm.Engine.IsOver() {
		t.Fatalf("match should still be running, got %s", tm.Engine.Outcome())
	}
	if n := tm.SimLog.Count(CategoryMove, "position"); n != 4 {
		t.Fatalf("expected 4 position entries, got %d", n)
	}
}

// --- Scenario: Shell Speed ---

func TestScenario_ShellTravelsTwoCellsPerTick(t *testing.T) {
	t.Log("=== TestScenario_ShellTravelsTwoCellsPerTick ===")
	t.Log("--- Setup: 10-wide open board, shell at (0,0) heading right ---")

	tm := NewTestMatch(
		WithBoardSize(10, 10),
		WithTank1(0, 5, DirUp),
		WithTank2(9, 5, DirUp),
		WithShell(0, 0, DirRight, 1),
	)

	tm.Step(ActionNone, ActionNone)
	tm.Step(ActionNone, ActionNone)
	if len(tm.ShellsAt(4, 0)) != 1 {
		t.Fatalf("expected shell at (4,0) after 2 ticks\n%s", tm.DumpState())
	}
	tm.Step(ActionNone, ActionNone)
	tm.Step(ActionNone, ActionNone)
	if len(tm.ShellsAt(8, 0)) != 1 {
		t.Fatalf("expected shell at (8,0) after 4 ticks\n%s", tm.DumpState())
	}
	if !tm.Grid.At(Pos{8, 0}).ShellOverlay {
		t.Fatal("resting shell should be marked on the grid")
	}
	if tm.Grid.At(Pos{4, 0}).ShellOverlay {
		t.Fatal("stale overlays should be cleared each tick")
	}
}

// --- Scenario: Wall Takes Two Shots ---

func TestScenario_WallBreaksOnSecondShot(t *testing.T) {
	t.Log("=== TestScenario_WallBreaksOnSecondShot ===")
	t.Log("--- Setup: P1 at (0,0) facing right, wall at (5,0) ---")

	tm := NewTestMatch(
		WithTank1(0, 0, DirRight),
		WithTank2(9, 9, DirLeft),
		WithWall(5, 0),
	)
	wall := Pos{5, 0}

	// First shell: spawns tick 1 at (1,0), (3,0) on tick 2, hits on tick 3.
	tm.Step(ActionShoot, ActionNone)
	tm.Step(ActionNone, ActionNone)
	tm.Step(ActionNone, ActionNone)
	if c := tm.Grid.At(wall); c.Content != CellWall || c.WallHits != 1 {
		t.Fatalf("after first hit expected wall with 1 hit, got %s hits=%d\n%s", c.Content, c.WallHits, tm.DumpState())
	}

	// Cooldown clears on tick 5; the second shell hits on tick 7.
	tm.Step(ActionNone, ActionNone)
	tm.Step(ActionShoot, ActionNone)
	tm.Step(ActionNone, ActionNone)
	if c := tm.Grid.At(wall); c.Content != CellWall || c.WallHits != 1 {
		t.Fatalf("wall should still stand before the second hit, got %s hits=%d", c.Content, c.WallHits)
	}
	tm.Step(ActionNone, ActionNone)
	dumpLog(t, tm)

	if c := tm.Grid.At(wall); c.Content != CellEmpty || c.WallHits != 0 {
		t.Fatalf("wall should be cleared on the second hit, got %s hits=%d", c.Content, c.WallHits)
	}
	if tm.Engine.Stats(1).WallsDestroyed != 1 {
		t.Fatal("destroyed wall should be credited to player 1")
	}
	if !tm.SimLog.HasEntry(CategoryWall, "destroyed", "(5,0)") {
		t.Fatal("expected a wall destroyed log entry")
	}
}

func TestScenario_TwoShellsSameTickBreakWall(t *testing.T) {
	t.Log("=== TestScenario_TwoShellsSameTickBreakWall ===")

	tm := NewTestMatch(
		WithWall(5, 5),
		WithShell(3, 5, DirRight, 1),
		WithShell(7, 5, DirLeft, 2),
	)
	tm.Step(ActionNone, ActionNone)
	dumpLog(t, tm)

	if c := tm.Grid.At(Pos{5, 5}); c.Content != CellEmpty {
		t.Fatalf("two hits in one tick should clear the wall, got %s hits=%d", c.Content, c.WallHits)
	}
	if len(tm.Engine.Shells()) != 0 {
		t.Fatal("both shells should be consumed by the wall")
	}
}

// --- Scenario: Ammo Timeout ---

func TestScenario_AmmoTimeoutTie(t *testing.T) {
	t.Log("=== TestScenario_AmmoTimeoutTie ===")

	tm := NewTestMatch()
	tm.Engine.tankByID(1).ammo = 0
	tm.Engine.tankByID(2).ammo = 0

	for i := 1; i < ammoTimeoutTicks; i++ {
		if tm.Step(ActionShoot, ActionShoot) {
			t.Fatalf("match ended early on tick %d", i)
		}
	}
	if tm.Engine.EmptyAmmoTicks() != ammoTimeoutTicks-1 {
		t.Fatalf("expected counter %d, got %d", ammoTimeoutTicks-1, tm.Engine.EmptyAmmoTicks())
	}
	if !tm.Step(ActionNone, ActionNone) {
		t.Fatal("match should end on the 40th empty tick")
	}
	if tm.Engine.Outcome() != OutcomeTieAmmoTimeout {
		t.Fatalf("expected ammo timeout, got %s", tm.Engine.Outcome())
	}
	if tm.Engine.Result() != "Tie (40 steps after ammo exhausted)" {
		t.Fatalf("unexpected result %q", tm.Engine.Result())
	}
}

func TestScenario_AmmoTimeoutCounterResets(t *testing.T) {
	tm := NewTestMatch()
	t1, t2 := tm.Engine.tankByID(1), tm.Engine.tankByID(2)
	t1.ammo, t2.ammo = 0, 0

	for i := 0; i < 10; i++ {
		tm.Step(ActionNone, ActionNone)
	}
	if tm.Engine.EmptyAmmoTicks() != 10 {
		t.Fatalf("expected counter 10, got %d", tm.Engine.EmptyAmmoTicks())
	}

	t1.ammo = 1
	tm.Step(ActionNone, ActionNone)
	if tm.Engine.EmptyAmmoTicks() != 0 {
		t.Fatal("counter should reset while a tank holds ammo")
	}

	t1.ammo = 0
	for i := 0; i < ammoTimeoutTicks-1; i++ {
		tm.Step(ActionNone, ActionNone)
	}
	if tm.Engine.IsOver() {
		t.Fatal("timeout must count consecutive ticks only")
	}
	tm.Step(ActionNone, ActionNone)
	if tm.Engine.Outcome() != OutcomeTieAmmoTimeout {
		t.Fatalf("expected ammo timeout, got %s", tm.Engine.Outcome())
	}
}

// --- Scenario: Pursuer Hunts Idle Target ---

func TestScenario_PursuerHuntsIdleTarget(t *testing.T) {
	t.Log("=== TestScenario_PursuerHuntsIdleTarget ===")
	t.Log("--- Setup: pursuer at (1,1) facing left, idle target on the diagonal at (8,8) ---")

	tm := NewTestMatch(
		WithVerbose(true),
		WithTank1(1, 1, DirLeft),
		WithTank2(8, 8, DirRight),
		WithAgents(&Pursuer{}, Idle{}),
	)
	tm.RunTicks(DefaultMaxTicks)
	dumpLog(t, tm)

	// Three left eighths (L -> DL -> D -> DR), shoot on tick 4, shell lands on tick 7.
	if tm.Engine.Outcome() != OutcomePlayer1Wins {
		t.Fatalf("expected pursuer to win, got %s\n%s", tm.Engine.Outcome(), tm.DumpState())
	}
	if tm.Engine.Tick() != 7 {
		t.Fatalf("expected kill on tick 7, got %d", tm.Engine.Tick())
	}
	if tm.Engine.Stats(1).Rotations != 3 {
		t.Fatalf("expected 3 rotations, got %d", tm.Engine.Stats(1).Rotations)
	}
}

func TestScenario_PursuerNavigatesAroundWall(t *testing.T) {
	t.Log("=== TestScenario_PursuerNavigatesAroundWall ===")

	tm := NewTestMatch(
		WithBoard(
			"##########",
			"#1       #",
			"#######  #",
			"#        #",
			"#   2    #",
			"##########",
		),
		WithAgents(&Pursuer{}, Idle{}),
	)
	tick := tm.RunUntil(func(tm *TestMatch) bool { return !tm.Tank(2).Alive }, 200)
	dumpLog(t, tm)

	if tick < 0 {
		t.Fatalf("pursuer never reached its target\n%s", tm.DumpState())
	}
	if !tm.Tank(1).Alive {
		t.Fatal("pursuer should survive")
	}
	t.Logf("PASS: target destroyed on tick %d", tick)
}

func TestScenario_EvaderVsPursuerIsDeterministic(t *testing.T) {
	run := func() (Outcome, int, TankState, TankState) {
		tm := NewTestMatch(
			WithBoardSize(12, 9),
			WithTank1(1, 1, DirRight),
			WithTank2(9, 6, DirLeft),
			WithWall(5, 3), WithWall(5, 4), WithWall(5, 5),
			WithAgents(&Pursuer{}, Evader{}),
		)
		tm.Match.Run(300)
		return tm.Engine.Outcome(), tm.Engine.Tick(), tm.Tank(1), tm.Tank(2)
	}
	o1, k1, a1, b1 := run()
	o2, k2, a2, b2 := run()
	if o1 != o2 || k1 != k2 || a1 != a2 || b1 != b2 {
		t.Fatalf("identical matches diverged: %s@%d vs %s@%d", o1, k1, o2, k2)
	}
	t.Logf("outcome=%s ticks=%d", o1, k1)
}
