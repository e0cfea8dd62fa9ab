package game

import (
	"strings"
	"testing"
)

func TestTankStats_MovementCounters(t *testing.T) {
	tm := NewTestMatch(WithTank1(2, 2, DirRight), WithTank2(8, 8, DirLeft), WithWall(4, 2))
	tm.Step(ActionMoveForward, ActionNone)        // (3,2)
	tm.Step(ActionMoveForward, ActionNone)        // onto the wall at (4,2)
	tm.Step(ActionRotateRightQuarter, ActionNone) // facing down
	tm.Step(ActionMoveBackward, ActionNone)
	tm.Step(ActionNone, ActionNone)
	tm.Step(ActionNone, ActionNone)

	if tm.Tank(1).Pos != (Pos{4, 1}) {
		t.Fatalf("expected backward move to (4,1), got %s", tm.Tank(1).Pos)
	}
	want := TankStats{Moves: 3, WallsOverrun: 1, Rotations: 1, BackwardMoves: 1}
	if got := tm.Engine.Stats(1); got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestTankStats_KillCounted(t *testing.T) {
	tm := NewTestMatch(WithTank1(0, 5, DirRight), WithTank2(5, 5, DirLeft))
	tm.Step(ActionShoot, ActionNone)
	tm.RunTicks(2)
	st := tm.Engine.Stats(1)
	if st.Kills != 1 || st.SelfHits != 0 || st.ShotsFired != 1 {
		t.Fatalf("unexpected stats %s", st)
	}
	if !strings.Contains(st.String(), "kills=1") {
		t.Fatalf("String should list kills: %s", st)
	}
}
