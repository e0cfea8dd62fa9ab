package game

import (
	"strings"
	"testing"
)

func TestTankStats_CountsShotsAndWalls(t *testing.T) {
	tm := NewTestMatch(WithTank1(0, 0, DirRight), WithTank2(9, 9, DirLeft), WithWall(3, 0))
	for i := 0; i < 8; i++ {
		a := ActionNone
		if i == 0 || i == 4 {
			a = ActionShoot
		}
		tm.Step(a, ActionNone)
	}
	st := tm.Engine.Stats(1)
	if st.ShotsFired != 2 || st.WallHits != 2 || st.WallsDestroyed != 1 {
		t.Fatalf("unexpected stats: %s", st)
	}
	if tm.Engine.Stats(2) != (TankStats{}) {
		t.Fatal("idle player should have no stats")
	}
}

func TestBatchReport_Aggregates(t *testing.T) {
	var br BatchReport
	br.Add(MatchSummary{Run: 1, Ticks: 10, Outcome: OutcomePlayer1Wins, Stats: [2]TankStats{{ShotsFired: 3}, {}}})
	br.Add(MatchSummary{Run: 2, Ticks: 20, Outcome: OutcomeTieAmmoTimeout})
	br.Add(MatchSummary{Run: 3, Ticks: 30, Outcome: OutcomeOngoing, Stats: [2]TankStats{{}, {ShotsFired: 2, WallsDestroyed: 1}}})

	if br.Runs != 3 || br.Player1Wins != 1 || br.TiesTimeout != 1 || br.Inconclusive != 1 {
		t.Fatalf("unexpected tallies %+v", br)
	}
	if br.MeanTicks() != 20 {
		t.Fatalf("expected mean 20, got %.1f", br.MeanTicks())
	}
	out := br.Format()
	for _, want := range []string{"runs=3", "p1_wins=1", "inconclusive=1", "shots p1=3 p2=2", "walls_destroyed p1=0 p2=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("format missing %q:\n%s", want, out)
		}
	}
}

func TestBatchReport_EmptyMean(t *testing.T) {
	var br BatchReport
	if br.MeanTicks() != 0 {
		t.Fatal("empty report should have zero mean")
	}
}

func TestSummarize_Line(t *testing.T) {
	tm := NewTestMatch(WithTank1(3, 5, DirRight), WithTank2(5, 5, DirLeft))
	tm.Step(ActionMoveForward, ActionMoveForward)
	s := Summarize(4, tm.Engine)
	if s.Outcome != OutcomeTieBothDestroyed || s.Ticks != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if !strings.Contains(s.Line(), "Tie (Both tanks destroyed)") || !strings.HasPrefix(s.Line(), "run=04") {
		t.Fatalf("unexpected line %q", s.Line())
	}

	s.Outcome = OutcomeOngoing
	if !strings.Contains(s.Line(), "inconclusive") {
		t.Fatal("ongoing summary should be reported as inconclusive")
	}
}
