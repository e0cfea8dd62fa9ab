package game

import (
	"fmt"
	"strings"
)

// MatchSummary is the condensed result of one finished (or capped) match.
type MatchSummary struct {
	Run     int
	Ticks   int
	Outcome Outcome
	Stats   [2]TankStats
	Final   [2]TankState
}

// Summarize captures the engine's current result.
func Summarize(run int, e *Engine) MatchSummary {
	return MatchSummary{
		Run:     run,
		Ticks:   e.Tick(),
		Outcome: e.Outcome(),
		Stats:   [2]TankStats{e.Stats(1), e.Stats(2)},
		Final:   [2]TankState{e.Tank(1), e.Tank(2)},
	}
}

// Line formats the summary as a single report line.
func (s MatchSummary) Line() string {
	res := s.Outcome.Result()
	if res == "" {
		res = "inconclusive (tick cap reached)"
	}
	return fmt.Sprintf("run=%02d ticks=%4d %-38s P1[%s] P2[%s]",
		s.Run, s.Ticks, res, s.Stats[0], s.Stats[1])
}

// BatchReport aggregates many matches.
type BatchReport struct {
	Runs         int
	Player1Wins  int
	Player2Wins  int
	TiesDestroy  int
	TiesTimeout  int
	Inconclusive int

	totalTicks     int
	shots          [2]int
	wallsDestroyed [2]int
}

// Add folds one summary into the report.
func (br *BatchReport) Add(s MatchSummary) {
	br.Runs++
	br.totalTicks += s.Ticks
	switch s.Outcome {
	case OutcomePlayer1Wins:
		br.Player1Wins++
	case OutcomePlayer2Wins:
		br.Player2Wins++
	case OutcomeTieBothDestroyed:
		br.TiesDestroy++
	case OutcomeTieAmmoTimeout:
		br.TiesTimeout++
	default:
		br.Inconclusive++
	}
	for i := range s.Stats {
		br.shots[i] += s.Stats[i].ShotsFired
		br.wallsDestroyed[i] += s.Stats[i].WallsDestroyed
	}
}

// MeanTicks returns the average match length.
func (br *BatchReport) MeanTicks() float64 {
	if br.Runs == 0 {
		return 0
	}
	return float64(br.totalTicks) / float64(br.Runs)
}

// Format renders the aggregate block.
func (br *BatchReport) Format() string {
	var sb strings.Builder
	sb.WriteString("=== Aggregate ===\n")
	fmt.Fprintf(&sb, "runs=%d mean_ticks=%.1f\n", br.Runs, br.MeanTicks())
	fmt.Fprintf(&sb, "p1_wins=%d p2_wins=%d ties_destroyed=%d ties_timeout=%d inconclusive=%d\n",
		br.Player1Wins, br.Player2Wins, br.TiesDestroy, br.TiesTimeout, br.Inconclusive)
	fmt.Fprintf(&sb, "shots p1=%d p2=%d  walls_destroyed p1=%d p2=%d\n",
		br.shots[0], br.shots[1], br.wallsDestroyed[0], br.wallsDestroyed[1])
	return sb.String()
}
