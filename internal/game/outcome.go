package game

// Outcome is the terminal state of a match.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomePlayer1Wins
	OutcomePlayer2Wins
	OutcomeTieBothDestroyed
	OutcomeTieAmmoTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ongoing"
	case OutcomePlayer1Wins:
		return "player1_wins"
	case OutcomePlayer2Wins:
		return "player2_wins"
	case OutcomeTieBothDestroyed:
		return "tie_both_destroyed"
	case OutcomeTieAmmoTimeout:
		return "tie_ammo_timeout"
	default:
		return "unknown"
	}
}

// Result returns the human-readable result line, or "" while ongoing.
func (o Outcome) Result() string {
	switch o {
	case OutcomePlayer1Wins:
		return "Player 1 wins (Player 2 destroyed)"
	case OutcomePlayer2Wins:
		return "Player 2 wins (Player 1 destroyed)"
	case OutcomeTieBothDestroyed:
		return "Tie (Both tanks destroyed)"
	case OutcomeTieAmmoTimeout:
		return "Tie (40 steps after ammo exhausted)"
	default:
		return ""
	}
}

// IsTie reports whether nobody won.
func (o Outcome) IsTie() bool {
	return o == OutcomeTieBothDestroyed || o == OutcomeTieAmmoTimeout
}

// Winner returns 1 or 2 for a decisive outcome, 0 otherwise.
func (o Outcome) Winner() int {
	switch o {
	case OutcomePlayer1Wins:
		return 1
	case OutcomePlayer2Wins:
		return 2
	default:
		return 0
	}
}

// ammoTimeoutTicks is how many consecutive ticks both tanks may sit on zero
// ammo before the match is called.
const ammoTimeoutTicks = 40

// determineOutcome applies the end-of-tick rules. emptyAmmoTicks is the
// counter after this tick has been accounted for.
func determineOutcome(t1, t2 *Tank, emptyAmmoTicks int) Outcome {
	switch {
	case !t1.alive && !t2.alive:
		return OutcomeTieBothDestroyed
	case !t1.alive:
		return OutcomePlayer2Wins
	case !t2.alive:
		return OutcomePlayer1Wins
	case emptyAmmoTicks >= ammoTimeoutTicks:
		return OutcomeTieAmmoTimeout
	default:
		return OutcomeOngoing
	}
}
