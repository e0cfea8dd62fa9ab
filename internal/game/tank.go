package game

import "fmt"

const (
	startingAmmo     = 16
	shootCooldownLen = 4 // ticks between shots
	backwardDelayLen = 2 // ticks a backward request waits before moving
)

// Tank is one of the two actors in a match.
type Tank struct {
	id     int // 1 or 2
	pos    Pos
	facing Direction
	ammo   int
	alive  bool

	shootCooldown int

	backwardRequested bool
	backwardDelay     int
}

// NewTank creates a live tank with full ammo.
func NewTank(id int, pos Pos, facing Direction) *Tank {
	return &Tank{id: id, pos: pos, facing: facing, ammo: startingAmmo, alive: true}
}

// Label returns "P1" or "P2".
func (t *Tank) Label() string { return fmt.Sprintf("P%d", t.id) }

// marker returns the grid content used for this tank.
func (t *Tank) marker() CellContent {
	if t.id == 2 {
		return CellTank2
	}
	return CellTank1
}

// CanShoot reports whether a Shoot this tick would fire.
func (t *Tank) CanShoot() bool { return t.shootCooldown == 0 && t.ammo > 0 }

// WaitingToMoveBack reports whether the tank is committed to a pending reverse.
func (t *Tank) WaitingToMoveBack() bool { return t.backwardRequested && t.backwardDelay > 0 }

func (t *Tank) updateCooldowns() {
	if t.shootCooldown > 0 {
		t.shootCooldown--
	}
	if t.backwardRequested && t.backwardDelay > 0 {
		t.backwardDelay--
	}
}

func (t *Tank) requestBackward() {
	if !t.backwardRequested {
		t.backwardRequested = true
		t.backwardDelay = backwardDelayLen
	}
}

func (t *Tank) cancelBackward() {
	t.backwardRequested = false
	t.backwardDelay = 0
}

func (t *Tank) rotate(n int) {
	t.facing = t.facing.Rotate(n)
}

// consumeShot spends one shell and restarts the cooldown.
func (t *Tank) consumeShot() {
	t.ammo--
	t.shootCooldown = shootCooldownLen
}

func (t *Tank) destroy() { t.alive = false }

// TankState is a read-only copy of a tank.
type TankState struct {
	ID              int
	Pos             Pos
	Facing          Direction
	Ammo            int
	Cooldown        int
	Alive           bool
	BackwardPending bool
	BackwardDelay   int
}

// State returns a value copy for decisions and rendering.
func (t *Tank) State() TankState {
	return TankState{
		ID:              t.id,
		Pos:             t.pos,
		Facing:          t.facing,
		Ammo:            t.ammo,
		Cooldown:        t.shootCooldown,
		Alive:           t.alive,
		BackwardPending: t.backwardRequested,
		BackwardDelay:   t.backwardDelay,
	}
}
