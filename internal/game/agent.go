package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// evadeHorizon is how many cells ahead of a shell the evader checks.
const evadeHorizon = 5

// Agent produces one action per tick from a read-only view.
type Agent interface {
	Decide(v View) Action
}

// AgentFunc adapts a plain function to Agent.
type AgentFunc func(v View) Action

// Decide calls f.
func (f AgentFunc) Decide(v View) Action { return f(v) }

// --- Pursuer ---

// Pursuer hunts the opponent: shoot on sight, otherwise follow an A* path.
// Memory is the caller-owned path cache.
type Pursuer struct {
	Memory Blackboard
}

// Decide implements Agent.
func (p *Pursuer) Decide(v View) Action { return PursuerAction(v, &p.Memory) }

// PursuerAction is the aggressive policy. It reads v and updates only bb.
func PursuerAction(v View, bb *Blackboard) Action {
	me, opp := v.Self, v.Opponent
	if !me.Alive || !opp.Alive {
		return ActionNone
	}

	if me.Cooldown == 0 && HasLineOfSight(v.Grid, me.Pos, opp.Pos) {
		want := DirectionTo(me.Pos, opp.Pos)
		if me.Facing == want {
			return ActionShoot
		}
		return RotateTowards(me.Facing, want)
	}

	refreshed := false
	if bb.stale(v.Tick, opp.Pos) {
		bb.refresh(v.Grid, v.Tick, me.Pos, opp.Pos)
		refreshed = true
	}
	if !bb.advanceTo(me.Pos) {
		// Knocked off the route (reverse, stale cache).
		if refreshed {
			return ActionNone
		}
		bb.refresh(v.Grid, v.Tick, me.Pos, opp.Pos)
		if !bb.advanceTo(me.Pos) {
			return ActionNone
		}
	}
	if len(bb.Path) == 0 {
		return ActionNone
	}

	next := bb.Path[0]
	want := DirectionTo(me.Pos, next)
	if me.Facing != want {
		return RotateTowards(me.Facing, want)
	}
	if next == opp.Pos {
		// Driving in would destroy both tanks.
		return ActionNone
	}
	return ActionMoveForward
}

// --- Evader ---

// Evader dodges incoming shells and otherwise circles the opponent.
type Evader struct{}

// Decide implements Agent.
func (Evader) Decide(v View) Action { return EvaderAction(v) }

// EvaderAction is the defensive policy.
func EvaderAction(v View) Action {
	if !v.Self.Alive {
		return ActionNone
	}
	for _, s := range v.Shells {
		if shellThreatens(v.Grid, s, v.Self.Pos) {
			return sidestep(v, s)
		}
	}
	if !v.Opponent.Alive {
		return ActionNone
	}
	return orbit(v)
}

// shellThreatens predicts s over its next evadeHorizon cells.
func shellThreatens(g *Grid, s ShellState, target Pos) bool {
	p := s.Pos
	for i := 0; i < evadeHorizon; i++ {
		p = g.Step(p, s.Dir)
		if p == target {
			return true
		}
		if g.Content(p) == CellWall {
			return false
		}
	}
	return false
}

// crosses reports whether heading a leaves a straight line travelled along b,
// i.e. a is neither parallel nor antiparallel to b.
func crosses(a, b Direction) bool {
	diff := (a.Rotate(0) - b.Rotate(0) + dirCount) % dirCount
	return diff != 0 && diff != 4
}

// freeAhead reports whether the neighbour of p along d is empty.
func freeAhead(g *Grid, p Pos, d Direction) bool {
	return g.Content(g.Step(p, d)) == CellEmpty
}

// sidestepTurns are tried in order when the tank cannot step off the line of
// fire from its current facing.
var sidestepTurns = []Action{
	ActionRotateRightQuarter,
	ActionRotateLeftQuarter,
	ActionRotateRightEighth,
	ActionRotateLeftEighth,
}

func sidestep(v View, threat ShellState) Action {
	me := v.Self
	if crosses(me.Facing, threat.Dir) && freeAhead(v.Grid, me.Pos, me.Facing) {
		return ActionMoveForward
	}
	for _, a := range sidestepTurns {
		d := me.Facing.Rotate(a.rotation())
		if crosses(d, threat.Dir) && freeAhead(v.Grid, me.Pos, d) {
			return a
		}
	}
	return ActionRotateRightEighth
}

func orbit(v View) Action {
	me := v.Self
	bearing := DirectionTo(me.Pos, v.Opponent.Pos)
	tangent := bearing.Rotate(2)
	if !freeAhead(v.Grid, me.Pos, tangent) && freeAhead(v.Grid, me.Pos, bearing.Rotate(-2)) {
		tangent = bearing.Rotate(-2)
	}
	if me.Facing != tangent {
		return RotateTowards(me.Facing, tangent)
	}
	if freeAhead(v.Grid, me.Pos, me.Facing) {
		return ActionMoveForward
	}
	return ActionNone
}

// --- Scripted / Relay / Idle ---

// Scripted replays a fixed action list, then issues ActionNone (or starts
// over when Loop is set).
type Scripted struct {
	Actions []Action
	Loop    bool
	next    int
}

// Decide implements Agent.
func (s *Scripted) Decide(View) Action {
	if len(s.Actions) == 0 {
		return ActionNone
	}
	if s.next >= len(s.Actions) {
		if !s.Loop {
			return ActionNone
		}
		s.next = 0
	}
	a := s.Actions[s.next]
	s.next++
	return a
}

// Relay forwards actions pushed from outside, e.g. a keyboard. One queued
// action is consumed per tick; an empty queue yields ActionNone.
type Relay struct {
	mu    sync.Mutex
	queue []Action
}

// Push queues an action for a future tick.
func (r *Relay) Push(a Action) {
	r.mu.Lock()
	r.queue = append(r.queue, a)
	r.mu.Unlock()
}

// Pending returns the number of queued actions.
func (r *Relay) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Decide implements Agent.
func (r *Relay) Decide(View) Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return ActionNone
	}
	a := r.queue[0]
	r.queue = r.queue[1:]
	return a
}

// Idle never acts.
type Idle struct{}

// Decide implements Agent.
func (Idle) Decide(View) Action { return ActionNone }

// ErrUnknownPolicy is returned by NewAgent.
var ErrUnknownPolicy = errors.New("unknown agent policy")

// Policies lists the names NewAgent accepts.
var Policies = []string{"pursuer", "evader", "scripted", "relay", "idle"}

// NewAgent builds an agent by policy name. script is used by "scripted".
func NewAgent(policy string, script []Action) (Agent, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "pursuer":
		return &Pursuer{}, nil
	case "evader":
		return Evader{}, nil
	case "scripted":
		return &Scripted{Actions: script}, nil
	case "relay", "human":
		return &Relay{}, nil
	case "idle", "":
		return Idle{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}
