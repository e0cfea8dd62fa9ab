package game

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the 8 compass facings, indexed clockwise from Up.
type Direction int

const (
	DirUp Direction = iota
	DirUpRight
	DirRight
	DirDownRight
	DirDown
	DirDownLeft
	DirLeft
	DirUpLeft
	dirCount // sentinel
)

// dirOffsets holds the unit step for each Direction. Screen coordinates:
// y grows downward, so Up is (0,-1).
var dirOffsets = [dirCount]Pos{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Rotate returns the direction n eighth-turns clockwise (negative n turns
// counter-clockwise).
func (d Direction) Rotate(n int) Direction {
	return Direction(((int(d)+n)%int(dirCount) + int(dirCount)) % int(dirCount))
}

// Opposite returns the direction facing the other way.
func (d Direction) Opposite() Direction { return d.Rotate(4) }

// Offset returns the unit step for d.
func (d Direction) Offset() Pos { return dirOffsets[d.Rotate(0)] }

// IsDiagonal reports whether d moves along both axes.
func (d Direction) IsDiagonal() bool { return d.Rotate(0)%2 == 1 }

func (d Direction) String() string {
	switch d.Rotate(0) {
	case DirUp:
		return "↑"
	case DirUpRight:
		return "↗"
	case DirRight:
		return "→"
	case DirDownRight:
		return "↘"
	case DirDown:
		return "↓"
	case DirDownLeft:
		return "↙"
	case DirLeft:
		return "←"
	default:
		return "↖"
	}
}

// Name returns the compass abbreviation used in configs and logs.
func (d Direction) Name() string {
	return dirNames[d.Rotate(0)]
}

var dirNames = [dirCount]string{"U", "UR", "R", "DR", "D", "DL", "L", "UL"}

// ErrUnknownDirection is returned by ParseDirection.
var ErrUnknownDirection = errors.New("unknown direction")

// ParseDirection accepts the compass abbreviations U, UR, R, DR, D, DL, L, UL.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range dirNames {
		if n == s {
			return Direction(i), nil
		}
	}
	return DirUp, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Action is one discrete command a tank may issue per tick.
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionRotateLeftEighth
	ActionRotateRightEighth
	ActionRotateLeftQuarter
	ActionRotateRightQuarter
	ActionShoot
	ActionNone
)

var actionNames = [...]string{
	ActionMoveForward:        "MOVE_FORWARD",
	ActionMoveBackward:       "MOVE_BACKWARD",
	ActionRotateLeftEighth:   "ROTATE_LEFT_EIGHTH",
	ActionRotateRightEighth:  "ROTATE_RIGHT_EIGHTH",
	ActionRotateLeftQuarter:  "ROTATE_LEFT_QUARTER",
	ActionRotateRightQuarter: "ROTATE_RIGHT_QUARTER",
	ActionShoot:              "SHOOT",
	ActionNone:               "NONE",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "UNKNOWN_ACTION"
	}
	return actionNames[a]
}

// rotation returns the eighth-turn delta for rotate actions, 0 otherwise.
func (a Action) rotation() int {
	switch a {
	case ActionRotateLeftEighth:
		return -1
	case ActionRotateRightEighth:
		return 1
	case ActionRotateLeftQuarter:
		return -2
	case ActionRotateRightQuarter:
		return 2
	default:
		return 0
	}
}

// ErrUnknownAction is returned by ParseAction.
var ErrUnknownAction = errors.New("unknown action")

// ParseAction accepts names such as "MOVE_FORWARD", "move-forward" or "shoot".
func ParseAction(s string) (Action, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	norm = strings.ReplaceAll(norm, " ", "_")
	for i, n := range actionNames {
		if n == norm {
			return Action(i), nil
		}
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}
