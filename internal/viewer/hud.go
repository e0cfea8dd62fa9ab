package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/tank-duel/internal/game"
)

const (
	hudPadding    = 6
	hudLineHeight = 15
)

type hudStatus struct {
	Frame  game.Frame
	Cursor int
	Frames int
	Paused bool
	Speed  float64
	Live   bool
}

// HUD renders the status strip under the board.
type HUD struct {
	fg  color.RGBA
	dim color.RGBA
}

// NewHUD returns a HUD with the default palette.
func NewHUD() *HUD {
	return &HUD{
		fg:  color.RGBA{R: 220, G: 220, B: 230, A: 255},
		dim: color.RGBA{R: 150, G: 150, B: 160, A: 255},
	}
}

func speedLabel(paused bool, speed float64) string {
	if paused {
		return "PAUSED"
	}
	if speed == float64(int(speed)) {
		return fmt.Sprintf("%dx", int(speed))
	}
	return fmt.Sprintf("%.2gx", speed)
}

func tankLine(t game.TankState) string {
	if !t.Alive {
		return fmt.Sprintf("P%d destroyed at %s", t.ID, t.Pos)
	}
	line := fmt.Sprintf("P%d %s %s ammo=%d cd=%d", t.ID, t.Pos, t.Facing.Name(), t.Ammo, t.Cooldown)
	if t.BackwardPending {
		line += fmt.Sprintf(" back in %d", t.BackwardDelay)
	}
	return line
}

func (st hudStatus) lines() []string {
	f := st.Frame
	status := "in progress"
	if f.Outcome != game.OutcomeOngoing {
		status = "GAME OVER: " + f.Result()
	}
	keys := "SPACE pause  N/-> step  <- back  HOME start  ,/. speed  R restart  C copy  Q quit"
	if st.Live {
		keys = "W/S move  A/D turn (SHIFT quarter)  F fire  SPACE pause  R restart  ESC quit"
	}
	return []string{
		fmt.Sprintf("tick %d  frame %d/%d  %s  %s", f.Tick, st.Cursor+1, st.Frames, speedLabel(st.Paused, st.Speed), status),
		tankLine(f.Tanks[0]) + "   last " + f.Actions[0].String(),
		tankLine(f.Tanks[1]) + "   last " + f.Actions[1].String(),
		keys,
	}
}

// Draw renders the strip at (x, y) with the given width.
func (h *HUD) Draw(screen *ebiten.Image, x, y, w int, st hudStatus) {
	vector.FillRect(screen, float32(x), float32(y), float32(w), hudHeight, color.RGBA{R: 6, G: 10, B: 6, A: 230}, false)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x+w), float32(y), 1.0, colBorder, false)

	face := basicfont.Face7x13
	for i, line := range st.lines() {
		col := h.fg
		switch i {
		case 1:
			col = colP1
		case 2:
			col = colP2
		case 3:
			col = h.dim
		}
		text.Draw(screen, line, face, x+hudPadding, y+hudPadding+(i+1)*hudLineHeight-3, col)
	}
}
