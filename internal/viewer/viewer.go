// Package viewer is the ebiten window that replays or plays a match.
package viewer

import (
	"errors"
	"image/color"
	"math"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/tank-duel/internal/game"
)

const (
	hudHeight     = 84
	minBoardH     = 240
	reportTicks   = 10
	updatesPerSec = 60 // ebiten default TPS
)

var (
	colBackground = color.RGBA{R: 18, G: 22, B: 18, A: 255}
	colGridLine   = color.RGBA{R: 40, G: 52, B: 40, A: 255}
	colWall       = color.RGBA{R: 120, G: 118, B: 110, A: 255}
	colWallCrack  = color.RGBA{R: 80, G: 72, B: 64, A: 255}
	colMine       = color.RGBA{R: 220, G: 60, B: 40, A: 255}
	colShell      = color.RGBA{R: 250, G: 220, B: 90, A: 255}
	colP1         = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	colP2         = color.RGBA{R: 70, G: 110, B: 210, A: 255}
	colDead       = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	colBorder     = color.RGBA{R: 60, G: 100, B: 60, A: 200}
)

var speeds = []float64{0.25, 0.5, 1, 2, 4}

// Builder creates a fresh match. It is called on start and on every restart.
type Builder func() (*game.Match, error)

// Options configures the window.
type Options struct {
	Scale    int // pixels per cell
	TPS      int // match ticks per second at 1x
	MaxTicks int
	Live     bool // player 1 is driven from the keyboard
	Logger   *log.Logger
}

// Viewer implements ebiten.Game. In replay mode the whole match is recorded
// up front and the cursor moves over its frames; in live mode frames are
// appended as the match is stepped.
type Viewer struct {
	build Builder
	opts  Options
	log   *log.Logger

	match *game.Match
	rec   *game.Recorder
	relay *game.Relay

	cursor    int
	paused    bool
	speed     float64
	tickAccum float64

	events *EventLog
	hud    *HUD
}

// New builds the first match and returns a ready viewer.
func New(build Builder, opts Options) (*Viewer, error) {
	if opts.Scale <= 0 {
		opts.Scale = 24
	}
	if opts.TPS <= 0 {
		opts.TPS = 8
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	v := &Viewer{
		build:  build,
		opts:   opts,
		log:    opts.Logger,
		speed:  1,
		events: NewEventLog(),
		hud:    NewHUD(),
	}
	if err := v.Reset(); err != nil {
		return nil, err
	}
	return v, nil
}

// Reset rebuilds the match and rewinds to frame 0.
func (v *Viewer) Reset() error {
	m, err := v.build()
	if err != nil {
		return err
	}
	if m.Engine.SimLog() == nil {
		return errors.New("viewer needs an engine with a sim log")
	}
	v.match = m
	v.relay = nil
	if v.opts.Live {
		r, ok := m.Agents[0].(*game.Relay)
		if !ok {
			r = &game.Relay{}
			m.Agents[0] = r
		}
		v.relay = r
		v.rec = game.NewRecorder(m.Engine)
	} else {
		v.rec = game.RecordMatch(m, v.opts.MaxTicks)
		v.log.Info("match recorded", "ticks", m.Engine.Tick(), "result", m.Engine.Outcome().Result())
	}
	v.cursor = 0
	v.tickAccum = 0
	v.events.SyncTo(m.Engine.SimLog(), 0)
	return nil
}

// Frame returns the frame under the cursor.
func (v *Viewer) Frame() game.Frame { return v.rec.Frame(v.cursor) }

// Cursor returns the index of the displayed frame.
func (v *Viewer) Cursor() int { return v.cursor }

// Paused reports whether playback is paused.
func (v *Viewer) Paused() bool { return v.paused }

// Forward moves one frame ahead, stepping the match in live mode.
func (v *Viewer) Forward() bool {
	if v.cursor < v.rec.Len()-1 {
		v.seek(v.cursor + 1)
		return true
	}
	if !v.opts.Live || v.match.Engine.IsOver() || v.match.Engine.Tick() >= v.maxTicks() {
		return false
	}
	v.match.Step()
	v.rec.Capture(v.match.Engine)
	v.seek(v.rec.Len() - 1)
	if v.match.Engine.IsOver() {
		v.log.Info("match over", "tick", v.match.Engine.Tick(), "result", v.match.Engine.Result())
	}
	return true
}

// Back moves one frame towards the start.
func (v *Viewer) Back() {
	if v.cursor > 0 {
		v.seek(v.cursor - 1)
	}
}

// Rewind jumps to frame 0.
func (v *Viewer) Rewind() { v.seek(0) }

// TogglePause flips playback.
func (v *Viewer) TogglePause() { v.paused = !v.paused }

// CopyReport puts a debug report of the current frame on the clipboard.
func (v *Viewer) CopyReport() error {
	return clipboard.WriteAll(game.DebugReport(v.Frame(), v.match.Engine.SimLog(), reportTicks))
}

func (v *Viewer) seek(i int) {
	v.cursor = i
	v.events.SyncTo(v.match.Engine.SimLog(), v.Frame().Tick)
}

func (v *Viewer) maxTicks() int {
	if v.opts.MaxTicks > 0 {
		return v.opts.MaxTicks
	}
	return game.DefaultMaxTicks
}

func (v *Viewer) slower() {
	for i := len(speeds) - 1; i > 0; i-- {
		if speeds[i] <= v.speed {
			v.speed = speeds[i-1]
			return
		}
	}
}

func (v *Viewer) faster() {
	for _, s := range speeds {
		if s > v.speed {
			v.speed = s
			return
		}
	}
}

// humanAction maps a key press to an action for the keyboard-driven tank.
// Holding shift turns eighth rotations into quarter rotations.
func humanAction(k ebiten.Key, shift bool) (game.Action, bool) {
	switch k {
	case ebiten.KeyW:
		return game.ActionMoveForward, true
	case ebiten.KeyS:
		return game.ActionMoveBackward, true
	case ebiten.KeyA:
		if shift {
			return game.ActionRotateLeftQuarter, true
		}
		return game.ActionRotateLeftEighth, true
	case ebiten.KeyD:
		if shift {
			return game.ActionRotateRightQuarter, true
		}
		return game.ActionRotateRightEighth, true
	case ebiten.KeyF:
		return game.ActionShoot, true
	}
	return game.ActionNone, false
}

var humanKeys = []ebiten.Key{ebiten.KeyW, ebiten.KeyS, ebiten.KeyA, ebiten.KeyD, ebiten.KeyF}

func (v *Viewer) handleHumanInput() {
	if v.relay == nil || v.relay.Pending() > 0 {
		return
	}
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, k := range humanKeys {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		if a, ok := humanAction(k, shift); ok {
			v.relay.Push(a)
			return
		}
	}
}

// Update handles input every frame and advances playback at the set speed.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || (!v.opts.Live && inpututil.IsKeyJustPressed(ebiten.KeyQ)) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) || inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		v.paused = true
		v.Forward()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		v.paused = true
		v.Back()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		v.Rewind()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		v.slower()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		v.faster()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := v.Reset(); err != nil {
			return err
		}
		v.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := v.CopyReport(); err != nil {
			v.log.Warn("copy to clipboard failed", "err", err)
		} else {
			v.log.Info("debug report copied", "tick", v.Frame().Tick)
		}
	}
	v.handleHumanInput()

	if v.paused {
		return nil
	}
	v.tickAccum += v.speed * float64(v.opts.TPS) / updatesPerSec
	for v.tickAccum >= 1.0 {
		v.tickAccum -= 1.0
		if !v.Forward() {
			v.tickAccum = 0
			break
		}
	}
	return nil
}

func (v *Viewer) boardSize() (int, int) {
	g := v.rec.Frame(0).Grid
	return g.Cols * v.opts.Scale, g.Rows * v.opts.Scale
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.WindowSize()
}

// WindowSize returns the full window size including HUD and event log.
func (v *Viewer) WindowSize() (int, int) {
	bw, bh := v.boardSize()
	h := bh + hudHeight
	if h < minBoardH {
		h = minBoardH
	}
	return bw + logPanelWidth, h
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	f := v.Frame()
	v.drawBoard(screen, f)

	bw, bh := v.boardSize()
	_, h := v.WindowSize()
	v.hud.Draw(screen, 0, bh, bw, hudStatus{
		Frame:  f,
		Cursor: v.cursor,
		Frames: v.rec.Len(),
		Paused: v.paused,
		Speed:  v.speed,
		Live:   v.opts.Live,
	})
	v.events.Draw(screen, bw, h)
}

func (v *Viewer) drawBoard(screen *ebiten.Image, f game.Frame) {
	s := float32(v.opts.Scale)
	g := f.Grid
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			c := g.At(game.Pos{X: x, Y: y})
			x0, y0 := float32(x)*s, float32(y)*s
			switch c.Content {
			case game.CellWall:
				col := colWall
				if c.WallHits > 0 {
					col = colWallCrack
				}
				vector.FillRect(screen, x0+1, y0+1, s-2, s-2, col, false)
			case game.CellMine:
				vector.FillCircle(screen, x0+s/2, y0+s/2, s/5, colMine, true)
			}
		}
	}
	drawGrid(screen, g.Cols, g.Rows, s, colGridLine)

	for _, sh := range f.Shells {
		cx, cy := cellCenter(sh.Pos, s)
		vector.FillCircle(screen, cx, cy, s/8+1, colShell, true)
	}
	for i, t := range f.Tanks {
		col := colP1
		if i == 1 {
			col = colP2
		}
		drawTank(screen, t, s, col)
	}

	bw, bh := float32(g.Cols)*s, float32(g.Rows)*s
	vector.StrokeRect(screen, 0, 0, bw, bh, 2.0, colBorder, false)
}

func cellCenter(p game.Pos, s float32) (float32, float32) {
	return float32(p.X)*s + s/2, float32(p.Y)*s + s/2
}

func drawTank(screen *ebiten.Image, t game.TankState, s float32, col color.RGBA) {
	cx, cy := cellCenter(t.Pos, s)
	r := s * 0.38
	if !t.Alive {
		vector.StrokeLine(screen, cx-r, cy-r, cx+r, cy+r, 2, colDead, true)
		vector.StrokeLine(screen, cx-r, cy+r, cx+r, cy-r, 2, colDead, true)
		return
	}
	vector.FillCircle(screen, cx, cy, r, col, true)
	off := t.Facing.Offset()
	dx, dy := float32(off.X), float32(off.Y)
	if t.Facing.IsDiagonal() {
		dx, dy = dx/math.Sqrt2, dy/math.Sqrt2
	}
	vector.StrokeLine(screen, cx, cy, cx+dx*s*0.5, cy+dy*s*0.5, 3, col, true)
	if t.BackwardPending {
		vector.StrokeCircle(screen, cx, cy, r+2, 1, colShell, true)
	}
}

func drawGrid(screen *ebiten.Image, cols, rows int, s float32, c color.Color) {
	w, h := float32(cols)*s, float32(rows)*s
	for x := 0; x <= cols; x++ {
		xf := float32(x) * s
		vector.StrokeLine(screen, xf, 0, xf, h, 1.0, c, false)
	}
	for y := 0; y <= rows; y++ {
		yf := float32(y) * s
		vector.StrokeLine(screen, 0, yf, w, yf, 1.0, c, false)
	}
}
