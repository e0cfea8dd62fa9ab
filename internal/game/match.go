package game

// DefaultMaxTicks caps a match that never reaches a terminal state.
const DefaultMaxTicks = 1000

// StepRecord is what happened on one tick, as seen from outside the engine.
type StepRecord struct {
	Tick    int
	Actions [2]Action
	Tanks   [2]TankState
	Shells  int
}

// Match drives an Engine with two agents, one sequential tick at a time.
type Match struct {
	Engine *Engine
	Agents [2]Agent

	// OnStep, when set, is called after every tick.
	OnStep func(StepRecord)
}

// NewMatch pairs an engine with its agents.
func NewMatch(e *Engine, a1, a2 Agent) *Match {
	return &Match{Engine: e, Agents: [2]Agent{a1, a2}}
}

// Step asks both agents for an action against the same pre-tick state and
// advances the engine once. It reports whether the match is over.
func (m *Match) Step() bool {
	if m.Engine.IsOver() {
		return true
	}
	v1 := m.Engine.View(1)
	v2 := m.Engine.View(2)
	a1 := m.Agents[0].Decide(v1)
	a2 := m.Agents[1].Decide(v2)
	over := m.Engine.Step(a1, a2)
	if m.OnStep != nil {
		m.OnStep(StepRecord{
			Tick:    m.Engine.Tick(),
			Actions: [2]Action{a1, a2},
			Tanks:   [2]TankState{m.Engine.Tank(1), m.Engine.Tank(2)},
			Shells:  len(m.Engine.shells),
		})
	}
	return over
}

// Run steps until the match ends or maxTicks have been played in total.
// maxTicks <= 0 uses DefaultMaxTicks. A capped match returns OutcomeOngoing.
func (m *Match) Run(maxTicks int) Outcome {
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	for m.Engine.Tick() < maxTicks {
		if m.Step() {
			break
		}
	}
	return m.Engine.Outcome()
}

// Recorder keeps a Frame per tick for replay.
type Recorder struct {
	frames []Frame
}

// NewRecorder starts a recording with the engine's current state as frame 0.
func NewRecorder(e *Engine) *Recorder {
	return &Recorder{frames: []Frame{e.Snapshot()}}
}

// Capture appends the engine's current state.
func (r *Recorder) Capture(e *Engine) {
	r.frames = append(r.frames, e.Snapshot())
}

// Frames returns all captured frames in order.
func (r *Recorder) Frames() []Frame { return r.frames }

// Len returns the number of frames.
func (r *Recorder) Len() int { return len(r.frames) }

// Frame returns frame i clamped to the recorded range.
func (r *Recorder) Frame(i int) Frame {
	if i < 0 {
		i = 0
	}
	if i >= len(r.frames) {
		i = len(r.frames) - 1
	}
	return r.frames[i]
}

// RecordMatch runs m to completion and records every tick.
func RecordMatch(m *Match, maxTicks int) *Recorder {
	rec := NewRecorder(m.Engine)
	prev := m.OnStep
	m.OnStep = func(sr StepRecord) {
		if prev != nil {
			prev(sr)
		}
		rec.Capture(m.Engine)
	}
	m.Run(maxTicks)
	m.OnStep = prev
	return rec
}
