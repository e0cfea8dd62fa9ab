package game

import (
	"fmt"
	"strings"
)

// DebugReport summarises a frame and the last lastTicks log entries as plain
// text, for pasting into bug reports.
func DebugReport(f Frame, sl *SimLog, lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 20
	}
	fromTick := f.Tick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- tank-duel debug report ---\n")
	fmt.Fprintf(&b, "tick=%d board=%dx%d outcome=%s\n", f.Tick, f.Grid.Cols, f.Grid.Rows, f.Outcome)
	if res := f.Result(); res != "" {
		fmt.Fprintf(&b, "result: %s\n", res)
	}
	for _, t := range f.Tanks {
		fmt.Fprintf(&b, "P%d pos=%s facing=%s ammo=%d cooldown=%d alive=%v backward=%v/%d last=%s\n",
			t.ID, t.Pos, t.Facing.Name(), t.Ammo, t.Cooldown, t.Alive,
			t.BackwardPending, t.BackwardDelay, f.Actions[t.ID-1])
	}
	fmt.Fprintf(&b, "shells=%d\n", len(f.Shells))
	for _, s := range f.Shells {
		fmt.Fprintf(&b, "  %s %s owner=P%d\n", s.Pos, s.Dir.Name(), s.Owner)
	}

	walls, damaged := 0, 0
	for _, c := range f.Grid.Cells {
		if c.Content == CellWall {
			walls++
			if c.WallHits > 0 {
				damaged++
			}
		}
	}
	fmt.Fprintf(&b, "walls=%d damaged=%d\n\n", walls, damaged)

	b.WriteString(Render(f, false))
	if sl != nil {
		fmt.Fprintf(&b, "\n== events T=%d..%d ==\n", fromTick, f.Tick)
		entries := sl.FilterTickRange(fromTick, f.Tick)
		if len(entries) == 0 {
			b.WriteString("(no events)\n")
		}
		for _, e := range entries {
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
