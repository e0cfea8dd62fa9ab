package game

import "strings"

const (
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiReset = "\033[0m"
)

// Render draws a frame as text, one line per row. With ansi set, walls use a
// block glyph and tanks are coloured red (P1) and blue (P2).
func Render(f Frame, ansi bool) string {
	var sb strings.Builder
	g := f.Grid
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			sb.WriteString(renderCell(f, Pos{X: x, Y: y}, ansi))
		}
		sb.WriteByte('\n')
	}
	if f.Outcome != OutcomeOngoing {
		sb.WriteString("GAME OVER: ")
		sb.WriteString(f.Result())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func renderCell(f Frame, p Pos, ansi bool) string {
	cell := f.Grid.At(p)
	if cell.ShellOverlay {
		return "*"
	}
	for _, t := range f.Tanks {
		if t.Alive && t.Pos == p {
			glyph := t.Facing.String()
			if !ansi {
				return glyph
			}
			if t.ID == 1 {
				return ansiRed + glyph + ansiReset
			}
			return ansiBlue + glyph + ansiReset
		}
	}
	switch cell.Content {
	case CellWall:
		if ansi {
			return "■"
		}
		return "#"
	case CellMine:
		return "@"
	default:
		return "_"
	}
}
