package game

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrBadHeader is returned when a board description lacks a valid "W H" line.
var ErrBadHeader = errors.New("invalid width/height declaration")

// Diagnostic is a recoverable problem found while reading a board. The
// offending cell has already been replaced with Empty.
type Diagnostic struct {
	Line    int // 1-based line in the source, 0 when not tied to a line
	Col     int // 0-based column, -1 when not tied to a column
	Message string
}

func (d Diagnostic) String() string {
	switch {
	case d.Line == 0:
		return "Warning: " + d.Message
	case d.Col < 0:
		return fmt.Sprintf("Warning: line %d: %s", d.Line, d.Message)
	default:
		return fmt.Sprintf("Warning: line %d col %d: %s", d.Line, d.Col, d.Message)
	}
}

// ParseBoard reads a board description: a "W H" header followed by H rows
// where '#' is a wall, '@' a mine, '1'/'2' the tank starts and ' ' empty.
// Only a missing or malformed header is fatal; every other anomaly is
// reported as a Diagnostic and replaced with Empty.
func ParseBoard(r io.Reader) (*Grid, []Diagnostic, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, nil, fmt.Errorf("read header: %w", err)
		}
		return nil, nil, fmt.Errorf("%w: empty input", ErrBadHeader)
	}
	var w, h int
	if _, err := fmt.Sscan(sc.Text(), &w, &h); err != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrBadHeader, sc.Text())
	}
	if w <= 0 || h <= 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrBadHeader, w, h)
	}

	g := NewGrid(w, h)
	var diags []Diagnostic
	warn := func(line, col int, format string, args ...any) {
		diags = append(diags, Diagnostic{Line: line, Col: col, Message: fmt.Sprintf(format, args...)})
	}

	seen := map[CellContent]bool{}
	for y := 0; y < h; y++ {
		lineNo := y + 2
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, nil, fmt.Errorf("read row %d: %w", y, err)
			}
			warn(lineNo, -1, "missing row %d, filled with EMPTY", y)
			continue
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if len(line) < w {
			warn(lineNo, -1, "row %d has %d of %d cells, padded with EMPTY", y, len(line), w)
		}
		for x := 0; x < w && x < len(line); x++ {
			p := Pos{X: x, Y: y}
			switch ch := line[x]; ch {
			case '#':
				g.SetContent(p, CellWall)
			case '@':
				g.SetContent(p, CellMine)
			case '1', '2':
				tank := CellTank1
				if ch == '2' {
					tank = CellTank2
				}
				if seen[tank] {
					warn(lineNo, x, "extra tank %c ignored at %s", ch, p)
					continue
				}
				seen[tank] = true
				g.SetContent(p, tank)
			case ' ':
			default:
				warn(lineNo, x, "unknown character %q treated as EMPTY at %s", ch, p)
			}
		}
		if len(line) > w {
			warn(lineNo, -1, "extra characters beyond declared width at row %d ignored", y)
		}
	}

	extra := 0
	for sc.Scan() {
		extra++
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read trailing rows: %w", err)
	}
	if extra > 0 {
		warn(0, -1, "%d extra rows ignored beyond declared height", extra)
	}
	return g, diags, nil
}

// LoadBoardFile opens and parses a board file.
func LoadBoardFile(path string) (*Grid, []Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open board file: %w", err)
	}
	defer f.Close()
	g, diags, err := ParseBoard(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, diags, nil
}

// WriteDiagnostics writes one warning per line.
func WriteDiagnostics(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}
