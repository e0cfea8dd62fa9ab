package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Garsondee/tank-duel/internal/game"
)

// ErrNotFound is returned when a match id is unknown.
var ErrNotFound = errors.New("match not found")

// MatchRecord is everything saved about one finished match.
type MatchRecord struct {
	Board    string
	Policies [2]string
	Summary  game.MatchSummary
	Steps    []game.StepRecord
}

// MatchRow is one stored match as listed back.
type MatchRow struct {
	ID        uuid.UUID
	Board     string
	Policies  [2]string
	Outcome   string
	Result    string
	Ticks     int
	Shots     [2]int
	Walls     [2]int
	CreatedAt time.Time
}

// StepRow is one stored tick.
type StepRow struct {
	Tick    int
	Actions [2]string
	Pos     [2]game.Pos
	Ammo    [2]int
	Alive   [2]bool
	Shells  int
}

// SaveMatch writes the match and all of its steps in one transaction.
func (s *Store) SaveMatch(ctx context.Context, rec MatchRecord) (uuid.UUID, error) {
	id := uuid.New()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	sum := rec.Summary
	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (id, board, player1_policy, player2_policy, outcome, result, ticks,
			p1_shots, p2_shots, p1_walls, p2_walls)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), rec.Board, rec.Policies[0], rec.Policies[1],
		sum.Outcome.String(), sum.Outcome.Result(), sum.Ticks,
		sum.Stats[0].ShotsFired, sum.Stats[1].ShotsFired,
		sum.Stats[0].WallsDestroyed, sum.Stats[1].WallsDestroyed,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert match: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO steps (match_id, tick, p1_action, p2_action, p1_x, p1_y, p2_x, p2_y,
			p1_ammo, p2_ammo, p1_alive, p2_alive, shells)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, fmt.Errorf("prepare steps: %w", err)
	}
	defer stmt.Close()

	for _, st := range rec.Steps {
		t1, t2 := st.Tanks[0], st.Tanks[1]
		if _, err := stmt.ExecContext(ctx,
			id.String(), st.Tick, st.Actions[0].String(), st.Actions[1].String(),
			t1.Pos.X, t1.Pos.Y, t2.Pos.X, t2.Pos.Y,
			t1.Ammo, t2.Ammo, t1.Alive, t2.Alive, st.Shells,
		); err != nil {
			return uuid.Nil, fmt.Errorf("insert step %d: %w", st.Tick, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// ListMatches returns the most recent matches first. limit <= 0 means 50.
func (s *Store) ListMatches(ctx context.Context, limit int) ([]MatchRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, board, player1_policy, player2_policy, outcome, result, ticks,
			p1_shots, p2_shots, p1_walls, p2_walls, created_at
		FROM matches ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRow
	for rows.Next() {
		var (
			m       MatchRow
			id      string
			created any
		)
		if err := rows.Scan(&id, &m.Board, &m.Policies[0], &m.Policies[1], &m.Outcome, &m.Result,
			&m.Ticks, &m.Shots[0], &m.Shots[1], &m.Walls[0], &m.Walls[1], &created); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse match id: %w", err)
		}
		if m.CreatedAt, err = parseTimestamp(created); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Steps returns the stored ticks of one match in order.
func (s *Store) Steps(ctx context.Context, id uuid.UUID) ([]StepRow, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM matches WHERE id = ?`, id.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup match: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tick, p1_action, p2_action, p1_x, p1_y, p2_x, p2_y,
			p1_ammo, p2_ammo, p1_alive, p2_alive, shells
		FROM steps WHERE match_id = ? ORDER BY tick`, id.String())
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	var out []StepRow
	for rows.Next() {
		var st StepRow
		if err := rows.Scan(&st.Tick, &st.Actions[0], &st.Actions[1],
			&st.Pos[0].X, &st.Pos[0].Y, &st.Pos[1].X, &st.Pos[1].Y,
			&st.Ammo[0], &st.Ammo[1], &st.Alive[0], &st.Alive[1], &st.Shells); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// parseTimestamp accepts either a driver-decoded time or the CURRENT_TIMESTAMP
// text form.
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseTimestampText(t)
	case []byte:
		return parseTimestampText(string(t))
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
	}
}

func parseTimestampText(s string) (time.Time, error) {
	for _, layout := range []string{time.DateTime, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", s)
}
