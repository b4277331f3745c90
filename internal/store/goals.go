package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WeekStart returns Monday 00:00 of t's week in t's location, as Unix millis.
func WeekStart(t time.Time) int64 {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := t.Date()
	monday := time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
	return monday.UnixMilli()
}

func scanGoal(scanner interface{ Scan(dest ...any) error }) (Goal, error) {
	var g Goal
	err := scanner.Scan(&g.ID, &g.Title, &g.Discipline, &g.WeekStart, &g.Done, &g.CreatedAt)
	return g, err
}

// CreateGoal adds a weekly goal for the week containing at.
func (d *DB) CreateGoal(title, discipline string, at time.Time) (*Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("create goal: empty title")
	}
	g := Goal{
		ID:         uuid.New().String(),
		Title:      title,
		Discipline: discipline,
		WeekStart:  WeekStart(at),
		CreatedAt:  at.UnixMilli(),
	}
	if _, err := d.conn.Exec(
		"INSERT INTO goals (id, title, discipline, week_start, done, created_at) VALUES (?, ?, ?, ?, 0, ?)",
		g.ID, g.Title, g.Discipline, g.WeekStart, g.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return &g, nil
}

// ListGoals returns the goals of one week, open goals first.
func (d *DB) ListGoals(weekStart int64) ([]Goal, error) {
	rows, err := d.conn.Query(
		"SELECT id, title, discipline, week_start, done, created_at FROM goals WHERE week_start = ? ORDER BY done, created_at, id",
		weekStart,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// SearchGoalsByIDPrefix finds goals whose ID starts with the given prefix.
func (d *DB) SearchGoalsByIDPrefix(prefix string, limit int) ([]Goal, error) {
	rows, err := d.conn.Query(
		"SELECT id, title, discipline, week_start, done, created_at FROM goals WHERE id LIKE ? ORDER BY id LIMIT ?",
		prefix+"%", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// SetGoalDone marks a goal done or reopens it.
func (d *DB) SetGoalDone(id string, done bool) error {
	res, err := d.conn.Exec("UPDATE goals SET done = ? WHERE id = ?", done, id)
	if err != nil {
		return fmt.Errorf("set goal done %s: %w", id, err)
	}
	return requireAffected(res, "set goal done", id)
}
