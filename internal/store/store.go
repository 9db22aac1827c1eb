// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuiweek/internal/calendar"
	"github.com/verte-zerg/tuiweek/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	// ErrEmptyTitle is returned when an event has no title.
	ErrEmptyTitle = errors.New("event title is empty")
	// ErrMissingDay is returned when an event has no day.
	ErrMissingDay = errors.New("event day is missing")
)

// Store wraps SQLite access for calendar events.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			uid TEXT PRIMARY KEY,
			day TEXT NOT NULL,
			title TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_day ON events(day);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func validateEvent(ev model.Event) error {
	if strings.TrimSpace(ev.Title) == "" {
		return ErrEmptyTitle
	}
	if ev.Day.IsZero() {
		return ErrMissingDay
	}
	return nil
}

// InsertEvent stores a new event, assigning a UID when it has none.
func (s *Store) InsertEvent(ctx context.Context, ev model.Event) (model.Event, error) {
	if err := validateEvent(ev); err != nil {
		return model.Event{}, err
	}
	if ev.UID == "" {
		ev.UID = uuid.NewString()
	}
	ev.Title = strings.TrimSpace(ev.Title)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (uid, day, title, source) VALUES (?, ?, ?, ?)`,
		ev.UID, ev.Day.String(), ev.Title, ev.Source)
	if err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// UpsertEvents inserts events or replaces those with a known UID, in one transaction.
func (s *Store) UpsertEvents(ctx context.Context, events []model.Event) (err error) {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (uid, day, title, source) VALUES (?, ?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET day = excluded.day, title = excluded.title, source = excluded.source`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, ev := range events {
		if err = validateEvent(ev); err != nil {
			return fmt.Errorf("event %q: %w", ev.UID, err)
		}
		uid := ev.UID
		if uid == "" {
			uid = uuid.NewString()
		}
		if _, err = stmt.ExecContext(ctx, uid, ev.Day.String(), strings.TrimSpace(ev.Title), ev.Source); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteEvent removes the event with uid. It reports whether a row was deleted.
func (s *Store) DeleteEvent(ctx context.Context, uid string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE uid = ?`, uid)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListEventsOnDay returns the events of day ordered by title.
func (s *Store) ListEventsOnDay(ctx context.Context, day calendar.Date) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, day, title, source FROM events WHERE day = ? ORDER BY title, uid`, day.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.Event
	for rows.Next() {
		var ev model.Event
		var dayText string
		if err := rows.Scan(&ev.UID, &dayText, &ev.Title, &ev.Source); err != nil {
			return nil, err
		}
		parsed, err := calendar.ParseDate(dayText)
		if err != nil {
			return nil, err
		}
		ev.Day = parsed
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// MonthEvents builds the month event index for days within rng.
func (s *Store) MonthEvents(ctx context.Context, rng calendar.DateRange) (calendar.MonthEvents, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT day FROM events WHERE day >= ? AND day <= ? ORDER BY day ASC`,
		rng.Min.String(), rng.Max.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := calendar.MonthEvents{}
	for rows.Next() {
		var dayText string
		if err := rows.Scan(&dayText); err != nil {
			return nil, err
		}
		day, err := calendar.ParseDate(dayText)
		if err != nil {
			return nil, err
		}
		key := day.MonthKey()
		result[key] = append(result[key], day.Day())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
