// Package store handles SQLite persistence of the interval journal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/pomotui/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for completed intervals.
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
	// Journal writes come from notifier goroutines.
	db.SetMaxOpenConns(1)
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
		`CREATE TABLE IF NOT EXISTS intervals (
			id INTEGER PRIMARY KEY,
			phase TEXT NOT NULL,
			planned_ms INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_intervals_ended_at ON intervals(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertInterval appends a completed interval to the journal.
func (s *Store) InsertInterval(ctx context.Context, rec model.IntervalRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO intervals (phase, planned_ms, started_at, ended_at) VALUES (?, ?, ?, ?)`,
		rec.Phase,
		rec.Planned.Milliseconds(),
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.EndedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListIntervals returns journal entries filtered by cfg, oldest first.
func (s *Store) ListIntervals(ctx context.Context, cfg model.HistoryConfig) ([]model.IntervalRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Phase != "" {
		clauses = append(clauses, "phase = ?")
		args = append(args, cfg.Phase)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, phase, planned_ms, started_at, ended_at
		FROM intervals
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.IntervalRecord
	for rows.Next() {
		var rec model.IntervalRecord
		var plannedMs int64
		var startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &rec.Phase, &plannedMs, &startedAt, &endedAt); err != nil {
			return nil, err
		}
		rec.Planned = time.Duration(plannedMs) * time.Millisecond
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
