package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soccarena/slotwatch/internal/slot"
)

// Store persists every slot ever seen, keyed by its booking URL.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the slot database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows a single writer; funnel all access through one
	// connection so concurrent inserts queue instead of failing busy.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return s, nil
}

// initSchema creates the slots table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		id         TEXT PRIMARY KEY,
		court      INTEGER NOT NULL,
		date       TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL,
		first_seen TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertIfAbsent persists rec if no slot with the same ID exists yet.
// It returns the stored record (with FirstSeen set) when rec was new, and
// (nil, nil) when a slot with that ID was already present. A duplicate is
// a routine outcome, never an error. The primary-key constraint guarantees
// that of any number of concurrent inserts for one ID exactly one wins.
func (s *Store) InsertIfAbsent(ctx context.Context, rec *slot.Record) (*slot.Record, error) {
	firstSeen := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO slots (id, court, date, start_time, end_time, first_seen)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Court, rec.Date, rec.Start, rec.End, firstSeen.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("inserting slot: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking insert result: %w", err)
	}
	if n == 0 {
		// Already seen on a previous run (or by a concurrent insert).
		return nil, nil
	}

	stored := *rec
	stored.FirstSeen = firstSeen
	return &stored, nil
}

// Count returns the number of slots ever recorded.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting slots: %w", err)
	}
	return n, nil
}
