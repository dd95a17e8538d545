// ABOUTME: SQLite-backed log of render cycles: request parameters, outcome, message, and duration.
// ABOUTME: Rows are keyed by ULID so listing by id is listing by start time.
package history

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// Outcome values stored per cycle.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeStale   = "stale"
)

// Record is one completed render cycle.
type Record struct {
	ID            string        `json:"id"`
	Generation    uint64        `json:"generation"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration_ns"`
	PlotType      string        `json:"plot_type"`
	Plane         string        `json:"plane"`
	View          string        `json:"view"`
	Function      string        `json:"function"`
	Range         float64       `json:"range"`
	Points        int           `json:"points"`
	LiminalRadius float64       `json:"liminal_radius"`
	Outcome       string        `json:"outcome"`
	Message       string        `json:"message,omitempty"`
}

// Store is a SQLite database of cycle records.
type Store struct {
	db *sql.DB

	mu sync.Mutex // serializes ULID entropy
	// entropy is monotonic so ids created in the same millisecond still sort by insertion.
	entropy *ulid.MonotonicEntropy
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS cycles (
			id TEXT PRIMARY KEY,
			generation INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			plot_type TEXT NOT NULL,
			plane TEXT NOT NULL,
			view TEXT NOT NULL,
			function TEXT NOT NULL,
			range_bound REAL NOT NULL,
			points INTEGER NOT NULL,
			liminal_radius REAL NOT NULL,
			outcome TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT ''
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts rec, assigning an id when rec.ID is empty. It returns the stored id.
func (s *Store) Record(rec Record) (string, error) {
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	if rec.ID == "" {
		s.mu.Lock()
		id, err := ulid.New(ulid.Timestamp(rec.StartedAt), s.entropy)
		s.mu.Unlock()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		rec.ID = id.String()
	}

	_, err := s.db.Exec(
		`INSERT INTO cycles (id, generation, started_at, duration_ns, plot_type, plane, view,
			function, range_bound, points, liminal_radius, outcome, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		int64(rec.Generation),
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		int64(rec.Duration),
		rec.PlotType,
		rec.Plane,
		rec.View,
		rec.Function,
		rec.Range,
		rec.Points,
		rec.LiminalRadius,
		rec.Outcome,
		rec.Message,
	)
	if err != nil {
		return "", fmt.Errorf("insert cycle: %w", err)
	}
	return rec.ID, nil
}

// List returns up to limit records, newest first. A non-positive limit returns all.
func (s *Store) List(limit int) ([]Record, error) {
	query := `SELECT id, generation, started_at, duration_ns, plot_type, plane, view,
			function, range_bound, points, liminal_radius, outcome, message
		 FROM cycles ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var (
			r          Record
			generation int64
			startedAt  string
			duration   int64
		)
		if err := rows.Scan(&r.ID, &generation, &startedAt, &duration, &r.PlotType, &r.Plane, &r.View,
			&r.Function, &r.Range, &r.Points, &r.LiminalRadius, &r.Outcome, &r.Message); err != nil {
			return nil, fmt.Errorf("scan cycle row: %w", err)
		}
		r.Generation = uint64(generation)
		r.Duration = time.Duration(duration)
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM cycles").Scan(&n); err != nil {
		return 0, fmt.Errorf("count cycles: %w", err)
	}
	return n, nil
}
