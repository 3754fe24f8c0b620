package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/callisto/pkg/control"
)

// SQLite is a durable audit store for single-instance deployments. Each
// decision is stored as a JSON document alongside indexed columns for
// domain and timestamp queries. The database uses WAL mode for better
// concurrent read performance.
type SQLite struct {
	db        *sql.DB
	closeOnce sync.Once

	recordStmt *sql.Stmt
	getStmt    *sql.Stmt
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS decisions (
	id         TEXT PRIMARY KEY,
	domain     TEXT NOT NULL,
	applied_at TEXT NOT NULL,
	data       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_domain ON decisions(domain, applied_at DESC);
`

// NewSQLite opens (creating if necessary) an audit database at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database %q: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure audit database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}

	s := &SQLite{db: db}

	s.recordStmt, err = db.Prepare(
		"INSERT OR REPLACE INTO decisions (id, domain, applied_at, data) VALUES (?, ?, ?, ?)")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare record statement: %w", err)
	}
	s.getStmt, err = db.Prepare("SELECT data FROM decisions WHERE id = ?")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare get statement: %w", err)
	}

	return s, nil
}

// RecordDecision persists one applied decision.
func (s *SQLite) RecordDecision(ctx context.Context, decision *control.Decision) error {
	data, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to encode decision %s: %w", decision.ID, err)
	}

	_, err = s.recordStmt.ExecContext(ctx,
		decision.ID,
		string(decision.Domain),
		decision.AppliedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to record decision %s: %w", decision.ID, err)
	}
	return nil
}

// Decision returns one stored decision by ID.
func (s *SQLite) Decision(ctx context.Context, id string) (*control.Decision, error) {
	var data string
	err := s.getStmt.QueryRowContext(ctx, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load decision %s: %w", id, err)
	}
	return decodeDecision(data)
}

// List returns stored decisions for a domain, newest first, up to limit.
// An empty domain lists across all domains.
func (s *SQLite) List(ctx context.Context, domain control.Domain, limit int) ([]*control.Decision, error) {
	query := "SELECT data FROM decisions ORDER BY applied_at DESC"
	args := []any{}
	if domain != "" {
		query = "SELECT data FROM decisions WHERE domain = ? ORDER BY applied_at DESC"
		args = append(args, string(domain))
	}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var out []*control.Decision
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan decision row: %w", err)
		}
		d, err := decodeDecision(data)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.recordStmt != nil {
			s.recordStmt.Close()
		}
		if s.getStmt != nil {
			s.getStmt.Close()
		}
		err = s.db.Close()
	})
	return err
}

func decodeDecision(data string) (*control.Decision, error) {
	var d control.Decision
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("failed to decode stored decision: %w", err)
	}
	return &d, nil
}
