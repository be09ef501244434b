package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const timestampLayout = "2006-01-02T15:04:05.000"

// SQLiteAuditor implements Auditor using a local SQLite database.
type SQLiteAuditor struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS edits (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp   TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%f','now')),
    tool        TEXT    NOT NULL,
    document    TEXT    NOT NULL,
    path        TEXT    NOT NULL DEFAULT '',
    outcome     TEXT    NOT NULL,
    detail      TEXT    NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_edits_ts ON edits(timestamp);
CREATE INDEX IF NOT EXISTS idx_edits_doc ON edits(document);
`

// DefaultDBPath returns the default audit database path.
// It checks $DOCPATCH_AUDIT_DB, then $XDG_DATA_HOME/docpatch/audit.db,
// then falls back to ~/.local/share/docpatch/audit.db.
func DefaultDBPath() string {
	if p := os.Getenv("DOCPATCH_AUDIT_DB"); p != "" {
		return p
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "docpatch", "audit.db")
}

// Open opens (or creates) a SQLite audit database at the given path.
// It runs the schema migration and configures WAL mode with a 5-second
// busy timeout.
func Open(dbPath string) (*SQLiteAuditor, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("audit: create directory %q: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("audit: open database %q: %w", dbPath, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("audit: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: create schema: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: migrate: %w", err)
	}

	return &SQLiteAuditor{db: db}, nil
}

// migrate applies incremental schema migrations using PRAGMA user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version == 0 {
		if _, err := db.Exec("PRAGMA user_version = 1"); err != nil {
			return fmt.Errorf("set user_version to 1: %w", err)
		}
	}

	// version >= 1: schema is current, nothing to do.
	return nil
}

// DB returns the underlying *sql.DB for use with query helpers.
// Returns nil if the receiver is nil.
func (a *SQLiteAuditor) DB() *sql.DB {
	if a == nil {
		return nil
	}
	return a.db
}

// RecordEdit inserts one edit record. Nil receiver is a no-op.
func (a *SQLiteAuditor) RecordEdit(e Edit) error {
	if a == nil {
		return nil
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := a.db.Exec(
		`INSERT INTO edits (timestamp, tool, document, path, outcome, detail, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(timestampLayout),
		e.Tool,
		e.Document,
		e.Path,
		e.Outcome,
		TruncateDetail(e.Detail, maxDetailLen),
		e.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("audit: insert edit: %w", err)
	}
	return nil
}

// Recent returns the most recent n edits, newest first. Nil receiver
// returns nil.
func (a *SQLiteAuditor) Recent(n int) ([]Edit, error) {
	if a == nil {
		return nil, nil
	}
	if n <= 0 {
		n = 20
	}

	rows, err := a.db.Query(
		`SELECT id, timestamp, tool, document, path, outcome, detail, duration_ms
		 FROM edits ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("audit: query recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var edits []Edit
	for rows.Next() {
		var e Edit
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Tool, &e.Document, &e.Path, &e.Outcome, &e.Detail, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("audit: scan edit: %w", err)
		}
		e.Timestamp, _ = time.Parse(timestampLayout, ts)
		edits = append(edits, e)
	}
	return edits, rows.Err()
}

// QueryStats returns aggregate statistics. Nil receiver returns zero stats.
func (a *SQLiteAuditor) QueryStats() (Stats, error) {
	stats := Stats{
		CountByOutcome: make(map[string]int64),
		CountByTool:    make(map[string]int64),
	}
	if a == nil {
		return stats, nil
	}

	if err := a.db.QueryRow(`SELECT COUNT(*) FROM edits`).Scan(&stats.TotalEdits); err != nil {
		return stats, fmt.Errorf("audit: count edits: %w", err)
	}
	if stats.TotalEdits == 0 {
		return stats, nil
	}

	var oldest, newest string
	if err := a.db.QueryRow(`SELECT MIN(timestamp), MAX(timestamp) FROM edits`).Scan(&oldest, &newest); err != nil {
		return stats, fmt.Errorf("audit: timestamp range: %w", err)
	}
	stats.OldestEntry, _ = time.Parse(timestampLayout, oldest)
	stats.NewestEntry, _ = time.Parse(timestampLayout, newest)

	for query, target := range map[string]map[string]int64{
		`SELECT outcome, COUNT(*) FROM edits GROUP BY outcome`: stats.CountByOutcome,
		`SELECT tool, COUNT(*) FROM edits GROUP BY tool`:       stats.CountByTool,
	} {
		rows, err := a.db.Query(query)
		if err != nil {
			return stats, fmt.Errorf("audit: group counts: %w", err)
		}
		for rows.Next() {
			var key string
			var count int64
			if err := rows.Scan(&key, &count); err != nil {
				_ = rows.Close()
				return stats, fmt.Errorf("audit: scan count: %w", err)
			}
			target[key] = count
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return stats, err
		}
		_ = rows.Close()
	}

	return stats, nil
}

// PruneBefore deletes edits older than cutoff and returns the number
// removed. Nil receiver is a no-op.
func (a *SQLiteAuditor) PruneBefore(cutoff time.Time) (int64, error) {
	if a == nil {
		return 0, nil
	}
	res, err := a.db.Exec(`DELETE FROM edits WHERE timestamp < ?`, cutoff.UTC().Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("audit: prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("audit: prune rows affected: %w", err)
	}
	return n, nil
}

// Close closes the database. Nil receiver is a no-op.
func (a *SQLiteAuditor) Close() error {
	if a == nil {
		return nil
	}
	return a.db.Close()
}
