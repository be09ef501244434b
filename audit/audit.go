// Package audit records the mutating operations an agent applies to the
// document store in a local SQLite database, so an operator can answer
// "which tool changed which path in which catalog, and when".
//
// Auditing is fail-open by design: recording errors are logged by the
// caller and never block an edit.
package audit

import "time"

// Outcome constants for Edit.
const (
	OutcomeApplied = "applied"
	OutcomeError   = "error"
)

const maxDetailLen = 512

// Auditor records edit operations. Implementations with a nil receiver are
// no-ops, so callers never need to branch on "auditing disabled".
type Auditor interface {
	RecordEdit(e Edit) error
	Close() error
}

// Edit is one mutating tool invocation against one document.
type Edit struct {
	ID         int64
	Timestamp  time.Time
	Tool       string // e.g. "json_set"
	Document   string
	Path       string // dot-notation path; empty for whole-document ops
	Outcome    string // applied|error
	Detail     string // error text, truncated to maxDetailLen bytes
	DurationMs int64
}

// Stats holds aggregate statistics from the audit database.
type Stats struct {
	TotalEdits     int64
	CountByOutcome map[string]int64
	CountByTool    map[string]int64
	OldestEntry    time.Time
	NewestEntry    time.Time
}

// TruncateDetail truncates s to max bytes, appending "..." if truncated.
func TruncateDetail(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
