// Package store persists value trees as JSON files under a root directory.
//
// Documents are addressed by name, not by path: "en" maps to <root>/en.json.
// Loading a missing document yields an empty object so that the first write
// to a new catalog just works. Loading always runs duplicate-key
// reconciliation, so callers see unique-key trees; LoadRaw skips that step
// for callers that want to inspect duplicates. Saves are atomic (temp file
// plus rename) and pretty-printed.
package store
