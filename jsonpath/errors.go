package jsonpath

import (
	"errors"
	"fmt"
)

// Sentinel errors for consistent error handling with errors.Is.
var (
	// ErrInvalidPath indicates an empty path that yields no segments.
	ErrInvalidPath = errors.New("invalid path")
	// ErrNotTraversable indicates a key lookup against a non-object value.
	ErrNotTraversable = errors.New("value is not traversable")
	// ErrPathNotFound indicates an object missing a required key.
	ErrPathNotFound = errors.New("path not found")
)

// PathError carries the operation, the full path, and the segment the
// traversal failed on. It wraps one of the sentinel errors above.
type PathError struct {
	Op      string // "get", "set" or "delete"
	Path    string
	Segment string // offending segment; empty for whole-path errors
	Err     error
}

func (e *PathError) Error() string {
	if e.Segment != "" || errors.Is(e.Err, ErrPathNotFound) || errors.Is(e.Err, ErrNotTraversable) {
		return fmt.Sprintf("jsonpath: %s %q: segment %q: %v", e.Op, e.Path, e.Segment, e.Err)
	}
	return fmt.Sprintf("jsonpath: %s %q: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the sentinel error for errors.Is matching.
func (e *PathError) Unwrap() error { return e.Err }

func newPathError(op, path, segment string, err error) error {
	return &PathError{Op: op, Path: path, Segment: segment, Err: err}
}
