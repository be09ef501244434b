package jsonpath

import (
	"strings"

	"github.com/docpatch/docpatch/value"
)

// Split breaks a dot-notation path into its segments. An empty path has no
// segments and is reported as ErrInvalidPath by the operations below.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Get resolves path against root and returns the addressed value, which may
// be of any kind. The tree is never mutated.
func Get(root *value.Value, path string) (*value.Value, error) {
	segments := Split(path)
	if len(segments) == 0 {
		return nil, newPathError("get", path, "", ErrInvalidPath)
	}

	cur := root
	for _, seg := range segments {
		if !cur.IsObject() {
			return nil, newPathError("get", path, seg, ErrNotTraversable)
		}
		next, ok := cur.Get(seg)
		if !ok {
			return nil, newPathError("get", path, seg, ErrPathNotFound)
		}
		cur = next
	}
	return cur, nil
}

// Set stores val at path, mutating root in place. Missing intermediates are
// created as empty objects; an intermediate that exists but is not an object
// is silently overwritten with one, discarding whatever was there. The only
// failure is a root that is not an object at all.
func Set(root *value.Value, path string, val *value.Value) error {
	segments := Split(path)
	if len(segments) == 0 {
		return newPathError("set", path, "", ErrInvalidPath)
	}
	if !root.IsObject() {
		return newPathError("set", path, segments[0], ErrNotTraversable)
	}

	cur := root
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur.Get(seg)
		if !ok || !next.IsObject() {
			next = value.NewObject()
			cur.Set(seg, next)
		}
		cur = next
	}
	cur.Set(segments[len(segments)-1], val)
	return nil
}

// Delete removes the value at path, mutating root in place. Traversal is as
// strict as Get: the tree is untouched on any failure.
func Delete(root *value.Value, path string) error {
	segments := Split(path)
	if len(segments) == 0 {
		return newPathError("delete", path, "", ErrInvalidPath)
	}

	cur := root
	for _, seg := range segments[:len(segments)-1] {
		if !cur.IsObject() {
			return newPathError("delete", path, seg, ErrNotTraversable)
		}
		next, ok := cur.Get(seg)
		if !ok {
			return newPathError("delete", path, seg, ErrPathNotFound)
		}
		cur = next
	}

	last := segments[len(segments)-1]
	if !cur.IsObject() {
		return newPathError("delete", path, last, ErrNotTraversable)
	}
	if !cur.Delete(last) {
		return newPathError("delete", path, last, ErrPathNotFound)
	}
	return nil
}
