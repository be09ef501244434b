// Package jsonpath translates dot-notation paths against a value tree into
// reads, writes, and deletions.
//
// Get and Delete are strict: any missing link or non-object intermediate is
// an error, so an agent addressing the wrong location finds out immediately.
// Set is permissive: missing intermediates are created and non-object
// intermediates are overwritten with fresh objects, because writing to a
// not-yet-existing path is the primary use case when adding keys to a
// document.
//
// A path is split on '.'; an empty segment (leading, trailing, or doubled
// separator) is looked up as the literal key "", which in ordinary documents
// simply fails with ErrPathNotFound. There is no escaping, so keys
// containing '.' are not addressable; that is an accepted limitation of
// dot notation.
package jsonpath
