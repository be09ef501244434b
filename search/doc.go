// Package search provides full-text search over the documents of a store,
// so an agent can locate the path of a key or phrase before editing it
// instead of paging through the whole catalog.
//
// Documents are flattened into (path, text) leaf entries and indexed in an
// in-memory bleve index. Both the dot-notation path and the leaf text are
// searchable; the standard analyzer splits paths on the dots, so a query
// for "welcome" finds "common.welcome".
package search
