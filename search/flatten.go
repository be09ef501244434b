package search

import (
	"github.com/docpatch/docpatch/value"
)

// Entry is one indexable leaf of a document.
type Entry struct {
	Document string `json:"document"`
	Path     string `json:"path"`
	Text     string `json:"text"`
}

// Flatten walks tree depth-first and returns its scalar leaves as entries.
// Paths use the same dot notation the jsonpath package addresses. Array
// elements contribute their text under the enclosing path; arrays have no
// per-element addressing in dot notation. Nulls carry no text and are
// skipped. The input must be acyclic.
func Flatten(doc string, tree *value.Value) []Entry {
	var out []Entry
	flatten(doc, tree, "", &out)
	return out
}

func flatten(doc string, v *value.Value, path string, out *[]Entry) {
	switch v.Kind() {
	case value.Object:
		for _, m := range v.Members() {
			child := m.Key
			if path != "" {
				child = path + "." + m.Key
			}
			flatten(doc, m.Value, child, out)
		}
	case value.Array:
		for _, e := range v.Elems() {
			flatten(doc, e, path, out)
		}
	case value.String:
		*out = append(*out, Entry{Document: doc, Path: path, Text: v.Str()})
	case value.Number:
		*out = append(*out, Entry{Document: doc, Path: path, Text: v.NumberLiteral()})
	case value.Bool:
		text := "false"
		if v.Bool() {
			text = "true"
		}
		*out = append(*out, Entry{Document: doc, Path: path, Text: text})
	case value.Null:
		// nothing to index
	}
}
