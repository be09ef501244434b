// Package value defines the in-memory tree representation of a JSON
// document: a tagged variant over null, booleans, numbers, strings, arrays,
// and objects.
//
// Objects preserve member insertion order so documents round-trip without
// reordering keys, and numbers keep their original literal text so they are
// never reformatted. The decoder in this package deliberately preserves
// repeated keys within a single object literal as additional ordered
// members; standard parsers collapse them to the last occurrence before
// application code ever sees the tree. Reconciling those duplicates into a
// unique-key tree is the job of the merge package.
//
// All mutating accessors (Set, Delete) maintain unique keys, so any tree
// built or edited through the public API satisfies the unique-key invariant.
// Only decoded trees may carry duplicates, and only until reconciled.
package value
