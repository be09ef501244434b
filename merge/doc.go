// Package merge combines value trees and reconciles duplicate-key objects.
//
// Merge is a deep merge with a deterministic conflict policy: nested objects
// merge key-wise, everything else resolves to last-value-wins. Arrays are
// opaque; they are replaced wholesale, never element-merged.
//
// ReconcileDuplicates folds repeated keys within one object literal, as
// preserved by the value package's decoder, into a single member per key
// using the same merge rule in encounter order.
//
// Both functions are total: they never fail, only transform. A tree that
// contains a reference cycle (possible only through programmatic
// construction, never from serialized JSON) terminates via a visited-set
// guard at the cost of a less merged result.
package merge
