package merge

import (
	"github.com/docpatch/docpatch/value"
)

// Merge combines source into target and returns the result as a new tree.
// Neither input is mutated; untouched substructure is shared with the inputs.
//
// If either side is not an object the result is source verbatim. Otherwise
// the result starts as a shallow copy of target's members and each source
// member either recursively merges (object vs object) or replaces outright.
func Merge(target, source *value.Value) *value.Value {
	return mergeValues(target, source, make(map[*value.Value]bool))
}

// mergeValues carries the set of node identities on the active recursion
// path. The set is an explicit parameter, not package state, so concurrent
// merges never interfere.
func mergeValues(target, source *value.Value, visiting map[*value.Value]bool) *value.Value {
	if !target.IsObject() || !source.IsObject() {
		return source
	}
	// Re-encountering a node already on the path means a reference cycle;
	// stop descending and let the source side win as-is.
	if visiting[target] || visiting[source] {
		return source
	}
	visiting[target] = true
	visiting[source] = true
	defer func() {
		delete(visiting, target)
		delete(visiting, source)
	}()

	out := value.NewObject()
	for _, m := range target.Members() {
		out.Set(m.Key, m.Value)
	}
	for _, m := range source.Members() {
		if existing, ok := out.Get(m.Key); ok && existing.IsObject() && m.Value.IsObject() {
			out.Set(m.Key, mergeValues(existing, m.Value, visiting))
			continue
		}
		out.Set(m.Key, m.Value)
	}
	return out
}

// ReconcileDuplicates returns a tree in which every object holds unique
// keys. Repeated keys within one object fold in encounter order: the first
// occurrence seeds an accumulator, and each later occurrence merges into it
// when both sides are objects, or replaces it otherwise, matching Merge's
// tie-break. Arrays pass through structurally with their object elements
// individually reconciled. The input is not mutated.
func ReconcileDuplicates(node *value.Value) *value.Value {
	return reconcile(node, make(map[*value.Value]bool))
}

func reconcile(node *value.Value, visiting map[*value.Value]bool) *value.Value {
	if node == nil {
		return nil
	}
	if visiting[node] {
		return node
	}

	switch node.Kind() {
	case value.Object:
		visiting[node] = true
		defer delete(visiting, node)

		out := value.NewObject()
		for _, m := range node.Members() {
			folded := reconcile(m.Value, visiting)
			if acc, ok := out.Get(m.Key); ok && acc.IsObject() && folded.IsObject() {
				folded = mergeValues(acc, folded, visiting)
			}
			out.Set(m.Key, folded)
		}
		return out

	case value.Array:
		visiting[node] = true
		defer delete(visiting, node)

		out := value.NewArray()
		for _, e := range node.Elems() {
			out.AppendElem(reconcile(e, visiting))
		}
		return out

	default:
		return node
	}
}
