package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/docpatch/docpatch/audit"
	"github.com/docpatch/docpatch/jsonpath"
	"github.com/docpatch/docpatch/merge"
	"github.com/docpatch/docpatch/search"
	"github.com/docpatch/docpatch/store"
	"github.com/docpatch/docpatch/value"
)

func (r *Registry) registerDocumentTools() {
	fileProp := map[string]any{
		"type":        "string",
		"description": "Document name relative to the store root, without extension (e.g. \"en\")",
	}
	filesProp := map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "Document names to apply the operation to",
	}
	pathProp := map[string]any{
		"type":        "string",
		"description": "Dot-notation path inside the document (e.g. \"common.welcome\")",
	}
	valueProp := map[string]any{
		"description": "JSON value to store; objects, arrays and scalars are all accepted",
	}

	r.Register("json_get",
		"Read the value at a dot-notation path in a JSON document",
		objectSchema(map[string]any{"file": fileProp, "path": pathProp}, "file", "path"),
		r.handleGet)

	r.Register("json_set",
		"Write a value at a dot-notation path in a JSON document, creating missing intermediate objects",
		objectSchema(map[string]any{"file": fileProp, "path": pathProp, "value": valueProp}, "file", "path", "value"),
		r.handleSet)

	r.Register("json_delete",
		"Delete the value at a dot-notation path in a JSON document",
		objectSchema(map[string]any{"file": fileProp, "path": pathProp}, "file", "path"),
		r.handleDelete)

	r.Register("json_merge",
		"Deep-merge a JSON object into a document; nested objects merge, everything else is replaced by the incoming value",
		objectSchema(map[string]any{"file": fileProp, "value": valueProp}, "file", "value"),
		r.handleMerge)

	r.Register("json_reconcile",
		"Fold duplicate keys in a JSON document into a single consistent tree and rewrite it",
		objectSchema(map[string]any{"file": fileProp}, "file"),
		r.handleReconcile)

	r.Register("json_get_many",
		"Read the value at the same path across several documents",
		objectSchema(map[string]any{"files": filesProp, "path": pathProp}, "files", "path"),
		r.handleGetMany)

	r.Register("json_set_many",
		"Write the same value at the same path across several documents",
		objectSchema(map[string]any{"files": filesProp, "path": pathProp, "value": valueProp}, "files", "path", "value"),
		r.handleSetMany)

	r.Register("json_delete_many",
		"Delete the same path across several documents",
		objectSchema(map[string]any{"files": filesProp, "path": pathProp}, "files", "path"),
		r.handleDeleteMany)

	r.Register("json_merge_many",
		"Deep-merge the same JSON object into several documents",
		objectSchema(map[string]any{"files": filesProp, "value": valueProp}, "files", "value"),
		r.handleMergeMany)

	r.Register("json_list",
		"List the documents available in the store",
		objectSchema(map[string]any{}),
		r.handleList)

	if r.config.SearchIndex != nil {
		r.Register("json_search",
			"Full-text search for keys and values across all documents; returns document, path and matched text",
			objectSchema(map[string]any{
				"query": map[string]any{"type": "string", "description": "Search query"},
				"limit": map[string]any{"type": "integer", "description": "Maximum hits to return (default 10)"},
			}, "query"),
			r.handleSearch)
	}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// --- single-document handlers ---

func (r *Registry) handleGet(ctx context.Context, args map[string]any) (any, error) {
	file, err := stringArg(args, "file")
	if err != nil {
		return nil, err
	}
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}
	v, err := r.getOne(file, path)
	if err != nil {
		return nil, err
	}
	return map[string]any{"file": file, "path": path, "value": v}, nil
}

func (r *Registry) handleSet(ctx context.Context, args map[string]any) (any, error) {
	file, err := stringArg(args, "file")
	if err != nil {
		return nil, err
	}
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}
	val, err := valueArg(args, "value")
	if err != nil {
		return nil, err
	}
	if err := r.setOne(file, path, val); err != nil {
		return nil, err
	}
	return map[string]any{"file": file, "path": path, "written": true}, nil
}

func (r *Registry) handleDelete(ctx context.Context, args map[string]any) (any, error) {
	file, err := stringArg(args, "file")
	if err != nil {
		return nil, err
	}
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}
	if err := r.deleteOne(file, path); err != nil {
		return nil, err
	}
	return map[string]any{"file": file, "path": path, "deleted": true}, nil
}

func (r *Registry) handleMerge(ctx context.Context, args map[string]any) (any, error) {
	file, err := stringArg(args, "file")
	if err != nil {
		return nil, err
	}
	val, err := valueArg(args, "value")
	if err != nil {
		return nil, err
	}
	if err := r.mergeOne(file, val); err != nil {
		return nil, err
	}
	return map[string]any{"file": file, "merged": true}, nil
}

func (r *Registry) handleReconcile(ctx context.Context, args map[string]any) (any, error) {
	file, err := stringArg(args, "file")
	if err != nil {
		return nil, err
	}

	st, err := r.docStore()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := st.LoadRaw(file)
	if err != nil {
		r.recordEdit("json_reconcile", file, "", err, start)
		return nil, err
	}
	hadDuplicates := containsDuplicates(raw)
	tree := merge.ReconcileDuplicates(raw)
	if err := st.Save(file, tree); err != nil {
		r.recordEdit("json_reconcile", file, "", err, start)
		return nil, err
	}
	r.recordEdit("json_reconcile", file, "", nil, start)
	r.reindex(file, tree)

	return map[string]any{"file": file, "duplicates_found": hadDuplicates}, nil
}

func (r *Registry) handleList(ctx context.Context, args map[string]any) (any, error) {
	st, err := r.docStore()
	if err != nil {
		return nil, err
	}
	names, err := st.List()
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return map[string]any{"files": names}, nil
}

func (r *Registry) handleSearch(ctx context.Context, args map[string]any) (any, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return nil, err
	}
	limit := intArg(args, "limit", 10)

	hits, err := r.config.SearchIndex.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	return map[string]any{"hits": hits}, nil
}

// --- multi-document fan-out ---
//
// Each document's load-transform-save sequence is independent; the fan-out
// is plain orchestration around the single-document operations, collecting
// a per-document result or error.

func (r *Registry) handleGetMany(ctx context.Context, args map[string]any) (any, error) {
	files, err := stringSliceArg(args, "files")
	if err != nil {
		return nil, err
	}
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}

	results := make(map[string]any)
	errs := make(map[string]string)
	for _, file := range files {
		v, err := r.getOne(file, path)
		if err != nil {
			errs[file] = err.Error()
			continue
		}
		results[file] = v
	}
	return fanOutResult(results, errs), nil
}

func (r *Registry) handleSetMany(ctx context.Context, args map[string]any) (any, error) {
	files, err := stringSliceArg(args, "files")
	if err != nil {
		return nil, err
	}
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}
	val, err := valueArg(args, "value")
	if err != nil {
		return nil, err
	}

	results := make(map[string]any)
	errs := make(map[string]string)
	for _, file := range files {
		if err := r.setOne(file, path, val); err != nil {
			errs[file] = err.Error()
			continue
		}
		results[file] = true
	}
	return fanOutResult(results, errs), nil
}

func (r *Registry) handleDeleteMany(ctx context.Context, args map[string]any) (any, error) {
	files, err := stringSliceArg(args, "files")
	if err != nil {
		return nil, err
	}
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}

	results := make(map[string]any)
	errs := make(map[string]string)
	for _, file := range files {
		if err := r.deleteOne(file, path); err != nil {
			errs[file] = err.Error()
			continue
		}
		results[file] = true
	}
	return fanOutResult(results, errs), nil
}

func (r *Registry) handleMergeMany(ctx context.Context, args map[string]any) (any, error) {
	files, err := stringSliceArg(args, "files")
	if err != nil {
		return nil, err
	}
	val, err := valueArg(args, "value")
	if err != nil {
		return nil, err
	}

	results := make(map[string]any)
	errs := make(map[string]string)
	for _, file := range files {
		if err := r.mergeOne(file, val); err != nil {
			errs[file] = err.Error()
			continue
		}
		results[file] = true
	}
	return fanOutResult(results, errs), nil
}

func fanOutResult(results map[string]any, errs map[string]string) map[string]any {
	return map[string]any{"results": results, "errors": errs}
}

// --- single-document operations shared by direct and fan-out handlers ---

func (r *Registry) getOne(file, path string) (any, error) {
	st, err := r.docStore()
	if err != nil {
		return nil, err
	}
	tree, err := st.Load(file)
	if err != nil {
		return nil, err
	}
	v, err := jsonpath.Get(tree, path)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (r *Registry) setOne(file, path string, val *value.Value) error {
	st, err := r.docStore()
	if err != nil {
		return err
	}

	start := time.Now()
	tree, err := st.Load(file)
	if err == nil {
		if err = jsonpath.Set(tree, path, val); err == nil {
			err = st.Save(file, tree)
		}
	}
	r.recordEdit("json_set", file, path, err, start)
	if err != nil {
		return err
	}
	r.reindex(file, tree)
	return nil
}

func (r *Registry) deleteOne(file, path string) error {
	st, err := r.docStore()
	if err != nil {
		return err
	}

	start := time.Now()
	tree, err := st.Load(file)
	if err == nil {
		if err = jsonpath.Delete(tree, path); err == nil {
			err = st.Save(file, tree)
		}
	}
	r.recordEdit("json_delete", file, path, err, start)
	if err != nil {
		return err
	}
	r.reindex(file, tree)
	return nil
}

func (r *Registry) mergeOne(file string, val *value.Value) error {
	st, err := r.docStore()
	if err != nil {
		return err
	}

	start := time.Now()
	var tree *value.Value
	target, err := st.Load(file)
	if err == nil {
		tree = merge.Merge(target, val)
		err = st.Save(file, tree)
	}
	r.recordEdit("json_merge", file, "", err, start)
	if err != nil {
		return err
	}
	r.reindex(file, tree)
	return nil
}

// --- plumbing ---

func (r *Registry) docStore() (*store.Store, error) {
	if r.config.Store == nil {
		return nil, fmt.Errorf("%w: no document store configured", ErrExecutionFailed)
	}
	return r.config.Store, nil
}

// recordEdit writes an audit record. Audit failures are logged, never
// propagated; auditing must not block edits.
func (r *Registry) recordEdit(tool, file, path string, opErr error, start time.Time) {
	if r.config.Auditor == nil {
		return
	}
	e := audit.Edit{
		Tool:       tool,
		Document:   file,
		Path:       path,
		Outcome:    audit.OutcomeApplied,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if opErr != nil {
		e.Outcome = audit.OutcomeError
		e.Detail = opErr.Error()
	}
	if err := r.config.Auditor.RecordEdit(e); err != nil {
		r.logger.Warn("audit record failed", "tool", tool, "file", file, "err", err)
	}
}

// reindex refreshes the search entries for a saved document. Indexing
// failures are logged, never propagated.
func (r *Registry) reindex(file string, tree *value.Value) {
	if r.config.SearchIndex == nil {
		return
	}
	if err := r.config.SearchIndex.IndexDocument(file, tree); err != nil {
		r.logger.Warn("search reindex failed", "file", file, "err", err)
	}
}

// containsDuplicates reports whether any object in the tree still carries
// repeated keys. The input must be acyclic; it comes straight from the
// decoder.
func containsDuplicates(v *value.Value) bool {
	switch v.Kind() {
	case value.Object:
		if v.HasDuplicateKeys() {
			return true
		}
		for _, m := range v.Members() {
			if containsDuplicates(m.Value) {
				return true
			}
		}
	case value.Array:
		for _, e := range v.Elems() {
			if containsDuplicates(e) {
				return true
			}
		}
	}
	return false
}

// --- argument helpers ---

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidArgument, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrInvalidArgument, key, raw)
	}
	if s == "" {
		return "", fmt.Errorf("%w: %q must not be empty", ErrInvalidArgument, key)
	}
	return s, nil
}

func stringSliceArg(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalidArgument, key)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an array of strings, got %T", ErrInvalidArgument, key, raw)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %q must not be empty", ErrInvalidArgument, key)
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		s, ok := e.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("%w: %q must contain non-empty strings", ErrInvalidArgument, key)
		}
		out = append(out, s)
	}
	return out, nil
}

// valueArg converts an arbitrary JSON argument into a value tree. A missing
// key is an error; an explicit null is a valid value to write.
func valueArg(args map[string]any, key string) (*value.Value, error) {
	raw, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalidArgument, key)
	}
	v, err := value.FromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidArgument, key, err)
	}
	return v, nil
}

func intArg(args map[string]any, key string, def int) int {
	raw, ok := args[key]
	if !ok {
		return def
	}
	switch t := raw.(type) {
	case float64:
		return int(t)
	case int:
		return t
	default:
		return def
	}
}
