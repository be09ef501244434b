// Package registry exposes path-addressed JSON document editing as an MCP
// server for automated agents.
//
// A Registry wires the document store, the merge engine, the audit trail,
// and the optional search index behind a fixed set of tools:
//
//   - json_get / json_set / json_delete — read, write, or remove the value
//     at a dot-notation path in one document
//   - json_merge — deep-merge an object into one document
//   - json_reconcile — fold duplicate keys in a document and rewrite it
//   - json_get_many / json_set_many / json_delete_many / json_merge_many —
//     the same operations fanned out across several documents, collecting a
//     per-document result and error map
//   - json_list — enumerate documents
//   - json_search — locate keys and text across documents (when search is
//     enabled)
//
// The registry speaks MCP JSON-RPC (initialize, tools/list, tools/call)
// over stdio, plain HTTP, or SSE. Tool definitions use mcp.Tool from the
// official MCP Go SDK.
//
// Example usage:
//
//	reg := registry.New(registry.Config{
//	    ServerInfo: registry.ServerInfo{Name: "docpatch", Version: "1.0.0"},
//	    Store:      store.New("./locales"),
//	})
//
//	ctx := context.Background()
//	registry.ServeStdio(ctx, reg)
package registry
