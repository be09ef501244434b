package registry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/docpatch/docpatch/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New(Config{
		ServerInfo: ServerInfo{Name: "docpatch-test", Version: "0.0.1"},
		Store:      store.New(t.TempDir()),
	})
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestListAll(t *testing.T) {
	r := newTestRegistry(t)

	tools := r.ListAll(context.Background())
	want := []string{
		"json_get", "json_set", "json_delete", "json_merge", "json_reconcile",
		"json_get_many", "json_set_many", "json_delete_many", "json_merge_many",
		"json_list",
	}
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Name != name {
			t.Errorf("tools[%d] = %q, want %q", i, tools[i].Name, name)
		}
	}
}

func TestRegisterReplacesExisting(t *testing.T) {
	r := newTestRegistry(t)
	before := len(r.ListAll(context.Background()))

	r.Register("json_get", "replacement", objectSchema(map[string]any{}),
		func(ctx context.Context, args map[string]any) (any, error) {
			return "replaced", nil
		})

	tools := r.ListAll(context.Background())
	if len(tools) != before {
		t.Errorf("re-registration changed tool count: %d -> %d", before, len(tools))
	}
	if tools[0].Name != "json_get" || tools[0].Description != "replacement" {
		t.Errorf("tools[0] = %+v", tools[0])
	}

	got, err := r.Execute(context.Background(), "json_get", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got != "replaced" {
		t.Errorf("Execute = %v", got)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Execute(context.Background(), "no_such_tool", nil)
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("error = %v, want ErrToolNotFound", err)
	}
}

func TestHandleInitialize(t *testing.T) {
	r := newTestRegistry(t)

	resp := r.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("result is %T", resp.Result)
	}
	if result["protocolVersion"] != protocolVersion {
		t.Errorf("protocolVersion = %v", result["protocolVersion"])
	}
	info, ok := result["serverInfo"].(map[string]any)
	if !ok || info["name"] != "docpatch-test" || info["version"] != "0.0.1" {
		t.Errorf("serverInfo = %v", result["serverInfo"])
	}
}

func TestHandleToolsList(t *testing.T) {
	r := newTestRegistry(t)

	resp := r.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "tools/list",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]any)
	tools, ok := result["tools"].([]map[string]any)
	if !ok || len(tools) == 0 {
		t.Fatalf("tools = %v", result["tools"])
	}
	if tools[0]["name"] != "json_get" {
		t.Errorf("first tool = %v", tools[0]["name"])
	}
	if tools[0]["inputSchema"] == nil {
		t.Error("missing input schema")
	}
}

func TestHandleToolsCall(t *testing.T) {
	r := newTestRegistry(t)

	params, _ := json.Marshal(map[string]any{
		"name": "json_set",
		"arguments": map[string]any{
			"file":  "en",
			"path":  "common.welcome",
			"value": "Hello",
		},
	})
	resp := r.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      3,
		Method:  "tools/call",
		Params:  params,
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]any)
	if result["written"] != true {
		t.Errorf("result = %v", result)
	}
}

func TestHandleToolsCallErrors(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name     string
		params   any
		wantCode int
	}{
		{
			"unknown tool",
			map[string]any{"name": "nope", "arguments": map[string]any{}},
			ErrCodeToolNotFound,
		},
		{
			"missing argument",
			map[string]any{"name": "json_get", "arguments": map[string]any{}},
			ErrCodeInvalidParams,
		},
		{
			"execution failure",
			map[string]any{"name": "json_get", "arguments": map[string]any{
				"file": "en", "path": "missing.path",
			}},
			ErrCodeToolExecFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, _ := json.Marshal(tt.params)
			resp := r.HandleRequest(context.Background(), MCPRequest{
				JSONRPC: "2.0",
				ID:      1,
				Method:  "tools/call",
				Params:  params,
			})
			if resp.Error == nil {
				t.Fatalf("expected error, got %v", resp.Result)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleToolsCallMalformedParams(t *testing.T) {
	r := newTestRegistry(t)

	resp := r.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{not json`),
	})
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidParams {
		t.Errorf("error = %+v, want invalid params", resp.Error)
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	r := newTestRegistry(t)

	resp := r.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "resources/list",
	})
	if resp.Error == nil || resp.Error.Code != ErrCodeMethodNotFound {
		t.Errorf("error = %+v, want method not found", resp.Error)
	}
	if resp.ID != 1 {
		t.Errorf("ID = %v, want 1", resp.ID)
	}
}
