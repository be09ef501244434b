package registry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docpatch/docpatch/store"
)

func TestServeHTTP(t *testing.T) {
	reg := New(Config{
		ServerInfo: ServerInfo{Name: "test", Version: "1.0.0"},
		Store:      store.New(t.TempDir()),
	})
	defer func() { _ = reg.Close() }()

	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	body := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp, err := http.Post(srv.URL, "application/json", body)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var mcpResp MCPResponse
	if err := json.NewDecoder(resp.Body).Decode(&mcpResp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mcpResp.Error != nil {
		t.Fatalf("expected no error, got %v", mcpResp.Error)
	}
	resultMap, ok := mcpResp.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected result map, got %T", mcpResp.Result)
	}
	tools, ok := resultMap["tools"].([]any)
	if !ok || len(tools) == 0 {
		t.Fatal("expected at least one tool")
	}
}

func TestServeHTTPRoundTripsAnEdit(t *testing.T) {
	st := store.New(t.TempDir())
	reg := New(Config{
		ServerInfo: ServerInfo{Name: "test", Version: "1.0.0"},
		Store:      st,
	})
	defer func() { _ = reg.Close() }()

	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	body := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"json_set","arguments":{"file":"en","path":"common.welcome","value":"Hello"}}}`)
	resp, err := http.Post(srv.URL, "application/json", body)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var mcpResp MCPResponse
	if err := json.NewDecoder(resp.Body).Decode(&mcpResp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mcpResp.Error != nil {
		t.Fatalf("expected no error, got %v", mcpResp.Error)
	}

	tree, err := st.Load("en")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	welcome, _ := tree.Get("common")
	v, _ := welcome.Get("welcome")
	if v.Str() != "Hello" {
		t.Errorf("stored value = %q", v.Str())
	}
}

func TestServeHTTPMethodNotAllowed(t *testing.T) {
	reg := New(Config{
		ServerInfo: ServerInfo{Name: "test", Version: "1.0.0"},
		Store:      store.New(t.TempDir()),
	})
	defer func() { _ = reg.Close() }()

	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestServeHTTPInvalidJSON(t *testing.T) {
	reg := New(Config{
		ServerInfo: ServerInfo{Name: "test", Version: "1.0.0"},
		Store:      store.New(t.TempDir()),
	})
	defer func() { _ = reg.Close() }()

	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", bytes.NewBufferString(`{not json`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var mcpResp MCPResponse
	if err := json.NewDecoder(resp.Body).Decode(&mcpResp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mcpResp.Error == nil || mcpResp.Error.Code != ErrCodeParseError {
		t.Errorf("error = %+v, want parse error", mcpResp.Error)
	}
}

func TestServeSSE(t *testing.T) {
	reg := New(Config{
		ServerInfo: ServerInfo{Name: "test", Version: "1.0.0"},
		Store:      store.New(t.TempDir()),
	})
	defer func() { _ = reg.Close() }()

	srv := httptest.NewServer(ServeSSE(reg))
	defer srv.Close()

	reqBody := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp, err := http.Post(srv.URL, "application/json", reqBody)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	var dataLine string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			dataLine = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanner failed: %v", err)
	}
	if dataLine == "" {
		t.Fatal("expected SSE data line")
	}

	var mcpResp MCPResponse
	if err := json.Unmarshal([]byte(dataLine), &mcpResp); err != nil {
		t.Fatalf("unmarshal SSE data failed: %v", err)
	}
	if mcpResp.Error != nil {
		t.Fatalf("expected no error, got %v", mcpResp.Error)
	}
	resultMap, ok := mcpResp.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected result map, got %T", mcpResp.Result)
	}
	tools, ok := resultMap["tools"].([]any)
	if !ok || len(tools) == 0 {
		t.Fatal("expected at least one tool")
	}
}
