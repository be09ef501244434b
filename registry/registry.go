package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docpatch/docpatch/audit"
	"github.com/docpatch/docpatch/search"
	"github.com/docpatch/docpatch/store"
)

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo
	// Store is the document store all tools operate on. Required.
	Store *store.Store
	// Auditor records mutating operations. Optional; nil disables auditing.
	Auditor audit.Auditor
	// SearchIndex enables the json_search tool and keeps the index in sync
	// with edits. Optional.
	SearchIndex *search.Index
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// ServerInfo describes this MCP server for the initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// ToolHandler executes a tool with the arguments parsed from the MCP
// request. It returns the result as any (typically a map) and an error if
// execution fails.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

type localTool struct {
	tool    mcp.Tool
	handler ToolHandler
}

// Registry is an MCP tool registry over a document store.
type Registry struct {
	mu     sync.RWMutex
	config Config
	logger *slog.Logger

	tools map[string]localTool
	order []string // registration order, for stable tools/list output
}

// New creates a Registry and registers the built-in document tools.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		config: cfg,
		logger: logger,
		tools:  make(map[string]localTool),
	}
	r.registerDocumentTools()
	return r
}

// Register adds a tool with its execution handler. Registering an existing
// name replaces the previous handler.
func (r *Registry) Register(name, description string, inputSchema map[string]any, handler ToolHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = localTool{
		tool: mcp.Tool{
			Name:        name,
			Description: description,
			InputSchema: inputSchema,
		},
		handler: handler,
	}
}

// ListAll returns all registered tools in registration order.
func (r *Registry) ListAll(ctx context.Context) []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// Execute runs a tool by name with the given arguments.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	result, err := t.handler(ctx, args)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close releases the auditor and search index, if configured.
func (r *Registry) Close() error {
	var firstErr error
	if r.config.Auditor != nil {
		if err := r.config.Auditor.Close(); err != nil {
			firstErr = err
		}
	}
	if r.config.SearchIndex != nil {
		if err := r.config.SearchIndex.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
