package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docpatch/docpatch/merge"
	"github.com/docpatch/docpatch/value"
)

// Error values for consistent error handling by callers.
var (
	ErrInvalidName = errors.New("invalid document name")
)

const (
	defaultExt    = ".json"
	defaultIndent = "  "
)

// Store is a directory-backed document store.
type Store struct {
	root   string
	ext    string
	indent string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithExtension overrides the ".json" file extension.
func WithExtension(ext string) Option {
	return func(s *Store) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.ext = ext
	}
}

// WithIndent overrides the two-space indent unit used when saving.
func WithIndent(indent string) Option {
	return func(s *Store) { s.indent = indent }
}

// WithLogger sets the logger for debug-level load/save logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a Store rooted at dir. The directory is created on first save,
// not here, so pointing a read-only tool at a missing directory is harmless.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		root:   dir,
		ext:    defaultExt,
		indent: defaultIndent,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Load reads the named document and returns a unique-key tree. A missing
// file yields an empty object. Duplicate keys in the file are reconciled.
func (s *Store) Load(name string) (*value.Value, error) {
	raw, err := s.LoadRaw(name)
	if err != nil {
		return nil, err
	}
	return merge.ReconcileDuplicates(raw), nil
}

// LoadRaw reads the named document without reconciling duplicate keys.
// A missing file yields an empty object.
func (s *Store) LoadRaw(name string) (*value.Value, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("document missing, starting empty", "name", name, "path", path)
			return value.NewObject(), nil
		}
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	tree, err := value.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", path, err)
	}
	s.logger.Debug("document loaded", "name", name, "bytes", len(data))
	return tree, nil
}

// Save pretty-prints tree and writes it atomically to the named document,
// creating the root directory if needed.
func (s *Store) Save(name string, tree *value.Value) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	data, err := value.Encode(tree, s.indent)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", name, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store: create directory for %s: %w", path, err)
	}

	// Write to a temp file in the same directory, then rename. Rename within
	// one filesystem is atomic, so readers never observe a half-written file.
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("store: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("store: rename %s: %w", path, err)
	}

	s.logger.Debug("document saved", "name", name, "bytes", len(data))
	return nil
}

// List returns the names of all documents under the root, sorted. A missing
// root directory yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: list %s: %w", s.root, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base := e.Name()
		if !strings.HasSuffix(base, s.ext) {
			continue
		}
		if strings.HasPrefix(base, ".") {
			continue // temp files from interrupted saves
		}
		names = append(names, strings.TrimSuffix(base, s.ext))
	}
	sort.Strings(names)
	return names, nil
}

// resolve maps a document name onto a file path inside the root, rejecting
// names that would escape it.
func (s *Store) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("store: %w: empty name", ErrInvalidName)
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("store: %w: %q is absolute", ErrInvalidName, name)
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("store: %w: %q escapes the store root", ErrInvalidName, name)
	}
	return filepath.Join(s.root, clean+s.ext), nil
}
