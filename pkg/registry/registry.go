// Package registry manages the named databases of a data directory: it creates
// them, selects the current one, and enumerates what exists on disk.
//
// The registry owns every resident store. Callers resolve the current store
// through Current on each use and never keep the pointer.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/camellia2077/idset/pkg/core"
)

// DefaultName is the database selected at startup when nothing else is configured.
const DefaultName = "database"

var (
	ErrNameEmpty   = core.ErrNameEmpty
	ErrNameExists  = core.ErrNameExists
	ErrInvalidName = core.ErrInvalidName
	ErrNotFound    = core.ErrNotFound
)

// Backend opens key-set stores of one storage format and knows which files in
// the data directory belong to it.
type Backend interface {
	Name() string
	Extension() string
	// Owns reports whether a base file name is a database of this backend.
	// Side files (temp writes, journals) must be rejected.
	Owns(name string) bool
	Open(ctx context.Context, path string) (core.KeySet, error)
	Watch(ctx context.Context, dir string) (<-chan core.Event, error)
}

// Config holds the configuration for a Registry.
type Config struct {
	Dir         string
	Backend     Backend
	Logger      *slog.Logger
	DefaultName string // defaults to DefaultName
}

// Registry implements core.Registry over a single data directory.
type Registry struct {
	dir         string
	backend     Backend
	logger      *slog.Logger
	defaultName string

	mu      sync.Mutex
	stores  map[string]core.KeySet
	current string
}

// New creates a registry rooted at cfg.Dir, creating the directory if needed.
func New(cfg Config) (*Registry, error) {
	if cfg.Backend == nil {
		return nil, errors.New("registry requires a backend")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.DefaultName == "" {
		cfg.DefaultName = DefaultName
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Registry{
		dir:         cfg.Dir,
		backend:     cfg.Backend,
		logger:      cfg.Logger,
		defaultName: cfg.DefaultName,
		stores:      make(map[string]core.KeySet),
	}, nil
}

// NormalizeName maps a user-supplied database name to its file name: surrounding
// whitespace is trimmed and ext is appended when missing.
func NormalizeName(name, ext string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == ext {
		return "", ErrNameEmpty
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !strings.HasSuffix(name, ext) {
		name += ext
	}
	return name, nil
}

// Dir returns the data directory.
func (r *Registry) Dir() string {
	return r.dir
}

// Backend returns the storage backend.
func (r *Registry) Backend() Backend {
	return r.backend
}

// LoadDefault makes the default database current, loading its file when present.
func (r *Registry) LoadDefault(ctx context.Context) error {
	name, err := NormalizeName(r.defaultName, r.backend.Extension())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[name]; !ok {
		ks, err := r.backend.Open(ctx, r.path(name))
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
		r.stores[name] = ks
	}
	r.current = name
	r.logger.Debug("default database loaded", "database", name)
	return nil
}

// Create makes a new, empty database, writes its file, and selects it.
func (r *Registry) Create(ctx context.Context, name string) error {
	name, err := NormalizeName(name, r.backend.Extension())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[name]; ok || r.onDisk(name) {
		return fmt.Errorf("%w: %s", ErrNameExists, name)
	}

	path := r.path(name)
	ks, err := r.backend.Open(ctx, path)
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := ks.Save(ctx); err != nil {
		closeStore(ks)
		_ = os.Remove(path)
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	r.stores[name] = ks
	r.current = name
	r.logger.Info("database created", "database", name)
	return nil
}

// SwitchTo selects an existing database, loading it from disk on first use.
func (r *Registry) SwitchTo(ctx context.Context, name string) error {
	name, err := NormalizeName(name, r.backend.Extension())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[name]; !ok {
		if !r.onDisk(name) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		ks, err := r.backend.Open(ctx, r.path(name))
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
		r.stores[name] = ks
	}

	r.current = name
	r.logger.Debug("database selected", "database", name)
	return nil
}

// Exists reports whether name is resident or present on disk.
func (r *Registry) Exists(name string) bool {
	name, err := NormalizeName(name, r.backend.Extension())
	if err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.stores[name]
	return ok || r.onDisk(name)
}

// Current returns the selected store and its name.
func (r *Registry) Current() (core.KeySet, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ks, ok := r.stores[r.current]
	if !ok {
		return nil, "", false
	}
	return ks, r.current, true
}

// CurrentName returns the selected database name, or "" when none is selected.
func (r *Registry) CurrentName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Names lists every database: files in the data directory plus resident
// databases not yet flushed. The directory is rescanned on every call.
func (r *Registry) Names() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(r.dir), "*"+r.backend.Extension())
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", r.dir, err)
	}

	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if !r.backend.Owns(m) {
			continue
		}
		seen[m] = struct{}{}
		names = append(names, m)
	}

	r.mu.Lock()
	for name := range r.stores {
		if _, ok := seen[name]; !ok {
			names = append(names, name)
		}
	}
	r.mu.Unlock()

	slices.Sort(names)
	return names, nil
}

// Watch reports database files being created, rewritten or removed in the
// data directory until ctx is done.
func (r *Registry) Watch(ctx context.Context) (<-chan core.Event, error) {
	return r.backend.Watch(ctx, r.dir)
}

// Close releases every resident store that holds resources.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, ks := range r.stores {
		if c, ok := ks.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close %s: %w", name, err))
			}
		}
	}
	clear(r.stores)
	r.current = ""
	return errors.Join(errs...)
}

func (r *Registry) path(name string) string {
	return filepath.Join(r.dir, name)
}

func (r *Registry) onDisk(name string) bool {
	info, err := os.Stat(r.path(name))
	return err == nil && !info.IsDir()
}

func closeStore(ks core.KeySet) {
	if c, ok := ks.(io.Closer); ok {
		_ = c.Close()
	}
}

var _ core.Registry = (*Registry)(nil)
