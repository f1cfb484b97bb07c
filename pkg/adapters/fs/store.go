package fs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/camellia2077/idset/pkg/adapters/dirwatch"
	"github.com/camellia2077/idset/pkg/core"
)

// Extension is the file extension of binary key-set databases.
const Extension = ".bin"

// Store implements core.KeySet with an in-memory set persisted to a single
// binary file. Every successful insert is written through to disk before Add
// returns; if the write fails the insert is reverted so memory never gets ahead
// of the file.
type Store struct {
	path   string
	logger *slog.Logger

	mu  sync.Mutex
	ids map[string]struct{}
}

// NewStore creates a store backed by path. The set starts empty; call Load to
// read an existing file.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		path:   path,
		logger: logger,
		ids:    make(map[string]struct{}),
	}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory set with the contents of the backing file.
// A missing file loads as an empty set.
func (s *Store) Load(ctx context.Context) error {
	ids, err := ReadFile(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()

	s.logger.Debug("key set loaded", "path", s.path, "records", len(ids))
	return nil
}

// Save writes the whole set to the backing file.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := WriteFile(s.path, s.ids); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.path, err)
	}
	return nil
}

// Add inserts id and persists the set. It returns false if id was already present.
func (s *Store) Add(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, core.ErrInvalidCanonicalID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return false, nil
	}

	s.ids[id] = struct{}{}
	if err := WriteFile(s.path, s.ids); err != nil {
		delete(s.ids, id)
		return false, fmt.Errorf("failed to persist %s: %w", id, err)
	}

	s.logger.Debug("id added", "path", s.path, "id", id)
	return true, nil
}

// Exists reports whether id is in the set.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok, nil
}

// Count returns the number of IDs in the set.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids), nil
}

// Begin starts a new transaction.
func (s *Store) Begin(ctx context.Context) (core.Transaction, error) {
	return NewTransaction(s), nil
}

func (s *Store) contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

var _ core.Transactional = (*Store)(nil)

// Backend opens binary key-set stores for the registry.
type Backend struct {
	logger *slog.Logger
}

// NewBackend creates the binary-file backend.
func NewBackend(logger *slog.Logger) *Backend {
	return &Backend{logger: logger}
}

// Name identifies the backend in configuration.
func (b *Backend) Name() string {
	return "bin"
}

// Extension returns the database file extension.
func (b *Backend) Extension() string {
	return Extension
}

// Owns reports whether name is a committed database file. In-flight temp files
// of the atomic write share the extension and are excluded.
func (b *Backend) Owns(name string) bool {
	return strings.HasSuffix(name, Extension) && len(name) > len(Extension) &&
		!strings.HasPrefix(name, TempFilePrefix)
}

// Watch reports database files changing in dir until ctx is done.
func (b *Backend) Watch(ctx context.Context, dir string) (<-chan core.Event, error) {
	return dirwatch.Watch(ctx, dir, b.Owns, b.logger)
}

// Open creates a store for path and loads it. The file does not need to exist.
func (b *Backend) Open(ctx context.Context, path string) (core.KeySet, error) {
	s := NewStore(path, b.logger)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
