// Package sqlite provides a core.KeySet backed by an embedded SQLite database
// (pure Go, modernc.org/sqlite). Each database file holds a single table:
//
//	ids(id TEXT PRIMARY KEY)
//
// Inserts are "insert, ignore if present", lookups are presence queries, and
// batches run inside a real SQL transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/camellia2077/idset/pkg/adapters/dirwatch"
	"github.com/camellia2077/idset/pkg/core"
)

// Extension is the file extension of SQLite key-set databases.
const Extension = ".db"

const schema = `CREATE TABLE IF NOT EXISTS ids (id TEXT PRIMARY KEY)`

// Store implements core.KeySet on top of database/sql.
type Store struct {
	path   string
	db     *sql.DB
	logger *slog.Logger
	mu     sync.Mutex
}

// Open opens (creating if needed) the SQLite database at path and ensures the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// A single connection serialises writers and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	s := &Store{path: path, db: db, logger: logger}
	if err := s.Load(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Load verifies the connection and creates the ids table when missing.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to prepare schema in %s: %w", s.path, err)
	}
	s.logger.Debug("sqlite key set opened", "path", s.path)
	return nil
}

// Save is a no-op: every statement is durable once it returns.
func (s *Store) Save(ctx context.Context) error {
	return nil
}

// Add inserts id, ignoring it when present.
func (s *Store) Add(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, core.ErrInvalidCanonicalID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(ctx, s.db, id)
}

// Exists reports whether id is stored.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return exists(ctx, s.db, id)
}

// Count returns the number of stored ids.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ids`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ids: %w", err)
	}
	return n, nil
}

// Begin starts a SQL transaction.
func (s *Store) Begin(ctx context.Context) (core.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Transaction{tx: tx}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ core.Transactional = (*Store)(nil)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, db execer, id string) (bool, error) {
	res, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO ids (id) VALUES (?)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to insert %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert %s: %w", id, err)
	}
	return n == 1, nil
}

func exists(ctx context.Context, db execer, id string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM ids WHERE id = ? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", id, err)
	}
	return true, nil
}

// Transaction implements core.Transaction over *sql.Tx.
type Transaction struct {
	tx     *sql.Tx
	mu     sync.Mutex
	closed bool
}

// Add inserts id inside the transaction.
func (t *Transaction) Add(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, core.ErrInvalidCanonicalID
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false, core.ErrTransactionClosed
	}
	return insert(ctx, t.tx, id)
}

// Exists looks id up inside the transaction.
func (t *Transaction) Exists(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false, core.ErrTransactionClosed
	}
	return exists(ctx, t.tx, id)
}

// Commit commits the SQL transaction.
func (t *Transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return core.ErrTransactionClosed
	}
	t.closed = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Rollback aborts the SQL transaction.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback: %w", err)
	}
	return nil
}

// Backend opens SQLite key-set stores for the registry.
type Backend struct {
	logger *slog.Logger
}

// NewBackend creates the SQLite backend.
func NewBackend(logger *slog.Logger) *Backend {
	return &Backend{logger: logger}
}

// Name identifies the backend in configuration.
func (b *Backend) Name() string {
	return "sqlite"
}

// Extension returns the database file extension.
func (b *Backend) Extension() string {
	return Extension
}

// Owns reports whether name is a database file. Journal and WAL side files
// carry a longer suffix and never match.
func (b *Backend) Owns(name string) bool {
	return strings.HasSuffix(name, Extension) && len(name) > len(Extension)
}

// Watch reports database files changing in dir until ctx is done.
func (b *Backend) Watch(ctx context.Context, dir string) (<-chan core.Event, error) {
	return dirwatch.Watch(ctx, dir, b.Owns, b.logger)
}

// Open opens the database at path, creating file and schema when missing.
func (b *Backend) Open(ctx context.Context, path string) (core.KeySet, error) {
	return Open(ctx, path, b.logger)
}
