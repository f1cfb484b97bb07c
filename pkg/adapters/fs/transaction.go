package fs

import (
	"context"
	"fmt"
	"sync"

	"github.com/camellia2077/idset/pkg/core"
)

// Transaction implements core.Transaction for the binary store.
// Adds are staged in memory; Commit rewrites the file once with the union of
// the stored and staged IDs and only then publishes the union to the store.
type Transaction struct {
	store  *Store
	staged map[string]struct{}
	mu     sync.Mutex
	closed bool
}

// NewTransaction creates a new transaction.
func NewTransaction(store *Store) *Transaction {
	return &Transaction{
		store:  store,
		staged: make(map[string]struct{}),
	}
}

// Add stages an id for insertion.
func (t *Transaction) Add(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, core.ErrInvalidCanonicalID
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false, core.ErrTransactionClosed
	}

	if _, ok := t.staged[id]; ok {
		return false, nil
	}
	if t.store.contains(id) {
		return false, nil
	}

	t.staged[id] = struct{}{}
	return true, nil
}

// Exists checks staged IDs, then the store.
func (t *Transaction) Exists(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false, core.ErrTransactionClosed
	}

	if _, ok := t.staged[id]; ok {
		return true, nil
	}
	return t.store.contains(id), nil
}

// Commit applies all staged IDs with a single file rewrite.
// On failure the store is left exactly as it was before Begin.
func (t *Transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTransactionClosed
	}
	t.closed = true

	if len(t.staged) == 0 {
		return nil
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string]struct{}, len(s.ids)+len(t.staged))
	for id := range s.ids {
		merged[id] = struct{}{}
	}
	for id := range t.staged {
		merged[id] = struct{}{}
	}

	if err := WriteFile(s.path, merged); err != nil {
		return fmt.Errorf("failed to commit %d ids to %s: %w", len(t.staged), s.path, err)
	}

	s.ids = merged
	s.logger.Debug("transaction committed", "path", s.path, "added", len(t.staged))
	t.staged = nil
	return nil
}

// Rollback discards all staged IDs.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	// Just clear memory
	t.staged = nil
	t.closed = true
	return nil
}
