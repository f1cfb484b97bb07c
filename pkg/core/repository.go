package core

import "context"

// KeySet defines the contract for the persistent set of canonical IDs of one
// database. Adhering to this interface keeps the Service and the Registry
// independent of the underlying storage (binary file, SQLite, ...).
//
// Implementations only ever receive canonical IDs; admission is the caller's job.
type KeySet interface {
	// Add inserts id. It returns true iff the id was not present before.
	// A false return is not an error.
	Add(ctx context.Context, id string) (bool, error)

	// Exists reports whether id is a member of the set.
	Exists(ctx context.Context, id string) (bool, error)

	// Count returns the number of members.
	Count(ctx context.Context) (int, error)

	// Load (re)reads the set from its backing storage.
	Load(ctx context.Context) error

	// Save persists the whole set to its backing storage.
	Save(ctx context.Context) error
}

// Transaction defines the contract for a unit of work over a KeySet.
// Adds are staged and only become visible to the store on Commit.
type Transaction interface {
	// Add stages id. It returns true iff id is neither stored nor already staged.
	Add(ctx context.Context, id string) (bool, error)

	// Exists checks staged ids first, then the store.
	Exists(ctx context.Context, id string) (bool, error)

	// Commit applies all staged ids atomically.
	Commit(ctx context.Context) error

	// Rollback discards all staged ids. Rolling back a closed transaction is a no-op.
	Rollback(ctx context.Context) error
}

// Transactional extends KeySet to support batched writes.
type Transactional interface {
	KeySet

	// Begin starts a new transaction.
	Begin(ctx context.Context) (Transaction, error)
}

// Registry is the view of the database registry the Service depends on.
type Registry interface {
	LoadDefault(ctx context.Context) error
	Create(ctx context.Context, name string) error
	SwitchTo(ctx context.Context, name string) error
	Current() (KeySet, string, bool)
	CurrentName() string
	Names() ([]string, error)
}
