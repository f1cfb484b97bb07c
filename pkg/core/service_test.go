package core_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camellia2077/idset/pkg/adapters/fs"
	"github.com/camellia2077/idset/pkg/core"
	"github.com/camellia2077/idset/pkg/registry"
	"github.com/camellia2077/idset/pkg/validator"
)

func newTestService(t *testing.T) (*core.Service, *registry.Registry) {
	t.Helper()
	reg, err := registry.New(registry.Config{Dir: t.TempDir(), Backend: fs.NewBackend(nil)})
	require.NoError(t, err)
	t.Cleanup(func() { reg.Close() })
	return core.NewService(reg, validator.DefaultGrammar), reg
}

func TestService_NoDatabase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	assert.Equal(t, core.StatusWelcome, svc.Status())

	require.NoError(t, svc.PerformAdd(ctx, "AB1234"))
	assert.Equal(t, core.StatusDBNotFound, svc.Status())
	assert.Zero(t, svc.LastResult().Total())

	require.NoError(t, svc.PerformQuery(ctx, "AB1234"))
	assert.Equal(t, core.StatusDBNotFound, svc.Status())

	require.NoError(t, svc.PerformImport(ctx, "whatever.txt"))
	assert.Equal(t, core.StatusDBNotFound, svc.Status())

	_, err := svc.TotalRecords(ctx)
	assert.ErrorIs(t, err, core.ErrNoDatabase)
}

func TestService_AddTwice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDatabase(ctx))
	assert.Equal(t, core.StatusLoaded, svc.Status())

	require.NoError(t, svc.PerformAdd(ctx, "AB1234"))
	assert.Equal(t, core.StatusAddCompleted, svc.Status())
	assert.Equal(t, 1, svc.LastResult().Success)
	assert.Equal(t, "database.bin", svc.LastResult().Database)

	require.NoError(t, svc.PerformAdd(ctx, "AB1234"))
	res := svc.LastResult()
	assert.Equal(t, 0, res.Success)
	assert.Equal(t, 1, res.Exists)

	n, err := svc.TotalRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_MixedBatch(t *testing.T) {
	ctx := context.Background()
	svc, reg := newTestService(t)
	require.NoError(t, svc.LoadDatabase(ctx))

	require.NoError(t, svc.PerformAdd(ctx, "AB1234 CD5678 1"))
	res := svc.LastResult()
	assert.Equal(t, core.StatusAddCompleted, svc.Status())
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Invalid)
	assert.Equal(t, 3, res.Total())

	// The whole batch reached disk in one write.
	onDisk, err := fs.ReadFile(filepath.Join(reg.Dir(), "database.bin"))
	require.NoError(t, err)
	assert.Len(t, onDisk, 2)
}

func TestService_CounterSums(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDatabase(ctx))
	require.NoError(t, svc.PerformAdd(ctx, "AB12 cd-34"))

	tests := []struct {
		name  string
		input string
		n     int
	}{
		{name: "All New", input: "EF56 GH78", n: 2},
		{name: "Duplicates In Batch", input: "IJ90 ij90 IJ-90", n: 3},
		{name: "Mixed", input: "AB12 ZZZZZ1 12AB KL12 x", n: 5},
		{name: "All Invalid", input: "1 2 ---", n: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, svc.PerformAdd(ctx, tt.input))
			res := svc.LastResult()
			assert.Equal(t, tt.n, res.Success+res.Exists+res.Invalid)
			assert.Zero(t, res.NotFound)

			require.NoError(t, svc.PerformQuery(ctx, tt.input))
			res = svc.LastResult()
			assert.Equal(t, tt.n, res.Success+res.NotFound+res.Invalid)
			assert.Zero(t, res.Exists)
		})
	}
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDatabase(ctx))
	require.NoError(t, svc.PerformAdd(ctx, "AB1234"))

	require.NoError(t, svc.PerformQuery(ctx, "ab-1234 CD5678 ???"))
	res := svc.LastResult()
	assert.Equal(t, core.StatusQueryCompleted, svc.Status())
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.NotFound)
	assert.Equal(t, 1, res.Invalid)

	t.Run("Empty Input", func(t *testing.T) {
		require.NoError(t, svc.PerformQuery(ctx, ""))
		assert.Equal(t, core.StatusQueryInputEmpty, svc.Status())
		assert.Zero(t, svc.LastResult().Total())

		require.NoError(t, svc.PerformQuery(ctx, " \t\n"))
		assert.Equal(t, core.StatusQueryInputEmpty, svc.Status())
	})

	t.Run("All Invalid", func(t *testing.T) {
		require.NoError(t, svc.PerformQuery(ctx, "1 2"))
		assert.Equal(t, core.StatusTokenInvalid, svc.Status())
		assert.Equal(t, 2, svc.LastResult().Invalid)
	})
}

func TestService_AddEmptyInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDatabase(ctx))

	require.NoError(t, svc.PerformAdd(ctx, "   "))
	assert.Equal(t, core.StatusAddInputEmpty, svc.Status())
	assert.Zero(t, svc.LastResult().Total())
}

func TestService_CreateDatabase(t *testing.T) {
	ctx := context.Background()
	svc, reg := newTestService(t)

	require.NoError(t, svc.PerformCreateDatabase(ctx, "alpha"))
	assert.Equal(t, core.StatusCreated, svc.Status())
	assert.Equal(t, "alpha.bin", svc.CurrentDatabase())

	require.NoError(t, svc.PerformCreateDatabase(ctx, "alpha"))
	assert.Equal(t, core.StatusDBNameExists, svc.Status())

	matches, err := filepath.Glob(filepath.Join(reg.Dir(), "alpha*"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	require.NoError(t, svc.PerformCreateDatabase(ctx, ""))
	assert.Equal(t, core.StatusDBNameEmpty, svc.Status())

	require.NoError(t, svc.PerformCreateDatabase(ctx, "../escape"))
	assert.Equal(t, core.StatusDBCreateFailed, svc.Status())

	names, err := svc.DatabaseNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.bin"}, names)
}

func TestService_SetCurrentDatabase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.PerformCreateDatabase(ctx, "alpha"))
	require.NoError(t, svc.PerformAdd(ctx, "AB12"))
	require.NoError(t, svc.PerformCreateDatabase(ctx, "beta"))

	require.NoError(t, svc.SetCurrentDatabase(ctx, "missing"))
	assert.Equal(t, core.StatusDBNotFound, svc.Status())
	assert.Equal(t, "beta.bin", svc.CurrentDatabase())

	require.NoError(t, svc.SetCurrentDatabase(ctx, "alpha"))
	assert.Equal(t, core.StatusSwitched, svc.Status())
	assert.Equal(t, "alpha.bin", svc.LastResult().Database)

	n, err := svc.TotalRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDatabase(ctx))
	require.NoError(t, svc.PerformAdd(ctx, "AB12"))

	write := func(t *testing.T, content string) string {
		path := filepath.Join(t.TempDir(), "ids.txt")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("Lines", func(t *testing.T) {
		path := write(t, "AB12\r\n  CD 34  \n\nEF-56\r\nnope\n")
		require.NoError(t, svc.PerformImport(ctx, path))
		assert.Equal(t, core.StatusImportCompleted, svc.Status())

		res := svc.LastResult()
		assert.Equal(t, 2, res.Success)
		assert.Equal(t, 1, res.Exists)
		assert.Equal(t, 1, res.Invalid)
	})

	t.Run("Missing File", func(t *testing.T) {
		require.NoError(t, svc.PerformImport(ctx, filepath.Join(t.TempDir(), "missing.txt")))
		assert.Equal(t, core.StatusFileOpenFailed, svc.Status())
	})

	t.Run("Blank File", func(t *testing.T) {
		require.NoError(t, svc.PerformImport(ctx, write(t, "\n  \r\n\n")))
		assert.Equal(t, core.StatusFileEmpty, svc.Status())
	})

	t.Run("All Malformed", func(t *testing.T) {
		require.NoError(t, svc.PerformImport(ctx, write(t, "1\n2\n---\n")))
		assert.Equal(t, core.StatusTokenInvalid, svc.Status())
		assert.Equal(t, 3, svc.LastResult().Invalid)
	})

	n, err := svc.TotalRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

// failingKeySet is a transactional key set whose commits always fail.
type failingKeySet struct {
	ids        map[string]struct{}
	begun      int
	rolledBack bool
}

func (f *failingKeySet) Add(ctx context.Context, id string) (bool, error) {
	return false, errors.New("disk full")
}
func (f *failingKeySet) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := f.ids[id]
	return ok, nil
}
func (f *failingKeySet) Count(ctx context.Context) (int, error) {
	return len(f.ids), nil
}
func (f *failingKeySet) Load(ctx context.Context) error {
	return nil
}
func (f *failingKeySet) Save(ctx context.Context) error {
	return nil
}
func (f *failingKeySet) Begin(ctx context.Context) (core.Transaction, error) {
	f.begun++
	return &failingTx{parent: f, staged: map[string]struct{}{}}, nil
}

type failingTx struct {
	parent *failingKeySet
	staged map[string]struct{}
}

func (tx *failingTx) Add(ctx context.Context, id string) (bool, error) {
	if _, ok := tx.staged[id]; ok {
		return false, nil
	}
	tx.staged[id] = struct{}{}
	return true, nil
}
func (tx *failingTx) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := tx.staged[id]
	return ok, nil
}
func (tx *failingTx) Commit(ctx context.Context) error {
	return errors.New("rename failed")
}
func (tx *failingTx) Rollback(ctx context.Context) error {
	tx.parent.rolledBack = true
	return nil
}

// staticRegistry always resolves to one key set.
type staticRegistry struct {
	ks core.KeySet
}

func (r *staticRegistry) LoadDefault(ctx context.Context) error {
	return nil
}
func (r *staticRegistry) Create(ctx context.Context, name string) error {
	return core.ErrNameExists
}
func (r *staticRegistry) SwitchTo(ctx context.Context, name string) error {
	return nil
}
func (r *staticRegistry) Current() (core.KeySet, string, bool) {
	return r.ks, "mock", true
}
func (r *staticRegistry) CurrentName() string {
	return "mock"
}
func (r *staticRegistry) Names() ([]string, error) {
	return []string{"mock"}, nil
}

func TestService_SaveFailed(t *testing.T) {
	ctx := context.Background()
	ks := &failingKeySet{ids: map[string]struct{}{}}
	svc := core.NewService(&staticRegistry{ks: ks}, validator.DefaultGrammar)

	err := svc.PerformAdd(ctx, "AB12 CD34")
	require.Error(t, err)
	assert.Equal(t, core.StatusSaveFailed, svc.Status())
	assert.True(t, ks.rolledBack)
	assert.Zero(t, svc.LastResult().Total())
	assert.Empty(t, ks.ids)

	// Invalid-only batches never reach the store.
	ks.begun = 0
	require.NoError(t, svc.PerformAdd(ctx, "1 2-3"))
	assert.Equal(t, core.StatusTokenInvalid, svc.Status())
	assert.Equal(t, 2, svc.LastResult().Invalid)
	assert.Zero(t, ks.begun)
}

func TestService_ImportAllInvalid(t *testing.T) {
	ctx := context.Background()
	ks := &failingKeySet{ids: map[string]struct{}{}}
	svc := core.NewService(&staticRegistry{ks: ks}, validator.DefaultGrammar,
		core.WithLineReader(func(path string) ([]string, error) {
			return []string{"1", "2", "---"}, nil
		}))

	require.NoError(t, svc.PerformImport(ctx, "ignored"))
	assert.Equal(t, core.StatusTokenInvalid, svc.Status())
	assert.Equal(t, 3, svc.LastResult().Invalid)
	assert.Zero(t, ks.begun)
}

func TestService_ImportReaderInjected(t *testing.T) {
	ctx := context.Background()
	ks := &failingKeySet{ids: map[string]struct{}{}}
	svc := core.NewService(&staticRegistry{ks: ks}, validator.DefaultGrammar,
		core.WithLineReader(func(path string) ([]string, error) {
			return []string{"AB12"}, nil
		}))

	err := svc.PerformImport(ctx, "ignored")
	require.Error(t, err)
	assert.Equal(t, core.StatusSaveFailed, svc.Status())
}

func TestService_State(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDatabase(ctx))
	require.NoError(t, svc.PerformAdd(ctx, "AB12"))

	state, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, "add-completed", state.Status)
	assert.Equal(t, "database.bin", state.Database)
	assert.Equal(t, 1, state.LastResult.Success)
	assert.IsType(t, registry.RegistryState{}, state.Registry)
	assert.Equal(t, "service", svc.ComponentType())
}
