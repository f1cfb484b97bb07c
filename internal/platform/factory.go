package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/camellia2077/idset/pkg/adapters/fs"
	"github.com/camellia2077/idset/pkg/adapters/sqlite"
	"github.com/camellia2077/idset/pkg/core"
	"github.com/camellia2077/idset/pkg/registry"
)

// Backends lists the storage backends selectable by name.
var Backends = []string{"bin", "sqlite"}

// New wires a registry and a service over dataDir and loads the default database.
//
//	svc, reg, err := idset.New("./data", idset.WithBackend("sqlite"))
//
// The caller owns the registry and must Close it.
func New(dataDir string, opts ...Option) (*core.Service, *registry.Registry, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	reg, err := initRegistry(dataDir, o)
	if err != nil {
		return nil, nil, err
	}

	if err := o.grammar.Validate(); err != nil {
		reg.Close()
		return nil, nil, fmt.Errorf("invalid grammar: %w", err)
	}

	service := core.NewService(reg, o.grammar, core.WithLogger(o.logger))
	if err := service.LoadDatabase(context.Background()); err != nil {
		reg.Close()
		return nil, nil, err
	}

	return service, reg, nil
}

// Init resolves the data directory and opens a registry over it without
// selecting a database.
func Init(dataDir string, opts ...Option) (*registry.Registry, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRegistry(dataDir, o)
}

func initRegistry(dataDir string, o *options) (*registry.Registry, error) {
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tempDir, _ := o.config["temp_dir"].(bool)
	// Default to safe when dev_safety was never set.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	useTemp := tempDir || (IsDevRun() && devSafety)
	resolved := ResolveDataDir(dataDir, useTemp)

	if IsDevRun() {
		if devSafety {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		} else {
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	if useTemp && resolved != dataDir {
		o.logger.Warn("data directory sandboxed", "original_path", dataDir, "resolved_path", resolved)
	}

	backend := o.store
	if backend == nil {
		var err error
		if backend, err = BackendFor(o.backend, o.logger); err != nil {
			return nil, err
		}
	}

	return registry.New(registry.Config{
		Dir:         resolved,
		Backend:     backend,
		Logger:      o.logger,
		DefaultName: o.database,
	})
}

// BackendFor returns the storage backend registered under name.
func BackendFor(name string, logger *slog.Logger) (registry.Backend, error) {
	switch name {
	case "", "bin", "fs":
		return fs.NewBackend(logger), nil
	case "sqlite":
		return sqlite.NewBackend(logger), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
}
