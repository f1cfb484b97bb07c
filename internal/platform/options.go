package platform

import (
	"log/slog"

	"github.com/camellia2077/idset/pkg/registry"
	"github.com/camellia2077/idset/pkg/validator"
)

// options holds the internal configuration for an idset service.
type options struct {
	logger   *slog.Logger
	backend  string
	store    registry.Backend
	grammar  validator.Grammar
	database string
	config   map[string]interface{}
}

// Option defines a functional option for configuring idset.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		backend:  "bin",
		grammar:  validator.DefaultGrammar,
		database: registry.DefaultName,
		config:   make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBackend selects the storage backend by name ("bin" or "sqlite").
// Defaults to "bin".
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithStore injects a custom storage backend (e.g. a mock).
// If provided, the backend name is ignored.
func WithStore(b registry.Backend) Option {
	return func(o *options) {
		o.store = b
	}
}

// WithGrammar sets the ID grammar used for admission.
func WithGrammar(g validator.Grammar) Option {
	return func(o *options) {
		o.grammar = g
	}
}

// WithDefaultDatabase sets the database selected at startup.
func WithDefaultDatabase(name string) Option {
	return func(o *options) {
		if name != "" {
			o.database = name
		}
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) the data directory is re-rooted into the system temp dir so
// development runs never touch real databases. Setting this to false operates
// on the real directory.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
