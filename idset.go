package idset

import (
	"log/slog"

	"github.com/camellia2077/idset/internal/platform"
	"github.com/camellia2077/idset/pkg/core"
	"github.com/camellia2077/idset/pkg/registry"
	"github.com/camellia2077/idset/pkg/validator"
)

// --- Types ---

// Service is the orchestrator every front end talks to.
type Service = core.Service

// Registry manages the named databases of a data directory.
type Registry = registry.Registry

// Grammar is the ID admission grammar.
type Grammar = validator.Grammar

// Config is the file/environment configuration.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring idset.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithBackend selects the storage backend by name ("bin" or "sqlite").
func WithBackend(name string) Option {
	return platform.WithBackend(name)
}

// WithStore injects a custom storage backend.
func WithStore(b registry.Backend) Option {
	return platform.WithStore(b)
}

// WithGrammar sets the ID grammar used for admission.
func WithGrammar(g Grammar) Option {
	return platform.WithGrammar(g)
}

// WithDefaultDatabase sets the database selected at startup.
func WithDefaultDatabase(name string) Option {
	return platform.WithDefaultDatabase(name)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// LoadConfig layers defaults, the YAML config file and IDSET_* environment variables.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// --- Factory ---

// New creates a Service over dataDir with the default database loaded.
// The returned Registry must be closed by the caller.
func New(dataDir string, opts ...Option) (*Service, *Registry, error) {
	return platform.New(dataDir, opts...)
}

// Init opens a Registry over dataDir without selecting a database.
func Init(dataDir string, opts ...Option) (*Registry, error) {
	return platform.Init(dataDir, opts...)
}

// --- Safety & Utils ---

// ResolveDataDir determines the actual data directory based on safety rules.
func ResolveDataDir(userPath string, forceTemp bool) string {
	return platform.ResolveDataDir(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// Classify reports whether raw is a well-formed ID under the default grammar
// and returns its canonical form.
func Classify(raw string) (string, bool) {
	return validator.DefaultGrammar.Classify(raw)
}
