package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/camellia2077/idset/pkg/registry"
	"github.com/camellia2077/idset/pkg/validator"
)

// ConfigFile is the path of the configuration file relative to the XDG config dirs.
const ConfigFile = "idset/config.yaml"

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: IDSET_GRAMMAR__MIN_LETTERS=3.
const EnvPrefix = "IDSET_"

// Config is the file/environment configuration of the CLI.
type Config struct {
	DataDir   string        `koanf:"data_dir" yaml:"data_dir"`
	Backend   string        `koanf:"backend" yaml:"backend"`
	Database  string        `koanf:"database" yaml:"database"`
	LogLevel  string        `koanf:"log_level" yaml:"log_level"`
	DevSafety bool          `koanf:"dev_safety" yaml:"dev_safety"`
	Grammar   GrammarConfig `koanf:"grammar" yaml:"grammar"`

	// Source is the configuration file that was loaded, if any.
	Source string `koanf:"-" yaml:"-"`
}

// GrammarConfig mirrors validator.Grammar with a textual folding policy.
type GrammarConfig struct {
	MinLetters int    `koanf:"min_letters" yaml:"min_letters"`
	MaxLetters int    `koanf:"max_letters" yaml:"max_letters"`
	MinDigits  int    `koanf:"min_digits" yaml:"min_digits"`
	MaxDigits  int    `koanf:"max_digits" yaml:"max_digits"`
	Folding    string `koanf:"folding" yaml:"folding"`
}

func defaultConfig() map[string]interface{} {
	g := validator.DefaultGrammar
	return map[string]interface{}{
		"data_dir":            "",
		"backend":             "bin",
		"database":            registry.DefaultName,
		"log_level":           "info",
		"dev_safety":          true,
		"grammar.min_letters": g.MinLetters,
		"grammar.max_letters": g.MaxLetters,
		"grammar.min_digits":  g.MinDigits,
		"grammar.max_digits":  g.MaxDigits,
		"grammar.folding":     validator.DefaultFolding.String(),
	}
}

// LoadConfig layers defaults, the YAML config file and IDSET_* environment
// variables. An empty path searches the XDG config directories; a missing
// file there is not an error, a missing explicit path is.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultConfig(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		if found, err := xdg.SearchConfigFile(ConfigFile); err == nil {
			path = found
		}
	} else if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Source = path
	return cfg, nil
}

// GrammarValue converts the configured grammar and checks its bounds.
func (c Config) GrammarValue() (validator.Grammar, error) {
	folding, err := validator.ParseFolding(c.Grammar.Folding)
	if err != nil {
		return validator.Grammar{}, err
	}
	g := validator.Grammar{
		MinLetters: c.Grammar.MinLetters,
		MaxLetters: c.Grammar.MaxLetters,
		MinDigits:  c.Grammar.MinDigits,
		MaxDigits:  c.Grammar.MaxDigits,
		Folding:    folding,
	}
	if err := g.Validate(); err != nil {
		return validator.Grammar{}, err
	}
	return g, nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, errors.Join(fmt.Errorf("invalid log level %q", c.LogLevel), err)
	}
	return level, nil
}

// Options converts the configuration into service options.
func (c Config) Options() ([]Option, error) {
	g, err := c.GrammarValue()
	if err != nil {
		return nil, err
	}
	return []Option{
		WithBackend(c.Backend),
		WithDefaultDatabase(c.Database),
		WithGrammar(g),
		WithDevSafety(c.DevSafety),
	}, nil
}
