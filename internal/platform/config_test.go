package platform

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camellia2077/idset/pkg/validator"
)

// isolateXDG points the XDG search path at an empty directory.
func isolateXDG(t *testing.T) {
	t.Helper()
	setXDGConfig(t, t.TempDir())
}

// setXDGConfig overrides the XDG config home. xdg caches the environment, so
// it is reloaded now and again once the variables are restored.
func setXDGConfig(t *testing.T, home string) {
	t.Helper()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_CONFIG_DIRS", home)
	xdg.Reload()
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateXDG(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "bin", cfg.Backend)
	assert.Equal(t, "database", cfg.Database)
	assert.True(t, cfg.DevSafety)
	assert.Empty(t, cfg.Source)

	g, err := cfg.GrammarValue()
	require.NoError(t, err)
	assert.Equal(t, validator.DefaultGrammar, g)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	isolateXDG(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
backend: sqlite
database: inventory
log_level: debug
grammar:
  min_letters: 3
  folding: lower
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("IDSET_DATABASE", "override")
	t.Setenv("IDSET_GRAMMAR__MAX_DIGITS", "6")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "override", cfg.Database)

	g, err := cfg.GrammarValue()
	require.NoError(t, err)
	assert.Equal(t, 3, g.MinLetters)
	assert.Equal(t, 4, g.MaxLetters)
	assert.Equal(t, 6, g.MaxDigits)
	assert.Equal(t, validator.FoldLower, g.Folding)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_Errors(t *testing.T) {
	isolateXDG(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	cfg.Grammar.Folding = "sideways"
	_, err = cfg.GrammarValue()
	assert.Error(t, err)

	cfg.LogLevel = "loud"
	_, err = cfg.Level()
	assert.Error(t, err)
}

func TestConfig_XDGSearch(t *testing.T) {
	home := t.TempDir()
	setXDGConfig(t, home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "idset"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFile), []byte("backend: sqlite\n"), 0644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
}
