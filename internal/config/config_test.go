package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Defaults.Workers)
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[defaults]
workers = 4
bwlimit = "10MB"
color = "never"
`), 0o644))

	cfg, err := loadFrom(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.Workers)
	assert.Equal(t, 4, *cfg.Defaults.Workers)
	require.NotNil(t, cfg.Defaults.BWLimit)
	assert.Equal(t, "10MB", *cfg.Defaults.BWLimit)
	require.NotNil(t, cfg.Defaults.Color)
	assert.Equal(t, "never", *cfg.Defaults.Color)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[defaults\nworkers="), 0o644))

	_, err := loadFrom(path)
	assert.Error(t, err)
}

func TestPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/ox/config.toml", Path())
}
