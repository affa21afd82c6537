package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sengoku.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 3, cfg.Planner.MaxActions)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
seed: 42
max_turns: 50
database: data/playlog.db
server:
  port: 9090
planner:
  min_soldiers_for_attack: 2500
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 50, cfg.MaxTurns)
	assert.Equal(t, "data/playlog.db", cfg.Database)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2500, cfg.Planner.MinSoldiersForAttack)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 1.2, cfg.Planner.PowerRatioForAttack)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "seed: 42\nserver:\n  port: 9090\n")
	t.Setenv("SENGOKU_SEED", "7")
	t.Setenv("SENGOKU_ADMIN_KEY", "secret")
	t.Setenv("SENGOKU_PLAYER_CLAN", "imagawa")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.AdminKey)
	assert.Equal(t, "imagawa", cfg.PlayerClan)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "reading config file")
	})
	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "seed: [1"))
		assert.ErrorContains(t, err, "parsing config file")
	})
	t.Run("bad env", func(t *testing.T) {
		t.Setenv("SENGOKU_PORT", "not-a-port")
		_, err := Load("")
		assert.ErrorContains(t, err, "parse env:")
	})
	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "max_turns: -1\nlog_level: loud\n"))
		assert.ErrorContains(t, err, "max_turns")
		assert.ErrorContains(t, err, "log_level")
	})
}

func TestLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"
	l, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}
