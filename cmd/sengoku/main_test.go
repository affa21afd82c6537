package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, seedFlag = "", 0
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.yaml")
	_, err := execute(t, "generate", "--seed", "1560", "-o", path)
	require.NoError(t, err)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (4 clans,")
}

func TestValidateRejectsBrokenScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bad\nplayer_clan: nobody\n"), 0o644))
	_, err := execute(t, "validate", path)
	assert.Error(t, err)
}

func TestPlayWritesPlayLog(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sengoku.yaml")
	db := filepath.Join(dir, "data", "playlog.db")
	require.NoError(t, os.WriteFile(cfg, []byte("log_level: error\ndatabase: "+db+"\n"), 0o644))

	out, err := execute(t, "play", "--config", cfg, "--seed", "1560", "--turns", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "turn 1 settled")
	assert.Contains(t, out, "sengoku.turns")
	assert.FileExists(t, db)
}
