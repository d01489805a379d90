package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRootConfigFlagRebuildsManager(t *testing.T) {
	t.Parallel()

	app := testApp(t)
	original := app.Manager

	raw := []byte("blueprint_cache_size: 7\npool_size: 3\nworkers: 2\ntimeout_seconds: 5\n")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	cmd := newRootCmd(app)
	cmd.SetArgs([]string{"--config", path, "version"})
	require.NoError(t, cmd.Execute())

	require.NotSame(t, original, app.Manager, "a valid --config file must replace the default-configured manager")
	require.Equal(t, 5*time.Second, app.Manager.Config().Timeout())
}

func TestRootConfigFlagRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	app := testApp(t)

	raw := []byte("blueprint_cache_size: 0\n")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	cmd := newRootCmd(app)
	cmd.SetArgs([]string{"--config", path, "version"})
	require.Error(t, cmd.Execute())
}
