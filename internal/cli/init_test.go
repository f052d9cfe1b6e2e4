package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vantasys/internal/config"
	"github.com/rileyhilliard/vantasys/internal/errors"
)

func stubConfirm(t *testing.T, answer bool) *int {
	t.Helper()
	calls := 0
	orig := confirmOverwrite
	confirmOverwrite = func(string) (bool, error) {
		calls++
		return answer, nil
	}
	t.Cleanup(func() { confirmOverwrite = orig })
	return &calls
}

func TestInit_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".vantasys.yaml")

	require.NoError(t, Init(InitOptions{Path: path, NonInteractive: true}))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Dashboard, cfg.Dashboard)
	assert.Equal(t, 6767, cfg.Server.Port)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestInit_ExistingNonInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".vantasys.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o600))

	err := Init(InitOptions{Path: path, NonInteractive: true})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	data, _ := os.ReadFile(path)
	assert.Equal(t, "version: 1\n", string(data), "file untouched")
}

func TestInit_Force(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".vantasys.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o600))
	calls := stubConfirm(t, false)

	require.NoError(t, Init(InitOptions{Path: path, Overwrite: true}))

	assert.Zero(t, *calls)
	data, _ := os.ReadFile(path)
	assert.Contains(t, string(data), "fast_interval")
}

func TestInitPath(t *testing.T) {
	p, err := initPath(false)
	require.NoError(t, err)
	assert.Equal(t, config.ConfigFileName, p)

	home := t.TempDir()
	t.Setenv("HOME", home)
	p, err = initPath(true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), p)
}
