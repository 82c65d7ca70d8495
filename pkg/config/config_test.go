package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbastos-dev/tuck/pkg/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.DotfilesDir)
	assert.Empty(t, cfg.Exclude)
	assert.False(t, cfg.Hooks.Allow)
}

func TestLoadRootConfig(t *testing.T) {
	root := t.TempDir()
	content := `
exclude = ["work", "secrets_macos"]

[hooks]
allow = true
`
	require.NoError(t, os.WriteFile(filepath.Join(root, config.ConfigFileName), []byte(content), 0644))

	cfg, err := config.Load(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"work", "secrets_macos"}, cfg.Exclude)
	assert.True(t, cfg.Hooks.Allow)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	content := `dotfiles_dir = "/from/file"`
	require.NoError(t, os.WriteFile(filepath.Join(root, config.ConfigFileName), []byte(content), 0644))

	t.Setenv("TUCK_DOTFILES_DIR", "/from/env")

	cfg, err := config.Load(root)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DotfilesDir)
}

func TestLoadNestedEnvKey(t *testing.T) {
	t.Setenv("TUCK_HOOKS__ALLOW", "true")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Hooks.Allow)
}

func TestLoadInvalidToml(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.ConfigFileName), []byte("not = [valid"), 0644))

	_, err := config.Load(root)
	assert.Error(t, err)
}
