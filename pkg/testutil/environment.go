package testutil

import (
	"path/filepath"
	"testing"

	"github.com/pbastos-dev/tuck/pkg/filesystem"
	"github.com/pbastos-dev/tuck/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a dotfiles tree plus a home directory wired to
// a types.FS, so engine and operator behavior can be exercised end to end.
type TestEnvironment struct {
	DotfilesRoot string
	Home         string
	FS           types.FS

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment with the standard
// Configs/Hooks/Secrets layout already in place.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.DotfilesRoot = "/virtual/dotfiles"
		env.Home = "/virtual/home"
		env.FS = NewMemoryFS()
	case EnvIsolated:
		tempDir := t.TempDir()
		env.DotfilesRoot = filepath.Join(tempDir, "dotfiles")
		env.Home = filepath.Join(tempDir, "home")
		env.FS = filesystem.NewOS()
	}

	for _, dir := range []string{"Configs", "Hooks", "Secrets"} {
		if err := env.FS.MkdirAll(filepath.Join(env.DotfilesRoot, dir), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	if err := env.FS.MkdirAll(env.Home, 0755); err != nil {
		t.Fatalf("failed to create home: %v", err)
	}

	return env
}

// ConfigsDir returns the Configs root of the environment
func (env *TestEnvironment) ConfigsDir() string {
	return filepath.Join(env.DotfilesRoot, "Configs")
}

// GroupPath returns the absolute path of a file inside a Configs group
func (env *TestEnvironment) GroupPath(group string, rel ...string) string {
	parts := append([]string{env.ConfigsDir(), group}, rel...)
	return filepath.Join(parts...)
}

// HomePath returns the absolute path of a file inside the home directory
func (env *TestEnvironment) HomePath(rel ...string) string {
	parts := append([]string{env.Home}, rel...)
	return filepath.Join(parts...)
}

// WriteConfig creates a file inside a Configs group, with parents
func (env *TestEnvironment) WriteConfig(group string, rel string, content string) string {
	env.t.Helper()

	path := env.GroupPath(group, rel)
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteHome creates a file inside the home directory, with parents
func (env *TestEnvironment) WriteHome(rel string, content string) string {
	env.t.Helper()

	path := env.HomePath(rel)
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// SymlinkHome creates a symlink at a home-relative path pointing at target
func (env *TestEnvironment) SymlinkHome(rel string, target string) string {
	env.t.Helper()

	path := env.HomePath(rel)
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := env.FS.Symlink(target, path); err != nil {
		env.t.Fatalf("failed to symlink %s -> %s: %v", path, target, err)
	}
	return path
}
