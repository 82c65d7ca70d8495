// Package paths provides centralized path handling for tuck.
// It resolves the dotfiles directory from explicit configuration,
// environment or XDG defaults, and exposes the managed-root layout.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pbastos-dev/tuck/pkg/errors"
)

// EnvDotfilesDir overrides the dotfiles directory location
const EnvDotfilesDir = "TUCK_DOTFILES_DIR"

// Managed-root directory names. These define the on-disk layout and are
// not user-configurable.
const (
	ConfigsDirName = "Configs"
	HooksDirName   = "Hooks"
	SecretsDirName = "Secrets"

	// DefaultDirName is the directory name used under XDG_CONFIG_HOME
	DefaultDirName = "dotfiles"
)

// Paths provides centralized path management for tuck
type Paths struct {
	root string
	home string
}

// New creates a Paths instance. If dotfilesDir is empty the location is
// resolved from TUCK_DOTFILES_DIR, then $XDG_CONFIG_HOME/dotfiles, then
// ~/.dotfiles; when none of the candidates exist the XDG location is
// returned so that init has somewhere to create.
func New(dotfilesDir string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNoDotfilesDir, "could not determine home directory")
	}

	if dotfilesDir == "" {
		dotfilesDir = os.Getenv(EnvDotfilesDir)
	}

	if dotfilesDir == "" {
		candidates := []string{
			filepath.Join(xdg.ConfigHome, DefaultDirName),
			filepath.Join(home, ".dotfiles"),
		}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				dotfilesDir = candidate
				break
			}
		}
		if dotfilesDir == "" {
			dotfilesDir = candidates[0]
		}
	} else {
		dotfilesDir = ExpandHome(dotfilesDir, home)
	}

	absRoot, err := filepath.Abs(dotfilesDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNoDotfilesDir, "failed to get absolute path for %s", dotfilesDir)
	}

	return &Paths{root: absRoot, home: home}, nil
}

// NewWithHome creates a Paths instance rooted at dotfilesDir with an
// explicit home directory, bypassing resolution. Used by tests.
func NewWithHome(dotfilesDir, home string) *Paths {
	return &Paths{root: filepath.Clean(dotfilesDir), home: filepath.Clean(home)}
}

// Root returns the dotfiles directory
func (p *Paths) Root() string {
	return p.root
}

// Home returns the user's home directory
func (p *Paths) Home() string {
	return p.home
}

// ConfigsDir returns the Configs managed root
func (p *Paths) ConfigsDir() string {
	return filepath.Join(p.root, ConfigsDirName)
}

// HooksDir returns the Hooks managed root
func (p *Paths) HooksDir() string {
	return filepath.Join(p.root, HooksDirName)
}

// SecretsDir returns the Secrets managed root
func (p *Paths) SecretsDir() string {
	return filepath.Join(p.root, SecretsDirName)
}

// GroupDir returns the directory of a group under the given managed root
// name (ConfigsDirName, HooksDirName or SecretsDirName).
func (p *Paths) GroupDir(rootName, group string) string {
	return filepath.Join(p.root, rootName, group)
}

// Exists reports whether the dotfiles directory is present on disk
func (p *Paths) Exists() bool {
	info, err := os.Stat(p.root)
	return err == nil && info.IsDir()
}

// ExpandHome expands a leading ~ or ~/ prefix against the home directory
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
