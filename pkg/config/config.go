// Package config loads tuck's layered configuration: built-in defaults,
// the app config file under the XDG config directory, an optional
// tuck.toml inside the dotfiles directory, and TUCK_* environment
// variables, in increasing order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pbastos-dev/tuck/pkg/errors"
)

// ConfigFileName is the name of tuck's configuration file
const ConfigFileName = "tuck.toml"

// Config holds user-configurable settings
type Config struct {
	// DotfilesDir overrides the dotfiles directory location
	DotfilesDir string `koanf:"dotfiles_dir"`

	// Exclude lists group names skipped by default during add/rm
	Exclude []string `koanf:"exclude"`

	// Hooks controls hook execution
	Hooks HooksConfig `koanf:"hooks"`
}

// HooksConfig controls hook script execution
type HooksConfig struct {
	// Allow runs hook scripts without prompting for confirmation
	Allow bool `koanf:"allow"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"dotfiles_dir": "",
		"exclude":      []string{},
		"hooks.allow":  false,
	}
}

// Load reads the layered configuration. dotfilesRoot may be empty when the
// root is not yet known; the root-local tuck.toml layer is skipped then.
func Load(dotfilesRoot string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	appConfig := filepath.Join(xdg.ConfigHome, "tuck", ConfigFileName)
	if _, err := os.Stat(appConfig); err == nil {
		if err := k.Load(file.Provider(appConfig), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load %s", appConfig)
		}
	}

	if dotfilesRoot != "" {
		rootConfig := filepath.Join(dotfilesRoot, ConfigFileName)
		if _, err := os.Stat(rootConfig); err == nil {
			if err := k.Load(file.Provider(rootConfig), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load %s", rootConfig)
			}
		}
	}

	if err := k.Load(env.Provider("TUCK_", ".", envToKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	return &cfg, nil
}

// envToKey maps TUCK_HOOKS__ALLOW to hooks.allow and TUCK_DOTFILES_DIR to
// dotfiles_dir: double underscores separate nesting levels.
func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "TUCK_"))
	return strings.ReplaceAll(s, "__", ".")
}
