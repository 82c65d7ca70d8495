// Package fileops covers the maintenance operations on the dotfiles
// directory itself: bootstrapping the layout, importing and removing
// groups, migrating a stow tree and reverse lookups.
package fileops

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pbastos-dev/tuck/pkg/dotfiles"
	"github.com/pbastos-dev/tuck/pkg/errors"
	"github.com/pbastos-dev/tuck/pkg/logging"
	"github.com/pbastos-dev/tuck/pkg/paths"
	"github.com/pbastos-dev/tuck/pkg/types"
)

// Init creates the Configs/Hooks/Secrets layout under the resolved
// dotfiles directory if it does not exist yet.
func Init(fsys types.FS, p *paths.Paths) error {
	for _, dir := range []string{p.ConfigsDir(), p.HooksDir(), p.SecretsDir()} {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrNoDotfilesDir, "failed to create %s", dir)
		}
	}

	log := logging.GetLogger("fileops")
	log.Info().Str("root", p.Root()).Msg("Dotfiles directory initialized")
	return nil
}

// Push copies home-directory files into Configs/<group>, mirroring each
// file's home-relative path. Directories are copied recursively.
func Push(fsys types.FS, p *paths.Paths, group string, files []string) error {
	groupDir := p.GroupDir(paths.ConfigsDirName, group)

	var missing []string
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			missing = append(missing, file)
			continue
		}

		info, err := fsys.Stat(abs)
		if err != nil {
			missing = append(missing, file)
			continue
		}

		if info.IsDir() {
			if err := pushDir(fsys, p, groupDir, abs); err != nil {
				return err
			}
			continue
		}
		if err := pushFile(fsys, p, groupDir, abs); err != nil {
			return err
		}
	}

	if len(missing) > 0 {
		return errors.Newf(errors.ErrFileNotFound, "no such file or directory: %s", strings.Join(missing, ", "))
	}
	return nil
}

func pushFile(fsys types.FS, p *paths.Paths, groupDir, abs string) error {
	rel := strings.TrimPrefix(abs, p.Home()+string(filepath.Separator))
	target := filepath.Join(groupDir, rel)

	content, err := fsys.ReadFile(abs)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "failed to read %s", abs)
	}
	if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "failed to create parent of %s", target)
	}
	if err := fsys.WriteFile(target, content, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "failed to write %s", target)
	}
	return nil
}

func pushDir(fsys types.FS, p *paths.Paths, groupDir, dir string) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrUnreadableEntry, "failed to read %s", dir)
	}

	for _, entry := range entries {
		child := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := pushDir(fsys, p, groupDir, child); err != nil {
				return err
			}
			continue
		}
		if err := pushFile(fsys, p, groupDir, child); err != nil {
			return err
		}
	}
	return nil
}

// Pop deletes the named group directories from Configs. All groups must
// exist; nothing is removed when any of them is missing.
func Pop(fsys types.FS, p *paths.Paths, groups []string) error {
	var valid []string
	var invalid []string
	for _, group := range groups {
		groupDir := p.GroupDir(paths.ConfigsDirName, group)
		info, err := fsys.Stat(groupDir)
		if err != nil || !info.IsDir() {
			invalid = append(invalid, group)
			continue
		}
		valid = append(valid, groupDir)
	}

	if len(invalid) > 0 {
		return errors.Newf(errors.ErrGroupNotFound, "no such group: %s", strings.Join(invalid, ", "))
	}

	for _, groupDir := range valid {
		if err := fsys.RemoveAll(groupDir); err != nil {
			return errors.Wrapf(err, errors.ErrInvalidInput, "failed to remove %s", groupDir)
		}
	}
	return nil
}

// FromStow converts a stow-style layout into a tuck one by moving every
// first-level non-hidden directory into Configs/.
func FromStow(fsys types.FS, p *paths.Paths) error {
	if err := fsys.MkdirAll(p.ConfigsDir(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrNoDotfilesDir, "failed to create %s", p.ConfigsDir())
	}

	entries, err := fsys.ReadDir(p.Root())
	if err != nil {
		return errors.Wrapf(err, errors.ErrNoDotfilesDir, "failed to read %s", p.Root())
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		switch name {
		case paths.ConfigsDirName, paths.HooksDirName, paths.SecretsDirName:
			continue
		}

		src := filepath.Join(p.Root(), name)
		dest := filepath.Join(p.ConfigsDir(), name)
		if err := fsys.Rename(src, dest); err != nil {
			return errors.Wrapf(err, errors.ErrInvalidInput, "failed to move %s", src)
		}
	}
	return nil
}

// GroupIs resolves which group owns each of the given files: paths inside
// the managed tree resolve directly; home-directory paths are traced back
// through their nearest symlinked ancestor.
func GroupIs(fsys types.FS, p *paths.Paths, files []string) (map[string]string, error) {
	result := make(map[string]string, len(files))
	groups := dotfiles.ListGroups(fsys, p.Root(), paths.ConfigsDirName)

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid path %s", file)
		}
		if _, err := fsys.Lstat(abs); err != nil {
			return nil, errors.Newf(errors.ErrFileNotFound, "%s does not exist", file)
		}

		if owned, err := dotfiles.New(p.Root(), abs); err == nil {
			result[file] = owned.GroupName
			continue
		}

		group, ok := traceOwner(fsys, p, groups, abs)
		if !ok {
			return nil, errors.Newf(errors.ErrNotInDotfiles, "%s is not a managed dotfile", file)
		}
		result[file] = group
	}

	return result, nil
}

// traceOwner climbs from path to the nearest symlink ancestor and checks
// which group holds the matching home-relative path.
func traceOwner(fsys types.FS, p *paths.Paths, groups []string, path string) (string, bool) {
	current := path
	for {
		info, err := fsys.Lstat(current)
		if err == nil && info.Mode()&fs.ModeSymlink != 0 {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}

	rel := strings.TrimPrefix(current, p.Home()+string(filepath.Separator))
	for _, group := range groups {
		candidate := filepath.Join(p.GroupDir(paths.ConfigsDirName, group), rel)
		if _, err := fsys.Lstat(candidate); err == nil {
			return group, true
		}
	}
	return "", false
}

// HookInfo describes which hook scripts a group provides
type HookInfo struct {
	Group   string
	HasPre  bool
	HasPost bool
}

// ListHooks lists every hook group and whether it carries pre/post scripts
func ListHooks(fsys types.FS, p *paths.Paths) ([]HookInfo, error) {
	entries, err := fsys.ReadDir(p.HooksDir())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNoDotfilesDir, "there's no directory set up for hooks")
	}

	var infos []HookInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		info := HookInfo{Group: entry.Name()}
		scripts, err := fsys.ReadDir(filepath.Join(p.HooksDir(), entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrUnreadableEntry, "failed to read hooks for %s", entry.Name())
		}
		for _, script := range scripts {
			if strings.HasPrefix(script.Name(), "pre") {
				info.HasPre = true
			}
			if strings.HasPrefix(script.Name(), "post") {
				info.HasPost = true
			}
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Group < infos[j].Group })
	return infos, nil
}

// ListSecrets lists the secret group names
func ListSecrets(fsys types.FS, p *paths.Paths) ([]string, error) {
	entries, err := fsys.ReadDir(p.SecretsDir())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNoDotfilesDir, "there's no directory set up for secrets")
	}

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
