// Package dotfiles models files inside the managed dotfiles tree: which
// group owns them and where they deploy to under the user's home.
package dotfiles

import (
	"path/filepath"
	"strings"

	"github.com/pbastos-dev/tuck/pkg/errors"
	"github.com/pbastos-dev/tuck/pkg/paths"
)

// RootGroupName is the reserved Configs group whose files deploy to the
// filesystem root instead of the home directory.
const RootGroupName = "Root"

// Dotfile identifies one file or directory inside the managed tree.
// Path is always equal to or a descendant of GroupPath, and GroupPath's
// parent is one of the managed roots (Configs, Hooks, Secrets).
type Dotfile struct {
	// Path is the absolute path inside the managed tree
	Path string

	// GroupPath is the group directory that owns this file
	GroupPath string

	// GroupName is GroupPath's final path segment
	GroupName string

	// dotfilesDir is the managed tree root this file was resolved against
	dotfilesDir string
}

// New resolves the Dotfile identity of a path inside the managed tree
// rooted at dotfilesDir. It fails with NOT_IN_DOTFILES when the path
// descends from none of the managed roots. A path equal to a managed root
// resolves to a degenerate group naming the root itself; it is used for
// whole-tree operations and never symlinked directly.
func New(dotfilesDir, path string) (Dotfile, error) {
	dotfilesDir = filepath.Clean(dotfilesDir)
	path = filepath.Clean(path)

	for _, rootName := range []string{paths.ConfigsDirName, paths.HooksDirName, paths.SecretsDirName} {
		rootDir := filepath.Join(dotfilesDir, rootName)

		if path == rootDir {
			return Dotfile{
				Path:        path,
				GroupPath:   rootDir,
				GroupName:   rootName,
				dotfilesDir: dotfilesDir,
			}, nil
		}

		if !isDescendant(rootDir, path) {
			continue
		}

		rel := strings.TrimPrefix(path, rootDir+string(filepath.Separator))
		group := rel
		if idx := strings.IndexRune(rel, filepath.Separator); idx >= 0 {
			group = rel[:idx]
		}

		return Dotfile{
			Path:        path,
			GroupPath:   filepath.Join(rootDir, group),
			GroupName:   group,
			dotfilesDir: dotfilesDir,
		}, nil
	}

	return Dotfile{}, errors.Newf(errors.ErrNotInDotfiles, "path does not belong to the dotfiles directory: %s", path)
}

// TargetsRoot reports whether this file belongs to the reserved Root
// group under Configs and therefore deploys to the filesystem root.
func (d Dotfile) TargetsRoot() bool {
	return d.GroupName == RootGroupName &&
		filepath.Dir(d.GroupPath) == filepath.Join(d.dotfilesDir, paths.ConfigsDirName)
}

// TargetPath returns where this file should be deployed: the group-relative
// suffix joined onto home, or onto the filesystem root for the Root group.
func (d Dotfile) TargetPath(home string) string {
	rel := strings.TrimPrefix(d.Path, d.GroupPath)
	rel = strings.TrimPrefix(rel, string(filepath.Separator))

	if d.TargetsRoot() {
		return filepath.Join(string(filepath.Separator), rel)
	}
	return filepath.Join(home, rel)
}

// isDescendant reports whether child is strictly below parent
func isDescendant(parent, child string) bool {
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}
