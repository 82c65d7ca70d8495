package dotfiles

import (
	"path/filepath"

	"github.com/pbastos-dev/tuck/pkg/types"
)

// MapFiles walks every entry below d.Path (d.Path itself is not visited)
// and calls fn with each entry's resolved identity. Directory entries are
// visited before their contents. Directories that are themselves symlinks
// are visited but never descended into. Unreadable entries are reported
// through onErr and skipped; the walk never aborts.
func (d Dotfile) MapFiles(fsys types.FS, fn func(Dotfile), onErr func(path string, err error)) {
	type item struct {
		path  string
		isDir bool
	}

	var queue []item

	push := func(dir string) {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			onErr(dir, err)
			return
		}
		for _, entry := range entries {
			queue = append(queue, item{
				path:  filepath.Join(dir, entry.Name()),
				isDir: entry.IsDir(),
			})
		}
	}

	push(d.Path)

	for len(queue) > 0 {
		curr := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		file, err := New(d.dotfilesDir, curr.path)
		if err != nil {
			onErr(curr.path, err)
			continue
		}
		fn(file)

		if curr.isDir {
			push(curr.path)
		}
	}
}

// ListGroups returns the group names under a managed root (one of
// Configs, Hooks, Secrets). A missing root yields an empty list.
func ListGroups(fsys types.FS, dotfilesDir, rootName string) []string {
	entries, err := fsys.ReadDir(filepath.Join(dotfilesDir, rootName))
	if err != nil {
		return nil
	}

	var groups []string
	for _, entry := range entries {
		if entry.IsDir() {
			groups = append(groups, entry.Name())
		}
	}
	return groups
}

// InvalidGroups returns the names in groups that have no directory under
// the given managed root. The wildcard token is never invalid.
func InvalidGroups(fsys types.FS, dotfilesDir, rootName string, groups []string) []string {
	var invalid []string
	for _, group := range groups {
		if group == "*" {
			continue
		}
		if _, err := fsys.Stat(filepath.Join(dotfilesDir, rootName, group)); err != nil {
			invalid = append(invalid, group)
		}
	}
	return invalid
}
