// Package symlinks implements the reconciliation engine: it walks the
// Configs tree, classifies every managed file against its home-directory
// target, and exposes the link/unlink operations computed from that
// classification.
//
// Every file ends up in exactly one of three states:
//   - Linked: the target is a symlink resolving to the managed file
//   - Pending: the target does not exist (or is a plain directory that is
//     descended into instead of being reported)
//   - Foreign: the target is a symlink resolving somewhere else
//
// The classification is canonicalized so that symlinks stay shallow: when
// a directory is reported, none of its descendants are.
package symlinks

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

// FileSet is a set of managed files keyed by absolute path
type FileSet map[string]dotfiles.Dotfile

// Cache maps group names to their classified files
type Cache map[string]FileSet

func (c Cache) add(file dotfiles.Dotfile) {
	set, ok := c[file.GroupName]
	if !ok {
		set = make(FileSet)
		c[file.GroupName] = set
	}
	set[file.Path] = file
}

// Files returns a group's files ordered by path
func (c Cache) Files(group string) []dotfiles.Dotfile {
	set := c[group]
	files := make([]dotfiles.Dotfile, 0, len(set))
	for _, file := range set {
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Groups returns the group names present in the cache, sorted
func (c Cache) Groups() []string {
	groups := make([]string, 0, len(c))
	for group := range c {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups
}

// Handler holds one reconciliation snapshot of the dotfiles tree against
// the home directory. Snapshots are recomputed from disk on every run;
// nothing is persisted.
type Handler struct {
	DotfilesDir string
	Home        string

	// Linked, Pending and Foreign partition every reachable managed file
	Linked  Cache
	Pending Cache
	Foreign Cache

	fs       types.FS
	platform types.Platform
}

// NewHandler walks the Configs tree once and builds the classification
// snapshot. It fails with NO_DOTFILES_DIR when the Configs root is absent.
// Unreadable entries are logged and skipped; they never abort the walk.
func NewHandler(fsys types.FS, dotfilesDir, home string, platform types.Platform) (*Handler, error) {
	logger := logging.GetLogger("symlinks")

	configsDir := filepath.Join(dotfilesDir, paths.ConfigsDirName)
	if _, err := fsys.Stat(configsDir); err != nil {
		return nil, errors.Wrapf(err, errors.ErrNoDotfilesDir,
			"couldn't find the dotfiles directory, make sure %s exists or run `tuck init`", configsDir)
	}

	h := &Handler{
		DotfilesDir: dotfilesDir,
		Home:        home,
		Linked:      make(Cache),
		Pending:     make(Cache),
		Foreign:     make(Cache),
		fs:          fsys,
		platform:    platform,
	}

	configs, err := dotfiles.New(dotfilesDir, configsDir)
	if err != nil {
		return nil, err
	}

	configs.MapFiles(fsys, func(file dotfiles.Dotfile) {
		// Group directories are never classified: they would target the
		// same home path as all of their children collectively.
		if file.Path == file.GroupPath {
			return
		}
		h.classify(file)
	}, func(path string, err error) {
		logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable entry")
	})

	h.crossCancel()
	canonicalize(h.Linked)
	canonicalize(h.Pending)
	canonicalize(h.Foreign)
	dropEmptyGroups(h.Linked)
	dropEmptyGroups(h.Pending)
	dropEmptyGroups(h.Foreign)

	logger.Debug().
		Int("linked", len(h.Linked)).
		Int("pending", len(h.Pending)).
		Int("foreign", len(h.Foreign)).
		Msg("Reconciliation snapshot computed")

	return h, nil
}

// classify places a single managed file into one of the three caches
func (h *Handler) classify(file dotfiles.Dotfile) {
	target := file.TargetPath(h.Home)

	info, err := h.fs.Lstat(target)
	if err != nil {
		h.Pending.add(file)
		return
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		link, err := h.fs.Readlink(target)
		if err != nil {
			log := logging.GetLogger("symlinks")
			log.Warn().Err(err).Str("target", target).Msg("Could not read link")
			return
		}
		if link == file.Path {
			h.Linked.add(file)
		} else {
			h.Foreign.add(file)
		}
		return
	}

	// An existing plain directory is not reported: its children are
	// visited and classified individually.
	if info.IsDir() {
		return
	}

	h.Pending.add(file)
}

// crossCancel removes from Pending any entry living under a Linked
// directory of the same group: a linked directory fully serves everything
// beneath it, so deeper paths are not separately actionable.
func (h *Handler) crossCancel() {
	for group, linked := range h.Linked {
		pending, ok := h.Pending[group]
		if !ok {
			continue
		}
		for linkedPath := range linked {
			for pendingPath := range pending {
				if isSubpath(linkedPath, pendingPath) {
					delete(pending, pendingPath)
				}
			}
		}
	}
}

// canonicalize removes entries that are strict descendants of another
// entry in the same group, keeping only the shallowest actionable path.
func canonicalize(cache Cache) {
	for _, files := range cache {
		for parent := range files {
			for child := range files {
				if child != parent && isSubpath(parent, child) {
					delete(files, child)
				}
			}
		}
	}
}

func dropEmptyGroups(cache Cache) {
	for group, files := range cache {
		if len(files) == 0 {
			delete(cache, group)
		}
	}
}

// IsEmpty reports whether the snapshot found no managed files at all
func (h *Handler) IsEmpty() bool {
	return len(h.Linked) == 0 && len(h.Pending) == 0 && len(h.Foreign) == 0
}

// RelatedGroups returns base and all of its conditional variants valid on
// the current platform, looked up in the Linked cache (wantLinked) or the
// Pending cache. The result is nil when base has no entries at all in the
// selected cache; base itself is always appended last otherwise.
func (h *Handler) RelatedGroups(base string, wantLinked bool) []string {
	cache := h.Pending
	if wantLinked {
		cache = h.Linked
	}

	if _, ok := cache[base]; !ok {
		return nil
	}

	var related []string
	for group := range cache {
		if group == base || !strings.HasPrefix(group, base) {
			continue
		}
		if dotfiles.HasPlatformSuffix(group) && dotfiles.GroupAppliesTo(group, h.platform) {
			related = append(related, group)
		}
	}
	sort.Strings(related)

	return append(related, base)
}

// Conflicts returns, per group, the Pending entries whose target path is
// already occupied on disk. Together with the Foreign cache these are the
// files that block linking.
func (h *Handler) Conflicts() Cache {
	conflicts := make(Cache)
	for _, files := range h.Pending {
		for _, file := range files {
			if !file.AppliesTo(h.platform) {
				continue
			}
			if _, err := h.fs.Lstat(file.TargetPath(h.Home)); err == nil {
				conflicts.add(file)
			}
		}
	}
	return conflicts
}

// isSubpath reports whether child equals parent or lives below it
func isSubpath(parent, child string) bool {
	return child == parent || strings.HasPrefix(child, parent+string(filepath.Separator))
}
