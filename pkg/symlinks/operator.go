package symlinks

import (
	"path/filepath"

	"github.com/pbastos-dev/tuck/pkg/dotfiles"
	"github.com/pbastos-dev/tuck/pkg/errors"
	"github.com/pbastos-dev/tuck/pkg/logging"
	"github.com/pbastos-dev/tuck/pkg/paths"
)

// OutcomeStatus describes what happened to a single file during an
// add or remove operation.
type OutcomeStatus string

const (
	StatusLinked   OutcomeStatus = "linked"
	StatusUnlinked OutcomeStatus = "unlinked"
	StatusConflict OutcomeStatus = "conflict"
	StatusSkipped  OutcomeStatus = "skipped"
	StatusFailed   OutcomeStatus = "failed"
	StatusAdopted  OutcomeStatus = "adopted"
	StatusCleared  OutcomeStatus = "cleared"
)

// Outcome reports the result of one file-level operation. Per-file
// failures accumulate into the batch result and never abort it.
type Outcome struct {
	Group  string
	Path   string
	Target string
	Status OutcomeStatus
	Err    error
}

// Add symlinks the given group's files into the home directory. It
// resolves conditional variants against the Pending view and links the
// canonical (shallowest) pending entries; occupied targets yield per-file
// SYMLINK_EXISTS conflicts. A missing group directory is reported, not
// fatal. Re-running Add on an already linked group reports every canonical
// entry as a conflict and changes nothing.
func (h *Handler) Add(group string) []Outcome {
	logger := logging.GetLogger("symlinks")

	groups := h.RelatedGroups(group, false)
	if groups == nil {
		// No pending entries: still attempt the base group so that
		// conflicts (or full linkage) surface instead of silence.
		groups = []string{group}
	}

	var outcomes []Outcome
	for _, g := range groups {
		groupDir := filepath.Join(h.DotfilesDir, paths.ConfigsDirName, g)
		if _, err := h.fs.Stat(groupDir); err != nil {
			outcomes = append(outcomes, Outcome{
				Group:  g,
				Status: StatusSkipped,
				Err:    errors.Newf(errors.ErrGroupNotFound, "there are no dotfiles for %s", g),
			})
			continue
		}

		files := h.filesToLink(g)
		for _, file := range files {
			outcomes = append(outcomes, h.link(file))
		}

		logger.Debug().Str("group", g).Int("files", len(files)).Msg("Group processed")
	}

	return outcomes
}

// filesToLink returns the canonical entries Add should attempt for a
// group: the pending and foreign ones, or, when the group is fully
// linked, the linked entries themselves (each will surface as a conflict).
func (h *Handler) filesToLink(group string) []dotfiles.Dotfile {
	files := append(h.Pending.Files(group), h.Foreign.Files(group)...)
	if len(files) == 0 {
		files = h.Linked.Files(group)
	}
	return files
}

func (h *Handler) link(file dotfiles.Dotfile) Outcome {
	target := file.TargetPath(h.Home)

	if _, err := h.fs.Lstat(target); err == nil {
		return Outcome{
			Group:  file.GroupName,
			Path:   file.Path,
			Target: target,
			Status: StatusConflict,
			Err:    errors.Newf(errors.ErrSymlinkExists, "%s already exists", target),
		}
	}

	if err := h.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return Outcome{
			Group:  file.GroupName,
			Path:   file.Path,
			Target: target,
			Status: StatusFailed,
			Err:    errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create parent directory for %s", target),
		}
	}

	if err := h.fs.Symlink(file.Path, target); err != nil {
		return Outcome{
			Group:  file.GroupName,
			Path:   file.Path,
			Target: target,
			Status: StatusFailed,
			Err:    errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to symlink %s", target),
		}
	}

	return Outcome{Group: file.GroupName, Path: file.Path, Target: target, Status: StatusLinked}
}

// Remove deletes the home-directory symlinks owned by the given group. It
// resolves conditional variants against the Linked view and walks each
// group directory, removing a target only when it is a symlink that still
// resolves to the managed file. Foreign entries are never touched.
func (h *Handler) Remove(group string) []Outcome {
	groups := h.RelatedGroups(group, true)
	if groups == nil {
		return []Outcome{{
			Group:  group,
			Status: StatusSkipped,
			Err:    errors.Newf(errors.ErrGroupNotFound, "%s has no linked dotfiles", group),
		}}
	}

	var outcomes []Outcome
	for _, g := range groups {
		groupDir := filepath.Join(h.DotfilesDir, paths.ConfigsDirName, g)
		groupFile, err := dotfiles.New(h.DotfilesDir, groupDir)
		if err != nil {
			outcomes = append(outcomes, Outcome{Group: g, Status: StatusFailed, Err: err})
			continue
		}
		if _, err := h.fs.Stat(groupDir); err != nil {
			outcomes = append(outcomes, Outcome{
				Group:  g,
				Status: StatusSkipped,
				Err:    errors.Newf(errors.ErrGroupNotFound, "there's no group called %s", g),
			})
			continue
		}

		groupFile.MapFiles(h.fs, func(file dotfiles.Dotfile) {
			if outcome, removed := h.unlink(file); removed {
				outcomes = append(outcomes, outcome)
			}
		}, func(path string, err error) {
			log := logging.GetLogger("symlinks")
			log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable entry")
		})
	}

	return outcomes
}

// unlink removes the target symlink if and only if it resolves to this
// managed file. It reports false for targets that are absent, not
// symlinks, or owned by someone else.
func (h *Handler) unlink(file dotfiles.Dotfile) (Outcome, bool) {
	target := file.TargetPath(h.Home)

	link, err := h.fs.Readlink(target)
	if err != nil {
		return Outcome{}, false
	}
	if link != file.Path {
		return Outcome{}, false
	}

	if err := h.fs.Remove(target); err != nil {
		return Outcome{
			Group:  file.GroupName,
			Path:   file.Path,
			Target: target,
			Status: StatusFailed,
			Err:    errors.Wrapf(err, errors.ErrSymlinkRemove, "failed to remove %s", target),
		}, true
	}

	return Outcome{Group: file.GroupName, Path: file.Path, Target: target, Status: StatusUnlinked}, true
}

// ForceClear deletes the conflicting targets of the named groups (from
// the Foreign and Pending views) so a subsequent Add can succeed. This is
// the --force pre-pass; it is only ever invoked at the user's explicit
// request.
func (h *Handler) ForceClear(groups []string) []Outcome {
	var outcomes []Outcome
	clear := func(cache Cache) {
		for _, group := range groups {
			for _, file := range cache.Files(group) {
				target := file.TargetPath(h.Home)
				info, err := h.fs.Lstat(target)
				if err != nil {
					continue
				}

				var removeErr error
				if info.IsDir() {
					removeErr = h.fs.RemoveAll(target)
				} else {
					removeErr = h.fs.Remove(target)
				}

				outcome := Outcome{Group: file.GroupName, Path: file.Path, Target: target, Status: StatusCleared}
				if removeErr != nil {
					outcome.Status = StatusFailed
					outcome.Err = errors.Wrapf(removeErr, errors.ErrSymlinkRemove, "failed to remove %s", target)
				}
				outcomes = append(outcomes, outcome)
			}
		}
	}

	clear(h.Foreign)
	clear(h.Pending)
	return outcomes
}

// Adopt moves the conflicting targets of the named groups into the
// managed tree, replacing the managed files, so a subsequent Add links
// the adopted content. This is the --adopt pre-pass.
func (h *Handler) Adopt(groups []string) []Outcome {
	var outcomes []Outcome
	adopt := func(cache Cache) {
		for _, group := range groups {
			for _, file := range cache.Files(group) {
				target := file.TargetPath(h.Home)
				if _, err := h.fs.Lstat(target); err != nil {
					continue
				}

				outcome := Outcome{Group: file.GroupName, Path: file.Path, Target: target, Status: StatusAdopted}

				if err := h.fs.RemoveAll(file.Path); err != nil {
					outcome.Status = StatusFailed
					outcome.Err = errors.Wrapf(err, errors.ErrInvalidInput, "failed to discard %s", file.Path)
					outcomes = append(outcomes, outcome)
					continue
				}
				if err := h.fs.Rename(target, file.Path); err != nil {
					outcome.Status = StatusFailed
					outcome.Err = errors.Wrapf(err, errors.ErrInvalidInput, "failed to adopt %s", target)
				}
				outcomes = append(outcomes, outcome)
			}
		}
	}

	adopt(h.Foreign)
	adopt(h.Pending)
	return outcomes
}
