package symlinks

import (
	"strings"

	"github.com/pbastos-dev/tuck/pkg/dotfiles"
	"github.com/pbastos-dev/tuck/pkg/errors"
	"github.com/pbastos-dev/tuck/pkg/paths"
	"github.com/pbastos-dev/tuck/pkg/types"
)

// Wildcard expands to every group currently actionable: all Pending
// groups for AddGroups, all Linked groups for RemoveGroups.
const Wildcard = "*"

// AddGroups is the batch link operation consumed by the CLI. It computes
// a fresh snapshot, validates the requested group names, expands the
// wildcard against the Pending view and links each group. The force and
// adopt pre-passes clear or take over conflicting targets first; both are
// explicit user requests, never implicit.
func AddGroups(fsys types.FS, dotfilesDir, home string, platform types.Platform, groups, exclude []string, force, adopt bool) ([]Outcome, error) {
	h, err := NewHandler(fsys, dotfilesDir, home, platform)
	if err != nil {
		return nil, err
	}

	if invalid := dotfiles.InvalidGroups(fsys, dotfilesDir, paths.ConfigsDirName, groups); len(invalid) > 0 {
		return nil, errors.Newf(errors.ErrGroupNotFound, "no such group: %s", strings.Join(invalid, ", "))
	}

	groups = expand(groups, h.Pending, exclude)

	var outcomes []Outcome
	if force {
		outcomes = append(outcomes, h.ForceClear(groups)...)
	}
	if adopt {
		outcomes = append(outcomes, h.Adopt(groups)...)
	}

	seen := make(map[string]bool)
	for _, group := range groups {
		if seen[group] {
			continue
		}
		result := h.Add(group)
		for _, outcome := range result {
			seen[outcome.Group] = true
		}
		outcomes = append(outcomes, result...)
	}

	return outcomes, nil
}

// RemoveGroups is the batch unlink operation consumed by the CLI. The
// wildcard expands against the Linked view.
func RemoveGroups(fsys types.FS, dotfilesDir, home string, platform types.Platform, groups, exclude []string) ([]Outcome, error) {
	h, err := NewHandler(fsys, dotfilesDir, home, platform)
	if err != nil {
		return nil, err
	}

	if invalid := dotfiles.InvalidGroups(fsys, dotfilesDir, paths.ConfigsDirName, groups); len(invalid) > 0 {
		return nil, errors.Newf(errors.ErrGroupNotFound, "no such group: %s", strings.Join(invalid, ", "))
	}

	groups = expand(groups, h.Linked, exclude)

	var outcomes []Outcome
	seen := make(map[string]bool)
	for _, group := range groups {
		if seen[group] {
			continue
		}
		result := h.Remove(group)
		for _, outcome := range result {
			seen[outcome.Group] = true
		}
		outcomes = append(outcomes, result...)
	}

	return outcomes, nil
}

// expand resolves the wildcard against the given cache and filters the
// exclude list.
func expand(groups []string, cache Cache, exclude []string) []string {
	excluded := make(map[string]bool, len(exclude))
	for _, group := range exclude {
		excluded[group] = true
	}

	var expanded []string
	for _, group := range groups {
		if group == Wildcard {
			for _, name := range cache.Groups() {
				if !excluded[name] {
					expanded = append(expanded, name)
				}
			}
			continue
		}
		if !excluded[group] {
			expanded = append(expanded, group)
		}
	}
	return expanded
}
