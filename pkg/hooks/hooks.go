// Package hooks runs group setup scripts around the link operation.
//
// Deployment is a fixed 3-stage pipeline per group:
//  1. pre scripts from Hooks/<group> are run
//  2. the group's dotfiles are symlinked
//  3. post scripts from Hooks/<group> are run
//
// A failing script aborts that group's pipeline; groups are independent.
package hooks

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pbastos-dev/tuck/pkg/dotfiles"
	"github.com/pbastos-dev/tuck/pkg/errors"
	"github.com/pbastos-dev/tuck/pkg/logging"
	"github.com/pbastos-dev/tuck/pkg/paths"
	"github.com/pbastos-dev/tuck/pkg/symlinks"
	"github.com/pbastos-dev/tuck/pkg/types"
)

// Stage identifies a step of the deployment pipeline
type Stage int

const (
	StagePre Stage = iota
	StageLink
	StagePost
)

func (s Stage) String() string {
	switch s {
	case StagePre:
		return "pre"
	case StageLink:
		return "link"
	case StagePost:
		return "post"
	}
	return "unknown"
}

// prefix returns the script filename prefix that selects this stage's
// scripts inside a group's hook directory.
func (s Stage) prefix() string {
	switch s {
	case StagePre:
		return "pre"
	case StagePost:
		return "post"
	}
	return ""
}

// Set runs the deployment pipeline for the given groups. The wildcard
// expands to every group with a hook directory. Link outcomes from the
// middle stage are returned for reporting.
func Set(fsys types.FS, p *paths.Paths, platform types.Platform, groups, exclude []string, force, adopt bool) ([]symlinks.Outcome, error) {
	logger := logging.GetLogger("hooks")

	if invalid := dotfiles.InvalidGroups(fsys, p.Root(), paths.HooksDirName, groups); len(invalid) > 0 {
		return nil, errors.Newf(errors.ErrGroupNotFound, "no such hook group: %s", strings.Join(invalid, ", "))
	}

	groups = expandWildcard(fsys, p, groups)

	excluded := make(map[string]bool, len(exclude))
	for _, group := range exclude {
		excluded[group] = true
	}

	var outcomes []symlinks.Outcome
	for _, group := range groups {
		if excluded[group] || !dotfiles.GroupAppliesTo(group, platform) {
			logger.Debug().Str("group", group).Msg("Skipping hook group")
			continue
		}

		if err := runStage(fsys, p, group, StagePre); err != nil {
			return outcomes, err
		}

		linked, err := symlinks.AddGroups(fsys, p.Root(), p.Home(), platform, []string{group}, exclude, force, adopt)
		outcomes = append(outcomes, linked...)
		if err != nil {
			return outcomes, err
		}

		if err := runStage(fsys, p, group, StagePost); err != nil {
			return outcomes, err
		}
	}

	return outcomes, nil
}

// runStage executes every script of a group's hook directory whose
// filename starts with the stage prefix, in lexical order.
func runStage(fsys types.FS, p *paths.Paths, group string, stage Stage) error {
	logger := logging.GetLogger("hooks")

	groupDir := p.GroupDir(paths.HooksDirName, group)
	entries, err := fsys.ReadDir(groupDir)
	if err != nil {
		// A group without hooks still gets its files linked
		logger.Debug().Str("group", group).Msg("No hook directory")
		return nil
	}

	var scripts []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), stage.prefix()) {
			scripts = append(scripts, entry.Name())
		}
	}
	sort.Strings(scripts)

	for _, script := range scripts {
		path := filepath.Join(groupDir, script)
		logger.Info().Str("group", group).Str("script", script).Str("stage", stage.String()).Msg("Running hook")

		cmd := exec.Command(path)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return errors.Wrapf(err, errors.ErrHookFailed, "hook %s failed for group %s", script, group)
		}
	}

	return nil
}

func expandWildcard(fsys types.FS, p *paths.Paths, groups []string) []string {
	var expanded []string
	for _, group := range groups {
		if group == symlinks.Wildcard {
			expanded = append(expanded, dotfiles.ListGroups(fsys, p.Root(), paths.HooksDirName)...)
			continue
		}
		expanded = append(expanded, group)
	}
	return expanded
}
