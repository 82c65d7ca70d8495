package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/pbastos-dev/tuck/pkg/dotfiles"
	"github.com/pbastos-dev/tuck/pkg/fileops"
	"github.com/pbastos-dev/tuck/pkg/symlinks"
	"github.com/pbastos-dev/tuck/pkg/types"
)

var (
	linkedStyle  = pterm.NewStyle(pterm.FgGreen)
	pendingStyle = pterm.NewStyle(pterm.FgYellow)
	foreignStyle = pterm.NewStyle(pterm.FgRed)
	mutedStyle   = pterm.NewStyle(pterm.FgGray)
)

// PrintGlobalStatus renders the two-column group overview: fully linked
// groups on the left, groups with pending work on the right, followed by
// conflict details and groups skipped on this platform.
func PrintGlobalStatus(w io.Writer, h *symlinks.Handler, platform types.Platform) error {
	linked, pending, unsupported := partitionGroups(h, platform)

	data := pterm.TableData{{
		linkedStyle.Sprint("Linked"),
		pendingStyle.Sprint("Pending"),
	}}
	for i := 0; i < len(linked) || i < len(pending); i++ {
		var left, right string
		if i < len(linked) {
			left = linkedStyle.Sprint(linked[i])
		}
		if i < len(pending) {
			right = pendingStyle.Sprint(pending[i])
		}
		data = append(data, []string{left, right})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)

	printConflicts(w, h)

	if len(unsupported) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, mutedStyle.Sprint("Not supported on this platform:"))
		for _, group := range unsupported {
			fmt.Fprintf(w, "  %s\n", mutedStyle.Sprint(group))
		}
	}

	return nil
}

// PrintGroupStatus renders the per-file detail of the requested groups
func PrintGroupStatus(w io.Writer, h *symlinks.Handler, groups []string) {
	for _, group := range groups {
		fmt.Fprintf(w, "%s:\n", pterm.Bold.Sprint(group))

		for _, file := range h.Linked.Files(group) {
			fmt.Fprintf(w, "  %s %s\n", linkedStyle.Sprint("linked"), relToGroup(file.Path, file.GroupPath))
		}
		for _, file := range h.Pending.Files(group) {
			fmt.Fprintf(w, "  %s %s\n", pendingStyle.Sprint("pending"), relToGroup(file.Path, file.GroupPath))
		}
		for _, file := range h.Foreign.Files(group) {
			fmt.Fprintf(w, "  %s %s\n", foreignStyle.Sprint("foreign"), relToGroup(file.Path, file.GroupPath))
		}
	}
}

// PrintOutcomes renders the per-file results of an add or remove run and
// reports whether any of them failed or conflicted.
func PrintOutcomes(w io.Writer, outcomes []symlinks.Outcome) bool {
	clean := true
	for _, outcome := range outcomes {
		switch outcome.Status {
		case symlinks.StatusLinked:
			fmt.Fprintf(w, "%s %s\n", linkedStyle.Sprint("linked"), outcome.Target)
		case symlinks.StatusUnlinked:
			fmt.Fprintf(w, "%s %s\n", linkedStyle.Sprint("unlinked"), outcome.Target)
		case symlinks.StatusAdopted:
			fmt.Fprintf(w, "%s %s\n", pendingStyle.Sprint("adopted"), outcome.Target)
		case symlinks.StatusCleared:
			fmt.Fprintf(w, "%s %s\n", pendingStyle.Sprint("cleared"), outcome.Target)
		case symlinks.StatusSkipped:
			fmt.Fprintf(w, "%s %s\n", mutedStyle.Sprint("skipped"), describe(outcome))
		case symlinks.StatusConflict:
			clean = false
			fmt.Fprintf(w, "%s %s\n", foreignStyle.Sprint("conflict"), describe(outcome))
		case symlinks.StatusFailed:
			clean = false
			fmt.Fprintf(w, "%s %s\n", foreignStyle.Sprint("failed"), describe(outcome))
		}
	}
	return clean
}

// PrintHooks renders the hook group listing
func PrintHooks(w io.Writer, infos []fileops.HookInfo) {
	for _, info := range infos {
		var stages []string
		if info.HasPre {
			stages = append(stages, "pre")
		}
		if info.HasPost {
			stages = append(stages, "post")
		}
		if len(stages) == 0 {
			fmt.Fprintf(w, "%s\n", info.Group)
			continue
		}
		fmt.Fprintf(w, "%s (%s)\n", info.Group, strings.Join(stages, ", "))
	}
}

func printConflicts(w io.Writer, h *symlinks.Handler) {
	conflicts := h.Conflicts()
	hasAny := len(conflicts) > 0 || len(h.Foreign) > 0

	for _, group := range conflicts.Groups() {
		for _, file := range conflicts.Files(group) {
			fmt.Fprintf(w, "%s %s: %s (target already exists)\n",
				foreignStyle.Sprint("conflict"), group, file.TargetPath(h.Home))
		}
	}
	for _, group := range h.Foreign.Groups() {
		for _, file := range h.Foreign.Files(group) {
			fmt.Fprintf(w, "%s %s: %s (symlinks elsewhere)\n",
				foreignStyle.Sprint("conflict"), group, file.TargetPath(h.Home))
		}
	}

	if hasAny {
		fmt.Fprintln(w)
		fmt.Fprintln(w, mutedStyle.Sprint("Conflicting files block linking. Use --force to replace them or --adopt to take them over."))
	}
}

// partitionGroups splits the snapshot's groups for the overview.
// Conditional variants are merged into their base name: a base shows as
// linked only when every applicable variant is fully linked. Variants
// filtered out by the platform suffix are listed separately.
func partitionGroups(h *symlinks.Handler, platform types.Platform) (linked, pending, unsupported []string) {
	const (
		fullyLinked = iota
		hasPending
	)
	bases := make(map[string]int)

	classify := func(groups []string, state int) {
		for _, group := range groups {
			if !dotfiles.GroupAppliesTo(group, platform) {
				continue
			}
			base := baseName(group)
			if current, ok := bases[base]; !ok || state > current {
				bases[base] = state
			}
		}
	}

	classify(h.Linked.Groups(), fullyLinked)
	classify(h.Pending.Groups(), hasPending)
	classify(h.Foreign.Groups(), hasPending)

	for base, state := range bases {
		if state == fullyLinked {
			linked = append(linked, base)
		} else {
			pending = append(pending, base)
		}
	}
	sort.Strings(linked)
	sort.Strings(pending)

	seen := make(map[string]bool)
	for _, group := range append(append(h.Linked.Groups(), h.Pending.Groups()...), h.Foreign.Groups()...) {
		if !seen[group] && !dotfiles.GroupAppliesTo(group, platform) {
			seen[group] = true
			unsupported = append(unsupported, group)
		}
	}
	sort.Strings(unsupported)

	return linked, pending, unsupported
}

// baseName strips the platform suffix token from a conditional group name
func baseName(group string) string {
	if !dotfiles.HasPlatformSuffix(group) {
		return group
	}
	if idx := strings.LastIndex(group, "_"); idx > 0 {
		return group[:idx]
	}
	return group
}

func describe(outcome symlinks.Outcome) string {
	if outcome.Err != nil {
		return outcome.Err.Error()
	}
	return outcome.Target
}

func relToGroup(path, groupPath string) string {
	rel, err := filepath.Rel(groupPath, path)
	if err != nil {
		return path
	}
	return rel
}
