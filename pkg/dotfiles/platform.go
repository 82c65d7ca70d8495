package dotfiles

import (
	"strings"

	"github.com/pbastos-dev/tuck/pkg/types"
)

// validTargets is the fixed set of platform suffix tokens recognized in
// group names. A group name ending in one of these is conditional: it only
// applies when the token matches the current OS or OS family.
var validTargets = []string{
	// OS tokens
	"_windows",
	"_macos",
	"_ios",
	"_linux",
	"_android",
	"_freebsd",
	"_dragonfly",
	"_openbsd",
	"_netbsd",
	"_plan9",
	"_solaris",
	// OS family tokens
	"_unix",
}

// HasPlatformSuffix reports whether the group name carries a platform
// suffix token.
func HasPlatformSuffix(group string) bool {
	for _, target := range validTargets {
		if strings.HasSuffix(group, target) {
			return true
		}
	}
	return false
}

// AppliesTo reports whether this file's group is usable on the given
// platform. Groups without a platform suffix always apply; suffixed groups
// apply when the suffix names the platform's OS or its family.
func (d Dotfile) AppliesTo(platform types.Platform) bool {
	if !HasPlatformSuffix(d.GroupName) {
		return true
	}
	return strings.HasSuffix(d.GroupName, "_"+platform.OS) ||
		strings.HasSuffix(d.GroupName, "_"+platform.Family)
}

// GroupAppliesTo reports whether a group name is usable on the given
// platform, without needing a resolved Dotfile.
func GroupAppliesTo(group string, platform types.Platform) bool {
	if !HasPlatformSuffix(group) {
		return true
	}
	return strings.HasSuffix(group, "_"+platform.OS) ||
		strings.HasSuffix(group, "_"+platform.Family)
}
