package types

import "runtime"

// Platform identifies the OS and OS family the current process runs on.
// It is captured once at startup and passed explicitly so that
// platform-conditional checks stay deterministic and testable.
type Platform struct {
	// OS is the platform token for the operating system, e.g. "linux",
	// "macos", "windows". Note this is the token form used in group name
	// suffixes, not necessarily GOOS ("darwin" maps to "macos").
	OS string

	// Family is "unix" or "windows".
	Family string
}

// CurrentPlatform returns the Platform for the running process.
func CurrentPlatform() Platform {
	return PlatformFor(runtime.GOOS)
}

// PlatformFor maps a GOOS value to a Platform.
func PlatformFor(goos string) Platform {
	os := goos
	if goos == "darwin" {
		os = "macos"
	}

	family := "unix"
	if goos == "windows" {
		family = "windows"
	}

	return Platform{OS: os, Family: family}
}
