package ui_test

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbastos-dev/tuck/pkg/symlinks"
	"github.com/pbastos-dev/tuck/pkg/testutil"
	"github.com/pbastos-dev/tuck/pkg/types"
	"github.com/pbastos-dev/tuck/pkg/ui"
)

var linux = types.Platform{OS: "linux", Family: "unix"}

func init() {
	pterm.DisableColor()
}

func snapshot(t *testing.T, env *testutil.TestEnvironment) *symlinks.Handler {
	t.Helper()
	h, err := symlinks.NewHandler(env.FS, env.DotfilesRoot, env.Home, linux)
	require.NoError(t, err)
	return h
}

func TestPrintGlobalStatus(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	linked := env.WriteConfig("zsh", ".zshrc", "autoload")
	env.SymlinkHome(".zshrc", linked)
	env.WriteConfig("vim", ".vimrc", "set nocompatible")
	env.WriteConfig("win_windows", "profile.ps1", "Set-Alias")

	var buf bytes.Buffer
	require.NoError(t, ui.PrintGlobalStatus(&buf, snapshot(t, env), linux))
	out := buf.String()

	assert.Contains(t, out, "zsh")
	assert.Contains(t, out, "vim")
	assert.Contains(t, out, "Not supported on this platform:")
	assert.Contains(t, out, "win_windows")
}

func TestPrintGlobalStatusMergesVariantsIntoBase(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	// Base is linked but its linux variant is still pending
	linked := env.WriteConfig("zsh", ".zshrc", "autoload")
	env.SymlinkHome(".zshrc", linked)
	env.WriteConfig("zsh_linux", ".zshenv", "export EDITOR=vi")

	var buf bytes.Buffer
	require.NoError(t, ui.PrintGlobalStatus(&buf, snapshot(t, env), linux))
	out := buf.String()

	// One merged row named after the base, no variant row
	assert.Contains(t, out, "zsh")
	assert.NotContains(t, out, "zsh_linux")
}

func TestPrintGlobalStatusConflicts(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	env.WriteConfig("vim", ".vimrc", "managed")
	env.WriteHome(".vimrc", "local edits")

	var buf bytes.Buffer
	require.NoError(t, ui.PrintGlobalStatus(&buf, snapshot(t, env), linux))
	out := buf.String()

	assert.Contains(t, out, "conflict")
	assert.Contains(t, out, env.HomePath(".vimrc"))
	assert.Contains(t, out, "--force")
}

func TestPrintGroupStatus(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	linked := env.WriteConfig("git", ".gitconfig", "[user]")
	env.SymlinkHome(".gitconfig", linked)
	env.WriteConfig("git", ".gitignore", "node_modules")

	var buf bytes.Buffer
	ui.PrintGroupStatus(&buf, snapshot(t, env), []string{"git"})
	out := buf.String()

	assert.Contains(t, out, "git:")
	assert.Contains(t, out, "linked .gitconfig")
	assert.Contains(t, out, "pending .gitignore")
}

func TestPrintOutcomes(t *testing.T) {
	var buf bytes.Buffer
	clean := ui.PrintOutcomes(&buf, []symlinks.Outcome{
		{Group: "vim", Target: "/home/u/.vimrc", Status: symlinks.StatusLinked},
		{Group: "vim", Target: "/home/u/.vim", Status: symlinks.StatusConflict, Err: assert.AnError},
	})

	assert.False(t, clean)
	assert.Contains(t, buf.String(), "linked /home/u/.vimrc")
	assert.Contains(t, buf.String(), "conflict")
}

func TestPrintOutcomesAllClean(t *testing.T) {
	var buf bytes.Buffer
	clean := ui.PrintOutcomes(&buf, []symlinks.Outcome{
		{Group: "vim", Target: "/home/u/.vimrc", Status: symlinks.StatusUnlinked},
	})
	assert.True(t, clean)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ui.Format
		wantErr bool
	}{
		{"", ui.FormatAuto, false},
		{"auto", ui.FormatAuto, false},
		{"term", ui.FormatTerminal, false},
		{"text", ui.FormatText, false},
		{"plain", ui.FormatText, false},
		{"yaml", ui.FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
