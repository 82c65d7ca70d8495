package symlinks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbastos-dev/tuck/pkg/errors"
	"github.com/pbastos-dev/tuck/pkg/symlinks"
	"github.com/pbastos-dev/tuck/pkg/testutil"
	"github.com/pbastos-dev/tuck/pkg/types"
)

var linux = types.Platform{OS: "linux", Family: "unix"}

func newHandler(t *testing.T, env *testutil.TestEnvironment) *symlinks.Handler {
	t.Helper()
	h, err := symlinks.NewHandler(env.FS, env.DotfilesRoot, env.Home, linux)
	require.NoError(t, err)
	return h
}

func TestNewHandlerMissingConfigs(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	require.NoError(t, env.FS.RemoveAll(env.ConfigsDir()))

	_, err := symlinks.NewHandler(env.FS, env.DotfilesRoot, env.Home, linux)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoDotfilesDir))
}

func TestClassification(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	// Pending: no target at all
	pending := env.WriteConfig("vim", ".vimrc", "set nocompatible")

	// Linked: target resolves to the managed file
	linked := env.WriteConfig("zsh", ".zshrc", "autoload")
	env.SymlinkHome(".zshrc", linked)

	// Foreign: target is a symlink resolving elsewhere
	env.WriteConfig("git", ".gitconfig", "[user]")
	other := env.WriteHome("elsewhere/.gitconfig", "[core]")
	env.SymlinkHome(".gitconfig", other)

	h := newHandler(t, env)

	assert.Equal(t, []string{"vim"}, h.Pending.Groups())
	assert.Equal(t, []string{"zsh"}, h.Linked.Groups())
	assert.Equal(t, []string{"git"}, h.Foreign.Groups())

	files := h.Pending.Files("vim")
	require.Len(t, files, 1)
	assert.Equal(t, pending, files[0].Path)
}

func TestClassificationOccupiedTargetIsPending(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("vim", ".vimrc", "managed")
	env.WriteHome(".vimrc", "local edits")

	h := newHandler(t, env)

	// A plain file at the target blocks linking but the entry stays Pending;
	// Conflicts surfaces it.
	require.Len(t, h.Pending.Files("vim"), 1)
	conflicts := h.Conflicts()
	require.Len(t, conflicts.Files("vim"), 1)
}

func TestClassificationDescendsExistingDirs(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("nvim", ".config/nvim/init.lua", "vim.opt")
	// Target .config already exists as a plain directory
	require.NoError(t, env.FS.MkdirAll(env.HomePath(".config"), 0755))

	h := newHandler(t, env)

	// .config itself is not reported; the classification descends to the
	// shallowest missing entry.
	files := h.Pending.Files("nvim")
	require.Len(t, files, 1)
	assert.Equal(t, env.GroupPath("nvim", ".config/nvim"), files[0].Path)
}

func TestCanonicalizeKeepsShallowestEntry(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("nvim", ".config/nvim/init.lua", "vim.opt")
	env.WriteConfig("nvim", ".config/nvim/lua/plugins.lua", "return {}")

	h := newHandler(t, env)

	// Only .config survives: everything below it is a descendant
	files := h.Pending.Files("nvim")
	require.Len(t, files, 1)
	assert.Equal(t, env.GroupPath("nvim", ".config"), files[0].Path)
}

func TestCrossCancellation(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("nvim", ".config/nvim/init.lua", "vim.opt")

	// The directory is already linked; deeper paths must not show as pending
	env.SymlinkHome(".config", env.GroupPath("nvim", ".config"))

	h := newHandler(t, env)

	require.Len(t, h.Linked.Files("nvim"), 1)
	assert.Empty(t, h.Pending.Files("nvim"))
	assert.NotContains(t, h.Pending.Groups(), "nvim")
}

func TestGroupRootNeverClassified(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("vim", ".vimrc", "set nocompatible")

	h := newHandler(t, env)

	for _, file := range h.Pending.Files("vim") {
		assert.NotEqual(t, env.GroupPath("vim"), file.Path)
	}
}

func TestIsEmpty(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	h := newHandler(t, env)
	assert.True(t, h.IsEmpty())

	env.WriteConfig("vim", ".vimrc", "")
	h = newHandler(t, env)
	assert.False(t, h.IsEmpty())
}

func TestRelatedGroups(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("zsh", ".zshrc", "")
	env.WriteConfig("zsh_linux", ".zshenv", "")
	env.WriteConfig("zsh_macos", ".zprofile", "")
	env.WriteConfig("zsh_unix", ".zlogin", "")

	h := newHandler(t, env)

	related := h.RelatedGroups("zsh", false)
	// Variants valid on linux first, base last
	assert.Equal(t, []string{"zsh_linux", "zsh_unix", "zsh"}, related)

	// Absent from the Linked cache entirely
	assert.Nil(t, h.RelatedGroups("zsh", true))
	assert.Nil(t, h.RelatedGroups("nope", false))
}

func TestRelatedGroupsPrefixOnlyIsNotVariant(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("zsh", ".zshrc", "")
	// Shares the prefix but carries no platform suffix
	env.WriteConfig("zsh-extras", ".zshextras", "")

	h := newHandler(t, env)
	assert.Equal(t, []string{"zsh"}, h.RelatedGroups("zsh", false))
}
