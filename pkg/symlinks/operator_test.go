package symlinks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbastos-dev/tuck/pkg/symlinks"
	"github.com/pbastos-dev/tuck/pkg/testutil"
)

func statuses(outcomes []symlinks.Outcome) map[symlinks.OutcomeStatus]int {
	counts := make(map[symlinks.OutcomeStatus]int)
	for _, outcome := range outcomes {
		counts[outcome.Status]++
	}
	return counts
}

func TestAddLinksPendingFiles(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	managed := env.WriteConfig("vim", ".vimrc", "set nocompatible")

	h := newHandler(t, env)
	outcomes := h.Add("vim")

	require.Len(t, outcomes, 1)
	assert.Equal(t, symlinks.StatusLinked, outcomes[0].Status)

	link, err := env.FS.Readlink(env.HomePath(".vimrc"))
	require.NoError(t, err)
	assert.Equal(t, managed, link)
}

func TestAddIsShallow(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("nvim", ".config/nvim/init.lua", "vim.opt")
	env.WriteConfig("nvim", ".config/nvim/lua/plugins.lua", "return {}")

	h := newHandler(t, env)
	outcomes := h.Add("nvim")

	// One symlink at the shallowest missing path covers the whole subtree
	require.Len(t, outcomes, 1)
	assert.Equal(t, symlinks.StatusLinked, outcomes[0].Status)
	assert.Equal(t, env.HomePath(".config"), outcomes[0].Target)

	link, err := env.FS.Readlink(env.HomePath(".config"))
	require.NoError(t, err)
	assert.Equal(t, env.GroupPath("nvim", ".config"), link)
}

func TestAddIsIdempotent(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("vim", ".vimrc", "set nocompatible")
	env.WriteConfig("vim", ".vim/colors/theme.vim", "hi Normal")

	h := newHandler(t, env)
	first := h.Add("vim")
	for _, outcome := range first {
		require.Equal(t, symlinks.StatusLinked, outcome.Status)
	}

	// A second run must change nothing and report every file as occupied
	h = newHandler(t, env)
	second := h.Add("vim")
	require.Len(t, second, len(first))
	for _, outcome := range second {
		assert.Equal(t, symlinks.StatusConflict, outcome.Status)
		assert.ErrorContains(t, outcome.Err, "already exists")
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("vim", ".vimrc", "set nocompatible")
	env.WriteConfig("vim", ".vim/colors/theme.vim", "hi Normal")

	// An unrelated file the round trip must not disturb
	env.WriteHome(".bashrc", "export PATH")

	h := newHandler(t, env)
	h.Add("vim")

	h = newHandler(t, env)
	outcomes := h.Remove("vim")
	counts := statuses(outcomes)
	assert.Equal(t, 2, counts[symlinks.StatusUnlinked])

	// Home is back to its pre-add state
	_, err := env.FS.Lstat(env.HomePath(".vimrc"))
	assert.Error(t, err)
	_, err = env.FS.Lstat(env.HomePath(".vim"))
	assert.Error(t, err)
	_, err = env.FS.Lstat(env.HomePath(".bashrc"))
	assert.NoError(t, err)

	// And the snapshot agrees
	h = newHandler(t, env)
	assert.Empty(t, h.Linked.Groups())
	assert.Equal(t, []string{"vim"}, h.Pending.Groups())
}

func TestAddMissingGroupReported(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	h := newHandler(t, env)

	outcomes := h.Add("nope")
	require.Len(t, outcomes, 1)
	assert.Equal(t, symlinks.StatusSkipped, outcomes[0].Status)
	assert.Error(t, outcomes[0].Err)
}

func TestAddConditionalVariants(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("zsh", ".zshrc", "")
	env.WriteConfig("zsh_linux", ".zshenv", "")
	env.WriteConfig("zsh_macos", ".zprofile", "")

	h := newHandler(t, env)
	outcomes := h.Add("zsh")

	linked := make(map[string]bool)
	for _, outcome := range outcomes {
		require.Equal(t, symlinks.StatusLinked, outcome.Status)
		linked[outcome.Group] = true
	}

	assert.True(t, linked["zsh"])
	assert.True(t, linked["zsh_linux"])
	assert.False(t, linked["zsh_macos"])

	_, err := env.FS.Lstat(env.HomePath(".zprofile"))
	assert.Error(t, err)
}

func TestRemoveConditionalVariants(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("zsh", ".zshrc", "")
	env.WriteConfig("zsh_linux", ".zshenv", "")

	h := newHandler(t, env)
	h.Add("zsh")

	h = newHandler(t, env)
	outcomes := h.Remove("zsh")
	counts := statuses(outcomes)
	assert.Equal(t, 2, counts[symlinks.StatusUnlinked])
}

func TestRemoveNeverTouchesForeignLinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("git", ".gitconfig", "[user]")
	env.WriteConfig("git", ".gitignore", "node_modules")

	// .gitconfig is owned by someone else; .gitignore is ours
	other := env.WriteHome("elsewhere/.gitconfig", "[core]")
	env.SymlinkHome(".gitconfig", other)
	env.SymlinkHome(".gitignore", env.GroupPath("git", ".gitignore"))

	h := newHandler(t, env)
	outcomes := h.Remove("git")

	counts := statuses(outcomes)
	assert.Equal(t, 1, counts[symlinks.StatusUnlinked])

	// The foreign link survives untouched
	link, err := env.FS.Readlink(env.HomePath(".gitconfig"))
	require.NoError(t, err)
	assert.Equal(t, other, link)
}

func TestRemoveIgnoresPlainFilesAtTarget(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("vim", ".vimrc", "managed")
	env.SymlinkHome(".vimrc", env.GroupPath("vim", ".vimrc"))
	env.WriteConfig("vim", ".vim/colors/theme.vim", "hi")
	env.WriteHome(".vim/colors/theme.vim", "user owned copy")

	h := newHandler(t, env)
	h.Remove("vim")

	// The user's plain file is never deleted
	content, err := env.FS.ReadFile(env.HomePath(".vim/colors/theme.vim"))
	require.NoError(t, err)
	assert.Equal(t, "user owned copy", string(content))
}

func TestRemoveUnlinkedGroupSkipped(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("vim", ".vimrc", "")

	h := newHandler(t, env)
	outcomes := h.Remove("vim")

	require.Len(t, outcomes, 1)
	assert.Equal(t, symlinks.StatusSkipped, outcomes[0].Status)
}

func TestForceClear(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig("vim", ".vimrc", "managed")
	env.WriteHome(".vimrc", "local edits")

	h := newHandler(t, env)
	cleared := h.ForceClear([]string{"vim"})
	require.Len(t, cleared, 1)
	assert.Equal(t, symlinks.StatusCleared, cleared[0].Status)

	outcomes := h.Add("vim")
	require.Len(t, outcomes, 1)
	assert.Equal(t, symlinks.StatusLinked, outcomes[0].Status)
}

func TestAdopt(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	managed := env.WriteConfig("vim", ".vimrc", "managed")
	env.WriteHome(".vimrc", "local edits")

	h := newHandler(t, env)
	adopted := h.Adopt([]string{"vim"})
	require.Len(t, adopted, 1)
	assert.Equal(t, symlinks.StatusAdopted, adopted[0].Status)

	// The home content replaced the managed file
	content, err := env.FS.ReadFile(managed)
	require.NoError(t, err)
	assert.Equal(t, "local edits", string(content))

	outcomes := h.Add("vim")
	require.Len(t, outcomes, 1)
	assert.Equal(t, symlinks.StatusLinked, outcomes[0].Status)
}
