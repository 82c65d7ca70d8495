package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pbastos-dev/tuck/pkg/config"
	"github.com/pbastos-dev/tuck/pkg/errors"
	"github.com/pbastos-dev/tuck/pkg/fileops"
	"github.com/pbastos-dev/tuck/pkg/hooks"
	"github.com/pbastos-dev/tuck/pkg/secrets"
	"github.com/pbastos-dev/tuck/pkg/symlinks"
	"github.com/pbastos-dev/tuck/pkg/ui"
)

func newStatusCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "status [groups...]",
		Short: MsgStatusShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, _, platform, err := env.resolve()
			if err != nil {
				return err
			}

			h, err := symlinks.NewHandler(fsys, p.Root(), p.Home(), platform)
			if err != nil {
				return err
			}
			if h.IsEmpty() {
				fmt.Fprintf(cmd.OutOrStdout(), MsgEmptyDotfiles, p.ConfigsDir())
				return nil
			}

			if len(args) > 0 {
				ui.PrintGroupStatus(cmd.OutOrStdout(), h, args)
			} else if err := ui.PrintGlobalStatus(cmd.OutOrStdout(), h, platform); err != nil {
				return err
			}

			// Exit code reflects health: conflicts make status fail
			if len(h.Foreign) > 0 || len(h.Conflicts()) > 0 {
				return errors.New(errors.ErrSymlinkExists, "some dotfiles are blocked by conflicting files")
			}
			return nil
		},
	}
}

func newAddCmd(env *cmdEnv) *cobra.Command {
	var (
		exclude []string
		force   bool
		adopt   bool
	)

	cmd := &cobra.Command{
		Use:   "add <groups...>",
		Short: MsgAddShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, cfg, platform, err := env.resolve()
			if err != nil {
				return err
			}

			outcomes, err := symlinks.AddGroups(fsys, p.Root(), p.Home(), platform,
				args, mergeExclude(cfg, exclude), force, adopt)
			if err != nil {
				return err
			}
			if !ui.PrintOutcomes(cmd.OutOrStdout(), outcomes) {
				return errors.New(errors.ErrSymlinkExists, "some files could not be linked")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil, MsgFlagExclude)
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVarP(&adopt, "adopt", "t", false, MsgFlagAdopt)
	return cmd
}

func newRmCmd(env *cmdEnv) *cobra.Command {
	var exclude []string

	cmd := &cobra.Command{
		Use:   "rm <groups...>",
		Short: MsgRmShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, cfg, platform, err := env.resolve()
			if err != nil {
				return err
			}

			outcomes, err := symlinks.RemoveGroups(fsys, p.Root(), p.Home(), platform,
				args, mergeExclude(cfg, exclude))
			if err != nil {
				return err
			}
			if !ui.PrintOutcomes(cmd.OutOrStdout(), outcomes) {
				return errors.New(errors.ErrSymlinkRemove, "some files could not be unlinked")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil, MsgFlagExclude)
	return cmd
}

func newSetCmd(env *cmdEnv) *cobra.Command {
	var (
		exclude []string
		force   bool
		adopt   bool
	)

	cmd := &cobra.Command{
		Use:   "set <groups...>",
		Short: MsgSetShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, cfg, platform, err := env.resolve()
			if err != nil {
				return err
			}

			if !cfg.Hooks.Allow && !confirmHooks(cmd, args) {
				fmt.Fprintln(cmd.OutOrStdout(), MsgHooksDeclined)
				return nil
			}

			outcomes, err := hooks.Set(fsys, p, platform, args, mergeExclude(cfg, exclude), force, adopt)
			clean := ui.PrintOutcomes(cmd.OutOrStdout(), outcomes)
			if err != nil {
				return err
			}
			if !clean {
				return errors.New(errors.ErrSymlinkExists, "some files could not be linked")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil, MsgFlagExclude)
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVarP(&adopt, "adopt", "t", false, MsgFlagAdopt)
	return cmd
}

func newInitCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: MsgInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, _, _, err := env.resolve()
			if err != nil {
				return err
			}
			if err := fileops.Init(fsys, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized dotfiles directory at %s\n", p.Root())
			return nil
		},
	}
}

func newPushCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "push <group> <files...>",
		Short: MsgPushShort,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, _, _, err := env.resolve()
			if err != nil {
				return err
			}
			return fileops.Push(fsys, p, args[0], args[1:])
		},
	}
}

func newPopCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "pop <groups...>",
		Short: MsgPopShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, _, _, err := env.resolve()
			if err != nil {
				return err
			}
			return fileops.Pop(fsys, p, args)
		},
	}
}

func newLsHooksCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "ls-hooks",
		Short: MsgLsHooksShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, _, _, err := env.resolve()
			if err != nil {
				return err
			}
			infos, err := fileops.ListHooks(fsys, p)
			if err != nil {
				return err
			}
			ui.PrintHooks(cmd.OutOrStdout(), infos)
			return nil
		},
	}
}

func newLsSecretsCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "ls-secrets",
		Short: MsgLsSecretsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, _, _, err := env.resolve()
			if err != nil {
				return err
			}
			names, err := fileops.ListSecrets(fsys, p)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newGroupIsCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "groupis <files...>",
		Short: MsgGroupIsShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, _, _, err := env.resolve()
			if err != nil {
				return err
			}
			owners, err := fileops.GroupIs(fsys, p, args)
			if err != nil {
				return err
			}

			groups := make(map[string]bool, len(owners))
			for _, group := range owners {
				groups[group] = true
			}
			names := make([]string, 0, len(groups))
			for group := range groups {
				names = append(names, group)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newFromStowCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "from-stow",
		Short: MsgFromStowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, _, _, err := env.resolve()
			if err != nil {
				return err
			}
			return fileops.FromStow(fsys, p)
		},
	}
}

func newEncryptCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <group> <files...>",
		Short: MsgEncryptShort,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, _, _, err := env.resolve()
			if err != nil {
				return err
			}
			passphrase, err := readPassphrase(true)
			if err != nil {
				return err
			}
			return secrets.NewHandler(fsys, p, passphrase).Encrypt(args[0], args[1:])
		},
	}
}

func newDecryptCmd(env *cmdEnv) *cobra.Command {
	var (
		exclude []string
		destDir string
	)

	cmd := &cobra.Command{
		Use:   "decrypt <groups...>",
		Short: MsgDecryptShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, p, cfg, platform, err := env.resolve()
			if err != nil {
				return err
			}
			if destDir == "" {
				if destDir, err = os.Getwd(); err != nil {
					return err
				}
			}
			passphrase, err := readPassphrase(false)
			if err != nil {
				return err
			}
			return secrets.NewHandler(fsys, p, passphrase).
				Decrypt(platform, args, mergeExclude(cfg, exclude), destDir)
		},
	}

	cmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil, MsgFlagExclude)
	cmd.Flags().StringVarP(&destDir, "to", "o", "", MsgFlagDecryptTo)
	return cmd
}

// confirmHooks asks before executing hook scripts. Set hooks.allow in the
// config to skip the prompt; piped stdin declines.
func confirmHooks(cmd *cobra.Command, groups []string) bool {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false
	}

	fmt.Fprintf(os.Stderr, MsgHooksPrompt, strings.Join(groups, ", "))
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// mergeExclude combines the config-level exclusions with the flag ones
func mergeExclude(cfg *config.Config, flagExclude []string) []string {
	return append(append([]string{}, cfg.Exclude...), flagExclude...)
}

// readPassphrase prompts on stderr so output redirection stays clean.
// When confirm is set the passphrase is asked twice and must match. A
// non-terminal stdin (piped input) is read line-wise instead.
func readPassphrase(confirm bool) (string, error) {
	first, err := promptPassword(MsgPasswordPrompt)
	if err != nil {
		return "", err
	}

	if confirm {
		second, err := promptPassword(MsgPasswordConfirm)
		if err != nil {
			return "", err
		}
		if first != second {
			return "", errors.New(errors.ErrInvalidInput, MsgPasswordMismatch)
		}
	}

	return first, nil
}

func promptPassword(prompt string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", errors.Wrap(err, errors.ErrInvalidInput, "could not read password")
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "could not read password")
	}
	return string(password), nil
}
