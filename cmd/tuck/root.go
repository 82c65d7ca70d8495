package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pbastos-dev/tuck/internal/version"
	"github.com/pbastos-dev/tuck/pkg/config"
	"github.com/pbastos-dev/tuck/pkg/filesystem"
	"github.com/pbastos-dev/tuck/pkg/logging"
	"github.com/pbastos-dev/tuck/pkg/paths"
	"github.com/pbastos-dev/tuck/pkg/types"
	"github.com/pbastos-dev/tuck/pkg/ui"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity   int
		dotfilesDir string
	)

	rootCmd := &cobra.Command{
		Use:     "tuck",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity)
			ui.Configure(ui.FormatAuto)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&dotfilesDir, "dir", "d", "", MsgFlagDir)

	env := &cmdEnv{dotfilesDir: &dotfilesDir}

	rootCmd.AddCommand(newStatusCmd(env))
	rootCmd.AddCommand(newAddCmd(env))
	rootCmd.AddCommand(newRmCmd(env))
	rootCmd.AddCommand(newSetCmd(env))
	rootCmd.AddCommand(newInitCmd(env))
	rootCmd.AddCommand(newPushCmd(env))
	rootCmd.AddCommand(newPopCmd(env))
	rootCmd.AddCommand(newLsHooksCmd(env))
	rootCmd.AddCommand(newLsSecretsCmd(env))
	rootCmd.AddCommand(newGroupIsCmd(env))
	rootCmd.AddCommand(newFromStowCmd(env))
	rootCmd.AddCommand(newEncryptCmd(env))
	rootCmd.AddCommand(newDecryptCmd(env))

	return rootCmd
}

// cmdEnv resolves the shared runtime pieces every subcommand needs: the
// filesystem, the dotfiles paths, the loaded config and the platform.
type cmdEnv struct {
	dotfilesDir *string
}

func (e *cmdEnv) resolve() (types.FS, *paths.Paths, *config.Config, types.Platform, error) {
	fsys := filesystem.NewOS()

	p, err := paths.New(*e.dotfilesDir)
	if err != nil {
		return nil, nil, nil, types.Platform{}, err
	}

	cfg, err := config.Load(p.Root())
	if err != nil {
		return nil, nil, nil, types.Platform{}, err
	}
	if cfg.DotfilesDir != "" && *e.dotfilesDir == "" {
		if p, err = paths.New(cfg.DotfilesDir); err != nil {
			return nil, nil, nil, types.Platform{}, err
		}
	}

	return fsys, p, cfg, types.CurrentPlatform(), nil
}
