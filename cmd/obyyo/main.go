// Command obyyo serves and drives the lottery combination generator.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Noor7086/Obyyo-sub002/internal/config"
	"github.com/Noor7086/Obyyo-sub002/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "obyyo",
		Short:         "Lottery combination generator",
		Long:          "obyyo generates lottery number combinations that avoid each game's non-viable numbers.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default ~/.obyyo/config.toml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(opts),
		newGamesCmd(opts),
		newGenerateCmd(opts),
		newChartCmd(opts),
		newMigrateCmd(opts),
		newBackupCmd(opts),
		newServiceCmd(opts),
	)
	return root
}

// load reads the config and initializes logging from it.
func (o *rootOptions) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if o.debug {
		level = slog.LevelDebug
	}
	logging.Init(&logging.Options{
		Level:   level,
		NoColor: cfg.Log.NoColor,
	})
	return cfg, slog.Default(), nil
}
