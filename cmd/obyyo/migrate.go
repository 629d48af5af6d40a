package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Noor7086/Obyyo-sub002/internal/storage"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	withManager := func(fn func(cmd *cobra.Command, mm *storage.MigrationManager) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			path, err := cfg.DatabasePath()
			if err != nil {
				return err
			}
			mm, err := storage.NewMigrationManager(path)
			if err != nil {
				return err
			}
			defer func() { _ = mm.Close() }()
			return fn(cmd, mm)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withManager(func(cmd *cobra.Command, mm *storage.MigrationManager) error {
				if err := mm.Up(); err != nil {
					return err
				}
				return printVersion(cmd, mm)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: withManager(func(cmd *cobra.Command, mm *storage.MigrationManager) error {
				if err := mm.Down(); err != nil {
					return err
				}
				return printVersion(cmd, mm)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE:  withManager(printVersion),
		},
	)
	return cmd
}

func printVersion(cmd *cobra.Command, mm *storage.MigrationManager) error {
	v, dirty, err := mm.Version()
	if err != nil {
		return err
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", v, state)
	return nil
}
