package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Noor7086/Obyyo-sub002/internal/storage"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	var dir string

	openDB := func() (*storage.DB, string, error) {
		cfg, _, err := opts.load()
		if err != nil {
			return nil, "", err
		}
		path, err := cfg.DatabasePath()
		if err != nil {
			return nil, "", err
		}
		db, err := storage.Open(storage.DefaultConfig(path))
		if err != nil {
			return nil, "", err
		}
		backupDir := dir
		if backupDir == "" {
			backupDir = cfg.Database.BackupDir
		}
		return db, db.BackupDir(backupDir), nil
	}

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up the account database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, backupDir, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			info, err := db.Backup(cmd.Context(), backupDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s (%d bytes, sha256 %s)\n", info.Path, info.Size, info.Checksum[:12])
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "backup directory (default database.backup_dir)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List backups, newest first",
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, backupDir, err := openDB()
				if err != nil {
					return err
				}
				_ = db.Close()

				backups, err := storage.ListBackups(backupDir)
				if err != nil {
					return err
				}
				if len(backups) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No backups in %s\n", backupDir)
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CREATED\tSIZE\tPATH")
				for _, b := range backups {
					fmt.Fprintf(tw, "%s\t%d\t%s\n", b.CreatedAt.Format(time.RFC3339), b.Size, b.Path)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "verify <file>",
			Short: "Check a backup's integrity",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := storage.VerifyBackup(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
