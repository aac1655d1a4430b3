package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/forge/internal/config"
	"github.com/Rana718/forge/internal/utils"
)

var (
	resetNoMigrate bool
	resetBackup    bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the database",
	Long: `
Reset the database by dropping all tables and data.
This is a destructive operation that will:

1. Prompt for confirmation (unless --force is used)
2. Offer to write a JSON backup to backup_path (always with --backup)
3. Drop all tables in the database, the migrations table included
4. Re-apply every migration (unless --no-migrate is used)

⚠️  WARNING: This will permanently delete all data in your database!`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		prompter := utils.NewPrompter(forceFlag(cmd))
		ok, err := prompter.Confirm("⚠️  This will drop every table and all data. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			color.Yellow("Reset cancelled")
			return nil
		}

		withBackup := resetBackup
		if !withBackup && !prompter.Force {
			if withBackup, err = prompter.Confirm("💾 Create a backup before reset?"); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		m, closeDB, err := openMigrator(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		if withBackup {
			if _, err := m.Backup(ctx, cfg.BackupPath, "Pre-reset backup"); err != nil {
				return err
			}
		}

		if err := m.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
		if resetNoMigrate {
			return nil
		}
		_, err = m.Up(ctx)
		return err
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetBackup, "backup", false, "Write a backup before dropping the tables")
	resetCmd.Flags().BoolVar(&resetNoMigrate, "no-migrate", false, "Do not re-apply migrations after the reset")
}
