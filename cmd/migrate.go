package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/forge/internal/config"
	"github.com/Rana718/forge/internal/database"
	"github.com/Rana718/forge/internal/migrator"
)

type migrateAction func(ctx context.Context, cfg *config.Config, args []string) error

var migrateActions = map[string]migrateAction{
	"create": migrateCreate,
	"up":     migrateUp,
	"down":   migrateDown,
	"status": migrateStatus,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate <create|up|down|status> [args]",
	Short: "Create, apply and roll back SQL migrations",
	Long: `
Manage the SQL migrations in db/migrations. Each file is named
<YYYYMMDDHHMMSS>_<name>.sql and holds a "-- migrate:up" and a
"-- migrate:down" section.

  forge migrate create <name>   write an empty migration
  forge migrate up              apply every pending migration
  forge migrate down [n]        roll back the last n migrations (default 1)
  forge migrate status          list applied and pending migrations`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := lookupMigrateAction(args[0])
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}

		return action(cmd.Context(), cfg, args[1:])
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func lookupMigrateAction(keyword string) (migrateAction, error) {
	if action, ok := migrateActions[keyword]; ok {
		return action, nil
	}
	keys := make([]string, 0, len(migrateActions))
	for k := range migrateActions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return nil, fmt.Errorf("unknown migrate keyword %q (valid: %s)", keyword, strings.Join(keys, ", "))
}

// openMigrator connects to the configured database. The returned func closes
// the connection.
func openMigrator(ctx context.Context, cfg *config.Config) (*migrator.Migrator, func(), error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, nil, err
	}

	adapter, err := database.NewAdapter(cfg.Database.Provider)
	if err != nil {
		return nil, nil, err
	}
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := adapter.Ping(ctx); err != nil {
		adapter.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return migrator.NewMigrator(adapter, cfg.MigrationsPath), func() { adapter.Close() }, nil
}

func migrateCreate(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: forge migrate create <name>")
	}
	m := migrator.NewMigrator(nil, cfg.MigrationsPath)
	_, err := m.Create(strings.Join(args, "_"))
	return err
}

func migrateUp(ctx context.Context, cfg *config.Config, args []string) error {
	m, closeDB, err := openMigrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	_, err = m.Up(ctx)
	return err
}

func migrateDown(ctx context.Context, cfg *config.Config, args []string) error {
	n := 1
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid number of migrations %q", args[0])
		}
		n = parsed
	}

	m, closeDB, err := openMigrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	_, err = m.Down(ctx, n)
	return err
}

func migrateStatus(ctx context.Context, cfg *config.Config, args []string) error {
	m, closeDB, err := openMigrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	status, err := m.Status(ctx)
	if err != nil {
		return err
	}
	m.PrintStatus(status)
	if status.PendingMigrations > 0 {
		color.Cyan("💡 Run 'forge migrate up' to apply pending migrations")
	}
	return nil
}
