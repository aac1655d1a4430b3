package database

import (
	"context"

	"github.com/Rana718/forge/internal/types"
)

// DatabaseAdapter is what the migrator and reset need from a database.
type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// Migration table management
	CreateMigrationsTable(ctx context.Context) error
	GetAppliedMigrations(ctx context.Context) (map[string]types.AppliedMigration, error)

	// ApplyMigration runs m.Up and records m in one transaction.
	ApplyMigration(ctx context.Context, m types.MigrationFile) error
	// RevertMigration runs m.Down and removes the record of m in one transaction.
	RevertMigration(ctx context.Context, m types.MigrationFile) error
	RecordMigration(ctx context.Context, migrationID, name, checksum string) error
	RemoveMigrationRecord(ctx context.Context, migrationID string) error
	ExecuteMigration(ctx context.Context, migrationSQL string) error

	GetAllTableNames(ctx context.Context) ([]string, error)
	// GetTableData returns every row of tableName keyed by column name.
	GetTableData(ctx context.Context, tableName string) ([]map[string]any, error)
	DropTable(ctx context.Context, tableName string) error
}
