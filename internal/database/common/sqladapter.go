package common

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/forge/internal/types"
)

// Dialect holds what differs between the database/sql backed adapters.
type Dialect struct {
	Name          string
	MigrationsDDL string
	// TableNames selects the user tables of the connected database.
	TableNames squirrel.SelectBuilder
	Quote      func(string) string
	// DropPrefix/DropSuffix wrap a DROP TABLE on the same connection,
	// e.g. to disable foreign key checks.
	DropPrefix string
	DropSuffix string
}

// SQLAdapter implements the migration operations on top of database/sql.
type SQLAdapter struct {
	DB      *sql.DB
	qb      squirrel.StatementBuilderType
	dialect Dialect
}

func NewSQLAdapter(dialect Dialect) SQLAdapter {
	return SQLAdapter{
		qb:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		dialect: dialect,
	}
}

func (a *SQLAdapter) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func (a *SQLAdapter) Ping(ctx context.Context) error {
	return a.DB.PingContext(ctx)
}

func (a *SQLAdapter) CreateMigrationsTable(ctx context.Context) error {
	if _, err := a.DB.ExecContext(ctx, a.dialect.MigrationsDDL); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (a *SQLAdapter) GetAppliedMigrations(ctx context.Context) (map[string]types.AppliedMigration, error) {
	query, args, err := a.qb.
		Select("id", "migration_name", "checksum", "applied_at").
		From(MigrationsTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := a.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]types.AppliedMigration)
	for rows.Next() {
		var m types.AppliedMigration
		if err := rows.Scan(&m.ID, &m.Name, &m.Checksum, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration record: %w", err)
		}
		applied[m.ID] = m
	}
	return applied, rows.Err()
}

func (a *SQLAdapter) RecordMigration(ctx context.Context, migrationID, name, checksum string) error {
	return a.inTx(ctx, func(tx *sql.Tx) error {
		return a.record(ctx, tx, migrationID, name, checksum)
	})
}

func (a *SQLAdapter) RemoveMigrationRecord(ctx context.Context, migrationID string) error {
	return a.inTx(ctx, func(tx *sql.Tx) error {
		return a.remove(ctx, tx, migrationID)
	})
}

func (a *SQLAdapter) ExecuteMigration(ctx context.Context, migrationSQL string) error {
	return a.inTx(ctx, func(tx *sql.Tx) error {
		return execStatements(ctx, tx, migrationSQL)
	})
}

func (a *SQLAdapter) ApplyMigration(ctx context.Context, m types.MigrationFile) error {
	return a.inTx(ctx, func(tx *sql.Tx) error {
		if err := execStatements(ctx, tx, m.Up); err != nil {
			return err
		}
		return a.record(ctx, tx, m.ID, m.Name, m.Checksum)
	})
}

func (a *SQLAdapter) RevertMigration(ctx context.Context, m types.MigrationFile) error {
	return a.inTx(ctx, func(tx *sql.Tx) error {
		if err := execStatements(ctx, tx, m.Down); err != nil {
			return err
		}
		return a.remove(ctx, tx, m.ID)
	})
}

func (a *SQLAdapter) GetAllTableNames(ctx context.Context) ([]string, error) {
	query, args, err := a.dialect.TableNames.PlaceholderFormat(squirrel.Question).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := a.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (a *SQLAdapter) GetTableData(ctx context.Context, tableName string) ([]map[string]any, error) {
	query, args, err := a.qb.Select("*").From(a.dialect.Quote(tableName)).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := a.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", tableName, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", tableName, err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = FormatValue(values[i])
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (a *SQLAdapter) DropTable(ctx context.Context, tableName string) error {
	conn, err := a.DB.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if a.dialect.DropPrefix != "" {
		if _, err := conn.ExecContext(ctx, a.dialect.DropPrefix); err != nil {
			return err
		}
	}
	if _, err := conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+a.dialect.Quote(tableName)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	if a.dialect.DropSuffix != "" {
		if _, err := conn.ExecContext(ctx, a.dialect.DropSuffix); err != nil {
			return err
		}
	}
	return nil
}

func (a *SQLAdapter) record(ctx context.Context, tx *sql.Tx, migrationID, name, checksum string) error {
	query, args, err := a.qb.
		Insert(MigrationsTable).
		Columns("id", "migration_name", "checksum", "applied_at").
		Values(migrationID, name, checksum, time.Now().UTC()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migrationID, err)
	}
	return nil
}

func (a *SQLAdapter) remove(ctx context.Context, tx *sql.Tx, migrationID string) error {
	query, args, err := a.qb.
		Delete(MigrationsTable).
		Where(squirrel.Eq{"id": migrationID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", migrationID, err)
	}
	return nil
}

func (a *SQLAdapter) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration transaction: %w", err)
	}
	return nil
}

func execStatements(ctx context.Context, tx *sql.Tx, script string) error {
	for i, stmt := range ParseSQLStatements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	return nil
}
