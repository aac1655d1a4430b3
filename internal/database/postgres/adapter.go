package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/Rana718/forge/internal/database/common"
	"github.com/Rana718/forge/internal/types"
)

type Adapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) CreateMigrationsTable(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + common.MigrationsTable + ` (
		id VARCHAR(255) PRIMARY KEY,
		migration_name VARCHAR(255) NOT NULL,
		checksum VARCHAR(64) NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (p *Adapter) GetAppliedMigrations(ctx context.Context) (map[string]types.AppliedMigration, error) {
	query, args, err := p.qb.
		Select("id", "migration_name", "checksum", "applied_at").
		From(common.MigrationsTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
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

func (p *Adapter) RecordMigration(ctx context.Context, migrationID, name, checksum string) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		return p.record(ctx, tx, migrationID, name, checksum)
	})
}

func (p *Adapter) RemoveMigrationRecord(ctx context.Context, migrationID string) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		return p.remove(ctx, tx, migrationID)
	})
}

func (p *Adapter) ExecuteMigration(ctx context.Context, migrationSQL string) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		return execStatements(ctx, tx, migrationSQL)
	})
}

func (p *Adapter) ApplyMigration(ctx context.Context, m types.MigrationFile) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		if err := execStatements(ctx, tx, m.Up); err != nil {
			return err
		}
		return p.record(ctx, tx, m.ID, m.Name, m.Checksum)
	})
}

func (p *Adapter) RevertMigration(ctx context.Context, m types.MigrationFile) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		if err := execStatements(ctx, tx, m.Down); err != nil {
			return err
		}
		return p.remove(ctx, tx, m.ID)
	})
}

func (p *Adapter) GetAllTableNames(ctx context.Context) ([]string, error) {
	query, args, err := p.qb.
		Select("tablename").
		From("pg_tables").
		Where(squirrel.Eq{"schemaname": "public"}).
		OrderBy("tablename").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
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

func (p *Adapter) GetTableData(ctx context.Context, tableName string) ([]map[string]any, error) {
	query, args, err := p.qb.Select("*").From(pq.QuoteIdentifier(tableName)).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", tableName, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", tableName, err)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = common.FormatValue(values[i])
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (p *Adapter) DropTable(ctx context.Context, tableName string) error {
	if _, err := p.pool.Exec(ctx, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(tableName)+" CASCADE"); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}

func (p *Adapter) record(ctx context.Context, tx pgx.Tx, migrationID, name, checksum string) error {
	query, args, err := p.qb.
		Insert(common.MigrationsTable).
		Columns("id", "migration_name", "checksum", "applied_at").
		Values(migrationID, name, checksum, time.Now().UTC()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migrationID, err)
	}
	return nil
}

func (p *Adapter) remove(ctx context.Context, tx pgx.Tx, migrationID string) error {
	query, args, err := p.qb.
		Delete(common.MigrationsTable).
		Where(squirrel.Eq{"id": migrationID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", migrationID, err)
	}
	return nil
}

func (p *Adapter) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration transaction: %w", err)
	}
	return nil
}

func execStatements(ctx context.Context, tx pgx.Tx, script string) error {
	for i, stmt := range common.ParseSQLStatements(script) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	return nil
}
