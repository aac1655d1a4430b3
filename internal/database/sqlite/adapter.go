package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Rana718/forge/internal/database/common"
)

type Adapter struct {
	common.SQLAdapter
	path string
}

func New() *Adapter {
	return &Adapter{
		SQLAdapter: common.NewSQLAdapter(common.Dialect{
			Name: "sqlite",
			MigrationsDDL: `CREATE TABLE IF NOT EXISTS ` + common.MigrationsTable + ` (
		id TEXT PRIMARY KEY,
		migration_name TEXT NOT NULL,
		checksum TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`,
			TableNames: squirrel.Select("name").
				From("sqlite_master").
				Where(squirrel.Eq{"type": "table"}).
				Where("name NOT LIKE 'sqlite_%'").
				OrderBy("name"),
			Quote: pq.QuoteIdentifier,
		}),
	}
}

// Connect accepts sqlite://path, a plain path or a file: URI.
func (s *Adapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	s.path = dbPath
	if i := strings.Index(s.path, "?"); i > 0 {
		s.path = s.path[:i]
	}

	if !strings.HasPrefix(s.path, "file:") && s.path != ":memory:" {
		if dir := filepath.Dir(s.path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}
	if !strings.Contains(dbPath, "?") {
		dbPath += "?_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.DB = db
	return nil
}
