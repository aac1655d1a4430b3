package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"

	"github.com/Rana718/forge/internal/database/common"
)

type Adapter struct {
	common.SQLAdapter
}

func New() *Adapter {
	return &Adapter{
		SQLAdapter: common.NewSQLAdapter(common.Dialect{
			Name: "mysql",
			MigrationsDDL: "CREATE TABLE IF NOT EXISTS " + common.MigrationsTable + ` (
		id VARCHAR(255) PRIMARY KEY,
		migration_name VARCHAR(255) NOT NULL,
		checksum VARCHAR(64) NOT NULL,
		applied_at DATETIME(6) NOT NULL
	)`,
			TableNames: squirrel.Select("table_name").
				From("information_schema.tables").
				Where("table_schema = DATABASE()").
				Where(squirrel.Eq{"table_type": "BASE TABLE"}).
				OrderBy("table_name"),
			Quote:      quoteIdentifier,
			DropPrefix: "SET FOREIGN_KEY_CHECKS = 0",
			DropSuffix: "SET FOREIGN_KEY_CHECKS = 1",
		}),
	}
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	dsn, err := ToDSN(url)
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	m.DB = db
	return nil
}

// ToDSN converts a mysql:// URL (or a driver DSN) into a go-sql-driver DSN
// with parseTime enabled.
func ToDSN(raw string) (string, error) {
	if !strings.HasPrefix(raw, "mysql://") {
		cfg, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", fmt.Errorf("failed to parse MySQL DSN: %w", err)
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse connection URL: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	q := u.Query()
	switch strings.ToLower(q.Get("sslmode") + q.Get("ssl-mode")) {
	case "require", "required":
		cfg.TLSConfig = "skip-verify"
	case "verify-ca", "verify-full", "verify_ca", "verify_identity":
		cfg.TLSConfig = "true"
	}
	return cfg.FormatDSN(), nil
}

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
