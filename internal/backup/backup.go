package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Rana718/forge/internal/database"
	"github.com/Rana718/forge/internal/database/common"
	"github.com/Rana718/forge/internal/types"
)

// TimestampFormat names backup files: backup_<timestamp>.json
const TimestampFormat = "2006-01-02_15-04-05"

// BackupManager dumps every table of a database to a JSON file.
type BackupManager struct {
	adapter    database.DatabaseAdapter
	backupPath string
	now        func() time.Time
}

func NewBackupManager(adapter database.DatabaseAdapter, backupPath string) *BackupManager {
	return &BackupManager{
		adapter:    adapter,
		backupPath: backupPath,
		now:        time.Now,
	}
}

// CreateBackup writes the rows of every user table plus the applied
// migrations and returns the file path. An empty database produces no file
// and an empty path.
func (bm *BackupManager) CreateBackup(ctx context.Context, comment string) (string, error) {
	tables, err := bm.adapter.GetAllTableNames(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get table names: %w", err)
	}

	data := types.BackupData{
		Timestamp: bm.now().UTC().Format(TimestampFormat),
		Comment:   comment,
		Tables:    make(map[string][]map[string]any),
	}

	for _, table := range tables {
		if table == common.MigrationsTable {
			applied, err := bm.adapter.GetAppliedMigrations(ctx)
			if err != nil {
				return "", fmt.Errorf("failed to get applied migrations: %w", err)
			}
			for _, m := range applied {
				data.Migrations = append(data.Migrations, m)
			}
			continue
		}

		rows, err := bm.adapter.GetTableData(ctx, table)
		if err != nil {
			return "", fmt.Errorf("failed to get data for table %s: %w", table, err)
		}
		data.Tables[table] = rows
	}

	if len(data.Tables) == 0 && len(data.Migrations) == 0 {
		return "", nil
	}
	sort.Slice(data.Migrations, func(i, j int) bool { return data.Migrations[i].ID < data.Migrations[j].ID })

	return bm.writeBackupFile(data)
}

func (bm *BackupManager) writeBackupFile(data types.BackupData) (string, error) {
	if err := os.MkdirAll(bm.backupPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup data: %w", err)
	}

	path := filepath.Join(bm.backupPath, fmt.Sprintf("backup_%s.json", data.Timestamp))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return path, nil
}
