package migrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/stoewer/go-strcase"

	"github.com/Rana718/forge/internal/backup"
	"github.com/Rana718/forge/internal/database"
	"github.com/Rana718/forge/internal/types"
)

const (
	UpMarker   = "-- migrate:up"
	DownMarker = "-- migrate:down"

	idTimeFormat = "20060102150405"
)

var ErrNoUpSection = errors.New("migration has no " + UpMarker + " section")

// Migrator applies and reverts the SQL files of one migrations directory.
type Migrator struct {
	adapter        database.DatabaseAdapter
	migrationsPath string
	out            io.Writer
	now            func() time.Time
}

func NewMigrator(adapter database.DatabaseAdapter, migrationsPath string) *Migrator {
	return &Migrator{
		adapter:        adapter,
		migrationsPath: migrationsPath,
		out:            os.Stdout,
		now:            time.Now,
	}
}

// SetOutput redirects progress messages.
func (m *Migrator) SetOutput(w io.Writer) {
	m.out = w
}

// Create writes an empty migration file and returns its path.
func (m *Migrator) Create(name string) (string, error) {
	clean := strcase.SnakeCase(strings.TrimSpace(name))
	if clean == "" {
		return "", fmt.Errorf("migration name is required")
	}
	if err := os.MkdirAll(m.migrationsPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	id := m.now().UTC().Format(idTimeFormat) + "_" + clean
	path := filepath.Join(m.migrationsPath, id+".sql")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("migration %s already exists", path)
	}

	content := UpMarker + "\n\n\n" + DownMarker + "\n\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to create migration file: %w", err)
	}

	color.New(color.FgGreen).Fprintf(m.out, "✨ Created migration: %s\n", path)
	return path, nil
}

// Load reads every *.sql file of the migrations directory, sorted by ID.
func (m *Migrator) Load() ([]types.MigrationFile, error) {
	entries, err := os.ReadDir(m.migrationsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []types.MigrationFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		path := filepath.Join(m.migrationsPath, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		mf, err := ParseMigration(entry.Name(), string(data))
		if err != nil {
			return nil, fmt.Errorf("invalid migration %s: %w", entry.Name(), err)
		}
		mf.FilePath = path
		migrations = append(migrations, mf)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].ID < migrations[j].ID
	})
	return migrations, nil
}

// ParseMigration splits content into its up and down sections.
func ParseMigration(filename, content string) (types.MigrationFile, error) {
	id := strings.TrimSuffix(filepath.Base(filename), ".sql")
	name := id
	if i := strings.Index(id, "_"); i > 0 {
		name = id[i+1:]
	}

	mf := types.MigrationFile{
		ID:       id,
		Name:     name,
		Checksum: generateChecksum(content),
	}

	var up, down strings.Builder
	var section *strings.Builder
	seenUp := false
	for _, line := range strings.SplitAfter(content, "\n") {
		switch strings.TrimSpace(line) {
		case UpMarker:
			section = &up
			seenUp = true
			continue
		case DownMarker:
			section = &down
			continue
		}
		if section != nil {
			section.WriteString(line)
		}
	}
	if !seenUp {
		return mf, ErrNoUpSection
	}

	mf.Up = strings.TrimSpace(up.String())
	mf.Down = strings.TrimSpace(down.String())
	return mf, nil
}

// Up applies every pending migration in ID order and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	migrations, applied, err := m.state(ctx)
	if err != nil {
		return 0, err
	}
	m.warnChanged(migrations, applied)

	count := 0
	for _, mf := range migrations {
		if _, ok := applied[mf.ID]; ok {
			continue
		}
		color.New(color.FgCyan).Fprintf(m.out, "🚀 Applying %s\n", mf.ID)
		if err := m.adapter.ApplyMigration(ctx, mf); err != nil {
			return count, fmt.Errorf("failed to apply migration %s: %w", mf.ID, err)
		}
		count++
	}

	if count == 0 {
		color.New(color.FgGreen).Fprintln(m.out, "✅ Database is up to date")
	} else {
		color.New(color.FgGreen).Fprintf(m.out, "✅ Applied %d migration(s)\n", count)
	}
	return count, nil
}

// Down reverts the last n applied migrations, newest first.
func (m *Migrator) Down(ctx context.Context, n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("number of migrations to roll back must be positive, got %d", n)
	}

	migrations, applied, err := m.state(ctx)
	if err != nil {
		return 0, err
	}

	files := make(map[string]types.MigrationFile, len(migrations))
	for _, mf := range migrations {
		files[mf.ID] = mf
	}

	ids := make([]string, 0, len(applied))
	for id := range applied {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	if len(ids) > n {
		ids = ids[:n]
	}

	count := 0
	for _, id := range ids {
		mf, ok := files[id]
		if !ok {
			return count, fmt.Errorf("migration file for %s not found in %s", id, m.migrationsPath)
		}
		color.New(color.FgCyan).Fprintf(m.out, "↩️  Rolling back %s\n", id)
		if err := m.adapter.RevertMigration(ctx, mf); err != nil {
			return count, fmt.Errorf("failed to roll back migration %s: %w", id, err)
		}
		count++
	}

	if count == 0 {
		color.New(color.FgYellow).Fprintln(m.out, "⚠️  No migrations to roll back")
	} else {
		color.New(color.FgGreen).Fprintf(m.out, "✅ Rolled back %d migration(s)\n", count)
	}
	return count, nil
}

// Status reports every migration on disk or in the migrations table.
func (m *Migrator) Status(ctx context.Context) (*types.MigrationStatus, error) {
	migrations, applied, err := m.state(ctx)
	if err != nil {
		return nil, err
	}

	status := &types.MigrationStatus{}
	onDisk := make(map[string]bool, len(migrations))
	for _, mf := range migrations {
		onDisk[mf.ID] = true
		item := types.MigrationStatusItem{ID: mf.ID, Name: mf.Name, Status: types.StatusPending}
		if rec, ok := applied[mf.ID]; ok {
			appliedAt := rec.AppliedAt
			item.Status = types.StatusApplied
			item.AppliedAt = &appliedAt
			item.ChecksumMismatch = rec.Checksum != mf.Checksum
			status.AppliedMigrations++
		} else {
			status.PendingMigrations++
		}
		status.Migrations = append(status.Migrations, item)
	}

	var missing []string
	for id := range applied {
		if !onDisk[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	for _, id := range missing {
		rec := applied[id]
		appliedAt := rec.AppliedAt
		status.Migrations = append(status.Migrations, types.MigrationStatusItem{
			ID:        id,
			Name:      rec.Name,
			Status:    types.StatusMissing,
			AppliedAt: &appliedAt,
		})
		status.AppliedMigrations++
	}

	status.TotalMigrations = len(status.Migrations)
	return status, nil
}

// PrintStatus writes s as a table to the migrator's output.
func (m *Migrator) PrintStatus(s *types.MigrationStatus) {
	fmt.Fprintf(m.out, "📊 Migrations: %d total, %d applied, %d pending\n",
		s.TotalMigrations, s.AppliedMigrations, s.PendingMigrations)

	for _, item := range s.Migrations {
		switch item.Status {
		case types.StatusApplied:
			line := fmt.Sprintf("  ✅ %s (applied %s)", item.ID, item.AppliedAt.Local().Format(time.DateTime))
			if item.ChecksumMismatch {
				color.New(color.FgYellow).Fprintln(m.out, line+" ⚠️  modified after it was applied")
			} else {
				color.New(color.FgGreen).Fprintln(m.out, line)
			}
		case types.StatusMissing:
			color.New(color.FgRed).Fprintf(m.out, "  ❓ %s (applied, file missing)\n", item.ID)
		default:
			color.New(color.FgYellow).Fprintf(m.out, "  ⏳ %s (pending)\n", item.ID)
		}
	}
}

// Backup dumps the database to a JSON file under dir. It returns an empty
// path when there was nothing to save.
func (m *Migrator) Backup(ctx context.Context, dir, comment string) (string, error) {
	path, err := backup.NewBackupManager(m.adapter, dir).CreateBackup(ctx, comment)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	if path == "" {
		fmt.Fprintln(m.out, "ℹ️  Database is empty, no backup written")
		return "", nil
	}
	color.New(color.FgGreen).Fprintf(m.out, "💾 Backup written to %s\n", path)
	return path, nil
}

// Reset drops every table of the database, the migrations table included.
func (m *Migrator) Reset(ctx context.Context) error {
	tables, err := m.adapter.GetAllTableNames(ctx)
	if err != nil {
		return err
	}
	for _, table := range tables {
		if err := m.adapter.DropTable(ctx, table); err != nil {
			return err
		}
		fmt.Fprintf(m.out, "🗑️  Dropped table %s\n", table)
	}
	color.New(color.FgGreen).Fprintf(m.out, "✅ Dropped %d table(s)\n", len(tables))
	return nil
}

func (m *Migrator) state(ctx context.Context) ([]types.MigrationFile, map[string]types.AppliedMigration, error) {
	if err := m.adapter.CreateMigrationsTable(ctx); err != nil {
		return nil, nil, err
	}
	applied, err := m.adapter.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, nil, err
	}
	migrations, err := m.Load()
	if err != nil {
		return nil, nil, err
	}
	return migrations, applied, nil
}

func (m *Migrator) warnChanged(migrations []types.MigrationFile, applied map[string]types.AppliedMigration) {
	for _, mf := range migrations {
		if rec, ok := applied[mf.ID]; ok && rec.Checksum != mf.Checksum {
			color.New(color.FgYellow).Fprintf(m.out, "⚠️  Migration %s was modified after it was applied\n", mf.ID)
		}
	}
}

func generateChecksum(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}
