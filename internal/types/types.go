package types

import (
	"time"
)

// MigrationFile is one parsed db/migrations/<id>_<name>.sql file.
type MigrationFile struct {
	// ID is the file stem, e.g. 20240101120000_create_posts
	ID       string
	Name     string
	Up       string
	Down     string
	Checksum string
	FilePath string
}

// AppliedMigration is a row of the migrations table.
type AppliedMigration struct {
	ID        string    `json:"id"`
	Name      string    `json:"migration_name"`
	Checksum  string    `json:"checksum"`
	AppliedAt time.Time `json:"applied_at"`
}

const (
	StatusApplied = "applied"
	StatusPending = "pending"
	// StatusMissing marks a recorded migration whose file is gone.
	StatusMissing = "missing"
)

type MigrationStatusItem struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Status           string     `json:"status"`
	AppliedAt        *time.Time `json:"applied_at,omitempty"`
	ChecksumMismatch bool       `json:"checksum_mismatch,omitempty"`
}

type MigrationStatus struct {
	TotalMigrations   int                   `json:"total_migrations"`
	AppliedMigrations int                   `json:"applied_migrations"`
	PendingMigrations int                   `json:"pending_migrations"`
	Migrations        []MigrationStatusItem `json:"migrations"`
}

// BackupData is the JSON document written before a reset.
type BackupData struct {
	Timestamp  string                      `json:"timestamp"`
	Comment    string                      `json:"comment,omitempty"`
	Migrations []AppliedMigration          `json:"migrations"`
	Tables     map[string][]map[string]any `json:"tables"`
}
