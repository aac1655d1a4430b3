package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// FileName is the project configuration file written by `forge init`.
const FileName = "forge.config.json"

type Config struct {
	Module         string   `json:"module" mapstructure:"module"`
	MigrationsPath string   `json:"migrations_path" mapstructure:"migrations_path"`
	BackupPath     string   `json:"backup_path" mapstructure:"backup_path"`
	Database       Database `json:"database" mapstructure:"database"`
	Scaffold       Scaffold `json:"scaffold" mapstructure:"scaffold"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Scaffold struct {
	Dir string `json:"dir" mapstructure:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		MigrationsPath: "db/migrations",
		BackupPath:     "db/backups",
		Database: Database{
			Provider: "postgresql",
			URLEnv:   "DATABASE_URL",
		},
		Scaffold: Scaffold{Dir: "."},
	}
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	def := DefaultConfig()
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = def.MigrationsPath
	}
	if cfg.BackupPath == "" {
		cfg.BackupPath = def.BackupPath
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = def.Database.Provider
		if dbType := os.Getenv("DB_TYPE"); dbType != "" {
			cfg.Database.Provider = dbType
		}
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = def.Database.URLEnv
	}
	if cfg.Scaffold.Dir == "" {
		cfg.Scaffold.Dir = def.Scaffold.Dir
	}

	return &cfg, nil
}

// GetDatabaseURL reads the migration database URL from the configured
// environment variable. When it is unset the URL is derived from the service
// settings (DB_TYPE and friends).
func (c *Config) GetDatabaseURL() (string, error) {
	if dbURL := os.Getenv(c.Database.URLEnv); dbURL != "" {
		return dbURL, nil
	}
	settings, err := ReadSettings()
	if err != nil {
		return "", err
	}
	dbURL, err := settings.MigrationURL()
	if err != nil {
		return "", fmt.Errorf("database URL not found in environment variable %s: %w", c.Database.URLEnv, err)
	}
	return dbURL, nil
}

func (c *Config) EnsureDirectories() error {
	if c.MigrationsPath == "" || c.MigrationsPath == "." {
		return nil
	}
	if err := os.MkdirAll(c.MigrationsPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.MigrationsPath, err)
	}
	return nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.MigrationsPath == "" {
		return fmt.Errorf("migrations_path cannot be empty")
	}

	return nil
}

// IsInitialized reports whether forge.config.json exists in the working
// directory.
func IsInitialized() bool {
	_, err := os.Stat(FileName)
	return err == nil
}
