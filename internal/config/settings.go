package config

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

const (
	AuthJWT           = "jwt"
	AuthLoginPassword = "login_password"

	DBPostgres = "postgresql"
	DBMySQL    = "mysql"
	DBSQLite   = "sqlite"
)

// Settings is the runtime configuration of the web service, read from the
// environment (and .env through godotenv).
type Settings struct {
	ProjectName string `mapstructure:"PROJECT_NAME" validate:"required"`
	Version     string `mapstructure:"VERSION"`

	AuthType string `mapstructure:"AUTH_TYPE" validate:"oneof=jwt login_password"`
	DBType   string `mapstructure:"DB_TYPE" validate:"oneof=postgresql mysql sqlite"`

	SecretKey                string `mapstructure:"SECRET_KEY" validate:"required"`
	Algorithm                string `mapstructure:"ALGORITHM" validate:"oneof=HS256 HS384 HS512"`
	AccessTokenExpireMinutes int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES" validate:"gt=0"`
	RefreshTokenExpireDays   int    `mapstructure:"REFRESH_TOKEN_EXPIRE_DAYS" validate:"gt=0"`

	SessionSecretKey     string `mapstructure:"SESSION_SECRET_KEY" validate:"required_if=AuthType login_password"`
	SessionExpireMinutes int    `mapstructure:"SESSION_EXPIRE_MINUTES" validate:"gt=0"`

	PostgresServer   string `mapstructure:"POSTGRES_SERVER"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`
	PostgresPort     int    `mapstructure:"POSTGRES_PORT"`

	MySQLServer   string `mapstructure:"MYSQL_SERVER"`
	MySQLUser     string `mapstructure:"MYSQL_USER"`
	MySQLPassword string `mapstructure:"MYSQL_PASSWORD"`
	MySQLDB       string `mapstructure:"MYSQL_DB"`
	MySQLPort     int    `mapstructure:"MYSQL_PORT"`

	SQLiteDBPath string `mapstructure:"SQLITE_DB_PATH"`

	CORSOrigins []string `mapstructure:"-"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"oneof=json text"`

	Host        string `mapstructure:"HOST"`
	Port        int    `mapstructure:"PORT" validate:"gt=0,lte=65535"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`
}

var settingDefaults = map[string]any{
	"PROJECT_NAME":                "Forge Service",
	"VERSION":                     "1.0.0",
	"AUTH_TYPE":                   AuthJWT,
	"DB_TYPE":                     DBPostgres,
	"SECRET_KEY":                  "",
	"ALGORITHM":                   "HS256",
	"ACCESS_TOKEN_EXPIRE_MINUTES": 30,
	"REFRESH_TOKEN_EXPIRE_DAYS":   7,
	"SESSION_SECRET_KEY":          "",
	"SESSION_EXPIRE_MINUTES":      60,
	"POSTGRES_SERVER":             "localhost",
	"POSTGRES_USER":               "postgres",
	"POSTGRES_PASSWORD":           "postgres",
	"POSTGRES_DB":                 "app_db",
	"POSTGRES_PORT":               5432,
	"MYSQL_SERVER":                "",
	"MYSQL_USER":                  "",
	"MYSQL_PASSWORD":              "",
	"MYSQL_DB":                    "",
	"MYSQL_PORT":                  3306,
	"SQLITE_DB_PATH":              "./data/app.db",
	"BACKEND_CORS_ORIGINS":        `["http://localhost:3000","http://localhost:8000"]`,
	"LOG_LEVEL":                   "INFO",
	"LOG_FORMAT":                  "json",
	"HOST":                        "0.0.0.0",
	"PORT":                        8000,
	"AUTO_MIGRATE":                false,
}

// ReadSettings reads the settings from the environment without validating
// them.
func ReadSettings() (*Settings, error) {
	v := viper.New()
	for key, value := range settingDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	s.CORSOrigins = ParseOrigins(v.GetString("BACKEND_CORS_ORIGINS"))
	return &s, nil
}

// LoadSettings reads and validates the settings.
func LoadSettings() (*Settings, error) {
	s, err := ReadSettings()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

var validate = validator.New()

func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if _, err := s.DatabaseURL(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// ParseOrigins accepts a JSON list or a comma separated list.
func ParseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var origins []string
		if err := json.Unmarshal([]byte(raw), &origins); err == nil {
			return origins
		}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (s *Settings) AccessTokenTTL() time.Duration {
	return time.Duration(s.AccessTokenExpireMinutes) * time.Minute
}

func (s *Settings) RefreshTokenTTL() time.Duration {
	return time.Duration(s.RefreshTokenExpireDays) * 24 * time.Hour
}

func (s *Settings) SessionTTL() time.Duration {
	return time.Duration(s.SessionExpireMinutes) * time.Minute
}

// Addr is the listen address of the HTTP server.
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func (s *Settings) mysqlComplete() bool {
	return s.MySQLServer != "" && s.MySQLUser != "" && s.MySQLPassword != "" && s.MySQLDB != ""
}

func (s *Settings) postgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(s.PostgresUser, s.PostgresPassword),
		Host:     net.JoinHostPort(s.PostgresServer, strconv.Itoa(s.PostgresPort)),
		Path:     "/" + s.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// DatabaseURL returns the DSN the ORM connects with for DB_TYPE.
func (s *Settings) DatabaseURL() (string, error) {
	switch s.DBType {
	case DBPostgres:
		return s.postgresURL(), nil
	case DBMySQL:
		if !s.mysqlComplete() {
			return "", fmt.Errorf("MySQL configuration is incomplete")
		}
		cfg := mysql.NewConfig()
		cfg.User = s.MySQLUser
		cfg.Passwd = s.MySQLPassword
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(s.MySQLServer, strconv.Itoa(s.MySQLPort))
		cfg.DBName = s.MySQLDB
		cfg.ParseTime = true
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return cfg.FormatDSN(), nil
	case DBSQLite:
		return s.SQLiteDBPath, nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", s.DBType)
	}
}

// MigrationURL returns the URL form understood by the migration adapters.
func (s *Settings) MigrationURL() (string, error) {
	switch s.DBType {
	case DBPostgres:
		return s.postgresURL(), nil
	case DBMySQL:
		if !s.mysqlComplete() {
			return "", fmt.Errorf("MySQL configuration is incomplete")
		}
		u := url.URL{
			Scheme: "mysql",
			User:   url.UserPassword(s.MySQLUser, s.MySQLPassword),
			Host:   net.JoinHostPort(s.MySQLServer, strconv.Itoa(s.MySQLPort)),
			Path:   "/" + s.MySQLDB,
		}
		return u.String(), nil
	case DBSQLite:
		return "sqlite://" + s.SQLiteDBPath, nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", s.DBType)
	}
}
