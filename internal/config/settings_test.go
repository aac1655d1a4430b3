package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSettingsDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")

	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, AuthJWT, s.AuthType)
	assert.Equal(t, DBPostgres, s.DBType)
	assert.Equal(t, "HS256", s.Algorithm)
	assert.Equal(t, 30*time.Minute, s.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, s.RefreshTokenTTL())
	assert.Equal(t, time.Hour, s.SessionTTL())
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8000"}, s.CORSOrigins)
	assert.Equal(t, "0.0.0.0:8000", s.Addr())
}

func TestLoadSettingsRequiresSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestLoadSettingsSessionNeedsSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("AUTH_TYPE", AuthLoginPassword)
	t.Setenv("SESSION_SECRET_KEY", "")

	_, err := LoadSettings()
	assert.Error(t, err)

	t.Setenv("SESSION_SECRET_KEY", "session-secret")
	_, err = LoadSettings()
	assert.NoError(t, err)
}

func TestLoadSettingsRejectsUnknownAuthType(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("AUTH_TYPE", "oauth2")

	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, ParseOrigins(`["http://a","http://b"]`))
	assert.Equal(t, []string{"http://a", "http://b"}, ParseOrigins("http://a, http://b"))
	assert.Nil(t, ParseOrigins(" "))
}

func TestDatabaseURL(t *testing.T) {
	s := &Settings{
		DBType:           DBPostgres,
		PostgresServer:   "db",
		PostgresUser:     "app",
		PostgresPassword: "p@ss",
		PostgresDB:       "shop",
		PostgresPort:     5432,
	}
	dsn, err := s.DatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:p%40ss@db:5432/shop?sslmode=disable", dsn)

	s = &Settings{DBType: DBSQLite, SQLiteDBPath: "./data/app.db"}
	dsn, err = s.DatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "./data/app.db", dsn)

	migrationURL, err := s.MigrationURL()
	require.NoError(t, err)
	assert.Equal(t, "sqlite://./data/app.db", migrationURL)
}

func TestDatabaseURLMySQL(t *testing.T) {
	s := &Settings{DBType: DBMySQL, MySQLServer: "db", MySQLPort: 3306}
	_, err := s.DatabaseURL()
	assert.EqualError(t, err, "MySQL configuration is incomplete")

	s.MySQLUser, s.MySQLPassword, s.MySQLDB = "app", "secret", "shop"
	dsn, err := s.DatabaseURL()
	require.NoError(t, err)
	assert.Contains(t, dsn, "app:secret@tcp(db:3306)/shop?")
	assert.Contains(t, dsn, "parseTime=true")

	migrationURL, err := s.MigrationURL()
	require.NoError(t, err)
	assert.Equal(t, "mysql://app:secret@db:3306/shop", migrationURL)
}

func TestDatabaseURLUnknownType(t *testing.T) {
	s := &Settings{DBType: "oracle"}
	_, err := s.DatabaseURL()
	assert.EqualError(t, err, "unsupported database type: oracle")
}
