package config

import (
	"testing"
	"time"

	"skill-swap/internal/types/environments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "SkillSwap")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "memory")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, environments.Test, cfg.App.Environment)
	assert.Equal(t, "/api", cfg.App.BasePath)
	assert.Equal(t, []string{"*"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, 12, cfg.App.BcryptCost)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, time.Hour, cfg.JWT.ResetExpiresIn)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 60*time.Second, cfg.Redis.TTL)
	assert.Equal(t, UploadDriverLocal, cfg.Upload.Driver)
	assert.Equal(t, "/uploads", cfg.Upload.URLPrefix)
}

func TestLoad_MissingRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("HTTP_PORT", "")

	_, err := Load()
	require.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestLoad_PostgresRequiresDatabaseSettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_USER", "")

	_, err := Load()
	require.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "DB_NAME")
}

func TestLoad_InvalidValues(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_EXPIRES_IN", "soon")
	t.Setenv("UPLOAD_DRIVER", "ftp")

	_, err := Load()
	require.ErrorIs(t, err, errInvalidEnv)
	assert.Contains(t, err.Error(), "JWT_EXPIRES_IN")
	assert.Contains(t, err.Error(), "UPLOAD_DRIVER")
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPLOAD_DRIVER", "s3")
	t.Setenv("UPLOAD_S3_BUCKET", "")

	_, err := Load()
	require.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "UPLOAD_S3_BUCKET")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{DBHost: "db", DBPort: "5432", DBUser: "app", DBPassword: "it's secret", DBName: "swap", DBSSLMode: "disable"}
	assert.Equal(t, `host='db' port='5432' user='app' password='it\'s secret' dbname='swap' sslmode='disable'`, c.DSN())

	c.DBPassword = ""
	assert.NotContains(t, c.DSN(), "password")
}
