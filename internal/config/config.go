package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"skill-swap/internal/types/environments"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	UploadDriverLocal = "local"
	UploadDriverS3    = "s3"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Upload   UploadConfig
}

type AppConfig struct {
	AppName            string
	Environment        environments.Environment
	HTTPPort           string
	BasePath           string
	PublicURL          string
	CORSAllowedOrigins []string
	StorageDriver      string
	BcryptCost         int
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout      time.Duration
	PoolMaxConns        int32
	PoolMinConns        int32
	PoolMaxConnLifetime time.Duration
	PoolMaxConnIdleTime time.Duration
	AutoMigrate         bool
}

type JWTConfig struct {
	Secret         string
	ExpiresIn      time.Duration
	ResetExpiresIn time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type UploadConfig struct {
	Driver        string
	Dir           string
	URLPrefix     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Prefix      string
	PublicBaseURL string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads configuration from the process environment. Values from
// .env.<APP_ENV> and .env are applied first without overriding variables
// that are already set.
func Load() (Config, error) {
	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = string(environments.Development)
	}
	_ = godotenv.Load(".env." + env)
	_ = godotenv.Load(".env")

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	optInt := func(key string, def int) int {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:            req("APP_NAME"),
		Environment:        environments.Parse(req("APP_ENV")),
		HTTPPort:           req("HTTP_PORT"),
		BasePath:           strings.TrimRight(opt("HTTP_BASE_PATH", "/api"), "/"),
		PublicURL:          strings.TrimRight(opt("APP_URL", "http://localhost:3000"), "/"),
		CORSAllowedOrigins: splitList(opt("CORS_ALLOWED_ORIGINS", "*")),
		StorageDriver:      opt("STORAGE_DRIVER", StorageDriverPostgres),
		BcryptCost:         optInt("BCRYPT_COST", 12),
	}
	switch cfg.App.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		invalid = append(invalid, "STORAGE_DRIVER")
	}

	cfg.Database = DatabaseConfig{
		DBHost:              opt("DB_HOST", "localhost"),
		DBPort:              opt("DB_PORT", "5432"),
		DBName:              opt("DB_NAME", ""),
		DBUser:              opt("DB_USER", ""),
		DBPassword:          strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		DBSSLMode:           opt("DB_SSL_MODE", "disable"),
		ConnectTimeout:      optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:        int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:        int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime: optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime: optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		AutoMigrate:         optBool("DB_AUTO_MIGRATE", false),
	}
	if cfg.App.StorageDriver == StorageDriverPostgres {
		if cfg.Database.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
		if cfg.Database.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
	}

	cfg.JWT = JWTConfig{
		Secret:         req("JWT_SECRET"),
		ExpiresIn:      optDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		ResetExpiresIn: optDuration("JWT_RESET_EXPIRES_IN", time.Hour),
	}

	cfg.Redis = RedisConfig{
		Enabled:  optBool("REDIS_ENABLED", false),
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DB:       optInt("REDIS_DB", 0),
		TTL:      optDuration("REDIS_TTL", 60*time.Second),
	}

	cfg.Upload = UploadConfig{
		Driver:        opt("UPLOAD_DRIVER", UploadDriverLocal),
		Dir:           opt("UPLOAD_DIR", "public/uploads"),
		URLPrefix:     strings.TrimRight(opt("UPLOAD_URL_PREFIX", "/uploads"), "/"),
		S3Bucket:      opt("UPLOAD_S3_BUCKET", ""),
		S3Region:      opt("UPLOAD_S3_REGION", "us-east-1"),
		S3Endpoint:    opt("UPLOAD_S3_ENDPOINT", ""),
		S3AccessKey:   opt("UPLOAD_S3_ACCESS_KEY", ""),
		S3SecretKey:   strings.TrimSpace(os.Getenv("UPLOAD_S3_SECRET_KEY")),
		S3Prefix:      strings.Trim(opt("UPLOAD_S3_PREFIX", "uploads"), "/"),
		PublicBaseURL: strings.TrimRight(opt("UPLOAD_PUBLIC_BASE_URL", ""), "/"),
	}
	switch cfg.Upload.Driver {
	case UploadDriverLocal:
	case UploadDriverS3:
		if cfg.Upload.S3Bucket == "" {
			missing = append(missing, "UPLOAD_S3_BUCKET")
		}
	default:
		invalid = append(invalid, "UPLOAD_DRIVER")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// DSN renders a keyword/value connection string. Empty settings are left
// out and values are quoted so passwords may contain spaces.
func (c DatabaseConfig) DSN() string {
	pairs := [][2]string{
		{"host", c.DBHost},
		{"port", c.DBPort},
		{"user", c.DBUser},
		{"password", c.DBPassword},
		{"dbname", c.DBName},
		{"sslmode", c.DBSSLMode},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		parts = append(parts, p[0]+"="+quoteDSNValue(p[1]))
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
