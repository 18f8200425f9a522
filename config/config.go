package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	HTTPPort int
	GinMode  string

	StorageDriver string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresMaxConns int32

	SecretKey           string
	SessionTTL          time.Duration
	SessionCookieSecure bool

	AdminBotToken string
	AdminChatID   int64
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "taxiservice"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))

	cfg.HTTPPort = cast.ToInt(getOrReturnDefault("HTTP_PORT", 8080))
	cfg.GinMode = cast.ToString(getOrReturnDefault("GIN_MODE", "debug"))

	cfg.StorageDriver = cast.ToString(getOrReturnDefault("STORAGE_DRIVER", StoragePostgres))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "1234"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "taxi_service"))
	cfg.PostgresSSLMode = cast.ToString(getOrReturnDefault("POSTGRES_SSLMODE", "disable"))
	cfg.PostgresMaxConns = cast.ToInt32(getOrReturnDefault("POSTGRES_MAX_CONNS", 10))

	cfg.SecretKey = cast.ToString(getOrReturnDefault("SECRET_KEY", ""))
	cfg.SessionTTL = cast.ToDuration(getOrReturnDefault("SESSION_TTL", "336h"))
	cfg.SessionCookieSecure = cast.ToBool(getOrReturnDefault("SESSION_COOKIE_SECURE", false))

	cfg.AdminBotToken = cast.ToString(getOrReturnDefault("ADMIN_BOT_TOKEN", ""))
	cfg.AdminChatID = cast.ToInt64(getOrReturnDefault("ADMIN_CHAT_ID", 0))

	return cfg
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if c.SecretKey == "" && c.GinMode == "release" {
		return fmt.Errorf("SECRET_KEY is required in release mode")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

func (c Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

// SigningKey falls back to a fixed development key when SECRET_KEY is unset.
func (c Config) SigningKey() []byte {
	if c.SecretKey == "" {
		return []byte("taxiservice-insecure-development-key")
	}
	return []byte(c.SecretKey)
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
