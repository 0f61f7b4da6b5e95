package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	AuditTransactional = "transactional"
	AuditBestEffort    = "best_effort"

	defaultJWTSecret = "dev-only-secret-change-me-in-production"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Admin    AdminConfig
	Log      LogConfig

	// AuditMode selects how history rows are written relative to product writes.
	AuditMode string
}

type ServerConfig struct {
	Port         string
	AppName      string
	CORSOrigins  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecure bool
}

// AdminConfig describes the account seeded at startup when it does not exist yet.
type AdminConfig struct {
	Username string
	Password string
	Email    string
	Name     string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			AppName:      getEnv("APP_NAME", "Inventory History v1.0"),
			CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
			CookieName:   getEnv("COOKIE_NAME", "token"),
			CookieSecure: getEnvBool("COOKIE_SECURE", false),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
			Email:    getEnv("ADMIN_EMAIL", "admin@inventory.com"),
			Name:     getEnv("ADMIN_NAME", "Administrator"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", true),
		},
		AuditMode: strings.ToLower(getEnv("AUDIT_MODE", AuditTransactional)),
	}

	switch cfg.Database.Driver {
	case DriverSQLite:
		cfg.Database.URL = getEnv("DATABASE_URL", "file:inventory.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	case DriverPostgres:
		cfg.Database.URL = os.Getenv("DATABASE_URL")
		if cfg.Database.URL == "" {
			cfg.Database.URL = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				getEnv("DB_HOST", "localhost"),
				getEnv("DB_USER", "postgres"),
				getEnv("DB_PASSWORD", "postgres"),
				getEnv("DB_NAME", "inventory"),
				getEnv("DB_PORT", "5432"),
			)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", cfg.Database.Driver, DriverSQLite, DriverPostgres)
	}

	switch cfg.AuditMode {
	case AuditTransactional, AuditBestEffort:
	default:
		return nil, fmt.Errorf("unsupported AUDIT_MODE %q (want %s or %s)", cfg.AuditMode, AuditTransactional, AuditBestEffort)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, using the development secret")
		cfg.Auth.JWTSecret = defaultJWTSecret
	} else if len(cfg.Auth.JWTSecret) < 32 {
		log.Warn().Int("length", len(cfg.Auth.JWTSecret)).Msg("JWT_SECRET is shorter than 32 characters")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer, using default")
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid boolean, using default")
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid duration, using default")
	}
	return defaultValue
}
