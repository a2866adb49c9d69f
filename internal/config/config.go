package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds all application configuration
type Config struct {
	Port          string
	StorageDriver string
	StoragePath   string // JSON file for the file driver
	SQLitePath    string
	MongoURI      string
	DBName        string
	LogLevel      string // "debug", "info", "warn", "error"
	LogFile       string // empty disables file logging
	AllowedOrigin []string

	// Email notifications via Resend; empty key keeps notifications in the log
	ResendAPIKey    string
	NotifyEmailFrom string
	NotifyEmailTo   []string
}

// Load reads .env (if any) and then the process environment.
func Load() *Config {
	// .env is optional; real env vars always win
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverFile)),
		StoragePath:   getEnv("STORAGE_PATH", "data/feedback.json"),
		SQLitePath:    getEnv("SQLITE_PATH", "data/feedback.db"),
		MongoURI:      getEnv("MONGODB_URI", ""),
		DBName:        getEnv("DB_NAME", "feedback"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:       getEnv("LOG_FILE", ""),
		AllowedOrigin: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		NotifyEmailFrom: getEnv("NOTIFY_EMAIL_FROM", ""),
		NotifyEmailTo:   splitList(getEnv("NOTIFY_EMAIL_TO", "")),
	}
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverFile:
		if c.StoragePath == "" {
			return fmt.Errorf("STORAGE_PATH is required for the %s driver", DriverFile)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s driver", DriverSQLite)
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the %s driver", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.EmailNotifications() {
		if c.NotifyEmailFrom == "" {
			return fmt.Errorf("NOTIFY_EMAIL_FROM is required when RESEND_API_KEY is set")
		}
		if len(c.NotifyEmailTo) == 0 {
			return fmt.Errorf("NOTIFY_EMAIL_TO is required when RESEND_API_KEY is set")
		}
	}
	return nil
}

func (c *Config) EmailNotifications() bool {
	return c.ResendAPIKey != ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
