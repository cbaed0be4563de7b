package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	StockAPI StockAPIConfig
	Session  SessionConfig
	List     ListConfig
	Export   ExportConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StockAPIConfig contains connection options for the upstream stock API.
type StockAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig identifies the tenant and operator on whose behalf
// mutations are issued. These used to be guessed from loaded records;
// they are required inputs now.
type SessionConfig struct {
	StoreID string
	UserID  string
}

// ListConfig holds defaults for the paginated stock list.
type ListConfig struct {
	DefaultPageSize int
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	Dir          string
	CronSchedule string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("STOCK_API_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STOCK_API_TIMEOUT: %w", err)
	}

	pageSize, err := strconv.Atoi(getenvWithDefault("DEFAULT_PAGE_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_PAGE_SIZE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		StockAPI: StockAPIConfig{
			BaseURL: os.Getenv("STOCK_API_BASE_URL"),
			Timeout: timeout,
		},
		Session: SessionConfig{
			StoreID: os.Getenv("SESSION_STORE_ID"),
			UserID:  os.Getenv("SESSION_USER_ID"),
		},
		List: ListConfig{
			DefaultPageSize: pageSize,
		},
		Export: ExportConfig{
			Dir:          getenvWithDefault("EXPORT_DIR", "exports"),
			CronSchedule: os.Getenv("EXPORT_CRON_SCHEDULE"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Tokyo"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.StockAPI.BaseURL == "" {
		return errors.New("STOCK_API_BASE_URL must be provided")
	}

	switch {
	case c.Session.StoreID == "":
		return errors.New("SESSION_STORE_ID must be provided")
	case c.Session.UserID == "":
		return errors.New("SESSION_USER_ID must be provided")
	}

	if c.List.DefaultPageSize <= 0 {
		return errors.New("DEFAULT_PAGE_SIZE must be positive")
	}

	if c.Export.Dir == "" {
		return errors.New("EXPORT_DIR must not be empty")
	}

	// EXPORT_CRON_SCHEDULE is optional; empty disables the snapshot job.

	if c.Export.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
