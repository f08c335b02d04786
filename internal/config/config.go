package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage driver names accepted by STORAGE_DRIVER.
const (
	StorageDriverFile  = "file"
	StorageDriverMongo = "mongo"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Storage StorageConfig
	Refresh RefreshConfig
}

// ServerConfig holds options for the register's local HTTP surface.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// BackendConfig describes how to reach the inventory/sales API.
type BackendConfig struct {
	BaseURL       string
	SessionCookie string
	Timeout       time.Duration
}

// StorageConfig selects and parameterizes the durable cart slot.
type StorageConfig struct {
	Driver     string
	Dir        string // file driver: directory holding the cart slot and journal
	MongoURI   string
	MongoDB    string
	RegisterID string // keys the cart slot when registers share a store
}

// RefreshConfig holds the background catalog refresh schedule.
type RefreshConfig struct {
	CronSchedule string // empty disables the background refresh
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

	timeoutSec, err := strconv.Atoi(getenvWithDefault("BACKEND_TIMEOUT_SEC", "15"))
	if err != nil {
		return nil, fmt.Errorf("BACKEND_TIMEOUT_SEC must be an integer: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "3000"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Backend: BackendConfig{
			BaseURL:       getenvWithDefault("BACKEND_BASE_URL", "http://localhost:8080/api"),
			SessionCookie: os.Getenv("BACKEND_SESSION_COOKIE"),
			Timeout:       time.Duration(timeoutSec) * time.Second,
		},
		Storage: StorageConfig{
			Driver:     getenvWithDefault("STORAGE_DRIVER", StorageDriverFile),
			Dir:        getenvWithDefault("STORAGE_DIR", "./data"),
			MongoURI:   os.Getenv("MONGODB_URI"),
			MongoDB:    getenvWithDefault("MONGODB_DB_NAME", "barpos"),
			RegisterID: getenvWithDefault("REGISTER_ID", "register-1"),
		},
		Refresh: RefreshConfig{
			CronSchedule: os.Getenv("CATALOG_REFRESH_CRON"),
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

	if c.Backend.BaseURL == "" {
		return errors.New("BACKEND_BASE_URL must not be empty")
	}

	if c.Backend.Timeout <= 0 {
		return errors.New("BACKEND_TIMEOUT_SEC must be positive")
	}

	switch c.Storage.Driver {
	case StorageDriverFile:
		if c.Storage.Dir == "" {
			return errors.New("STORAGE_DIR must be provided for the file driver")
		}
	case StorageDriverMongo:
		if c.Storage.MongoURI == "" {
			return errors.New("MONGODB_URI must be provided for the mongo driver")
		}
		if c.Storage.MongoDB == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Storage.RegisterID == "" {
		return errors.New("REGISTER_ID must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
