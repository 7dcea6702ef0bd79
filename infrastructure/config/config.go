package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultPath is read when no explicit config file is given and it exists.
const DefaultPath = "tradeboard.yaml"

// Config is shared by the dashboard, the trade API and the terminal client.
type Config struct {
	Dashboard struct {
		Addr               string `yaml:"addr"`
		APIBaseURL         string `yaml:"apiBaseURL"`
		PublicURL          string `yaml:"publicURL"`
		RequestTimeoutSecs int    `yaml:"requestTimeoutSecs"`
		RowsPerPageOptions []int  `yaml:"rowsPerPageOptions"`
		DefaultRowsPerPage int    `yaml:"defaultRowsPerPage"`
	} `yaml:"dashboard"`
	API struct {
		Addr       string `yaml:"addr"`
		SQLitePath string `yaml:"sqlitePath"`
		SeedPath   string `yaml:"seedPath"`
	} `yaml:"api"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.Dashboard.Addr = ":8080"
	c.Dashboard.APIBaseURL = "http://127.0.0.1:5000"
	c.Dashboard.PublicURL = "http://localhost:8080"
	c.Dashboard.RequestTimeoutSecs = 10
	c.Dashboard.RowsPerPageOptions = []int{5, 10, 25, 50, 100}
	c.Dashboard.DefaultRowsPerPage = 100
	c.API.Addr = ":5000"
	c.API.SQLitePath = "trades.db"
	c.API.SeedPath = DefaultSeedPath
	c.Log.Level = "info"
	return c
}

// Load reads path over the defaults and then applies environment overrides.
//
// An empty path falls back to DefaultPath; a missing DefaultPath is not an error,
// a missing explicit path is.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.Dashboard.Addr = getenv("APP_ADDR", c.Dashboard.Addr)
	c.Dashboard.APIBaseURL = getenv("TRADE_API_BASE_URL", c.Dashboard.APIBaseURL)
	c.Dashboard.PublicURL = getenv("PUBLIC_URL", c.Dashboard.PublicURL)
	c.API.Addr = getenv("API_ADDR", c.API.Addr)
	c.API.SQLitePath = getenv("SQLITE_PATH", c.API.SQLitePath)
	c.API.SeedPath = getenv("SEED_PATH", c.API.SeedPath)
	c.Log.Level = getenv("LOG_LEVEL", c.Log.Level)
}

// Validate rejects configurations the dashboard cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dashboard.APIBaseURL) == "" {
		return fmt.Errorf("dashboard.apiBaseURL is required")
	}
	if len(c.Dashboard.RowsPerPageOptions) == 0 {
		return fmt.Errorf("dashboard.rowsPerPageOptions must not be empty")
	}
	found := false
	for _, n := range c.Dashboard.RowsPerPageOptions {
		if n <= 0 {
			return fmt.Errorf("dashboard.rowsPerPageOptions must be positive, got %d", n)
		}
		if n == c.Dashboard.DefaultRowsPerPage {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("dashboard.defaultRowsPerPage %d is not one of rowsPerPageOptions", c.Dashboard.DefaultRowsPerPage)
	}
	return nil
}

// RequestTimeout bounds each call to the trade API.
func (c *Config) RequestTimeout() time.Duration {
	if c.Dashboard.RequestTimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Dashboard.RequestTimeoutSecs) * time.Second
}

// LogLevel maps log.level onto slog; unknown values mean info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger builds the process logger and installs it as the slog default.
func (c *Config) NewLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel()}))
	slog.SetDefault(logger)
	return logger
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
