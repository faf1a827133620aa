// ABOUTME: Runtime configuration for the leadcoach CLI and MCP server
// ABOUTME: Layers defaults, an optional YAML file, an optional .env file and LEADCOACH_* variables
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const appName = "leadcoach"

type Config struct {
	DBPath            string  `yaml:"db_path"`
	CatalogPath       string  `yaml:"catalog_path"`
	LogLevel          string  `yaml:"log_level"`
	Currency          string  `yaml:"currency"`
	QuoteValidityDays int     `yaml:"quote_validity_days"`
	BudgetTolerance   float64 `yaml:"budget_tolerance"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DBPath:            DefaultDBPath(),
		LogLevel:          "info",
		QuoteValidityDays: 7,
		BudgetTolerance:   1.2,
	}
}

// DefaultDBPath is the lead database under the XDG data directory.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, appName, "leads.db")
}

// DefaultPath is the config file under the XDG config directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load builds the configuration. An empty path means DefaultPath; a missing file
// at the default location is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// .env is optional; variables already set in the environment win
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LEADCOACH_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("LEADCOACH_CATALOG_PATH"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv("LEADCOACH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LEADCOACH_CURRENCY"); v != "" {
		c.Currency = v
	}
	if v := os.Getenv("LEADCOACH_QUOTE_VALIDITY_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LEADCOACH_QUOTE_VALIDITY_DAYS %q: %w", v, err)
		}
		c.QuoteValidityDays = n
	}
	if v := os.Getenv("LEADCOACH_BUDGET_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid LEADCOACH_BUDGET_TOLERANCE %q: %w", v, err)
		}
		c.BudgetTolerance = f
	}
	return nil
}

func (c *Config) Validate() error {
	if c.QuoteValidityDays <= 0 {
		return fmt.Errorf("quote_validity_days must be positive, got %d", c.QuoteValidityDays)
	}
	if c.BudgetTolerance < 1 {
		return fmt.Errorf("budget_tolerance must be at least 1, got %v", c.BudgetTolerance)
	}
	return nil
}

// Tolerance returns BudgetTolerance as a decimal for quote pricing.
func (c *Config) Tolerance() decimal.Decimal {
	return decimal.NewFromFloat(c.BudgetTolerance)
}
