package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.validateStore(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if err := c.validateExport(); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if r := c.Capture.MinEnglishRatio; r <= 0 || r > 1 {
		return fmt.Errorf("capture.min_english_ratio must be in (0, 1] (got %v)", r)
	}
	if c.Capture.RatePerMinute <= 0 {
		return fmt.Errorf("capture.rate_per_minute must be > 0 (got %d)", c.Capture.RatePerMinute)
	}

	if c.Enrichment.Timeout <= 0 {
		return fmt.Errorf("enrichment.timeout must be > 0 (got %s)", c.Enrichment.Timeout)
	}

	return nil
}

func (c *Config) validateStore() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	case StoreDriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown driver %q (want %s or %s)", c.Store.Driver, StoreDriverPostgres, StoreDriverSQLite)
	}
	return nil
}

func (c *Config) validateExport() error {
	c.Export.Driver = strings.ToLower(strings.TrimSpace(c.Export.Driver))
	switch c.Export.Driver {
	case ExportDriverFS:
		if c.Export.Dir == "" {
			return fmt.Errorf("dir is required for the fs driver")
		}
	case ExportDriverS3:
		if c.Export.Bucket == "" {
			return fmt.Errorf("bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown driver %q (want %s or %s)", c.Export.Driver, ExportDriverFS, ExportDriverS3)
	}
	return nil
}
