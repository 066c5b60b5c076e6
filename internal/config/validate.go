package config

import (
	"errors"
	"fmt"
)

var knownFormats = map[string]bool{
	"parquet": true,
	"pq":      true,
	"arrow":   true,
	"arrows":  true,
	"ipc":     true,
}

var knownLogFormats = map[string]bool{
	"auto":    true,
	"console": true,
	"json":    true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateColumns(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateExtract() error {
	if !knownFormats[c.Extract.Format] {
		return fmt.Errorf("extract.format: unknown format %q (expected parquet or arrow)", c.Extract.Format)
	}
	if c.Extract.Workers < 1 {
		return errors.New("extract.workers must be at least 1")
	}
	if c.Extract.Workers > 256 {
		return errors.New("extract.workers must be 256 or fewer")
	}
	return nil
}

func (c *Config) validateColumns() error {
	if c.Columns.Bytes == "" {
		return errors.New("columns.bytes must be set")
	}
	if c.Columns.Path == "" {
		return errors.New("columns.path must be set")
	}
	if c.Columns.Bytes == c.Columns.Path {
		return errors.New("columns.bytes and columns.path must name different columns")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !knownLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
