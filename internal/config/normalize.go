package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtract()
	c.normalizeColumns()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ManifestDB) != "" {
		if c.Paths.ManifestDB, err = expandPath(c.Paths.ManifestDB); err != nil {
			return fmt.Errorf("paths.manifest_db: %w", err)
		}
	} else {
		c.Paths.ManifestDB = ""
	}
	return nil
}

func (c *Config) normalizeExtract() {
	c.Extract.Format = strings.ToLower(strings.TrimSpace(c.Extract.Format))
	if c.Extract.Format == "" {
		c.Extract.Format = defaultFormat
	}
	if c.Extract.Workers == 0 {
		c.Extract.Workers = defaultWorkers
	}
	c.Extract.MetadataFile = strings.TrimSpace(c.Extract.MetadataFile)
}

func (c *Config) normalizeColumns() {
	c.Columns.Audio = strings.TrimSpace(c.Columns.Audio)
	c.Columns.Bytes = strings.TrimSpace(c.Columns.Bytes)
	c.Columns.Path = strings.TrimSpace(c.Columns.Path)
	c.Columns.Transcription = strings.TrimSpace(c.Columns.Transcription)
	if c.Columns.Bytes == "" {
		c.Columns.Bytes = defaultBytesColumn
	}
	if c.Columns.Path == "" {
		c.Columns.Path = defaultPathColumn
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
