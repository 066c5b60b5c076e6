package main

import (
	"audex/internal/config"
)

// commandContext lazily loads configuration once and shares it across
// subcommands.
type commandContext struct {
	configFlag *string

	cfg        *config.Config
	configPath string
	loaded     bool
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads and caches the configuration named by the --config
// flag, falling back to the default search path.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.loaded {
		return c.cfg, nil
	}

	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolved, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.configPath = resolved
	c.loaded = true
	return cfg, nil
}
