package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vidctl/internal/client"
	"vidctl/internal/config"
	"vidctl/internal/logging"
	"vidctl/internal/store"
)

type commandContext struct {
	configFlag *string
	outputFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, outputFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		outputFlag: outputFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// log returns the configured logger, or a discarding one when the logging
// section cannot be honoured.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err == nil {
			c.logger, err = logging.NewFromConfig(cfg)
		}
		if err != nil || c.logger == nil {
			c.logger = logging.NewNop()
		}
	})
	return c.logger
}

func (c *commandContext) withClient(fn func(*client.Client) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	api, err := client.NewFromConfig(cfg, c.log())
	if err != nil {
		return err
	}
	return fn(api)
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg, c.log())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func (c *commandContext) output() string {
	if c.outputFlag == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*c.outputFlag))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
