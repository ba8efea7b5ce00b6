package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAPI()
	if err := c.normalizeStore(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeAPI() {
	if c.API.Token == "" {
		if value, ok := os.LookupEnv(envAPIToken); ok {
			c.API.Token = value
		}
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
	if value, ok := os.LookupEnv(envBaseURL); ok && strings.TrimSpace(value) != "" && c.API.BaseURL == defaultBaseURL {
		c.API.BaseURL = value
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	c.API.ApplicationID = strings.TrimSpace(c.API.ApplicationID)
	c.API.GatewayID = strings.TrimSpace(c.API.GatewayID)
	c.API.UserAgent = strings.TrimSpace(c.API.UserAgent)
	if c.API.UserAgent == "" {
		c.API.UserAgent = defaultUserAgent
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeStore() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = defaultStorePath()
	}
	var err error
	if c.Store.Path, err = ExpandPath(strings.TrimSpace(c.Store.Path)); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	if c.Store.BusyTimeoutMillis == 0 {
		c.Store.BusyTimeoutMillis = defaultBusyTimeoutMillis
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = ExpandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
