package config

import (
	"errors"
	"fmt"
	"net/url"

	"vidctl/internal/ident"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAPI() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host, got %q", c.API.BaseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return errors.New("api.base_url must not carry a query or fragment")
	}
	if c.API.ApplicationID != "" {
		if _, err := ident.Parse(c.API.ApplicationID); err != nil {
			return fmt.Errorf("api.application_id: %w", err)
		}
	}
	if c.API.GatewayID != "" {
		if _, err := ident.Parse(c.API.GatewayID); err != nil {
			return fmt.Errorf("api.gateway_id: %w", err)
		}
	}
	if c.API.TimeoutSeconds < 0 {
		return errors.New("api.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.BusyRetries < 0 {
		return errors.New("store.busy_retries must be >= 0")
	}
	if c.Store.BusyTimeoutMillis < 0 {
		return errors.New("store.busy_timeout_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
