package testsupport

import (
	"path/filepath"
	"testing"

	"vidctl/internal/config"
	"vidctl/internal/ident"
)

// ConfigOption adjusts a generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig returns a valid config whose store lives under a fresh temp
// directory. Options run before validation.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.API.Token = "test-token"
	cfg.API.BaseURL = "http://127.0.0.1:0"
	cfg.Store.Path = filepath.Join(t.TempDir(), "state", "vidctl.db")
	cfg.Store.BusyRetries = 2
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithBaseURL points the API client at url, typically an httptest server.
func WithBaseURL(url string) ConfigOption {
	return func(c *config.Config) { c.API.BaseURL = url }
}

// WithToken overrides the API token; an empty token simulates a missing one.
func WithToken(token string) ConfigOption {
	return func(c *config.Config) { c.API.Token = token }
}

// WithApplication sets the default application id.
func WithApplication(id ident.ID) ConfigOption {
	return func(c *config.Config) { c.API.ApplicationID = id.String() }
}
