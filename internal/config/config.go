package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"vidctl/internal/ident"
)

//go:embed sample_config.toml
var sampleConfig string

// API contains connection settings for the orchestration API.
type API struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	ApplicationID  string `toml:"application_id"`
	GatewayID      string `toml:"gateway_id"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Store contains settings for the local SQLite record cache.
type Store struct {
	Path              string `toml:"path"`
	BusyRetries       int    `toml:"busy_retries"`
	BusyTimeoutMillis int    `toml:"busy_timeout_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for vidctl.
//
// Configuration sections by subsystem:
//   - API: base URL, credentials, and default application/gateway
//   - Store: local record cache location and busy handling
//   - Logging: log format, level, and optional file output
type Config struct {
	API     API     `toml:"api"`
	Store   Store   `toml:"store"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns where vidctl looks for its configuration when no
// path is given.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Load reads the configuration at path, or the first candidate location when
// path is empty, and reports the file it settled on and whether that file
// existed. A missing file yields the defaults plus environment fallbacks.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	source, found, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}
	if found {
		if err := decodeFile(source, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, source, found, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			keys := make([]string, 0, len(strict.Errors))
			for _, e := range strict.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			return fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// locate resolves an explicit path as is. Without one it tries the user
// config directory, then vidctl.toml in the working directory.
func locate(explicit string) (string, bool, error) {
	if explicit != "" {
		target, err := ExpandPath(explicit)
		if err != nil {
			return "", false, err
		}
		found, err := isRegularFile(target)
		return target, found, err
	}

	fallback, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	local, err := filepath.Abs("vidctl.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{fallback, local} {
		if found, _ := isRegularFile(candidate); found {
			return candidate, true, nil
		}
	}
	return fallback, false, nil
}

func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	}
	return !info.IsDir(), nil
}

// EnsureDirectories creates the directories holding the store and log file.
func (c *Config) EnsureDirectories() error {
	for _, file := range []string{c.Store.Path, c.Logging.File} {
		if strings.TrimSpace(file) == "" {
			continue
		}
		dir := filepath.Dir(file)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ApplicationID returns the configured default application, if any.
func (c *Config) ApplicationID() (ident.ID, bool) {
	return optionalID(c.API.ApplicationID)
}

// GatewayID returns the configured default gateway, if any.
func (c *Config) GatewayID() (ident.ID, bool) {
	return optionalID(c.API.GatewayID)
}

func optionalID(text string) (ident.ID, bool) {
	if text == "" {
		return ident.ID{}, false
	}
	id, err := ident.Parse(text)
	if err != nil {
		return ident.ID{}, false
	}
	return id, true
}

// Timeout returns the per-request API timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RequireAPIToken reports a configuration error when no API token is set.
// Commands that only encode or decode locally never call it.
func (c *Config) RequireAPIToken() error {
	if c.API.Token != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("api.token is required. Set %s env var or edit %s (create with 'vidctl config init')", envAPIToken, defaultPath)
}

// ExpandPath resolves a leading ~ against the home directory and returns an
// absolute, cleaned path. The empty string passes through.
func ExpandPath(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if rest, ok := strings.CutPrefix(raw, "~"); ok && (rest == "" || rest[0] == '/' || rest[0] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		raw = filepath.Join(home, strings.TrimLeft(rest, `/\`))
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", raw, err)
	}
	return abs, nil
}

func defaultStorePath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "vidctl", "vidctl.db")
	}
	return defaultStoreFallback
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
