package config

const (
	defaultConfigPath        = "~/.config/vidctl/config.toml"
	defaultBaseURL           = "https://api.lumeo.com"
	defaultUserAgent         = "vidctl/dev"
	defaultTimeoutSeconds    = 30
	defaultStoreFallback     = "~/.local/share/vidctl/vidctl.db"
	defaultBusyRetries       = 5
	defaultBusyTimeoutMillis = 5000
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"

	envAPIToken = "VIDCTL_API_TOKEN"
	envBaseURL  = "VIDCTL_BASE_URL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultBaseURL,
			UserAgent:      defaultUserAgent,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Store: Store{
			Path:              defaultStorePath(),
			BusyRetries:       defaultBusyRetries,
			BusyTimeoutMillis: defaultBusyTimeoutMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
