package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vidctl/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Create, check and inspect the configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigValidateCommand(ctx))
	cmd.AddCommand(newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var path string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(path)
			if err != nil {
				return err
			}
			if _, err := os.Stat(target); err == nil && !overwrite {
				return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("check config path: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(cmd.OutOrStdout(), "Set api.token (or export VIDCTL_API_TOKEN) and api.application_id before calling the API.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Destination (default ~/.config/vidctl/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(path string) (string, error) {
	if path = strings.TrimSpace(path); path == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(path)
}

// loadForInspection loads the configuration named by --config without the
// side effects of the root pre-run, so a broken file can still be reported.
func loadForInspection(ctx *commandContext) (*config.Config, string, bool, error) {
	cfg, path, exists, err := config.Load(strings.TrimSpace(*ctx.configFlag))
	if err != nil {
		return nil, path, exists, fmt.Errorf("load config: %w", err)
	}
	return cfg, path, exists, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and create the directories it names",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := loadForInspection(ctx)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			if err := cfg.RequireAPIToken(); err != nil {
				fmt.Fprintf(out, "Warning: %v\n", err)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the token hidden",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := loadForInspection(ctx)
			if err != nil {
				return err
			}
			shown := *cfg
			if shown.API.Token != "" {
				shown.API.Token = "[set]"
			}
			rows := [][]string{
				{"api.base_url", shown.API.BaseURL},
				{"api.token", orDash(shown.API.Token)},
				{"api.application_id", orDash(shown.API.ApplicationID)},
				{"api.gateway_id", orDash(shown.API.GatewayID)},
				{"api.user_agent", shown.API.UserAgent},
				{"api.timeout_seconds", strconv.Itoa(shown.API.TimeoutSeconds)},
				{"store.path", shown.Store.Path},
				{"store.busy_retries", strconv.Itoa(shown.Store.BusyRetries)},
				{"store.busy_timeout_ms", strconv.Itoa(shown.Store.BusyTimeoutMillis)},
				{"logging.format", shown.Logging.Format},
				{"logging.level", shown.Logging.Level},
				{"logging.file", orDash(shown.Logging.File)},
			}
			value := make(map[string]string, len(rows))
			for _, row := range rows {
				value[row[0]] = row[1]
			}
			return ctx.render(cmd, view{value: value, headers: []string{"Key", "Value"}, rows: rows})
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
