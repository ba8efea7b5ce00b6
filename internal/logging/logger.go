package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vidctl/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	// Level is debug, info, warn (or warning) or error. Empty means info.
	Level string
	// Format is console or json. Empty means console.
	Format string
	// OutputPaths lists sinks: "stdout", "stderr" or file paths. Empty
	// means stderr.
	OutputPaths []string
	// Writer replaces OutputPaths when set.
	Writer io.Writer
	// AddSource reports the caller on every record. Debug level always
	// reports it.
	AddSource bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	w := opts.Writer
	if w == nil {
		if w, err = openSinks(opts.OutputPaths); err != nil {
			return nil, err
		}
	}
	addSource := opts.AddSource || level <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return slog.New(newConsoleHandler(w, level, addSource)), nil
	case "json":
		return slog.New(newJSONHandler(w, level, addSource)), nil
	}
	return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
}

// NewFromConfig builds the logger described by the [logging] section. Logs
// go to stderr and, when logging.file is set, to that file as well.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	sinks := []string{"stderr"}
	if cfg.Logging.File != "" {
		sinks = append(sinks, cfg.Logging.File)
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: sinks,
	})
}

func parseLevel(text string) (slog.Level, error) {
	text = strings.TrimSpace(text)
	switch strings.ToLower(text) {
	case "":
		return slog.LevelInfo, nil
	case "warning":
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(text)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// openSinks resolves output paths to one writer. Files are created with
// their parent directories and opened for append.
func openSinks(paths []string) (io.Writer, error) {
	var writers []io.Writer
	opened := make(map[string]bool)
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" || opened[path] {
			continue
		}
		opened[path] = true
		w, err := openSink(path)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	if len(writers) == 0 {
		return os.Stderr, nil
	}
	if len(writers) == 1 {
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}

func openSink(path string) (io.Writer, error) {
	switch path {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
