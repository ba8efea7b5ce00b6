package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidctl/internal/config"
	"vidctl/internal/ident"
	"vidctl/internal/logging"
	"vidctl/internal/model"
	"vidctl/internal/rational"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "vidctl.log")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello file")

	content, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello file") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")
	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerRendersSubjectAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "client")
	logger.Info("request finished",
		logging.String(logging.FieldMethod, "get"),
		logging.String(logging.FieldPath, "/v1/apps/x/deployments"),
		logging.Status(200),
		logging.Error(errors.New("boom now")),
	)

	out := buf.String()
	for _, want := range []string{
		"INFO [client] GET /v1/apps/x/deployments – request finished",
		"    - status: 200",
		"    - error: \"boom now\"",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("careful", logging.String(logging.FieldEntity, "deployment"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record["level"] != "warn" || record["msg"] != "careful" || record["entity"] != "deployment" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestNewRejectsUnknownFormatAndLevel(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
	if _, err := logging.New(logging.Options{Level: "loud", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected unsupported level error")
	}
}

func TestEntitySubjectAndWireValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	id := ident.MustParse("0b9f1c2e-3d4a-4b5c-8d6e-7f8091a2b3c4")
	logger.Info("stored", append(logging.Entity("deployment", id),
		"state", model.DeploymentRunning,
		"rate", rational.MustNew(60, 2),
	)...)

	out := buf.String()
	for _, want := range []string{
		"INFO deployment 0b9f1c2e-3d4a-4b5c-8d6e-7f8091a2b3c4 – stored",
		"    - state: running",
		"    - rate: 30/1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
}

func TestSensitiveValuesAreRedacted(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		var buf bytes.Buffer
		logger, err := logging.New(logging.Options{Format: format, Writer: &buf})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		logger.Info("auth", "token", "secret-value", slog.Group("gateway", "access_token", "other-secret"))
		out := buf.String()
		if strings.Contains(out, "secret-value") || strings.Contains(out, "other-secret") {
			t.Fatalf("%s output leaked a credential: %q", format, out)
		}
		if !strings.Contains(out, "[redacted]") {
			t.Fatalf("%s output missing redaction marker: %q", format, out)
		}
	}
}

func TestWithContextAddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	base, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithCorrelationID(context.Background(), "req-42")
	logging.WithContext(ctx, base).Info("tagged")
	if !strings.Contains(buf.String(), `"correlation_id":"req-42"`) {
		t.Fatalf("expected correlation id, got %q", buf.String())
	}

	generated := logging.WithCorrelationID(context.Background(), "")
	if id, ok := logging.CorrelationIDFromContext(generated); !ok || id == "" {
		t.Fatal("expected generated correlation id")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.WithContext(context.Background(), nil)
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected nop logger to be disabled")
	}
}
