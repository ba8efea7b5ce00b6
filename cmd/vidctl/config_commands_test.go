package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Warning: api.token is required")
}

func TestConfigShowHidesToken(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var shown map[string]string
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if shown["api.token"] != "[set]" {
		t.Fatalf("expected hidden token, got %q", shown["api.token"])
	}
	if shown["store.path"] != env.cfg.Store.Path || shown["api.application_id"] != env.cfg.API.ApplicationID {
		t.Fatalf("unexpected values %v", shown)
	}
}

func TestConfigErrorsSurface(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[api]\nbase_url = \"ftp://example.com\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"store", "deployments"}, env.configPath); err == nil {
		t.Fatal("expected invalid base_url to fail before the command runs")
	}
}

func TestRejectsUnknownOutputFormat(t *testing.T) {
	if _, _, err := runCLI(t, []string{"--output", "xml", "rational", "normalize", "1/2"}, ""); err == nil {
		t.Fatal("expected unknown output format to be rejected")
	}
}
