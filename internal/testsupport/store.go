package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"vidctl/internal/config"
	"vidctl/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg, nil)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedDeployment stores a deployment with the pipeline and gateway it
// references, and returns all three.
func SeedDeployment(t testing.TB, st *store.Store) Deployed {
	t.Helper()

	ctx := context.Background()
	d := NewDeployed(t)
	if err := st.PutPipeline(ctx, d.Pipeline); err != nil {
		t.Fatalf("PutPipeline: %v", err)
	}
	if err := st.PutGateway(ctx, d.Gateway); err != nil {
		t.Fatalf("PutGateway: %v", err)
	}
	if err := st.PutDeployment(ctx, d.Deployment); err != nil {
		t.Fatalf("PutDeployment: %v", err)
	}
	return d
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
