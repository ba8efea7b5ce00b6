package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vidctl/internal/model"
	"vidctl/internal/testsupport"
)

func TestDeploymentsCommandsCallAPI(t *testing.T) {
	d := testsupport.NewDeployed(t).Deployment
	prefix := "/v1/apps/" + testsupport.ApplicationID.String() + "/deployments"
	var started bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization %q", got)
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == prefix:
			if r.URL.RawQuery != "limit=2&states=running&with_configuration=false&with_definition=false" {
				t.Errorf("unexpected query %q", r.URL.RawQuery)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]model.Deployment{d})
		case r.Method == http.MethodGet && r.URL.Path == prefix+"/"+d.ID().String():
			_ = json.NewEncoder(w).Encode(d)
		case r.Method == http.MethodPost && r.URL.Path == prefix+"/"+d.ID().String()+"/start":
			started = true
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"code":"resource-not-found","message":"missing","context":{"resource":"deployment"}}`)
		}
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithBaseURL(server.URL))

	out, _, err := runCLI(t, []string{"deployments", "list", "--state", "running", "--limit", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("deployments list: %v", err)
	}
	var list []model.Deployment
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(list) != 1 || list[0].ID() != d.ID() {
		t.Fatalf("unexpected list %+v", list)
	}

	out, _, err = runCLI(t, []string{"-o", "table", "deployments", "get", d.ID().String()}, env.configPath)
	if err != nil {
		t.Fatalf("deployments get: %v", err)
	}
	requireContains(t, out, "Lobby deployment")
	requireContains(t, out, "running")

	missing := testsupport.NewDeployed(t).Deployment.ID().String()
	_, _, err = runCLI(t, []string{"deployments", "get", missing}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}

	out, _, err = runCLI(t, []string{"deployments", "start", d.ID().String()}, env.configPath)
	if err != nil {
		t.Fatalf("deployments start: %v", err)
	}
	requireContains(t, out, "Requested start")
	if !started {
		t.Fatal("expected start request to reach the API")
	}
}

func TestDeploymentsRequireToken(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithToken(""))
	_, _, err := runCLI(t, []string{"deployments", "list"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "api.token is required") {
		t.Fatalf("expected missing token error, got %v", err)
	}
}
