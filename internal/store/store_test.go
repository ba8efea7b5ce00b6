package store_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"vidctl/internal/config"
	"vidctl/internal/ident"
	"vidctl/internal/model"
	"vidctl/internal/rational"
	"vidctl/internal/store"
	"vidctl/internal/testsupport"
	"vidctl/internal/timestamp"
)

func rawDB(t *testing.T, cfg *config.Config) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", cfg.Store.Path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func jsonOf(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestPipelineRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	p := testsupport.Pipeline(t, "Lobby pipeline")
	if err := st.PutPipeline(ctx, p); err != nil {
		t.Fatalf("PutPipeline: %v", err)
	}
	got, err := st.GetPipeline(ctx, p.ID())
	if err != nil {
		t.Fatalf("GetPipeline: %v", err)
	}
	if diff := cmp.Diff(jsonOf(t, p), jsonOf(t, got)); diff != "" {
		t.Fatalf("pipeline mismatch (-want +got):\n%s", diff)
	}

	renamed, err := p.With(func(s *model.PipelineSpec) { s.Name = "Renamed" })
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if err := st.PutPipeline(ctx, renamed); err != nil {
		t.Fatalf("PutPipeline upsert: %v", err)
	}
	got, err = st.GetPipeline(ctx, p.ID())
	if err != nil {
		t.Fatalf("GetPipeline: %v", err)
	}
	if got.Name() != "Renamed" {
		t.Fatalf("expected upsert to replace name, got %q", got.Name())
	}
}

func TestDeploymentStoresStorageTokens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d := testsupport.SeedDeployment(t, st)

	var state, created string
	err := rawDB(t, cfg).QueryRow(`SELECT state, created_at FROM deployments WHERE id = ?`, d.Deployment.ID().String()).Scan(&state, &created)
	if err != nil {
		t.Fatalf("query raw row: %v", err)
	}
	if state != "RUNNING" {
		t.Fatalf("expected storage token RUNNING, got %q", state)
	}
	if created != "2024-03-01T12:00:00.000000Z" {
		t.Fatalf("unexpected created_at column %q", created)
	}

	got, err := st.GetDeployment(context.Background(), d.Deployment.ID())
	if err != nil {
		t.Fatalf("GetDeployment: %v", err)
	}
	if got.State() != model.DeploymentRunning {
		t.Fatalf("unexpected state %v", got.State())
	}
	if diff := cmp.Diff(jsonOf(t, d.Deployment), jsonOf(t, got)); diff != "" {
		t.Fatalf("deployment mismatch (-want +got):\n%s", diff)
	}
}

func TestListDeploymentsFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seeded := testsupport.SeedDeployment(t, st)

	stopped := seeded.Next(t, "Stopped", model.DeploymentStopped, 10)
	failed := seeded.Next(t, "Failed", model.DeploymentError, 20)
	for _, d := range []model.Deployment{failed, stopped} {
		if err := st.PutDeployment(ctx, d); err != nil {
			t.Fatalf("PutDeployment: %v", err)
		}
	}

	names := func(list []model.Deployment) []string {
		out := make([]string, 0, len(list))
		for _, d := range list {
			out = append(out, d.Name())
		}
		return out
	}

	since := timestamp.From(testsupport.Epoch.Time().Add(5 * time.Minute))
	bound := timestamp.From(testsupport.Epoch.Time().Add(10 * time.Minute))
	state := model.DeploymentError
	other := ident.New()
	tests := []struct {
		name   string
		params model.DeploymentListParams
		want   []string
	}{
		{"all ordered by creation", model.DeploymentListParams{}, []string{"Lobby deployment", "Stopped", "Failed"}},
		{"limit", model.DeploymentListParams{Limit: 2}, []string{"Lobby deployment", "Stopped"}},
		{"created since", model.DeploymentListParams{CreatedSince: &since}, []string{"Stopped", "Failed"}},
		{"created since is inclusive", model.DeploymentListParams{CreatedSince: &bound}, []string{"Stopped", "Failed"}},
		{"created until is exclusive", model.DeploymentListParams{CreatedUntil: &bound}, []string{"Lobby deployment"}},
		{"updated until is exclusive", model.DeploymentListParams{UpdatedUntil: &bound}, []string{"Lobby deployment"}},
		{"state", model.DeploymentListParams{State: &state}, []string{"Failed"}},
		{"other pipeline", model.DeploymentListParams{PipelineID: &other}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := st.ListDeployments(ctx, tc.params)
			if err != nil {
				t.Fatalf("ListDeployments: %v", err)
			}
			if diff := cmp.Diff(tc.want, names(got)); diff != "" {
				t.Fatalf("unexpected deployments (-want +got):\n%s", diff)
			}
		})
	}

	list, err := st.ListDeployments(ctx, model.DeploymentListParams{Limit: 1})
	if err != nil {
		t.Fatalf("ListDeployments: %v", err)
	}
	if _, ok := list[0].Definition(); ok {
		t.Fatal("definition must be omitted without with_definition")
	}
	if len(list[0].Configuration()) != 0 {
		t.Fatal("configuration must be omitted without with_configuration")
	}
	list, err = st.ListDeployments(ctx, model.DeploymentListParams{Limit: 1, WithDefinition: true, WithConfiguration: true})
	if err != nil {
		t.Fatalf("ListDeployments: %v", err)
	}
	if _, ok := list[0].Definition(); !ok || len(list[0].Configuration()) != 1 {
		t.Fatal("expected definition and configuration to be loaded")
	}

	if _, err := st.ListDeployments(ctx, model.DeploymentListParams{Limit: -1}); err == nil {
		t.Fatal("expected invalid params to be rejected")
	}
}

func TestDeleteDeploymentCascadesStreams(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	d := testsupport.SeedDeployment(t, st)

	deploymentID := d.Deployment.ID()
	node := "rtsp1"
	stream, err := model.NewStream(model.StreamSpec{
		ID:           ident.New(),
		Name:         "Lobby out",
		Source:       model.SourcePipelineStream,
		StreamType:   model.StreamRTSP,
		DeploymentID: &deploymentID,
		Node:         &node,
	})
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	if err := st.PutStream(ctx, stream); err != nil {
		t.Fatalf("PutStream: %v", err)
	}

	if err := st.DeleteDeployment(ctx, deploymentID); err != nil {
		t.Fatalf("DeleteDeployment: %v", err)
	}
	if _, err := st.GetDeployment(ctx, deploymentID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.GetStream(ctx, stream.ID()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected stream to be removed with its deployment, got %v", err)
	}
	if err := st.DeleteDeployment(ctx, deploymentID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStreamAndFileRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	uri := "rtsp://10.0.0.5:554/hd"
	rate := rational.MustNew(60, 2)
	stream, err := model.NewStream(model.StreamSpec{
		ID:         ident.New(),
		CreatedAt:  testsupport.Epoch,
		Name:       "Dock camera",
		Source:     model.SourceURIStream,
		StreamType: model.StreamRTSP,
		URI:        &uri,
		Framerate:  &rate,
		Metadata:   model.Metadata{"zone": "dock"},
	})
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	if err := st.PutStream(ctx, stream); err != nil {
		t.Fatalf("PutStream: %v", err)
	}
	gotStream, err := st.GetStream(ctx, stream.ID())
	if err != nil {
		t.Fatalf("GetStream: %v", err)
	}
	if diff := cmp.Diff(jsonOf(t, stream), jsonOf(t, gotStream)); diff != "" {
		t.Fatalf("stream mismatch (-want +got):\n%s", diff)
	}
	if gotStream.Status() != 0 {
		t.Fatalf("unreported status must stay unset, got %v", gotStream.Status())
	}

	duration := int32(42)
	node := "rtsp1"
	file, err := model.NewFile(model.FileSpec{
		ID:          ident.New(),
		CreatedAt:   testsupport.Epoch,
		Name:        "clip.mp4",
		Size:        1 << 20,
		Duration:    &duration,
		CloudStatus: model.CloudUploading,
		NodeID:      &node,
	})
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := st.PutFile(ctx, file); err != nil {
		t.Fatalf("PutFile: %v", err)
	}
	gotFile, err := st.GetFile(ctx, file.ID())
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if diff := cmp.Diff(jsonOf(t, file), jsonOf(t, gotFile)); diff != "" {
		t.Fatalf("file mismatch (-want +got):\n%s", diff)
	}

	var cloudStatus, framerate string
	db := rawDB(t, cfg)
	if err := db.QueryRow(`SELECT cloud_status FROM files WHERE id = ?`, file.ID().String()).Scan(&cloudStatus); err != nil {
		t.Fatalf("query file: %v", err)
	}
	if err := db.QueryRow(`SELECT framerate FROM streams WHERE id = ?`, stream.ID().String()).Scan(&framerate); err != nil {
		t.Fatalf("query stream: %v", err)
	}
	if cloudStatus != "UPLOADING" || framerate != "30/1" {
		t.Fatalf("unexpected columns cloud_status=%q framerate=%q", cloudStatus, framerate)
	}
}

func TestGatewayAccessTokenNotPersisted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	token := "secret"
	g, err := testsupport.Gateway(t, "edge").With(func(s *model.GatewaySpec) { s.AccessToken = &token })
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if err := st.PutGateway(ctx, g); err != nil {
		t.Fatalf("PutGateway: %v", err)
	}
	got, err := st.GetGateway(ctx, g.ID())
	if err != nil {
		t.Fatalf("GetGateway: %v", err)
	}
	if got.Spec().AccessToken != nil {
		t.Fatal("access token must not be stored")
	}
	if addr, ok := got.IPLocal(); !ok || addr.String() != "192.168.1.20" {
		t.Fatalf("unexpected ip_local %v", addr)
	}
}

func TestPutRejectsMissingIDAndDanglingReferences(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	unsaved, err := testsupport.Pipeline(t, "p").With(func(s *model.PipelineSpec) { s.ID = ident.ID{} })
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if err := st.PutPipeline(ctx, unsaved); !errors.Is(err, store.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}

	d := testsupport.NewDeployed(t)
	if err := st.PutDeployment(ctx, d.Deployment); err == nil {
		t.Fatal("expected foreign key failure without pipeline and gateway")
	}
	if _, err := st.GetGateway(ctx, ident.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	st.Close()

	if _, err := rawDB(t, cfg).Exec(`UPDATE schema_version SET version = 99`); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if _, err := store.Open(cfg, nil); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}

	reopened := testsupport.NewConfig(t)
	reopened.Store.Path = cfg.Store.Path + ".fresh"
	again := testsupport.MustOpenStore(t, reopened)
	if again.Path() != reopened.Store.Path {
		t.Fatalf("unexpected path %q", again.Path())
	}
}
