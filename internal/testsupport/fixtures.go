package testsupport

import (
	"encoding/json"
	"testing"
	"time"

	"vidctl/internal/ident"
	"vidctl/internal/model"
	"vidctl/internal/rational"
	"vidctl/internal/timestamp"
)

// ApplicationID is the application every fixture belongs to.
var ApplicationID = ident.MustParse("2b5a8f9c-1d3e-4f60-8a7b-9c0d1e2f3a4b")

// Epoch is the creation time of the first fixture; later fixtures are
// spaced a minute apart.
var Epoch = timestamp.From(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

// Definition returns a two-node camera → RTSP definition.
func Definition(t testing.TB) model.Definition {
	t.Helper()

	port := uint16(5800)
	uri := "rtsp://127.0.0.1:5555/lobby"
	rate := rational.MustNew(30000, 1001)
	def, err := model.NewDefinition(
		model.Node{
			ID: "video1",
			Properties: &model.VideoProperties{
				SourceType: model.SourceCamera,
				SourceID:   ident.MustParse("f65c8128-e25a-11ec-b486-efa3b8212d7f"),
				Framerate:  &rate,
			},
			Wires: map[string][]model.SinkRef{"video": {{Node: "rtsp1", Pad: "input"}}},
		},
		model.Node{
			ID:         "rtsp1",
			Properties: &model.StreamRTSPOutProperties{URI: &uri, UDPPort: &port},
		},
	)
	if err != nil {
		t.Fatalf("NewDefinition: %v", err)
	}
	return def
}

// Pipeline returns a stored-shape pipeline with server fields populated.
func Pipeline(t testing.TB, name string) model.Pipeline {
	t.Helper()

	p, err := model.NewPipeline(model.PipelineSpec{
		ID:            ident.New(),
		ApplicationID: ApplicationID,
		CreatedAt:     Epoch,
		UpdatedAt:     Epoch,
		Name:          name,
		Definition:    Definition(t),
		Metadata:      model.Metadata{"site": "lobby"},
	})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

// Gateway returns an online gateway.
func Gateway(t testing.TB, name string) model.Gateway {
	t.Helper()

	ip := "192.168.1.20"
	g, err := model.NewGateway(model.GatewaySpec{
		ID:            ident.New(),
		ApplicationID: ApplicationID,
		CreatedAt:     Epoch,
		UpdatedAt:     Epoch,
		Name:          name,
		Status:        "online",
		IPLocal:       &ip,
	})
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	return g
}

// Deployed groups a deployment with the pipeline and gateway it references.
type Deployed struct {
	Pipeline   model.Pipeline
	Gateway    model.Gateway
	Deployment model.Deployment
}

// NewDeployed builds a running deployment of a fresh pipeline on a fresh
// gateway. The deployment carries its definition and a configuration for
// the video node.
func NewDeployed(t testing.TB) Deployed {
	t.Helper()

	p := Pipeline(t, "Lobby pipeline")
	g := Gateway(t, "edge-1")
	def := p.Definition()
	d, err := model.NewDeployment(model.DeploymentSpec{
		ID:            ident.New(),
		CreatedAt:     Epoch,
		UpdatedAt:     Epoch,
		Name:          "Lobby deployment",
		PipelineID:    p.ID(),
		GatewayID:     g.ID(),
		State:         model.DeploymentRunning,
		Definition:    &def,
		Configuration: model.Configuration{"video1": json.RawMessage(`{"fps":15}`)},
	})
	if err != nil {
		t.Fatalf("NewDeployment: %v", err)
	}
	return Deployed{Pipeline: p, Gateway: g, Deployment: d}
}

// Next builds another deployment of the same pipeline and gateway,
// created offset minutes after Epoch.
func (d Deployed) Next(t testing.TB, name string, state model.DeploymentState, offset int) model.Deployment {
	t.Helper()

	created := timestamp.From(Epoch.Time().Add(time.Duration(offset) * time.Minute))
	next, err := model.NewDeployment(model.DeploymentSpec{
		ID:         ident.New(),
		CreatedAt:  created,
		UpdatedAt:  created,
		Name:       name,
		PipelineID: d.Pipeline.ID(),
		GatewayID:  d.Gateway.ID(),
		State:      state,
	})
	if err != nil {
		t.Fatalf("NewDeployment: %v", err)
	}
	return next
}
