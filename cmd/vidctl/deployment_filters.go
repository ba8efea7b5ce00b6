package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidctl/internal/ident"
	"vidctl/internal/model"
	"vidctl/internal/timestamp"
)

type deploymentFilterFlags struct {
	limit             int16
	state             string
	pipeline          string
	gateway           string
	createdSince      string
	createdUntil      string
	withDefinition    bool
	withConfiguration bool
}

func (f *deploymentFilterFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int16Var(&f.limit, "limit", 0, "Maximum number of deployments (0 for no limit)")
	flags.StringVar(&f.state, "state", "", "Only deployments in this state")
	flags.StringVar(&f.pipeline, "pipeline", "", "Only deployments of this pipeline id")
	flags.StringVar(&f.gateway, "gateway", "", "Only deployments on this gateway id")
	flags.StringVar(&f.createdSince, "created-since", "", "Only deployments created at or after this RFC 3339 time")
	flags.StringVar(&f.createdUntil, "created-until", "", "Only deployments created at or before this RFC 3339 time")
	flags.BoolVar(&f.withDefinition, "with-definition", false, "Include each deployment's definition")
	flags.BoolVar(&f.withConfiguration, "with-configuration", false, "Include each deployment's configuration")
}

func (f *deploymentFilterFlags) params() (model.DeploymentListParams, error) {
	p := model.DeploymentListParams{
		Limit:             f.limit,
		WithDefinition:    f.withDefinition,
		WithConfiguration: f.withConfiguration,
	}
	if s := strings.TrimSpace(f.state); s != "" {
		state, err := model.ParseDeploymentState(s)
		if err != nil {
			return p, fmt.Errorf("--state: %w", err)
		}
		p.State = &state
	}
	var err error
	if p.PipelineID, err = optionalIDFlag("--pipeline", f.pipeline); err != nil {
		return p, err
	}
	if p.GatewayID, err = optionalIDFlag("--gateway", f.gateway); err != nil {
		return p, err
	}
	if p.CreatedSince, err = optionalTimeFlag("--created-since", f.createdSince); err != nil {
		return p, err
	}
	if p.CreatedUntil, err = optionalTimeFlag("--created-until", f.createdUntil); err != nil {
		return p, err
	}
	return p, p.Validate()
}

func optionalIDFlag(name, value string) (*ident.ID, error) {
	if value = strings.TrimSpace(value); value == "" {
		return nil, nil
	}
	id, err := ident.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &id, nil
}

func optionalTimeFlag(name, value string) (*timestamp.Time, error) {
	if value = strings.TrimSpace(value); value == "" {
		return nil, nil
	}
	t, err := timestamp.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}

func deploymentsView(list []model.Deployment) view {
	if list == nil {
		list = []model.Deployment{}
	}
	rows := make([][]string, 0, len(list))
	for _, d := range list {
		rows = append(rows, []string{
			d.ID().String(),
			d.Name(),
			d.State().String(),
			d.PipelineID().String(),
			d.GatewayID().String(),
			formatTime(d.UpdatedAt()),
		})
	}
	if len(rows) == 0 {
		return view{value: list, text: "No deployments"}
	}
	return view{
		value:   list,
		headers: []string{"ID", "Name", "State", "Pipeline", "Gateway", "Updated"},
		rows:    rows,
	}
}

func deploymentView(d model.Deployment) view {
	rows := [][]string{
		{"id", d.ID().String()},
		{"name", d.Name()},
		{"state", d.State().String()},
		{"pipeline", d.PipelineID().String()},
		{"gateway", d.GatewayID().String()},
		{"created", formatTime(d.CreatedAt())},
		{"updated", formatTime(d.UpdatedAt())},
	}
	if def, ok := d.Definition(); ok {
		rows = append(rows, []string{"nodes", fmt.Sprintf("%d", def.Len())})
	}
	return view{value: d, headers: []string{"Field", "Value"}, rows: rows}
}

func formatTime(t timestamp.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.String()
}
