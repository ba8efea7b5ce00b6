package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"vidctl/internal/apierr"
	"vidctl/internal/ident"
	"vidctl/internal/timestamp"
)

// Configuration holds per-node runtime settings of a deployment, keyed by
// node id. Each value is a JSON object.
type Configuration map[string]json.RawMessage

// Clone returns an independent copy, or nil when c is empty.
func (c Configuration) Clone() Configuration {
	if len(c) == 0 {
		return nil
	}
	out := make(Configuration, len(c))
	for k, v := range c {
		out[k] = bytes.Clone(v)
	}
	return out
}

func (c Configuration) validate(def *Definition) error {
	for _, node := range sortedKeys(c) {
		field := "configuration." + node
		if strings.TrimSpace(node) == "" {
			return apierr.Invalid("configuration", "node ids must not be blank")
		}
		trimmed := bytes.TrimSpace(c[node])
		if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
			return apierr.Invalid(field, "must be a JSON object")
		}
		if def != nil {
			if _, ok := def.Node(node); !ok {
				return apierr.Invalid(field, "no such node in definition")
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// DeploymentSpec is the input to NewDeployment and the JSON shape of a
// deployment.
type DeploymentSpec struct {
	ID            ident.ID        `json:"id,omitzero"`
	CreatedAt     timestamp.Time  `json:"created_at,omitzero"`
	UpdatedAt     timestamp.Time  `json:"updated_at,omitzero"`
	Name          string          `json:"name"`
	PipelineID    ident.ID        `json:"pipeline_id"`
	GatewayID     ident.ID        `json:"gateway_id"`
	State         DeploymentState `json:"state"`
	Definition    *Definition     `json:"definition,omitempty"`
	Configuration Configuration   `json:"configuration,omitempty"`
	Metadata      Metadata        `json:"metadata,omitempty"`
}

// Deployment is a pipeline running on a gateway.
type Deployment struct {
	spec DeploymentSpec
}

// NewDeployment validates spec and returns the record built from it.
func NewDeployment(spec DeploymentSpec) (Deployment, error) {
	name, err := normalizeName("name", spec.Name)
	if err != nil {
		return Deployment{}, err
	}
	spec.Name = name
	if !spec.State.Valid() {
		return Deployment{}, apierr.Invalid("state", "must be a declared deployment state")
	}
	if spec.Definition != nil {
		if err := spec.Definition.validate(); err != nil {
			return Deployment{}, err
		}
	}
	if err := spec.Configuration.validate(spec.Definition); err != nil {
		return Deployment{}, err
	}
	if err := spec.Metadata.validate(); err != nil {
		return Deployment{}, err
	}
	spec.Configuration = spec.Configuration.Clone()
	spec.Metadata = spec.Metadata.Clone()
	return Deployment{spec: spec}, nil
}

func (d Deployment) ID() ident.ID                 { return d.spec.ID }
func (d Deployment) Name() string                 { return d.spec.Name }
func (d Deployment) PipelineID() ident.ID         { return d.spec.PipelineID }
func (d Deployment) GatewayID() ident.ID          { return d.spec.GatewayID }
func (d Deployment) State() DeploymentState       { return d.spec.State }
func (d Deployment) CreatedAt() timestamp.Time    { return d.spec.CreatedAt }
func (d Deployment) UpdatedAt() timestamp.Time    { return d.spec.UpdatedAt }
func (d Deployment) Configuration() Configuration { return d.spec.Configuration.Clone() }
func (d Deployment) Metadata() Metadata           { return d.spec.Metadata.Clone() }

// Definition returns the deployed node graph when the response carried it.
func (d Deployment) Definition() (Definition, bool) {
	if d.spec.Definition == nil {
		return Definition{}, false
	}
	return *d.spec.Definition, true
}

// Spec returns an independent copy of the record's fields.
func (d Deployment) Spec() DeploymentSpec {
	s := d.spec
	s.Definition = clonePtr(s.Definition)
	s.Configuration = s.Configuration.Clone()
	s.Metadata = s.Metadata.Clone()
	return s
}

// With applies edit to a copy of the fields and validates the result.
func (d Deployment) With(edit func(*DeploymentSpec)) (Deployment, error) {
	s := d.Spec()
	edit(&s)
	return NewDeployment(s)
}

func (d Deployment) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.spec)
}

// UnmarshalJSON accepts device_id as an older name for gateway_id. Both
// pipeline_id and one of the gateway keys must be present, though the nil
// id is a valid value for either.
func (d *Deployment) UnmarshalJSON(data []byte) error {
	var wire struct {
		DeploymentSpec
		PipelineID *ident.ID `json:"pipeline_id"`
		GatewayID  *ident.ID `json:"gateway_id"`
		DeviceID   *ident.ID `json:"device_id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	spec := wire.DeploymentSpec
	if wire.PipelineID == nil {
		return apierr.Invalid("pipeline_id", "missing")
	}
	spec.PipelineID = *wire.PipelineID
	switch {
	case wire.GatewayID != nil:
		spec.GatewayID = *wire.GatewayID
	case wire.DeviceID != nil:
		spec.GatewayID = *wire.DeviceID
	default:
		return apierr.Invalid("gateway_id", "missing")
	}
	built, err := NewDeployment(spec)
	if err != nil {
		return err
	}
	*d = built
	return nil
}

// DeploymentData carries the mutable fields of a deployment in create and
// update bodies. Unset fields are left out. The definition travels as a
// JSON string.
type DeploymentData struct {
	Name          *string
	State         *DeploymentState
	Definition    *Definition
	Configuration Configuration
}

func (d DeploymentData) validate() (DeploymentData, error) {
	name, err := optionalName("name", d.Name)
	if err != nil {
		return DeploymentData{}, err
	}
	d.Name = name
	if d.State != nil && !d.State.Valid() {
		return DeploymentData{}, apierr.Invalid("state", "must be a declared deployment state")
	}
	if d.Definition != nil {
		if err := d.Definition.validate(); err != nil {
			return DeploymentData{}, err
		}
	}
	if err := d.Configuration.validate(d.Definition); err != nil {
		return DeploymentData{}, err
	}
	return d.clone(), nil
}

func (d DeploymentData) clone() DeploymentData {
	return DeploymentData{
		Name:          clonePtr(d.Name),
		State:         clonePtr(d.State),
		Definition:    clonePtr(d.Definition),
		Configuration: d.Configuration.Clone(),
	}
}

type deploymentDataJSON struct {
	Name          *string          `json:"name,omitempty"`
	State         *DeploymentState `json:"state,omitempty"`
	Definition    *string          `json:"definition,omitempty"`
	Configuration Configuration    `json:"configuration,omitempty"`
}

func (d DeploymentData) wire() (deploymentDataJSON, error) {
	out := deploymentDataJSON{Name: d.Name, State: d.State, Configuration: d.Configuration}
	if d.Definition != nil {
		text, err := d.Definition.Stringified()
		if err != nil {
			return deploymentDataJSON{}, fmt.Errorf("encode definition: %w", err)
		}
		out.Definition = &text
	}
	return out, nil
}

// DeploymentUpdate is the validated body of a deployment update.
type DeploymentUpdate struct {
	data DeploymentData
}

// NewDeploymentUpdate validates data for an update request.
func NewDeploymentUpdate(data DeploymentData) (DeploymentUpdate, error) {
	valid, err := data.validate()
	if err != nil {
		return DeploymentUpdate{}, err
	}
	return DeploymentUpdate{data: valid}, nil
}

// Data returns a copy of the update's fields.
func (u DeploymentUpdate) Data() DeploymentData { return u.data.clone() }

func (u DeploymentUpdate) MarshalJSON() ([]byte, error) {
	w, err := u.data.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// DeploymentRequestSpec is the input to NewDeploymentRequest.
type DeploymentRequestSpec struct {
	PipelineID ident.ID
	GatewayID  ident.ID
	Data       DeploymentData
}

// DeploymentRequest is the validated body that creates a deployment. The
// gateway is sent under its device_id name.
type DeploymentRequest struct {
	spec DeploymentRequestSpec
}

// NewDeploymentRequest validates spec for a create request.
func NewDeploymentRequest(spec DeploymentRequestSpec) (DeploymentRequest, error) {
	data, err := spec.Data.validate()
	if err != nil {
		return DeploymentRequest{}, err
	}
	spec.Data = data
	return DeploymentRequest{spec: spec}, nil
}

func (r DeploymentRequest) PipelineID() ident.ID { return r.spec.PipelineID }
func (r DeploymentRequest) GatewayID() ident.ID  { return r.spec.GatewayID }

func (r DeploymentRequest) MarshalJSON() ([]byte, error) {
	data, err := r.spec.Data.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		PipelineID ident.ID `json:"pipeline_id"`
		DeviceID   ident.ID `json:"device_id"`
		deploymentDataJSON
	}{r.spec.PipelineID, r.spec.GatewayID, data})
}
