package model

import (
	"encoding/json"

	"vidctl/internal/ident"
	"vidctl/internal/timestamp"
)

// PipelineSpec is the input to NewPipeline and the JSON shape of a
// pipeline. Server-assigned fields are omitted from bodies when unset.
type PipelineSpec struct {
	ID            ident.ID       `json:"id,omitzero"`
	CreatedAt     timestamp.Time `json:"created_at,omitzero"`
	UpdatedAt     timestamp.Time `json:"updated_at,omitzero"`
	ApplicationID ident.ID       `json:"application_id,omitzero"`
	Name          string         `json:"name"`
	Definition    Definition     `json:"definition"`
	Metadata      Metadata       `json:"metadata,omitempty"`
}

// Pipeline is a validated, immutable pipeline record.
type Pipeline struct {
	spec PipelineSpec
}

// NewPipeline validates spec and returns the record built from it.
func NewPipeline(spec PipelineSpec) (Pipeline, error) {
	name, err := normalizeName("name", spec.Name)
	if err != nil {
		return Pipeline{}, err
	}
	spec.Name = name
	if err := spec.Definition.validate(); err != nil {
		return Pipeline{}, err
	}
	if err := spec.Metadata.validate(); err != nil {
		return Pipeline{}, err
	}
	spec.Metadata = spec.Metadata.Clone()
	return Pipeline{spec: spec}, nil
}

func (p Pipeline) ID() ident.ID              { return p.spec.ID }
func (p Pipeline) ApplicationID() ident.ID   { return p.spec.ApplicationID }
func (p Pipeline) Name() string              { return p.spec.Name }
func (p Pipeline) Definition() Definition    { return p.spec.Definition }
func (p Pipeline) CreatedAt() timestamp.Time { return p.spec.CreatedAt }
func (p Pipeline) UpdatedAt() timestamp.Time { return p.spec.UpdatedAt }
func (p Pipeline) Metadata() Metadata        { return p.spec.Metadata.Clone() }

// Spec returns an independent copy of the record's fields.
func (p Pipeline) Spec() PipelineSpec {
	s := p.spec
	s.Metadata = s.Metadata.Clone()
	return s
}

// With applies edit to a copy of the fields and validates the result.
func (p Pipeline) With(edit func(*PipelineSpec)) (Pipeline, error) {
	s := p.Spec()
	edit(&s)
	return NewPipeline(s)
}

func (p Pipeline) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.spec)
}

func (p *Pipeline) UnmarshalJSON(data []byte) error {
	var spec PipelineSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return err
	}
	built, err := NewPipeline(spec)
	if err != nil {
		return err
	}
	*p = built
	return nil
}
