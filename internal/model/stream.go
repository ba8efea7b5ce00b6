package model

import (
	"encoding/json"
	"strings"

	"vidctl/internal/apierr"
	"vidctl/internal/ident"
	"vidctl/internal/rational"
	"vidctl/internal/timestamp"
)

// StreamSpec is the input to NewStream and the JSON shape of a stream.
type StreamSpec struct {
	ID             ident.ID           `json:"id,omitzero"`
	CreatedAt      timestamp.Time     `json:"created_at,omitzero"`
	UpdatedAt      timestamp.Time     `json:"updated_at,omitzero"`
	ApplicationID  ident.ID           `json:"application_id,omitzero"`
	Name           string             `json:"name"`
	Source         StreamSource       `json:"source"`
	StreamType     StreamType         `json:"stream_type"`
	Status         StreamStatus       `json:"status,omitzero"`
	GatewayID      *ident.ID          `json:"gateway_id,omitempty"`
	URI            *string            `json:"uri,omitempty"`
	CameraID       *ident.ID          `json:"camera_id,omitempty"`
	DeploymentID   *ident.ID          `json:"deployment_id,omitempty"`
	Node           *string            `json:"node,omitempty"`
	Configuration  *string            `json:"configuration,omitempty"`
	SnapshotFileID *ident.ID          `json:"snapshot_file_id,omitempty"`
	Framerate      *rational.Rational `json:"framerate,omitempty"`
	Metadata       Metadata           `json:"metadata,omitempty"`
}

// Stream is a video feed produced by a camera, a URI or a deployment node.
type Stream struct {
	spec StreamSpec
}

// NewStream validates spec and returns the record built from it. A zero
// Status means the status is not reported.
func NewStream(spec StreamSpec) (Stream, error) {
	name, err := normalizeName("name", spec.Name)
	if err != nil {
		return Stream{}, err
	}
	spec.Name = name
	if !spec.Source.Valid() {
		return Stream{}, apierr.Invalid("source", "must be a declared stream source")
	}
	if !spec.StreamType.Valid() {
		return Stream{}, apierr.Invalid("stream_type", "must be a declared stream type")
	}
	if spec.Status != 0 && !spec.Status.Valid() {
		return Stream{}, apierr.Invalid("status", "must be a declared stream status")
	}
	if spec.URI != nil {
		if err := checkURI("uri", *spec.URI); err != nil {
			return Stream{}, err
		}
	}
	if err := checkRate("framerate", spec.Framerate); err != nil {
		return Stream{}, err
	}
	if spec.Node != nil && strings.TrimSpace(*spec.Node) == "" {
		return Stream{}, apierr.Invalid("node", "must not be blank")
	}
	switch spec.Source {
	case SourcePipelineStream:
		if spec.DeploymentID == nil {
			return Stream{}, apierr.Invalid("deployment_id", "required for pipeline_stream")
		}
		if spec.Node == nil {
			return Stream{}, apierr.Invalid("node", "required for pipeline_stream")
		}
	case SourceCameraStream:
		if spec.CameraID == nil {
			return Stream{}, apierr.Invalid("camera_id", "required for camera_stream")
		}
	case SourceURIStream:
		if spec.URI == nil {
			return Stream{}, apierr.Invalid("uri", "required for uri_stream")
		}
	}
	if err := spec.Metadata.validate(); err != nil {
		return Stream{}, err
	}
	return Stream{spec: cloneStreamSpec(spec)}, nil
}

func cloneStreamSpec(s StreamSpec) StreamSpec {
	s.GatewayID = clonePtr(s.GatewayID)
	s.URI = clonePtr(s.URI)
	s.CameraID = clonePtr(s.CameraID)
	s.DeploymentID = clonePtr(s.DeploymentID)
	s.Node = clonePtr(s.Node)
	s.Configuration = clonePtr(s.Configuration)
	s.SnapshotFileID = clonePtr(s.SnapshotFileID)
	s.Framerate = clonePtr(s.Framerate)
	s.Metadata = s.Metadata.Clone()
	return s
}

func (s Stream) ID() ident.ID              { return s.spec.ID }
func (s Stream) ApplicationID() ident.ID   { return s.spec.ApplicationID }
func (s Stream) Name() string              { return s.spec.Name }
func (s Stream) Source() StreamSource      { return s.spec.Source }
func (s Stream) StreamType() StreamType    { return s.spec.StreamType }
func (s Stream) Status() StreamStatus      { return s.spec.Status }
func (s Stream) CreatedAt() timestamp.Time { return s.spec.CreatedAt }
func (s Stream) UpdatedAt() timestamp.Time { return s.spec.UpdatedAt }

// Spec returns an independent copy of the record's fields.
func (s Stream) Spec() StreamSpec { return cloneStreamSpec(s.spec) }

// With applies edit to a copy of the fields and validates the result.
func (s Stream) With(edit func(*StreamSpec)) (Stream, error) {
	spec := s.Spec()
	edit(&spec)
	return NewStream(spec)
}

func (s Stream) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.spec)
}

// UnmarshalJSON accepts device_id as an older name for gateway_id.
func (s *Stream) UnmarshalJSON(data []byte) error {
	var wire struct {
		StreamSpec
		DeviceID *ident.ID `json:"device_id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	spec := wire.StreamSpec
	spec.GatewayID = firstSet(spec.GatewayID, wire.DeviceID)
	built, err := NewStream(spec)
	if err != nil {
		return err
	}
	*s = built
	return nil
}
