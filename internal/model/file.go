package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"vidctl/internal/apierr"
	"vidctl/internal/ident"
	"vidctl/internal/timestamp"
)

// FileScheme is the URL scheme that addresses stored files.
const FileScheme = "lumeo"

var (
	ErrFileURLScheme = errors.New("file url: invalid scheme")
	ErrFileURLHost   = errors.New("file url: missing host")
	ErrFileURLLength = errors.New("file url: unexpected path or query")
)

// FileURL returns the URL that names a stored file, lumeo://<id>.
func FileURL(id ident.ID) string {
	return FileScheme + "://" + id.String()
}

// ParseFileURL extracts the file id from a URL built by FileURL.
func ParseFileURL(raw string) (ident.ID, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ident.ID{}, fmt.Errorf("file url: %w", err)
	}
	if u.Scheme != FileScheme {
		return ident.ID{}, fmt.Errorf("%w: expected %q, got %q", ErrFileURLScheme, FileScheme, u.Scheme)
	}
	if u.Host == "" {
		return ident.ID{}, ErrFileURLHost
	}
	if len(raw) != len(FileScheme+"://")+len(u.Host) {
		return ident.ID{}, ErrFileURLLength
	}
	return ident.Parse(u.Host)
}

// FileSpec is the input to NewFile and the JSON shape of a file.
type FileSpec struct {
	ID            ident.ID        `json:"id,omitzero"`
	CreatedAt     timestamp.Time  `json:"created_at,omitzero"`
	ApplicationID ident.ID        `json:"application_id,omitzero"`
	Name          string          `json:"name"`
	Size          int64           `json:"size"`
	Duration      *int32          `json:"duration,omitempty"`
	CloudStatus   FileCloudStatus `json:"cloud_status"`
	GatewayID     *ident.ID       `json:"gateway_id,omitempty"`
	LocalPath     *string         `json:"local_path,omitempty"`
	PipelineID    *ident.ID       `json:"pipeline_id,omitempty"`
	NodeID        *string         `json:"node_id,omitempty"`
	DeploymentID  *ident.ID       `json:"deployment_id,omitempty"`
	CameraID      *ident.ID       `json:"camera_id,omitempty"`
	StreamID      *ident.ID       `json:"stream_id,omitempty"`
	DataURL       *string         `json:"data_url,omitempty"`
	MetadataURL   *string         `json:"metadata_url,omitempty"`
}

// File is a media file recorded by a deployment.
type File struct {
	spec FileSpec
}

// NewFile validates spec and returns the record built from it.
func NewFile(spec FileSpec) (File, error) {
	name, err := normalizeName("name", spec.Name)
	if err != nil {
		return File{}, err
	}
	spec.Name = name
	if spec.Size < 0 {
		return File{}, apierr.Invalid("size", "must not be negative")
	}
	if spec.Duration != nil && *spec.Duration < 0 {
		return File{}, apierr.Invalid("duration", "must not be negative")
	}
	if !spec.CloudStatus.Valid() {
		return File{}, apierr.Invalid("cloud_status", "must be a declared cloud status")
	}
	if spec.NodeID != nil && strings.TrimSpace(*spec.NodeID) == "" {
		return File{}, apierr.Invalid("node_id", "must not be blank")
	}
	if spec.DataURL != nil {
		if err := checkURI("data_url", *spec.DataURL); err != nil {
			return File{}, err
		}
	}
	if spec.MetadataURL != nil {
		if err := checkURI("metadata_url", *spec.MetadataURL); err != nil {
			return File{}, err
		}
	}
	return File{spec: cloneFileSpec(spec)}, nil
}

func cloneFileSpec(s FileSpec) FileSpec {
	s.Duration = clonePtr(s.Duration)
	s.GatewayID = clonePtr(s.GatewayID)
	s.LocalPath = clonePtr(s.LocalPath)
	s.PipelineID = clonePtr(s.PipelineID)
	s.NodeID = clonePtr(s.NodeID)
	s.DeploymentID = clonePtr(s.DeploymentID)
	s.CameraID = clonePtr(s.CameraID)
	s.StreamID = clonePtr(s.StreamID)
	s.DataURL = clonePtr(s.DataURL)
	s.MetadataURL = clonePtr(s.MetadataURL)
	return s
}

func (f File) ID() ident.ID                 { return f.spec.ID }
func (f File) ApplicationID() ident.ID      { return f.spec.ApplicationID }
func (f File) Name() string                 { return f.spec.Name }
func (f File) Size() int64                  { return f.spec.Size }
func (f File) CloudStatus() FileCloudStatus { return f.spec.CloudStatus }
func (f File) CreatedAt() timestamp.Time    { return f.spec.CreatedAt }

// StreamURL returns the lumeo:// URL that addresses this file as a source.
func (f File) StreamURL() string { return FileURL(f.spec.ID) }

// Spec returns an independent copy of the record's fields.
func (f File) Spec() FileSpec { return cloneFileSpec(f.spec) }

// With applies edit to a copy of the fields and validates the result.
func (f File) With(edit func(*FileSpec)) (File, error) {
	s := f.Spec()
	edit(&s)
	return NewFile(s)
}

func (f File) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.spec)
}

func (f *File) UnmarshalJSON(data []byte) error {
	var spec FileSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return err
	}
	built, err := NewFile(spec)
	if err != nil {
		return err
	}
	*f = built
	return nil
}

// FileData carries the writable fields of a file in create and update
// bodies. Unset optional fields are sent as null.
type FileData struct {
	Name         string          `json:"name"`
	Size         int64           `json:"size"`
	Duration     *int32          `json:"duration"`
	CloudStatus  FileCloudStatus `json:"cloud_status"`
	GatewayID    *ident.ID       `json:"gateway_id"`
	LocalPath    *string         `json:"local_path"`
	PipelineID   *ident.ID       `json:"pipeline_id"`
	NodeID       *string         `json:"node_id"`
	DeploymentID *ident.ID       `json:"deployment_id"`
	CameraID     *ident.ID       `json:"camera_id"`
	StreamID     *ident.ID       `json:"stream_id"`
}

func (d FileData) spec() FileSpec {
	return FileSpec{
		Name:         d.Name,
		Size:         d.Size,
		Duration:     d.Duration,
		CloudStatus:  d.CloudStatus,
		GatewayID:    d.GatewayID,
		LocalPath:    d.LocalPath,
		PipelineID:   d.PipelineID,
		NodeID:       d.NodeID,
		DeploymentID: d.DeploymentID,
		CameraID:     d.CameraID,
		StreamID:     d.StreamID,
	}
}

// ToData returns the writable fields of the file.
func (f File) ToData() FileData {
	s := f.Spec()
	return FileData{
		Name:         s.Name,
		Size:         s.Size,
		Duration:     s.Duration,
		CloudStatus:  s.CloudStatus,
		GatewayID:    s.GatewayID,
		LocalPath:    s.LocalPath,
		PipelineID:   s.PipelineID,
		NodeID:       s.NodeID,
		DeploymentID: s.DeploymentID,
		CameraID:     s.CameraID,
		StreamID:     s.StreamID,
	}
}

// FileRequest is a validated FileData, the body of file create and update
// requests.
type FileRequest struct {
	data FileData
}

// NewFileRequest validates data with the rules NewFile applies.
func NewFileRequest(data FileData) (FileRequest, error) {
	f, err := NewFile(data.spec())
	if err != nil {
		return FileRequest{}, err
	}
	return FileRequest{data: f.ToData()}, nil
}

// Data returns a copy of the request's fields.
func (r FileRequest) Data() FileData {
	return File{spec: r.data.spec()}.ToData()
}

func (r FileRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.data)
}
