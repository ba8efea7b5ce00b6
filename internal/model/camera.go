package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"vidctl/internal/apierr"
	"vidctl/internal/ident"
	"vidctl/internal/timestamp"
)

// CameraData carries the mutable fields of a camera. It is the body of
// camera updates and of the status batches a gateway reports. Unset fields
// are left out.
type CameraData struct {
	Status         *string         `json:"status,omitempty"`
	Name           *string         `json:"name,omitempty"`
	Model          *string         `json:"model,omitempty"`
	ConnType       *string         `json:"conn_type,omitempty"`
	GatewayID      *ident.ID       `json:"gateway_id,omitempty"`
	URI            *string         `json:"uri,omitempty"`
	IPLocal        *string         `json:"ip_local,omitempty"`
	IPExt          *string         `json:"ip_ext,omitempty"`
	MACAddress     *string         `json:"mac_address,omitempty"`
	Username       *string         `json:"username,omitempty"`
	Password       *string         `json:"password,omitempty"`
	Configuration  *string         `json:"configuration,omitempty"`
	Capabilities   json.RawMessage `json:"capabilities,omitempty"`
	SnapshotFileID *ident.ID       `json:"snapshot_file_id,omitempty"`
}

func (d CameraData) validate() (CameraData, error) {
	var err error
	if d.Name, err = optionalName("name", d.Name); err != nil {
		return CameraData{}, err
	}
	if d.Status != nil {
		status := strings.TrimSpace(*d.Status)
		if status == "" {
			return CameraData{}, apierr.Invalid("status", "must not be blank")
		}
		d.Status = &status
	}
	if d.URI != nil {
		if err := checkURI("uri", *d.URI); err != nil {
			return CameraData{}, err
		}
	}
	if d.IPLocal, err = canonicalIP("ip_local", d.IPLocal); err != nil {
		return CameraData{}, err
	}
	if d.IPExt, err = canonicalIP("ip_ext", d.IPExt); err != nil {
		return CameraData{}, err
	}
	if d.MACAddress, err = canonicalMAC("mac_address", d.MACAddress); err != nil {
		return CameraData{}, err
	}
	if err := checkCapabilities(d.Capabilities); err != nil {
		return CameraData{}, err
	}
	return d.clone(), nil
}

func checkCapabilities(raw json.RawMessage) error {
	if len(raw) > 0 && !json.Valid(raw) {
		return apierr.Invalid("capabilities", "must be valid JSON")
	}
	return nil
}

func (d CameraData) clone() CameraData {
	return CameraData{
		Status:         clonePtr(d.Status),
		Name:           clonePtr(d.Name),
		Model:          clonePtr(d.Model),
		ConnType:       clonePtr(d.ConnType),
		GatewayID:      clonePtr(d.GatewayID),
		URI:            clonePtr(d.URI),
		IPLocal:        clonePtr(d.IPLocal),
		IPExt:          clonePtr(d.IPExt),
		MACAddress:     clonePtr(d.MACAddress),
		Username:       clonePtr(d.Username),
		Password:       clonePtr(d.Password),
		Configuration:  clonePtr(d.Configuration),
		Capabilities:   bytes.Clone(d.Capabilities),
		SnapshotFileID: clonePtr(d.SnapshotFileID),
	}
}

// CameraUpdate is a validated CameraData.
type CameraUpdate struct {
	data CameraData
}

// NewCameraUpdate validates data for an update or a status report.
func NewCameraUpdate(data CameraData) (CameraUpdate, error) {
	valid, err := data.validate()
	if err != nil {
		return CameraUpdate{}, err
	}
	return CameraUpdate{data: valid}, nil
}

// Data returns a copy of the update's fields.
func (u CameraUpdate) Data() CameraData { return u.data.clone() }

func (u CameraUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.data)
}

// CameraRequest is the validated body that registers a camera with an
// application. The fields travel nested under "data".
type CameraRequest struct {
	applicationID ident.ID
	data          CameraData
}

// NewCameraRequest validates data for a create request. A new camera needs
// a name.
func NewCameraRequest(applicationID ident.ID, data CameraData) (CameraRequest, error) {
	if data.Name == nil {
		return CameraRequest{}, apierr.Invalid("data.name", "must be set")
	}
	valid, err := data.validate()
	if err != nil {
		return CameraRequest{}, apierr.Within("data", err)
	}
	return CameraRequest{applicationID: applicationID, data: valid}, nil
}

func (r CameraRequest) ApplicationID() ident.ID { return r.applicationID }
func (r CameraRequest) Data() CameraData        { return r.data.clone() }

func (r CameraRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ApplicationID ident.ID   `json:"application_id"`
		Data          CameraData `json:"data"`
	}{r.applicationID, r.data})
}

// CameraSpec is the input to NewCamera and the JSON shape of a camera.
type CameraSpec struct {
	ID             ident.ID        `json:"id,omitzero"`
	CreatedAt      timestamp.Time  `json:"created_at,omitzero"`
	UpdatedAt      timestamp.Time  `json:"updated_at,omitzero"`
	ApplicationID  ident.ID        `json:"application_id"`
	Status         string          `json:"status"`
	Name           string          `json:"name"`
	Model          *string         `json:"model,omitempty"`
	ConnType       *string         `json:"conn_type,omitempty"`
	GatewayID      *ident.ID       `json:"gateway_id,omitempty"`
	URI            *string         `json:"uri,omitempty"`
	IPLocal        *string         `json:"ip_local,omitempty"`
	IPExt          *string         `json:"ip_ext,omitempty"`
	MACAddress     *string         `json:"mac_address,omitempty"`
	Username       *string         `json:"username,omitempty"`
	Password       *string         `json:"password,omitempty"`
	Configuration  *string         `json:"configuration,omitempty"`
	Capabilities   json.RawMessage `json:"capabilities,omitempty"`
	SnapshotFileID *ident.ID       `json:"snapshot_file_id,omitempty"`
}

// Camera is a video device known to an application, optionally attached
// to a gateway.
type Camera struct {
	spec CameraSpec
}

// NewCamera validates spec and returns the record built from it. Addresses
// are stored in their canonical text form.
func NewCamera(spec CameraSpec) (Camera, error) {
	data, err := spec.data().validate()
	if err != nil {
		return Camera{}, err
	}
	name, err := normalizeName("name", spec.Name)
	if err != nil {
		return Camera{}, err
	}
	status := strings.TrimSpace(spec.Status)
	if status == "" {
		return Camera{}, apierr.Invalid("status", "must not be empty")
	}
	return Camera{spec: CameraSpec{
		ID:             spec.ID,
		CreatedAt:      spec.CreatedAt,
		UpdatedAt:      spec.UpdatedAt,
		ApplicationID:  spec.ApplicationID,
		Status:         status,
		Name:           name,
		Model:          data.Model,
		ConnType:       data.ConnType,
		GatewayID:      data.GatewayID,
		URI:            data.URI,
		IPLocal:        data.IPLocal,
		IPExt:          data.IPExt,
		MACAddress:     data.MACAddress,
		Username:       data.Username,
		Password:       data.Password,
		Configuration:  data.Configuration,
		Capabilities:   data.Capabilities,
		SnapshotFileID: data.SnapshotFileID,
	}}, nil
}

// data lifts the optional fields of s into a CameraData. Name and status
// are checked by NewCamera itself.
func (s CameraSpec) data() CameraData {
	return CameraData{
		Model:          s.Model,
		ConnType:       s.ConnType,
		GatewayID:      s.GatewayID,
		URI:            s.URI,
		IPLocal:        s.IPLocal,
		IPExt:          s.IPExt,
		MACAddress:     s.MACAddress,
		Username:       s.Username,
		Password:       s.Password,
		Configuration:  s.Configuration,
		Capabilities:   s.Capabilities,
		SnapshotFileID: s.SnapshotFileID,
	}
}

func (c Camera) ID() ident.ID              { return c.spec.ID }
func (c Camera) ApplicationID() ident.ID   { return c.spec.ApplicationID }
func (c Camera) Name() string              { return c.spec.Name }
func (c Camera) Status() string            { return c.spec.Status }
func (c Camera) CreatedAt() timestamp.Time { return c.spec.CreatedAt }
func (c Camera) UpdatedAt() timestamp.Time { return c.spec.UpdatedAt }

// GatewayID returns the gateway the camera is attached to, if any.
func (c Camera) GatewayID() (ident.ID, bool) {
	if c.spec.GatewayID == nil {
		return ident.ID{}, false
	}
	return *c.spec.GatewayID, true
}

// Spec returns an independent copy of the record's fields.
func (c Camera) Spec() CameraSpec {
	s := c.spec
	d := s.data().clone()
	s.Model, s.ConnType, s.GatewayID, s.URI = d.Model, d.ConnType, d.GatewayID, d.URI
	s.IPLocal, s.IPExt, s.MACAddress = d.IPLocal, d.IPExt, d.MACAddress
	s.Username, s.Password, s.Configuration = d.Username, d.Password, d.Configuration
	s.Capabilities, s.SnapshotFileID = d.Capabilities, d.SnapshotFileID
	return s
}

// With applies edit to a copy of the fields and validates the result.
func (c Camera) With(edit func(*CameraSpec)) (Camera, error) {
	s := c.Spec()
	edit(&s)
	return NewCamera(s)
}

// ToData returns every field of the camera as update data.
func (c Camera) ToData() CameraData {
	d := c.spec.data().clone()
	status, name := c.spec.Status, c.spec.Name
	d.Status, d.Name = &status, &name
	return d
}

func (c Camera) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.spec)
}

// UnmarshalJSON accepts device_id as an older name for gateway_id and
// requires the application_id key.
func (c *Camera) UnmarshalJSON(data []byte) error {
	var wire struct {
		CameraSpec
		ApplicationID *ident.ID `json:"application_id"`
		DeviceID      *ident.ID `json:"device_id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.ApplicationID == nil {
		return apierr.Invalid("application_id", "missing")
	}
	spec := wire.CameraSpec
	spec.ApplicationID = *wire.ApplicationID
	spec.GatewayID = firstSet(spec.GatewayID, wire.DeviceID)
	built, err := NewCamera(spec)
	if err != nil {
		return err
	}
	*c = built
	return nil
}
