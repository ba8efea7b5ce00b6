package model

import (
	"encoding/json"
	"net"
	"net/netip"
	"strings"

	"vidctl/internal/apierr"
	"vidctl/internal/ident"
	"vidctl/internal/timestamp"
)

// GatewaySpec is the input to NewGateway and the JSON shape of a gateway.
// AccessToken is only ever present in responses.
type GatewaySpec struct {
	ID            ident.ID       `json:"id,omitzero"`
	CreatedAt     timestamp.Time `json:"created_at,omitzero"`
	UpdatedAt     timestamp.Time `json:"updated_at,omitzero"`
	ApplicationID ident.ID       `json:"application_id"`
	Name          string         `json:"name"`
	Status        string         `json:"status"`
	Model         *string        `json:"model,omitempty"`
	IPLocal       *string        `json:"ip_local,omitempty"`
	IPExt         *string        `json:"ip_ext,omitempty"`
	MACAddress    *string        `json:"mac_address,omitempty"`
	AccessToken   *string        `json:"access_token,omitempty"`
	Metadata      Metadata       `json:"metadata,omitempty"`
}

// Gateway is an edge device that runs deployments.
type Gateway struct {
	spec GatewaySpec
}

// NewGateway validates spec and returns the record built from it. IP
// addresses are stored in their canonical text form.
func NewGateway(spec GatewaySpec) (Gateway, error) {
	name, err := normalizeName("name", spec.Name)
	if err != nil {
		return Gateway{}, err
	}
	spec.Name = name
	spec.Status = strings.TrimSpace(spec.Status)
	if spec.Status == "" {
		return Gateway{}, apierr.Invalid("status", "must not be empty")
	}
	if spec.IPLocal, err = canonicalIP("ip_local", spec.IPLocal); err != nil {
		return Gateway{}, err
	}
	if spec.IPExt, err = canonicalIP("ip_ext", spec.IPExt); err != nil {
		return Gateway{}, err
	}
	if spec.MACAddress, err = canonicalMAC("mac_address", spec.MACAddress); err != nil {
		return Gateway{}, err
	}
	if err := spec.Metadata.validate(); err != nil {
		return Gateway{}, err
	}
	spec.Model = clonePtr(spec.Model)
	spec.AccessToken = clonePtr(spec.AccessToken)
	spec.Metadata = spec.Metadata.Clone()
	return Gateway{spec: spec}, nil
}

func canonicalMAC(field string, raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	mac, err := net.ParseMAC(strings.TrimSpace(*raw))
	if err != nil {
		return nil, apierr.InvalidCause(field, err)
	}
	text := mac.String()
	return &text, nil
}

func canonicalIP(field string, raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(*raw))
	if err != nil {
		return nil, apierr.InvalidCause(field, err)
	}
	text := addr.String()
	return &text, nil
}

func (g Gateway) ID() ident.ID              { return g.spec.ID }
func (g Gateway) ApplicationID() ident.ID   { return g.spec.ApplicationID }
func (g Gateway) Name() string              { return g.spec.Name }
func (g Gateway) Status() string            { return g.spec.Status }
func (g Gateway) CreatedAt() timestamp.Time { return g.spec.CreatedAt }
func (g Gateway) UpdatedAt() timestamp.Time { return g.spec.UpdatedAt }
func (g Gateway) Metadata() Metadata        { return g.spec.Metadata.Clone() }

// IPLocal returns the address on the gateway's own network, if known.
func (g Gateway) IPLocal() (netip.Addr, bool) { return optionalAddr(g.spec.IPLocal) }

// IPExt returns the externally observed address, if known.
func (g Gateway) IPExt() (netip.Addr, bool) { return optionalAddr(g.spec.IPExt) }

func optionalAddr(text *string) (netip.Addr, bool) {
	if text == nil {
		return netip.Addr{}, false
	}
	return netip.MustParseAddr(*text), true
}

// Spec returns an independent copy of the record's fields.
func (g Gateway) Spec() GatewaySpec {
	s := g.spec
	s.Model = clonePtr(s.Model)
	s.IPLocal = clonePtr(s.IPLocal)
	s.IPExt = clonePtr(s.IPExt)
	s.MACAddress = clonePtr(s.MACAddress)
	s.AccessToken = clonePtr(s.AccessToken)
	s.Metadata = s.Metadata.Clone()
	return s
}

// With applies edit to a copy of the fields and validates the result.
func (g Gateway) With(edit func(*GatewaySpec)) (Gateway, error) {
	s := g.Spec()
	edit(&s)
	return NewGateway(s)
}

// Request returns the gateway without its access token, as sent in
// create bodies.
func (g Gateway) Request() Gateway {
	s := g.Spec()
	s.AccessToken = nil
	return Gateway{spec: s}
}

func (g Gateway) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.spec)
}

// UnmarshalJSON requires the application_id key.
func (g *Gateway) UnmarshalJSON(data []byte) error {
	var wire struct {
		GatewaySpec
		ApplicationID *ident.ID `json:"application_id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.ApplicationID == nil {
		return apierr.Invalid("application_id", "missing")
	}
	spec := wire.GatewaySpec
	spec.ApplicationID = *wire.ApplicationID
	built, err := NewGateway(spec)
	if err != nil {
		return err
	}
	*g = built
	return nil
}
