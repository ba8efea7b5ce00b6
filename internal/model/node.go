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
	"vidctl/internal/rational"
)

// Properties is the closed set of node property variants. The concrete
// types are *VideoProperties, *EncodeProperties, *TransformProperties and
// *StreamRTSPOutProperties.
type Properties interface {
	NodeType() NodeType
	validate() error
	clone() Properties
}

// VideoProperties configures a camera or stream source node. Runtime is
// filled in by the gateway and written under its kind, e.g. "usb": {...}.
type VideoProperties struct {
	SourceType       SourceType         `json:"source_type"`
	SourceID         ident.ID           `json:"source_id"`
	Resolution       *Resolution        `json:"resolution,omitempty"`
	Framerate        *rational.Rational `json:"framerate,omitempty"`
	Rotate           *float64           `json:"rotate,omitempty"`
	RotateFixedAngle *RotateDirection   `json:"rotate_fixed_angle,omitempty"`
	Flip             *FlipDirection     `json:"flip,omitempty"`
	Crop             *Crop              `json:"crop,omitempty"`
	Runtime          Runtime            `json:"-"`
}

func (*VideoProperties) NodeType() NodeType { return NodeVideo }

func (p *VideoProperties) validate() error {
	if !p.SourceType.Valid() {
		return apierr.Invalid("source_type", "must be camera or stream")
	}
	if err := checkRate("framerate", p.Framerate); err != nil {
		return err
	}
	if p.RotateFixedAngle != nil && !p.RotateFixedAngle.Valid() {
		return apierr.Invalid("rotate_fixed_angle", "undeclared rotation")
	}
	if p.Flip != nil && !p.Flip.Valid() {
		return apierr.Invalid("flip", "undeclared flip direction")
	}
	if p.Runtime != nil {
		kind := p.Runtime.RuntimeKind()
		if kind.SourceType() != p.SourceType {
			return apierr.Invalid(kind.String(), fmt.Sprintf("not a runtime of a %s source", p.SourceType))
		}
		return apierr.Within(kind.String(), p.Runtime.validate())
	}
	return nil
}

// URI returns the media URI of the runtime, when it names exactly one.
func (p *VideoProperties) URI() (string, bool) {
	switch rt := p.Runtime.(type) {
	case *USBRuntime:
		return rt.URI, true
	case *CSIRuntime:
		return rt.URI, true
	case *RTSPRuntime:
		return rt.URI, true
	case *URLFileRuntime:
		if rt.URLs.Len() == 1 {
			return rt.URLs.First(), true
		}
	}
	return "", false
}

// Name returns the source name reported by the runtime.
func (p *VideoProperties) Name() (string, bool) {
	switch rt := p.Runtime.(type) {
	case *USBRuntime:
		return rt.Name, true
	case *CSIRuntime:
		return rt.Name, true
	case *RTSPRuntime:
		return rt.Name, true
	case *URLFileRuntime:
		return rt.Name, true
	case *LumeoFileRuntime:
		return rt.Name, true
	}
	return "", false
}

func (p *VideoProperties) clone() Properties {
	c := *p
	c.Resolution = clonePtr(p.Resolution)
	c.Framerate = clonePtr(p.Framerate)
	c.Rotate = clonePtr(p.Rotate)
	c.RotateFixedAngle = clonePtr(p.RotateFixedAngle)
	c.Flip = clonePtr(p.Flip)
	c.Crop = clonePtr(p.Crop)
	if p.Runtime != nil {
		c.Runtime = p.Runtime.cloneRuntime()
	}
	return &c
}

func (p VideoProperties) MarshalJSON() ([]byte, error) {
	type plain VideoProperties
	obj, err := json.Marshal(plain(p))
	if err != nil || p.Runtime == nil {
		return obj, err
	}
	rt, err := json.Marshal(p.Runtime)
	if err != nil {
		return nil, err
	}
	return withMember(obj, p.Runtime.RuntimeKind().String(), rt, false)
}

// UnmarshalJSON requires source_id to be present; the nil id is accepted.
func (p *VideoProperties) UnmarshalJSON(data []byte) error {
	type plain VideoProperties
	var aux struct {
		plain
		SourceID *ident.ID         `json:"source_id"`
		FPS      *rational.Rational `json:"fps"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.SourceID == nil {
		return apierr.Invalid("source_id", "missing")
	}
	runtime, err := decodeRuntime(data)
	if err != nil {
		return err
	}
	*p = VideoProperties(aux.plain)
	p.SourceID = *aux.SourceID
	p.Framerate = firstSet(p.Framerate, aux.FPS)
	p.Runtime = runtime
	return nil
}

// EncodeProperties configures an encoder node.
type EncodeProperties struct {
	Codec      string             `json:"codec"`
	MaxBitrate *int64             `json:"max_bitrate,omitempty"`
	Bitrate    *int64             `json:"bitrate,omitempty"`
	Quality    *int               `json:"quality,omitempty"`
	Framerate  *rational.Rational `json:"framerate,omitempty"`
}

func (*EncodeProperties) NodeType() NodeType { return NodeEncode }

func (p *EncodeProperties) validate() error {
	if strings.TrimSpace(p.Codec) == "" {
		return apierr.Invalid("codec", "must not be empty")
	}
	if p.MaxBitrate != nil && *p.MaxBitrate <= 0 {
		return apierr.Invalid("max_bitrate", "must be positive")
	}
	if p.Bitrate != nil && *p.Bitrate <= 0 {
		return apierr.Invalid("bitrate", "must be positive")
	}
	return checkRate("framerate", p.Framerate)
}

func (p *EncodeProperties) clone() Properties {
	c := *p
	c.MaxBitrate = clonePtr(p.MaxBitrate)
	c.Bitrate = clonePtr(p.Bitrate)
	c.Quality = clonePtr(p.Quality)
	c.Framerate = clonePtr(p.Framerate)
	return &c
}

func (p *EncodeProperties) UnmarshalJSON(data []byte) error {
	type plain EncodeProperties
	var aux struct {
		plain
		FPS *rational.Rational `json:"fps"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = EncodeProperties(aux.plain)
	p.Framerate = firstSet(p.Framerate, aux.FPS)
	return nil
}

// TransformProperties configures a scaling/rotation/crop node.
type TransformProperties struct {
	Framerate     *rational.Rational `json:"framerate,omitempty"`
	Resolution    *Resolution        `json:"resolution,omitempty"`
	Rotation      *float64           `json:"rotation,omitempty"`
	FlipDirection *FlipDirection     `json:"flip_direction,omitempty"`
	CropRegion    *Crop              `json:"crop_region,omitempty"`
}

func (*TransformProperties) NodeType() NodeType { return NodeTransform }

func (p *TransformProperties) validate() error {
	if err := checkRate("framerate", p.Framerate); err != nil {
		return err
	}
	if p.FlipDirection != nil && !p.FlipDirection.Valid() {
		return apierr.Invalid("flip_direction", "undeclared flip direction")
	}
	return nil
}

func (p *TransformProperties) clone() Properties {
	return &TransformProperties{
		Framerate:     clonePtr(p.Framerate),
		Resolution:    clonePtr(p.Resolution),
		Rotation:      clonePtr(p.Rotation),
		FlipDirection: clonePtr(p.FlipDirection),
		CropRegion:    clonePtr(p.CropRegion),
	}
}

func (p *TransformProperties) UnmarshalJSON(data []byte) error {
	type plain TransformProperties
	var aux struct {
		plain
		FPS  *rational.Rational `json:"fps"`
		Crop *Crop              `json:"crop"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = TransformProperties(aux.plain)
	p.Framerate = firstSet(p.Framerate, aux.FPS)
	p.CropRegion = firstSet(p.CropRegion, aux.Crop)
	return nil
}

// StreamRTSPOutProperties configures an RTSP output node. The runtime
// fields are filled in by the gateway once the stream exists.
type StreamRTSPOutProperties struct {
	URI      *string   `json:"uri,omitempty"`
	StreamID *ident.ID `json:"stream_id,omitempty"`
	UDPPort  *uint16   `json:"udp_port,omitempty"`
}

func (*StreamRTSPOutProperties) NodeType() NodeType { return NodeStreamRTSPOut }

func (p *StreamRTSPOutProperties) validate() error {
	if p.URI != nil {
		return checkURI("uri", *p.URI)
	}
	return nil
}

func (p *StreamRTSPOutProperties) clone() Properties {
	return &StreamRTSPOutProperties{
		URI:      clonePtr(p.URI),
		StreamID: clonePtr(p.StreamID),
		UDPPort:  clonePtr(p.UDPPort),
	}
}

func firstSet[T any](primary, alias *T) *T {
	if primary != nil {
		return primary
	}
	return alias
}

// SinkRef addresses an input pad of another node, written "node.pad".
type SinkRef struct {
	Node string
	Pad  string
}

// ParseSinkRef parses "node.pad".
func ParseSinkRef(s string) (SinkRef, error) {
	node, pad, ok := strings.Cut(s, ".")
	if !ok || node == "" || pad == "" {
		return SinkRef{}, fmt.Errorf("bad sink pad reference %q: want node.pad", s)
	}
	return SinkRef{Node: node, Pad: pad}, nil
}

func (r SinkRef) String() string { return r.Node + "." + r.Pad }

func (r SinkRef) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *SinkRef) UnmarshalText(text []byte) error {
	parsed, err := ParseSinkRef(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Node is one element of a pipeline definition. Wires maps each output pad
// of the node to the sink pads it feeds, in order.
type Node struct {
	ID         string
	Properties Properties
	Wires      map[string][]SinkRef
}

type nodeJSON struct {
	ID         string               `json:"id"`
	Properties json.RawMessage      `json:"properties"`
	Wires      map[string][]SinkRef `json:"wires,omitempty"`
}

func (n Node) validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return apierr.Invalid("id", "must not be empty")
	}
	if n.Properties == nil {
		return apierr.Invalid("properties", "must be set")
	}
	if err := n.Properties.validate(); err != nil {
		return apierr.Within("properties", err)
	}
	for pad := range n.Wires {
		if pad == "" {
			return apierr.Invalid("wires", "source pad name must not be empty")
		}
	}
	return nil
}

func (n Node) clone() Node {
	c := Node{ID: n.ID}
	if n.Properties != nil {
		c.Properties = n.Properties.clone()
	}
	if len(n.Wires) > 0 {
		c.Wires = make(map[string][]SinkRef, len(n.Wires))
		for pad, sinks := range n.Wires {
			c.Wires[pad] = slices.Clone(sinks)
		}
	}
	return c
}

// SourcePads returns the node's output pad names in sorted order.
func (n Node) SourcePads() []string {
	return slices.Sorted(maps.Keys(n.Wires))
}

func (n Node) MarshalJSON() ([]byte, error) {
	props, err := marshalProperties(n.Properties)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.ID, err)
	}
	return json.Marshal(nodeJSON{ID: n.ID, Properties: props, Wires: n.Wires})
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	props, err := unmarshalProperties(raw.Properties)
	if err != nil {
		return fmt.Errorf("node %q: %w", raw.ID, err)
	}
	*n = Node{ID: raw.ID, Properties: props, Wires: raw.Wires}
	return nil
}

// marshalProperties writes p as a JSON object whose first member is the
// "type" tag.
func marshalProperties(p Properties) ([]byte, error) {
	if p == nil {
		return nil, apierr.Invalid("properties", "must be set")
	}
	obj, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(obj, []byte("null")) {
		return nil, apierr.Invalid("properties", "must be set")
	}
	tag, err := json.Marshal(p.NodeType())
	if err != nil {
		return nil, err
	}
	return withMember(obj, "type", tag, true)
}

// withMember adds "key": value to the JSON object obj, as its first member
// when first is set and as its last otherwise.
func withMember(obj []byte, key string, value []byte, first bool) ([]byte, error) {
	obj = bytes.TrimSpace(obj)
	if len(obj) < 2 || obj[0] != '{' || obj[len(obj)-1] != '}' {
		return nil, fmt.Errorf("expected a JSON object, got %s", obj)
	}
	name, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	member := append(append(name, ':'), value...)
	body := bytes.TrimSpace(obj[1 : len(obj)-1])

	var out bytes.Buffer
	out.WriteByte('{')
	switch {
	case len(body) == 0:
		out.Write(member)
	case first:
		out.Write(member)
		out.WriteByte(',')
		out.Write(body)
	default:
		out.Write(body)
		out.WriteByte(',')
		out.Write(member)
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

func unmarshalProperties(data json.RawMessage) (Properties, error) {
	if len(data) == 0 {
		return nil, apierr.Invalid("properties", "must be set")
	}
	var tag struct {
		Type *NodeType `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	if tag.Type == nil {
		return nil, apierr.Invalid("properties.type", "must be set")
	}
	var props Properties
	switch *tag.Type {
	case NodeVideo:
		props = &VideoProperties{}
	case NodeEncode:
		props = &EncodeProperties{}
	case NodeTransform:
		props = &TransformProperties{}
	case NodeStreamRTSPOut:
		props = &StreamRTSPOutProperties{}
	}
	if err := json.Unmarshal(data, props); err != nil {
		return nil, err
	}
	return props, nil
}
