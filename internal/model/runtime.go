package model

import (
	"encoding/json"
	"fmt"

	"vidctl/internal/apierr"
	"vidctl/internal/enum"
	"vidctl/internal/ident"
	"vidctl/internal/nonempty"
)

// RuntimeKind names the runtime block a gateway attaches to a video source
// node. The kind is the JSON key the block is written under.
type RuntimeKind uint8

const (
	RuntimeUSB RuntimeKind = iota + 1
	RuntimeCSI
	RuntimeRTSP
	RuntimeURLFile
	RuntimeLumeoFile
	RuntimeWebRTC
)

var runtimeKinds = enum.New("video runtime",
	enum.Entry[RuntimeKind]{Value: RuntimeUSB, Wire: "usb"},
	enum.Entry[RuntimeKind]{Value: RuntimeCSI, Wire: "csi"},
	enum.Entry[RuntimeKind]{Value: RuntimeRTSP, Wire: "rtsp"},
	enum.Entry[RuntimeKind]{Value: RuntimeURLFile, Wire: "url_file"},
	enum.Entry[RuntimeKind]{Value: RuntimeLumeoFile, Wire: "lumeo_file"},
	enum.Entry[RuntimeKind]{Value: RuntimeWebRTC, Wire: "web_rtc"},
)

// ParseRuntimeKind decodes a wire string.
func ParseRuntimeKind(s string) (RuntimeKind, error) { return runtimeKinds.Parse(s) }

func (k RuntimeKind) String() string                   { return runtimeKinds.String(k) }
func (k RuntimeKind) Valid() bool                      { return runtimeKinds.Contains(k) }
func (k RuntimeKind) MarshalText() ([]byte, error)     { return runtimeKinds.MarshalText(k) }
func (k *RuntimeKind) UnmarshalText(text []byte) error { return runtimeKinds.UnmarshalText(text, k) }

// SourceType reports which video source the runtime belongs to: usb and csi
// describe cameras, everything else describes input streams.
func (k RuntimeKind) SourceType() SourceType {
	switch k {
	case RuntimeUSB, RuntimeCSI:
		return SourceCamera
	}
	return SourceStream
}

// Runtime is the closed set of video source runtime blocks. The concrete
// types are *USBRuntime, *CSIRuntime, *RTSPRuntime, *URLFileRuntime,
// *LumeoFileRuntime and *WebRTCRuntime.
type Runtime interface {
	RuntimeKind() RuntimeKind
	validate() error
	cloneRuntime() Runtime
}

// Endpoint is a named media URI, shared by device and RTSP runtimes.
type Endpoint struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

func (e Endpoint) validate() error { return checkURI("uri", e.URI) }

// USBRuntime is a local USB camera, e.g. file:///dev/video0.
type USBRuntime struct{ Endpoint }

// CSIRuntime is a local CSI camera.
type CSIRuntime struct{ Endpoint }

// RTSPRuntime is any URI stream treated as realtime, whatever its scheme.
type RTSPRuntime struct{ Endpoint }

func (*USBRuntime) RuntimeKind() RuntimeKind  { return RuntimeUSB }
func (*CSIRuntime) RuntimeKind() RuntimeKind  { return RuntimeCSI }
func (*RTSPRuntime) RuntimeKind() RuntimeKind { return RuntimeRTSP }

func (r *USBRuntime) cloneRuntime() Runtime  { c := *r; return &c }
func (r *CSIRuntime) cloneRuntime() Runtime  { c := *r; return &c }
func (r *RTSPRuntime) cloneRuntime() Runtime { c := *r; return &c }

// URLFileRuntime plays one or more files fetched by URL.
type URLFileRuntime struct {
	Name string                 `json:"name"`
	URLs nonempty.Slice[string] `json:"urls"`
}

func (*URLFileRuntime) RuntimeKind() RuntimeKind { return RuntimeURLFile }

func (r *URLFileRuntime) validate() error {
	if r.URLs.IsZero() {
		return apierr.InvalidCause("urls", fmt.Errorf("%w: need at least one url", apierr.ErrEmptyCollection))
	}
	for i, u := range r.URLs.All() {
		if err := checkURI(fmt.Sprintf("urls[%d]", i), u); err != nil {
			return err
		}
	}
	return nil
}

func (r *URLFileRuntime) cloneRuntime() Runtime { c := *r; return &c }

// LumeoFileRuntime plays files stored by the API.
type LumeoFileRuntime struct {
	Name    string                   `json:"name"`
	FileIDs nonempty.Slice[ident.ID] `json:"file_ids"`
}

func (*LumeoFileRuntime) RuntimeKind() RuntimeKind { return RuntimeLumeoFile }

func (r *LumeoFileRuntime) validate() error {
	if r.FileIDs.IsZero() {
		return apierr.InvalidCause("file_ids", fmt.Errorf("%w: need at least one file id", apierr.ErrEmptyCollection))
	}
	return nil
}

func (r *LumeoFileRuntime) cloneRuntime() Runtime { c := *r; return &c }

// WebRTCRuntime marks a WebRTC input. It carries no fields yet.
type WebRTCRuntime struct{}

func (*WebRTCRuntime) RuntimeKind() RuntimeKind { return RuntimeWebRTC }
func (*WebRTCRuntime) validate() error          { return nil }
func (*WebRTCRuntime) cloneRuntime() Runtime    { return &WebRTCRuntime{} }

func newRuntime(k RuntimeKind) Runtime {
	switch k {
	case RuntimeUSB:
		return &USBRuntime{}
	case RuntimeCSI:
		return &CSIRuntime{}
	case RuntimeRTSP:
		return &RTSPRuntime{}
	case RuntimeURLFile:
		return &URLFileRuntime{}
	case RuntimeLumeoFile:
		return &LumeoFileRuntime{}
	}
	return &WebRTCRuntime{}
}

// decodeRuntime finds the runtime block among the members of a video
// properties object. At most one may be present.
func decodeRuntime(data []byte) (Runtime, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	var found Runtime
	for _, k := range runtimeKinds.Values() {
		raw, ok := members[k.String()]
		if !ok {
			continue
		}
		if found != nil {
			return nil, apierr.Invalid(k.String(), fmt.Sprintf("conflicts with the %s runtime", found.RuntimeKind()))
		}
		rt := newRuntime(k)
		if err := json.Unmarshal(raw, rt); err != nil {
			return nil, apierr.InvalidCause(k.String(), err)
		}
		found = rt
	}
	return found, nil
}
