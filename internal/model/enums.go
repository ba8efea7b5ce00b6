package model

import "vidctl/internal/enum"

// DeploymentState is the lifecycle state of a deployment. The server keeps no
// column type for it, so its storage tokens are local to vidctl.
type DeploymentState uint8

const (
	DeploymentDeploying DeploymentState = iota + 1
	DeploymentRunning
	DeploymentStopping
	DeploymentStopped
	DeploymentInterrupted
	DeploymentError
	DeploymentUnknown
)

var deploymentStates = enum.New("deployment state",
	enum.Entry[DeploymentState]{Value: DeploymentDeploying, Wire: "deploying", Storage: "DEPLOYING"},
	enum.Entry[DeploymentState]{Value: DeploymentRunning, Wire: "running", Storage: "RUNNING"},
	enum.Entry[DeploymentState]{Value: DeploymentStopping, Wire: "stopping", Storage: "STOPPING"},
	enum.Entry[DeploymentState]{Value: DeploymentStopped, Wire: "stopped", Storage: "STOPPED"},
	enum.Entry[DeploymentState]{Value: DeploymentInterrupted, Wire: "interrupted", Storage: "INTERRUPTED"},
	enum.Entry[DeploymentState]{Value: DeploymentError, Wire: "error", Storage: "ERROR"},
	enum.Entry[DeploymentState]{Value: DeploymentUnknown, Wire: "unknown", Storage: "UNKNOWN"},
)

// DeploymentStates lists every declared state.
func DeploymentStates() []DeploymentState { return deploymentStates.Values() }

// ParseDeploymentState decodes a wire string.
func ParseDeploymentState(s string) (DeploymentState, error) { return deploymentStates.Parse(s) }

// ParseDeploymentStateStorage decodes a storage token.
func ParseDeploymentStateStorage(s string) (DeploymentState, error) {
	return deploymentStates.ParseStorage(s)
}

func (s DeploymentState) String() string                   { return deploymentStates.String(s) }
func (s DeploymentState) Valid() bool                      { return deploymentStates.Contains(s) }
func (s DeploymentState) StorageToken() (string, error)    { return deploymentStates.Storage(s) }
func (s DeploymentState) MarshalText() ([]byte, error)     { return deploymentStates.MarshalText(s) }
func (s *DeploymentState) UnmarshalText(text []byte) error { return deploymentStates.UnmarshalText(text, s) }

// StreamType is the transport a stream is served over. Storage tokens are
// the server's stream_type column values.
type StreamType uint8

const (
	StreamRTSP StreamType = iota + 1
	StreamWebRTC
	StreamFile
)

var streamTypes = enum.New("stream type",
	enum.Entry[StreamType]{Value: StreamRTSP, Wire: "rtsp", Storage: "rtsp"},
	enum.Entry[StreamType]{Value: StreamWebRTC, Wire: "webrtc", Storage: "webrtc"},
	enum.Entry[StreamType]{Value: StreamFile, Wire: "file", Storage: "file"},
)

// StreamTypes lists every declared stream type.
func StreamTypes() []StreamType { return streamTypes.Values() }

// ParseStreamType decodes a wire string.
func ParseStreamType(s string) (StreamType, error) { return streamTypes.Parse(s) }

// ParseStreamTypeStorage decodes a storage token.
func ParseStreamTypeStorage(s string) (StreamType, error) { return streamTypes.ParseStorage(s) }

func (t StreamType) String() string                   { return streamTypes.String(t) }
func (t StreamType) Valid() bool                      { return streamTypes.Contains(t) }
func (t StreamType) StorageToken() (string, error)    { return streamTypes.Storage(t) }
func (t StreamType) MarshalText() ([]byte, error)     { return streamTypes.MarshalText(t) }
func (t *StreamType) UnmarshalText(text []byte) error { return streamTypes.UnmarshalText(text, t) }

// StreamSource says where a stream's media originates. Storage tokens are
// the server's stream_source column values.
type StreamSource uint8

const (
	SourceCameraStream StreamSource = iota + 1
	SourceURIStream
	SourcePipelineStream
)

var streamSources = enum.New("stream source",
	enum.Entry[StreamSource]{Value: SourceCameraStream, Wire: "camera_stream", Storage: "camera_stream"},
	enum.Entry[StreamSource]{Value: SourceURIStream, Wire: "uri_stream", Storage: "uri_stream"},
	enum.Entry[StreamSource]{Value: SourcePipelineStream, Wire: "pipeline_stream", Storage: "pipeline_stream"},
)

// StreamSources lists every declared stream source.
func StreamSources() []StreamSource { return streamSources.Values() }

// ParseStreamSource decodes a wire string.
func ParseStreamSource(s string) (StreamSource, error) { return streamSources.Parse(s) }

// ParseStreamSourceStorage decodes a storage token.
func ParseStreamSourceStorage(s string) (StreamSource, error) { return streamSources.ParseStorage(s) }

func (s StreamSource) String() string                   { return streamSources.String(s) }
func (s StreamSource) Valid() bool                      { return streamSources.Contains(s) }
func (s StreamSource) StorageToken() (string, error)    { return streamSources.Storage(s) }
func (s StreamSource) MarshalText() ([]byte, error)     { return streamSources.MarshalText(s) }
func (s *StreamSource) UnmarshalText(text []byte) error { return streamSources.UnmarshalText(text, s) }

// StreamStatus is the reachability of a stream as last observed. Storage
// tokens are the server's stream_status column values.
type StreamStatus uint8

const (
	StreamOnline StreamStatus = iota + 1
	StreamOffline
	StreamStatusUnknown
)

var streamStatuses = enum.New("stream status",
	enum.Entry[StreamStatus]{Value: StreamOnline, Wire: "online", Storage: "online"},
	enum.Entry[StreamStatus]{Value: StreamOffline, Wire: "offline", Storage: "offline"},
	enum.Entry[StreamStatus]{Value: StreamStatusUnknown, Wire: "unknown", Storage: "unknown"},
)

// StreamStatuses lists every declared stream status.
func StreamStatuses() []StreamStatus { return streamStatuses.Values() }

// ParseStreamStatus decodes a wire string.
func ParseStreamStatus(s string) (StreamStatus, error) { return streamStatuses.Parse(s) }

// ParseStreamStatusStorage decodes a storage token.
func ParseStreamStatusStorage(s string) (StreamStatus, error) { return streamStatuses.ParseStorage(s) }

func (s StreamStatus) String() string                   { return streamStatuses.String(s) }
func (s StreamStatus) Valid() bool                      { return streamStatuses.Contains(s) }
func (s StreamStatus) StorageToken() (string, error)    { return streamStatuses.Storage(s) }
func (s StreamStatus) MarshalText() ([]byte, error)     { return streamStatuses.MarshalText(s) }
func (s *StreamStatus) UnmarshalText(text []byte) error { return streamStatuses.UnmarshalText(text, s) }

// FileCloudStatus tracks upload of a gateway-recorded file. Like
// DeploymentState it has local storage tokens.
type FileCloudStatus uint8

const (
	CloudDisabled FileCloudStatus = iota + 1
	CloudUploading
	CloudUploaded
)

var fileCloudStatuses = enum.New("file cloud status",
	enum.Entry[FileCloudStatus]{Value: CloudDisabled, Wire: "disabled", Storage: "DISABLED"},
	enum.Entry[FileCloudStatus]{Value: CloudUploading, Wire: "uploading", Storage: "UPLOADING"},
	enum.Entry[FileCloudStatus]{Value: CloudUploaded, Wire: "uploaded", Storage: "UPLOADED"},
)

// FileCloudStatuses lists every declared cloud status.
func FileCloudStatuses() []FileCloudStatus { return fileCloudStatuses.Values() }

// ParseFileCloudStatus decodes a wire string.
func ParseFileCloudStatus(s string) (FileCloudStatus, error) { return fileCloudStatuses.Parse(s) }

// ParseFileCloudStatusStorage decodes a storage token.
func ParseFileCloudStatusStorage(s string) (FileCloudStatus, error) {
	return fileCloudStatuses.ParseStorage(s)
}

func (s FileCloudStatus) String() string                   { return fileCloudStatuses.String(s) }
func (s FileCloudStatus) Valid() bool                      { return fileCloudStatuses.Contains(s) }
func (s FileCloudStatus) StorageToken() (string, error)    { return fileCloudStatuses.Storage(s) }
func (s FileCloudStatus) MarshalText() ([]byte, error)     { return fileCloudStatuses.MarshalText(s) }
func (s *FileCloudStatus) UnmarshalText(text []byte) error { return fileCloudStatuses.UnmarshalText(text, s) }

// NodeType tags the property variant of a pipeline node. Node types only
// travel inside definitions, so they have no storage mapping.
type NodeType uint8

const (
	NodeVideo NodeType = iota + 1
	NodeEncode
	NodeTransform
	NodeStreamRTSPOut
)

var nodeTypes = enum.New("node type",
	enum.Entry[NodeType]{Value: NodeVideo, Wire: "video"},
	enum.Entry[NodeType]{Value: NodeEncode, Wire: "encode"},
	enum.Entry[NodeType]{Value: NodeTransform, Wire: "transform"},
	enum.Entry[NodeType]{Value: NodeStreamRTSPOut, Wire: "stream_rtsp_out"},
)

// ParseNodeType decodes a wire string.
func ParseNodeType(s string) (NodeType, error) { return nodeTypes.Parse(s) }

func (t NodeType) String() string                   { return nodeTypes.String(t) }
func (t NodeType) Valid() bool                      { return nodeTypes.Contains(t) }
func (t NodeType) MarshalText() ([]byte, error)     { return nodeTypes.MarshalText(t) }
func (t *NodeType) UnmarshalText(text []byte) error { return nodeTypes.UnmarshalText(text, t) }

// SourceType says what a video node's source_id refers to.
type SourceType uint8

const (
	SourceCamera SourceType = iota + 1
	SourceStream
)

var sourceTypes = enum.New("video source type",
	enum.Entry[SourceType]{Value: SourceCamera, Wire: "camera"},
	enum.Entry[SourceType]{Value: SourceStream, Wire: "stream"},
)

// ParseSourceType decodes a wire string.
func ParseSourceType(s string) (SourceType, error) { return sourceTypes.Parse(s) }

func (t SourceType) String() string                   { return sourceTypes.String(t) }
func (t SourceType) Valid() bool                      { return sourceTypes.Contains(t) }
func (t SourceType) MarshalText() ([]byte, error)     { return sourceTypes.MarshalText(t) }
func (t *SourceType) UnmarshalText(text []byte) error { return sourceTypes.UnmarshalText(text, t) }

// RotateDirection is a lossless fixed-angle rotation.
type RotateDirection uint8

const (
	RotateClockwise90 RotateDirection = iota + 1
	RotateClockwise180
	RotateCounterClockwise90
)

var rotateDirections = enum.New("rotate direction",
	enum.Entry[RotateDirection]{Value: RotateClockwise90, Wire: "clockwise90"},
	enum.Entry[RotateDirection]{Value: RotateClockwise180, Wire: "clockwise180", Aliases: []string{"counter_clockwise180"}},
	enum.Entry[RotateDirection]{Value: RotateCounterClockwise90, Wire: "counter_clockwise90"},
)

// ParseRotateDirection decodes a wire string.
func ParseRotateDirection(s string) (RotateDirection, error) { return rotateDirections.Parse(s) }

func (d RotateDirection) String() string                   { return rotateDirections.String(d) }
func (d RotateDirection) Valid() bool                      { return rotateDirections.Contains(d) }
func (d RotateDirection) MarshalText() ([]byte, error)     { return rotateDirections.MarshalText(d) }
func (d *RotateDirection) UnmarshalText(text []byte) error { return rotateDirections.UnmarshalText(text, d) }

// FlipDirection mirrors a frame along one axis.
type FlipDirection uint8

const (
	FlipHorizontal FlipDirection = iota + 1
	FlipVertical
)

var flipDirections = enum.New("flip direction",
	enum.Entry[FlipDirection]{Value: FlipHorizontal, Wire: "horizontal"},
	enum.Entry[FlipDirection]{Value: FlipVertical, Wire: "vertical"},
)

// ParseFlipDirection decodes a wire string.
func ParseFlipDirection(s string) (FlipDirection, error) { return flipDirections.Parse(s) }

func (d FlipDirection) String() string                   { return flipDirections.String(d) }
func (d FlipDirection) Valid() bool                      { return flipDirections.Contains(d) }
func (d FlipDirection) MarshalText() ([]byte, error)     { return flipDirections.MarshalText(d) }
func (d *FlipDirection) UnmarshalText(text []byte) error { return flipDirections.UnmarshalText(text, d) }
