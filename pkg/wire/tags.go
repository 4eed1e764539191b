package wire

// Control channel tags. Each channel kind has its own independent tag
// namespace; the numbers below are this implementation's own
// assignment (see DESIGN.md: the authoritative .proto schema's tag
// values were not present in the retrieval pack), internally
// consistent and stable for round-tripping messages this engine both
// produces and consumes.
const (
	TagVersionRequest           Tag = 1
	TagVersionResponse          Tag = 2
	TagSSLHandshake             Tag = 3
	TagAuthComplete             Tag = 4
	TagServiceDiscoveryRequest  Tag = 5
	TagServiceDiscoveryResponse Tag = 6
	TagPingRequest              Tag = 11
	TagPingResponse             Tag = 12
	TagNavigationFocusRequest   Tag = 13
	TagNavigationFocusResponse  Tag = 14
	TagShutdownRequest          Tag = 15
	TagShutdownResponse         Tag = 16
	TagVoiceSessionRequest      Tag = 17
	TagAudioFocusRequest        Tag = 19
	TagAudioFocusResponse       Tag = 20
)

// AV-family tags (video, media audio, speech audio, system audio and
// AV input channels each use this namespace independently).
const (
	TagChannelOpenRequest  Tag = 1
	TagChannelOpenResponse Tag = 2
	TagAVSetupRequest      Tag = 3
	TagAVSetupResponse     Tag = 4
	TagAVStartIndication   Tag = 5
	TagAVStopIndication    Tag = 6
	TagAVMediaIndication   Tag = 7
	TagAVMediaAckIndication Tag = 8
	TagVideoFocusRequest    Tag = 9
	TagVideoFocusIndication Tag = 10
	TagAVInputOpenRequest   Tag = 11
)

// Input channel tags.
const (
	TagInputBindingRequest  Tag = 1
	TagInputBindingResponse Tag = 2
	TagInputEventIndication Tag = 3
)

// Sensor channel tags.
const (
	TagSensorStartRequest   Tag = 1
	TagSensorStartResponse  Tag = 2
	TagSensorEventIndication Tag = 3
)

// Navigation channel tags.
const (
	TagNavigationStatus        Tag = 1
	TagNavigationTurnEvent     Tag = 2
	TagNavigationDistanceEvent Tag = 3
)

// MediaStatus channel tags.
const (
	TagMediaPlaybackStatus Tag = 1
	TagMediaMetadata       Tag = 2
)

// Bluetooth (in-session pairing) channel tags.
const (
	TagBluetoothPairingRequest  Tag = 1
	TagBluetoothPairingResponse Tag = 2
)
