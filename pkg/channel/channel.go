// Package channel defines the fixed set of sub-channel kinds an
// Android Auto session can expose and the Handler interface each one
// implements. The set is closed: handlers are a tagged variant, not an
// open registry, so adding a new kind is a code change here, not a
// plugin.
package channel

import "github.com/headunit/aaengine/pkg/frame"

// Kind identifies one of the fixed sub-channel types. The control
// channel is always channel 0; every other kind is present only when
// the integration supplies the matching capability (see
// pkg/integration).
type Kind int32

const (
	KindControl Kind = iota
	KindInput
	KindSensor
	KindVideo
	KindMediaAudio
	KindSpeechAudio
	KindSystemAudio
	KindAVInput
	KindBluetooth
	KindNavigation
	KindMediaStatus
)

func (k Kind) String() string {
	switch k {
	case KindControl:
		return "control"
	case KindInput:
		return "input"
	case KindSensor:
		return "sensor"
	case KindVideo:
		return "video"
	case KindMediaAudio:
		return "media_audio"
	case KindSpeechAudio:
		return "speech_audio"
	case KindSystemAudio:
		return "system_audio"
	case KindAVInput:
		return "av_input"
	case KindBluetooth:
		return "bluetooth"
	case KindNavigation:
		return "navigation"
	case KindMediaStatus:
		return "media_status"
	default:
		return "unknown"
	}
}

// Descriptor binds a Kind to the channel id the session driver
// assigned it (its index in the session's ordered channel list) and
// its Handler.
type Descriptor struct {
	ChannelID uint8
	Kind      Kind
	Handler   Handler
}

// Sender is how a Handler emits outbound messages back to its
// session; implemented by the transport mux. Control is true for
// control-channel-only framing metadata (most handlers always pass
// false).
type Sender interface {
	Send(channelID uint8, control bool, payload []byte) error
}

// Handler is the behavior every sub-channel kind implements: it
// describes itself for SERVICE_DISCOVERY_RESPONSE and processes each
// reassembled, decrypted message the session driver routes to it.
type Handler interface {
	// Kind identifies which sub-channel this handler implements.
	Kind() Kind

	// Describe returns the protobuf-encodable channel description
	// contributed to SERVICE_DISCOVERY_RESPONSE. Returning nil means
	// "describe with no extra configuration beyond the channel kind",
	// which is sufficient for channels with no negotiable parameters.
	Describe() []byte

	// Receive processes one reassembled message addressed to this
	// channel. A non-nil error terminates the owning session (spec.md
	// §4.6); Receive itself never closes the transport.
	Receive(msg frame.Message) error
}
