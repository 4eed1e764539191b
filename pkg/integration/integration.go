// Package integration defines the capability interfaces a caller
// implements to plug real hardware and application logic into the
// session engine. The session driver constructs a sub-channel handler
// only when the supplied Integration also implements that channel's
// capability interface (spec.md §4.6): an Integration with no
// VideoCapability never gets a video channel at all, rather than
// getting one that silently drops frames.
package integration

import (
	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/wire"
)

// Identity is the head unit's self-description, returned verbatim in
// SERVICE_DISCOVERY_RESPONSE.
type Identity struct {
	HeadUnitName  string
	CarModel      string
	CarYear       string
	CarSerial     string
	LeftHandDrive bool
}

// Integration is the minimum every session requires: an identity and
// the control-channel decision callbacks. Every other capability below
// is optional and detected by type assertion.
type Integration interface {
	Identity() Identity
	ControlCapability
}

// ControlCapability answers the decisions the always-present control
// channel needs to make.
type ControlCapability interface {
	// OnAudioFocusRequest notifies that a focus type (wire.AudioFocusGain
	// etc.) was requested and the state granted in response. The
	// mapping itself (GAIN_NAVI upgraded to GAIN, RELEASE to LOSS,
	// everything else granted as requested — spec.md §4.5.1,
	// SPEC_FULL.md §13 item 2) is fixed protocol logic the engine
	// applies unconditionally; the integration is only informed of the
	// outcome, it does not decide it.
	OnAudioFocusRequest(requested, granted int32)

	// OnNavigationFocusRequest reports whether navigation focus is
	// granted.
	OnNavigationFocusRequest() (granted bool)

	// OnVoiceSessionRequest is notified of a voice session starting or
	// ending.
	OnVoiceSessionRequest(active bool)

	// OnShutdownRequested is notified the peer asked to end the
	// session, with a human-readable reason.
	OnShutdownRequested(reason string)
}

// InputCapability is implemented to receive an input channel.
type InputCapability interface {
	// OnInputBindingNegotiated reports the key codes and touch surface
	// support the mobile device asked for; the integration uses this
	// to decide what local input events to forward.
	OnInputBindingNegotiated(keyCodes []int32, touchScreen bool)

	// SupportedKeyCodes lists the key codes this head unit can forward,
	// advertised in SERVICE_DISCOVERY_RESPONSE's input channel
	// capability (spec.md §4.5.2).
	SupportedKeyCodes() []int32

	// TouchScreenSize reports the touchscreen geometry to advertise, if
	// any; ok is false for a head unit with no touch surface.
	TouchScreenSize() (width, height int32, ok bool)
}

// SensorCapability is implemented to receive a sensor channel.
type SensorCapability interface {
	// OnSensorStartRequested reports that the mobile device wants
	// readings for sensorType; returning false rejects the request.
	OnSensorStartRequested(sensorType int32) (accept bool)

	// SupportedSensorTypes lists the sensor types this head unit can
	// report on, advertised in SERVICE_DISCOVERY_RESPONSE's sensor
	// channel capability (spec.md §4.5.2).
	SupportedSensorTypes() []int32
}

// VideoCapability is implemented to receive a video channel.
type VideoCapability interface {
	// OnVideoSetup is asked to accept or reject a codec configuration
	// index, returning the maximum frequency (Hz) the head unit will
	// decode at.
	OnVideoSetup(configIndex int32) (accept bool, maxFrequency int32)
	// OnVideoFocus reports whether the video surface is now visible.
	OnVideoFocus(hasFocus, unsolicited bool)
	// OnVideoFrame delivers one decoded-or-encoded video frame payload
	// received on AV_MEDIA_INDICATION, with its presentation timestamp
	// when the peer supplied one (spec.md §4.5.4).
	OnVideoFrame(data []byte, timestamp uint64, hasTimestamp bool)
}

// AudioCapability is implemented to receive a media, speech, or system
// audio channel. A single implementer serves all three by switching on
// the kind argument every method carries, since the channels negotiate
// independently (spec.md §4.5.5) and otherwise share an identical
// method set.
type AudioCapability interface {
	OnAudioSetup(kind channel.Kind, configIndex int32) (accept bool, maxFrequency int32)
	OnAudioFrame(kind channel.Kind, data []byte, timestamp uint64, hasTimestamp bool)
	// StartAudio/StopAudio report AV_START_INDICATION/AV_STOP_INDICATION
	// for this channel (spec.md §4.5.5).
	StartAudio(kind channel.Kind)
	StopAudio(kind channel.Kind)
}

// AVInputCapability is implemented to receive the microphone-input
// channel.
type AVInputCapability interface {
	// OnAudioInputOpen and OnAudioInputClose are reported as distinct
	// failure modes (SPEC_FULL.md §12), matching the original's
	// separate open/close error kinds.
	OnAudioInputOpen(session int32) error
	OnAudioInputClose(session int32) error
}

// BluetoothCapability is implemented to receive the in-session
// Bluetooth pairing channel.
type BluetoothCapability interface {
	OnPairingRequest(address string) (accept, alreadyPaired bool)
}

// NavigationCapability is implemented to receive a navigation channel.
type NavigationCapability interface {
	OnNavigationStatus(active bool)
	OnNavigationTurn(event wire.NavigationTurnEvent)
	OnNavigationDistance(event wire.NavigationDistanceEvent)
}

// MediaStatusCapability is implemented to receive a media-status
// channel. Per SPEC_FULL.md §13 item 4, these are logged/delivered,
// never acknowledged.
type MediaStatusCapability interface {
	OnPlaybackStatus(playing bool, position int64)
	OnMetadata(title, artist, album string)
}

// OutboundItem is one message an integration wants sent on a given
// channel kind. channel.Kind, not channel id, is the addressing unit
// here since the integration does not know channel id assignment.
type OutboundItem struct {
	Kind    channel.Kind
	Control bool
	Payload []byte
}

// OutboundSource is implemented by an Integration that produces
// messages asynchronously (input events, sensor batches, video/audio
// frames, navigation updates) rather than only responding to inbound
// requests. The outbound pump (pkg/session) drains this channel for
// the lifetime of the session.
type OutboundSource interface {
	Outbound() <-chan OutboundItem
}
