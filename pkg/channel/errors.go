package channel

import "errors"

// Channel-layer errors.
var (
	// ErrUnexpectedMessage is returned when a handler receives a
	// message tag that is well-formed but not valid in the channel's
	// current state (spec.md §9 open question 3: an inbound
	// VERSION_REQUEST on the control channel is one example).
	ErrUnexpectedMessage = errors.New("channel: unexpected message for current state")

	// ErrPeerShutdown is returned by the control handler when the peer
	// sends SHUTDOWN_REQUEST. It is distinguished from other
	// session-ending errors so a supervising accept loop can retry
	// immediately instead of backing off, since this is a clean,
	// expected end of session rather than a fault.
	ErrPeerShutdown = errors.New("channel: peer requested shutdown")

	// ErrVersionMismatch is returned when the peer's VERSION_RESPONSE
	// reports a protocol version the head unit does not support.
	ErrVersionMismatch = errors.New("channel: protocol version mismatch")

	// ErrVideoChannelNotOpen is returned when an AV_MEDIA_INDICATION
	// arrives on the video channel before any AV_START_INDICATION has
	// recorded a session (spec.md §4.5.4).
	ErrVideoChannelNotOpen = errors.New("channel: video media frame before channel open")
)
