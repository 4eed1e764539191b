package session

import "errors"

// Session-level errors.
var (
	// ErrClosed names an operation on a session that has already
	// ended. No function in this package returns it.
	ErrClosed = errors.New("session: closed")

	// ErrNoChannelForMessage is returned when an inbound frame
	// addresses a channel id the session never assigned.
	ErrNoChannelForMessage = errors.New("session: no handler for channel id")
)
