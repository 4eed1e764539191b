package transport

import "errors"

// Mux errors.
var (
	// ErrClosed is returned when Send or ReadMessage is called on a
	// closed Mux.
	ErrClosed = errors.New("transport: closed")
)
