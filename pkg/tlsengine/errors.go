package tlsengine

import "errors"

// TLS engine errors.
var (
	// ErrHandshakeFailed wraps a handshake error surfaced by crypto/tls.
	ErrHandshakeFailed = errors.New("tlsengine: handshake failed")

	// ErrHandshakeTimeout is returned when a handshake step produces
	// neither outbound bytes nor completion within the configured
	// activity window, which only happens against a hung or malicious
	// peer since all processing here is in-memory.
	ErrHandshakeTimeout = errors.New("tlsengine: handshake activity timeout")

	// ErrNotEstablished is returned when Encrypt or Decrypt is called
	// before the handshake has completed.
	ErrNotEstablished = errors.New("tlsengine: connection not established")

	// ErrAlreadyStarted is returned when StartHandshake is called more
	// than once on the same Engine.
	ErrAlreadyStarted = errors.New("tlsengine: handshake already started")

	// ErrClosed names use of the engine after Close. No Engine method
	// returns it; after Close, Encrypt and Decrypt fail with the error
	// of the closed underlying connection.
	ErrClosed = errors.New("tlsengine: closed")
)
