package frame

import "errors"

// Frame layer errors.
var (
	// ErrDisconnected is returned when the underlying transport is closed
	// or reaches EOF while a frame is expected.
	ErrDisconnected = errors.New("frame: disconnected")

	// ErrTruncated is returned when a frame's declared length cannot be
	// fully read from the transport.
	ErrTruncated = errors.New("frame: truncated frame")

	// ErrOversized is returned when a declared length exceeds the
	// protocol's maximum logical message size.
	ErrOversized = errors.New("frame: oversized frame")

	// ErrOutOfOrderFragment is returned when a Middle or Last fragment
	// arrives on a channel with no First fragment in progress.
	ErrOutOfOrderFragment = errors.New("frame: fragment out of order")

	// ErrFragmentConflict is returned when a First fragment arrives on a
	// channel that already has a reassembly in progress.
	ErrFragmentConflict = errors.New("frame: fragment conflicts with in-progress message")

	// ErrTLSProcessing is returned when the TLS engine fails to process
	// bytes carried by an encrypted frame.
	ErrTLSProcessing = errors.New("frame: tls processing failure")
)
