package wire

import "errors"

// Message codec errors.
var (
	// ErrMalformedProto is returned when a message body cannot be
	// parsed as a well-formed protobuf-wire-format message.
	ErrMalformedProto = errors.New("wire: malformed protobuf body")

	// ErrUnknownMessage names a message tag with no decoder. Nothing in
	// this package returns it; the channel handlers report a tag they
	// do not recognize as channel.ErrUnexpectedMessage.
	ErrUnknownMessage = errors.New("wire: unknown message tag")

	// ErrShortEnvelope is returned when a frame payload is too small to
	// contain even the two-byte message tag.
	ErrShortEnvelope = errors.New("wire: envelope shorter than tag")
)
