// Package wire implements the message-level codec that sits on top of
// pkg/frame: a two-byte big-endian message tag followed by a
// protobuf-wire-format body, per channel. The authoritative .proto
// schemas were not available when this was written (see DESIGN.md);
// message bodies are hand-encoded against
// google.golang.org/protobuf/encoding/protowire's tag/varint/
// length-delimited primitives, which produces real protobuf wire
// bytes without a generated .pb.go.
package wire

import "encoding/binary"

// Tag identifies a message type within one channel's own, independent
// tag namespace; channel_id (not the tag) disambiguates which
// namespace applies.
type Tag uint16

// TagSize is the width of the tag prefix on every message body.
const TagSize = 2

// Envelope splits a frame payload into its message tag and protobuf
// body, or joins them back together.
type Envelope struct {
	Tag  Tag
	Body []byte
}

// Encode returns the wire bytes for e: a two-byte big-endian tag
// followed by the body verbatim.
func (e Envelope) Encode() []byte {
	out := make([]byte, TagSize+len(e.Body))
	binary.BigEndian.PutUint16(out, uint16(e.Tag))
	copy(out[TagSize:], e.Body)
	return out
}

// DecodeEnvelope splits a frame payload into its tag and body.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	if len(payload) < TagSize {
		return Envelope{}, ErrShortEnvelope
	}
	return Envelope{
		Tag:  Tag(binary.BigEndian.Uint16(payload)),
		Body: payload[TagSize:],
	}, nil
}
