package frame

import (
	"fmt"
	"io"
)

// TLSProcessor is the subset of the TLS engine the codec needs to
// encrypt outbound fragments and decrypt inbound ones. It is an
// interface here so this package never imports tlsengine; tlsengine.Engine
// satisfies it.
type TLSProcessor interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Message is one fully reassembled, decrypted logical message read
// from a channel.
type Message struct {
	ChannelID uint8
	Control   bool
	Payload   []byte
}

// OutboundFrame is a logical message to be encoded, fragmented and
// (optionally) encrypted as needed.
type OutboundFrame struct {
	ChannelID uint8
	Control   bool
	Encrypted bool
	Payload   []byte
}

type pending struct {
	buf   []byte
	total uint32
}

// Codec reassembles fragmented messages per channel and drives a
// TLSProcessor over encrypted segments. A Codec is not safe for
// concurrent use; the transport mux serializes reads and writes
// separately, each against its own Codec use (see pkg/transport).
type Codec struct {
	reassembly map[uint8]*pending
}

// NewCodec returns a Codec with empty per-channel reassembly state.
func NewCodec() *Codec {
	return &Codec{reassembly: make(map[uint8]*pending)}
}

// Decode reads wire segments from r, decrypting each via tp when its
// header marks it encrypted, until one complete logical message has
// been reassembled on some channel, and returns it. tp may be nil when
// no encrypted traffic is expected yet (before the TLS handshake
// completes); decoding an encrypted segment with a nil tp is an error.
func (c *Codec) Decode(r io.Reader, tp TLSProcessor) (*Message, error) {
	for {
		h, body, total, err := readSegment(r)
		if err != nil {
			return nil, err
		}

		plaintext := body
		if h.Encrypted {
			if tp == nil {
				return nil, fmt.Errorf("%w: encrypted segment before handshake completion", ErrTLSProcessing)
			}
			plaintext, err = tp.Decrypt(body)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrTLSProcessing, err)
			}
		}

		switch h.FragmentType {
		case FragmentSingle:
			return &Message{ChannelID: h.ChannelID, Control: h.Control, Payload: plaintext}, nil

		case FragmentFirst:
			if _, exists := c.reassembly[h.ChannelID]; exists {
				return nil, fmt.Errorf("%w: channel %d", ErrFragmentConflict, h.ChannelID)
			}
			buf := make([]byte, 0, total)
			c.reassembly[h.ChannelID] = &pending{buf: append(buf, plaintext...), total: total}

		case FragmentMiddle:
			p, exists := c.reassembly[h.ChannelID]
			if !exists {
				return nil, fmt.Errorf("%w: channel %d", ErrOutOfOrderFragment, h.ChannelID)
			}
			p.buf = append(p.buf, plaintext...)

		case FragmentLast:
			p, exists := c.reassembly[h.ChannelID]
			if !exists {
				return nil, fmt.Errorf("%w: channel %d", ErrOutOfOrderFragment, h.ChannelID)
			}
			p.buf = append(p.buf, plaintext...)
			delete(c.reassembly, h.ChannelID)
			return &Message{ChannelID: h.ChannelID, Control: h.Control, Payload: p.buf}, nil

		default:
			return nil, fmt.Errorf("frame: unknown fragment type %d", h.FragmentType)
		}
	}
}

// Encode writes msg to w as one frame, or as a First/Middle*/Last run
// of frames when its payload exceeds MaxPayload. Each fragment is
// encrypted independently through tp when msg.Encrypted is set, so
// the wire length field always covers exactly one TLS record's worth
// of ciphertext.
func (c *Codec) Encode(w io.Writer, msg OutboundFrame, tp TLSProcessor) error {
	if msg.Encrypted && tp == nil {
		return fmt.Errorf("%w: encrypted send before handshake completion", ErrTLSProcessing)
	}

	if len(msg.Payload) <= MaxPayload {
		return c.writeFragment(w, msg, msg.Payload, FragmentSingle, uint32(len(msg.Payload)), tp)
	}

	total := uint32(len(msg.Payload))
	offset := 0
	for offset < len(msg.Payload) {
		end := offset + MaxPayload
		if end > len(msg.Payload) {
			end = len(msg.Payload)
		}
		chunk := msg.Payload[offset:end]

		var ft FragmentType
		switch {
		case offset == 0:
			ft = FragmentFirst
		case end == len(msg.Payload):
			ft = FragmentLast
		default:
			ft = FragmentMiddle
		}

		if err := c.writeFragment(w, msg, chunk, ft, total, tp); err != nil {
			return err
		}
		offset = end
	}
	return nil
}

func (c *Codec) writeFragment(w io.Writer, msg OutboundFrame, chunk []byte, ft FragmentType, total uint32, tp TLSProcessor) error {
	h := Header{
		ChannelID:    msg.ChannelID,
		FragmentType: ft,
		Control:      msg.Control,
		Encrypted:    msg.Encrypted,
	}

	body := chunk
	if msg.Encrypted {
		ciphertext, err := tp.Encrypt(chunk)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTLSProcessing, err)
		}
		body = ciphertext
	}

	return writeSegment(w, h, body, total)
}
