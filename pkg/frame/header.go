// Package frame implements the channel-multiplexed wire framing used
// between the head unit and the mobile device: a one-byte channel
// identifier, a packed flags byte carrying fragmentation state plus the
// control and encrypted bits, a 16-bit big-endian payload length, and
// (for the first fragment of a multi-frame message) a 32-bit big-endian
// total length used only to size a reassembly buffer.
package frame

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FragmentType identifies a frame's position within a (possibly
// fragmented) logical message. It occupies the low two bits of the
// flags byte.
type FragmentType uint8

const (
	// FragmentMiddle is an interior fragment of a multi-frame message.
	FragmentMiddle FragmentType = 0
	// FragmentFirst is the first fragment of a multi-frame message; it
	// carries the 32-bit total length field.
	FragmentFirst FragmentType = 1
	// FragmentLast is the final fragment of a multi-frame message.
	FragmentLast FragmentType = 2
	// FragmentSingle is a complete, unfragmented message.
	FragmentSingle FragmentType = 3
)

func (f FragmentType) String() string {
	switch f {
	case FragmentMiddle:
		return "middle"
	case FragmentFirst:
		return "first"
	case FragmentLast:
		return "last"
	case FragmentSingle:
		return "single"
	default:
		return fmt.Sprintf("fragment(%d)", uint8(f))
	}
}

const (
	flagFragmentMask = 0x03
	flagControl      = 0x04
	flagEncrypted    = 0x08
)

// MaxPayload is the largest plaintext payload carried by a single
// frame before fragmentation is required.
const MaxPayload = 16384

// MaxLogicalMessage bounds the total length a First fragment may
// declare. It exists to stop a hostile or corrupt total-length field
// from driving an unbounded reassembly-buffer allocation; ordinary
// messages never approach it.
const MaxLogicalMessage = 64 * 1024

// Header is the fixed two-byte frame header (channel id and flags).
// The length field(s) that follow it on the wire are handled
// separately by Codec, since their width depends on FragmentType.
type Header struct {
	ChannelID    uint8
	FragmentType FragmentType
	Control      bool
	Encrypted    bool
}

// HeaderSize is the encoded size, in bytes, of Header alone (excluding
// the length field(s) that follow it).
const HeaderSize = 2

func (h Header) flags() byte {
	var b byte
	b |= byte(h.FragmentType) & flagFragmentMask
	if h.Control {
		b |= flagControl
	}
	if h.Encrypted {
		b |= flagEncrypted
	}
	return b
}

// Encode writes the two header bytes to b, which must have length at
// least HeaderSize, and returns the number of bytes written.
func (h Header) Encode(b []byte) int {
	b[0] = h.ChannelID
	b[1] = h.flags()
	return HeaderSize
}

// decodeHeader parses the two header bytes in b.
func decodeHeader(b []byte) Header {
	return Header{
		ChannelID:    b[0],
		FragmentType: FragmentType(b[1] & flagFragmentMask),
		Control:      b[1]&flagControl != 0,
		Encrypted:    b[1]&flagEncrypted != 0,
	}
}

// readFull reads exactly len(b) bytes from r, translating io.EOF and
// io.ErrUnexpectedEOF into the frame package's own sentinels.
func readFull(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF {
			return ErrDisconnected
		}
		if err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		return err
	}
	return nil
}

// readSegment reads one wire segment: the two header bytes, the
// length field (two bytes, preceded by four more for FragmentFirst),
// and the raw body bytes that follow. The body is opaque at this
// layer: it is TLS ciphertext when Header.Encrypted is set, and plain
// bytes otherwise.
func readSegment(r io.Reader) (Header, []byte, uint32, error) {
	var hb [HeaderSize]byte
	if err := readFull(r, hb[:]); err != nil {
		return Header{}, nil, 0, err
	}
	h := decodeHeader(hb[:])

	// Once the header is in, the stream ending before the rest of the
	// segment is a truncated frame, not a disconnect at a frame boundary.
	readRest := func(b []byte) error {
		if err := readFull(r, b); err != ErrDisconnected {
			return err
		}
		return fmt.Errorf("%w: %v", ErrTruncated, io.ErrUnexpectedEOF)
	}

	var lb [2]byte
	if err := readRest(lb[:]); err != nil {
		return Header{}, nil, 0, err
	}
	length := binary.BigEndian.Uint16(lb[:])

	var total uint32
	if h.FragmentType == FragmentFirst {
		var tb [4]byte
		if err := readRest(tb[:]); err != nil {
			return Header{}, nil, 0, err
		}
		total = binary.BigEndian.Uint32(tb[:])
		if total > MaxLogicalMessage {
			return Header{}, nil, 0, fmt.Errorf("%w: declared total %d", ErrOversized, total)
		}
	}

	body := make([]byte, length)
	if err := readRest(body); err != nil {
		return Header{}, nil, 0, err
	}
	return h, body, total, nil
}

// writeSegment writes one wire segment for h, with body as the raw
// wire bytes (already encrypted if h.Encrypted) and total set only
// when h.FragmentType is FragmentFirst.
func writeSegment(w io.Writer, h Header, body []byte, total uint32) error {
	if len(body) > 0xFFFF {
		return fmt.Errorf("%w: segment body %d bytes", ErrOversized, len(body))
	}
	hdrLen := HeaderSize + 2
	if h.FragmentType == FragmentFirst {
		hdrLen += 4
	}
	buf := make([]byte, hdrLen, hdrLen+len(body))
	n := h.Encode(buf)
	binary.BigEndian.PutUint16(buf[n:], uint16(len(body)))
	n += 2
	if h.FragmentType == FragmentFirst {
		binary.BigEndian.PutUint32(buf[n:], total)
	}
	buf = append(buf, body...)
	_, err := w.Write(buf)
	return err
}
