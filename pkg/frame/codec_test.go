package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestCodecRoundTripSingle(t *testing.T) {
	var buf bytes.Buffer
	c := NewCodec()

	msg := OutboundFrame{ChannelID: 3, Control: true, Payload: []byte("hello")}
	if err := c.Encode(&buf, msg, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := NewCodec().Decode(&buf, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ChannelID != 3 || !got.Control || string(got.Payload) != "hello" {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestCodecRoundTripFragmented(t *testing.T) {
	var buf bytes.Buffer
	c := NewCodec()

	payload := bytes.Repeat([]byte{0xAB}, MaxPayload*2+123)
	msg := OutboundFrame{ChannelID: 5, Payload: payload}
	if err := c.Encode(&buf, msg, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := NewCodec().Decode(&buf, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Fatalf("reassembled payload mismatch: got %d bytes, want %d", len(got.Payload), len(payload))
	}
}

func TestCodecInterleavedChannelsFragment(t *testing.T) {
	// Two channels each fragmenting independently must not interfere
	// with each other's reassembly state.
	var buf bytes.Buffer
	c := NewCodec()

	a := bytes.Repeat([]byte{0x01}, MaxPayload+10)
	b := bytes.Repeat([]byte{0x02}, MaxPayload+20)

	if err := c.Encode(&buf, OutboundFrame{ChannelID: 1, Payload: a}, nil); err != nil {
		t.Fatalf("encode a: %v", err)
	}
	if err := c.Encode(&buf, OutboundFrame{ChannelID: 2, Payload: b}, nil); err != nil {
		t.Fatalf("encode b: %v", err)
	}

	dec := NewCodec()
	first, err := dec.Decode(&buf, nil)
	if err != nil {
		t.Fatalf("decode first: %v", err)
	}
	second, err := dec.Decode(&buf, nil)
	if err != nil {
		t.Fatalf("decode second: %v", err)
	}

	byChannel := map[uint8][]byte{first.ChannelID: first.Payload, second.ChannelID: second.Payload}
	if !bytes.Equal(byChannel[1], a) {
		t.Fatalf("channel 1 payload mismatch")
	}
	if !bytes.Equal(byChannel[2], b) {
		t.Fatalf("channel 2 payload mismatch")
	}
}

func TestCodecOutOfOrderFragment(t *testing.T) {
	var buf bytes.Buffer
	h := Header{ChannelID: 1, FragmentType: FragmentMiddle}
	if err := writeSegment(&buf, h, []byte("x"), 0); err != nil {
		t.Fatalf("writeSegment: %v", err)
	}

	_, err := NewCodec().Decode(&buf, nil)
	if !errors.Is(err, ErrOutOfOrderFragment) {
		t.Fatalf("expected ErrOutOfOrderFragment, got %v", err)
	}
}

func TestCodecFragmentConflict(t *testing.T) {
	var buf bytes.Buffer
	h := Header{ChannelID: 1, FragmentType: FragmentFirst}
	if err := writeSegment(&buf, h, []byte("a"), 100); err != nil {
		t.Fatalf("writeSegment 1: %v", err)
	}
	if err := writeSegment(&buf, h, []byte("b"), 100); err != nil {
		t.Fatalf("writeSegment 2: %v", err)
	}

	// Decode has no complete message after the first First, so it
	// keeps reading and meets the second First on the same channel.
	c := NewCodec()
	if _, err := c.Decode(&buf, nil); !errors.Is(err, ErrFragmentConflict) {
		t.Fatalf("expected ErrFragmentConflict, got %v", err)
	}
}

func TestCodecOversizedTotal(t *testing.T) {
	var buf bytes.Buffer
	h := Header{ChannelID: 1, FragmentType: FragmentFirst}
	if err := writeSegment(&buf, h, []byte("a"), MaxLogicalMessage+1); err != nil {
		t.Fatalf("writeSegment: %v", err)
	}

	_, err := NewCodec().Decode(&buf, nil)
	if !errors.Is(err, ErrOversized) {
		t.Fatalf("expected ErrOversized, got %v", err)
	}
}

func TestCodecEncryptedRequiresProcessor(t *testing.T) {
	var buf bytes.Buffer
	c := NewCodec()
	msg := OutboundFrame{ChannelID: 1, Encrypted: true, Payload: []byte("secret")}
	if err := c.Encode(&buf, msg, nil); !errors.Is(err, ErrTLSProcessing) {
		t.Fatalf("expected ErrTLSProcessing, got %v", err)
	}
}

type passthroughTLS struct{}

func (passthroughTLS) Encrypt(p []byte) ([]byte, error) { return append([]byte("ct:"), p...), nil }
func (passthroughTLS) Decrypt(p []byte) ([]byte, error) {
	if len(p) < 3 || string(p[:3]) != "ct:" {
		return nil, errors.New("bad ciphertext")
	}
	return p[3:], nil
}

func TestCodecEncryptedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	tp := passthroughTLS{}
	c := NewCodec()
	msg := OutboundFrame{ChannelID: 9, Encrypted: true, Payload: []byte("top secret")}
	if err := c.Encode(&buf, msg, tp); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := NewCodec().Decode(&buf, tp)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got.Payload) != "top secret" {
		t.Fatalf("unexpected payload %q", got.Payload)
	}
}

func TestCodecDisconnected(t *testing.T) {
	_, err := NewCodec().Decode(bytes.NewReader(nil), nil)
	if !errors.Is(err, ErrDisconnected) {
		t.Fatalf("expected ErrDisconnected, got %v", err)
	}
}

func TestCodecTruncated(t *testing.T) {
	_, err := NewCodec().Decode(bytes.NewReader([]byte{0, 3}), nil)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
