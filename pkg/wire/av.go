package wire

// Message shapes shared by the video, media-audio, speech-audio,
// system-audio and AV-input channels. Each channel kind interprets
// ChannelOpen/AVSetup/Start/Stop/Media(Ack) independently within its
// own tag namespace (see tags.go), but the bodies are identical, so
// one set of Go types serves all of them; pkg/handlers picks which
// messages apply to which channel kind.

type ChannelOpenRequest struct {
	Priority int32
}

func (m ChannelOpenRequest) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.Priority)))
}

func UnmarshalChannelOpenRequest(data []byte) (ChannelOpenRequest, error) {
	var m ChannelOpenRequest
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Priority = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

type ChannelOpenResponse struct {
	Status int32
}

func (m ChannelOpenResponse) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.Status)))
}

func UnmarshalChannelOpenResponse(data []byte) (ChannelOpenResponse, error) {
	var m ChannelOpenResponse
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Status = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

// AVSetupRequest carries the codec configuration index the mobile
// device wants to use.
type AVSetupRequest struct {
	ConfigIndex int32
}

func (m AVSetupRequest) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.ConfigIndex)))
}

func UnmarshalAVSetupRequest(data []byte) (AVSetupRequest, error) {
	var m AVSetupRequest
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.ConfigIndex = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

// AVSetupResponse answers with the configs the head unit is willing
// to use (plural: see SPEC_FULL.md §12, the original allows offering
// more than one codec configuration).
// AVSetupResponse answers an AV_SETUP_REQUEST. MaxUnacked bounds how
// many AV_MEDIA_INDICATION frames the peer may have outstanding
// without an AV_MEDIA_ACK_INDICATION (spec.md §4.5.4/§4.5.5: 1 for
// video, 10 for audio channels).
type AVSetupResponse struct {
	Status       int32
	Configs      []int32
	MaxFrequency int32
	MaxUnacked   int32
}

func (m AVSetupResponse) MarshalProto() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(uint32(m.Status)))
	for _, c := range m.Configs {
		b = appendVarint(b, 2, uint64(uint32(c)))
	}
	b = appendVarint(b, 3, uint64(uint32(m.MaxFrequency)))
	b = appendVarint(b, 4, uint64(uint32(m.MaxUnacked)))
	return b
}

func UnmarshalAVSetupResponse(data []byte) (AVSetupResponse, error) {
	var m AVSetupResponse
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.Status = int32(f.Varint)
		case 2:
			m.Configs = append(m.Configs, int32(f.Varint))
		case 3:
			m.MaxFrequency = int32(f.Varint)
		case 4:
			m.MaxUnacked = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

type AVStartIndication struct {
	Session int32
}

func (m AVStartIndication) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.Session)))
}

func UnmarshalAVStartIndication(data []byte) (AVStartIndication, error) {
	var m AVStartIndication
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Session = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

type AVStopIndication struct{}

func (m AVStopIndication) MarshalProto() []byte { return nil }

func UnmarshalAVStopIndication([]byte) (AVStopIndication, error) { return AVStopIndication{}, nil }

// AVMediaIndication carries one media payload (an encoded video
// frame, or a block of PCM/compressed audio), with an optional
// presentation timestamp.
type AVMediaIndication struct {
	Timestamp uint64
	HasTimestamp bool
	Data      []byte
}

func (m AVMediaIndication) MarshalProto() []byte {
	var b []byte
	if m.HasTimestamp {
		b = appendFixed64(b, 1, m.Timestamp)
	}
	b = appendBytesField(b, 2, m.Data)
	return b
}

func UnmarshalAVMediaIndication(data []byte) (AVMediaIndication, error) {
	var m AVMediaIndication
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.Timestamp = f.Fixed64
			m.HasTimestamp = true
		case 2:
			m.Data = append([]byte(nil), f.Bytes...)
		}
		return nil
	})
	return m, err
}

type AVMediaAckIndication struct {
	Session int32
}

func (m AVMediaAckIndication) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.Session)))
}

func UnmarshalAVMediaAckIndication(data []byte) (AVMediaAckIndication, error) {
	var m AVMediaAckIndication
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Session = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

// VideoFocusMode values carried on a VideoFocusRequest.
const (
	VideoFocusModeFocused   int32 = 1
	VideoFocusModeUnfocused int32 = 2
)

// VideoFocusRequest/Indication negotiate whether the projected video
// surface is visible. The video channel uses them, and the audio
// channels answer a VIDEO_FOCUS_REQUEST with the same indication.
type VideoFocusRequest struct {
	Mode int32
}

func (m VideoFocusRequest) MarshalProto() []byte { return appendVarint(nil, 1, uint64(uint32(m.Mode))) }

func UnmarshalVideoFocusRequest(data []byte) (VideoFocusRequest, error) {
	var m VideoFocusRequest
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Mode = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

type VideoFocusIndication struct {
	HasFocus  bool
	Unsolicited bool
}

func (m VideoFocusIndication) MarshalProto() []byte {
	var b []byte
	b = appendBool(b, 1, m.HasFocus)
	b = appendBool(b, 2, m.Unsolicited)
	return b
}

func UnmarshalVideoFocusIndication(data []byte) (VideoFocusIndication, error) {
	var m VideoFocusIndication
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.HasFocus = f.Varint != 0
		case 2:
			m.Unsolicited = f.Varint != 0
		}
		return nil
	})
	return m, err
}

// AVInputOpenRequest is sent by the mobile device to ask the head unit
// to open or close the microphone input (e.g. for a voice-recognition
// session).
type AVInputOpenRequest struct {
	Open    bool
	Session int32
}

func (m AVInputOpenRequest) MarshalProto() []byte {
	var b []byte
	b = appendBool(b, 1, m.Open)
	b = appendVarint(b, 2, uint64(uint32(m.Session)))
	return b
}

func UnmarshalAVInputOpenRequest(data []byte) (AVInputOpenRequest, error) {
	var m AVInputOpenRequest
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.Open = f.Varint != 0
		case 2:
			m.Session = int32(f.Varint)
		}
		return nil
	})
	return m, err
}
