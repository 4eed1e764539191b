package wire

// VersionStatus is the outcome carried on a VERSION_RESPONSE.
type VersionStatus int32

const (
	VersionMatch    VersionStatus = 0
	VersionMismatch VersionStatus = 1
)

// VersionRequest is sent once by the head unit at session start.
type VersionRequest struct {
	MajorVersion uint16
	MinorVersion uint16
}

func (m VersionRequest) MarshalProto() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.MajorVersion))
	b = appendVarint(b, 2, uint64(m.MinorVersion))
	return b
}

func UnmarshalVersionRequest(data []byte) (VersionRequest, error) {
	var m VersionRequest
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.MajorVersion = uint16(f.Varint)
		case 2:
			m.MinorVersion = uint16(f.Varint)
		}
		return nil
	})
	return m, err
}

// VersionResponse answers a VersionRequest.
type VersionResponse struct {
	MajorVersion uint16
	MinorVersion uint16
	Status       VersionStatus
}

func (m VersionResponse) MarshalProto() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.MajorVersion))
	b = appendVarint(b, 2, uint64(m.MinorVersion))
	b = appendVarint(b, 3, uint64(m.Status))
	return b
}

func UnmarshalVersionResponse(data []byte) (VersionResponse, error) {
	var m VersionResponse
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.MajorVersion = uint16(f.Varint)
		case 2:
			m.MinorVersion = uint16(f.Varint)
		case 3:
			m.Status = VersionStatus(f.Varint)
		}
		return nil
	})
	return m, err
}

// SSLHandshake carries one leg of the in-band TLS handshake. Payload
// is opaque TLS record bytes; this message exists only to give the
// handshake its own tag within the control channel's namespace.
type SSLHandshake struct {
	Payload []byte
}

func (m SSLHandshake) MarshalProto() []byte {
	return appendBytesField(nil, 1, m.Payload)
}

func UnmarshalSSLHandshake(data []byte) (SSLHandshake, error) {
	var m SSLHandshake
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Payload = append([]byte(nil), f.Bytes...)
		}
		return nil
	})
	return m, err
}

// AuthComplete is emitted by the head unit exactly once, when the TLS
// handshake finishes successfully.
type AuthComplete struct {
	Status int32
}

func (m AuthComplete) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.Status)))
}

func UnmarshalAuthComplete(data []byte) (AuthComplete, error) {
	var m AuthComplete
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Status = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

// ChannelDescription is one entry of a ServiceDiscoveryResponse's
// channel list: the channel id assigned by the session driver, a
// small integer identifying its kind (mirrored from pkg/channel.Kind
// so this package stays independent of it), and the channel's own
// capability payload (produced by its Handler.Describe(), already
// protobuf-encoded — see descriptor.go). Capability is nil for
// channels with no negotiable parameters.
type ChannelDescription struct {
	ChannelID  uint32
	Kind       int32
	Capability []byte
}

// ServiceDiscoveryRequest is sent by the mobile device once the
// handshake completes.
type ServiceDiscoveryRequest struct {
	DeviceName  string
	DeviceBrand string
}

func (m ServiceDiscoveryRequest) MarshalProto() []byte {
	var b []byte
	b = appendString(b, 1, m.DeviceName)
	b = appendString(b, 2, m.DeviceBrand)
	return b
}

func UnmarshalServiceDiscoveryRequest(data []byte) (ServiceDiscoveryRequest, error) {
	var m ServiceDiscoveryRequest
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.DeviceName = string(f.Bytes)
		case 2:
			m.DeviceBrand = string(f.Bytes)
		}
		return nil
	})
	return m, err
}

// ServiceDiscoveryResponse answers with the head unit's identity and
// the full list of channels it offers.
type ServiceDiscoveryResponse struct {
	HeadUnitName  string
	CarModel      string
	CarYear       string
	CarSerial     string
	LeftHandDrive bool
	Channels      []ChannelDescription
}

func (m ServiceDiscoveryResponse) MarshalProto() []byte {
	var b []byte
	b = appendString(b, 1, m.HeadUnitName)
	b = appendString(b, 2, m.CarModel)
	b = appendString(b, 3, m.CarYear)
	b = appendString(b, 4, m.CarSerial)
	b = appendBool(b, 5, m.LeftHandDrive)
	for _, c := range m.Channels {
		var cb []byte
		cb = appendVarint(cb, 1, uint64(c.ChannelID))
		cb = appendVarint(cb, 2, uint64(uint32(c.Kind)))
		if c.Capability != nil {
			cb = appendBytesField(cb, 3, c.Capability)
		}
		b = appendBytesField(b, 6, cb)
	}
	return b
}

func UnmarshalServiceDiscoveryResponse(data []byte) (ServiceDiscoveryResponse, error) {
	var m ServiceDiscoveryResponse
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.HeadUnitName = string(f.Bytes)
		case 2:
			m.CarModel = string(f.Bytes)
		case 3:
			m.CarYear = string(f.Bytes)
		case 4:
			m.CarSerial = string(f.Bytes)
		case 5:
			m.LeftHandDrive = f.Varint != 0
		case 6:
			var c ChannelDescription
			if err := ForEachField(f.Bytes, func(cf Field) error {
				switch cf.Num {
				case 1:
					c.ChannelID = uint32(cf.Varint)
				case 2:
					c.Kind = int32(cf.Varint)
				case 3:
					c.Capability = append([]byte(nil), cf.Bytes...)
				}
				return nil
			}); err != nil {
				return err
			}
			m.Channels = append(m.Channels, c)
		}
		return nil
	})
	return m, err
}

// PingRequest/PingResponse carry a millisecond timestamp, used both to
// measure round-trip latency and as a keepalive. The control handler
// answers with the request's timestamp plus one.
type PingRequest struct{ Timestamp int64 }

func (m PingRequest) MarshalProto() []byte { return appendVarint(nil, 1, uint64(m.Timestamp)) }

func UnmarshalPingRequest(data []byte) (PingRequest, error) {
	var m PingRequest
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Timestamp = int64(f.Varint)
		}
		return nil
	})
	return m, err
}

type PingResponse struct{ Timestamp int64 }

func (m PingResponse) MarshalProto() []byte { return appendVarint(nil, 1, uint64(m.Timestamp)) }

func UnmarshalPingResponse(data []byte) (PingResponse, error) {
	var m PingResponse
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Timestamp = int64(f.Varint)
		}
		return nil
	})
	return m, err
}

// NavigationFocusType values.
const (
	NavigationFocusGranted  int32 = 1
	NavigationFocusRejected int32 = 2
)

type NavigationFocusRequest struct{ Type int32 }

func (m NavigationFocusRequest) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.Type)))
}

func UnmarshalNavigationFocusRequest(data []byte) (NavigationFocusRequest, error) {
	var m NavigationFocusRequest
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Type = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

type NavigationFocusResponse struct{ Type int32 }

func (m NavigationFocusResponse) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.Type)))
}

func UnmarshalNavigationFocusResponse(data []byte) (NavigationFocusResponse, error) {
	var m NavigationFocusResponse
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Type = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

type ShutdownRequest struct{ Reason string }

func (m ShutdownRequest) MarshalProto() []byte { return appendString(nil, 1, m.Reason) }

func UnmarshalShutdownRequest(data []byte) (ShutdownRequest, error) {
	var m ShutdownRequest
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Reason = string(f.Bytes)
		}
		return nil
	})
	return m, err
}

type ShutdownResponse struct{}

func (m ShutdownResponse) MarshalProto() []byte { return nil }

func UnmarshalShutdownResponse([]byte) (ShutdownResponse, error) { return ShutdownResponse{}, nil }

type VoiceSessionRequest struct{ Active bool }

func (m VoiceSessionRequest) MarshalProto() []byte { return appendBool(nil, 1, m.Active) }

func UnmarshalVoiceSessionRequest(data []byte) (VoiceSessionRequest, error) {
	var m VoiceSessionRequest
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Active = f.Varint != 0
		}
		return nil
	})
	return m, err
}

// AudioFocusRequestType values, per spec.md §4.5.1. AudioFocusNone is
// not sent on the wire by a conforming peer but is the identity
// element of the focus mapping: a request that carries no recognized
// type decodes to 0, and the fixed mapping sends it straight back.
const (
	AudioFocusNone                 int32 = 0
	AudioFocusGain                 int32 = 1
	AudioFocusGainTransient        int32 = 2
	AudioFocusGainTransientMayDuck int32 = 3
	AudioFocusGainNavi             int32 = 4
	AudioFocusRelease              int32 = 5
)

// AudioFocusResponseType values.
const (
	AudioFocusStateNone                 int32 = 0
	AudioFocusStateGain                 int32 = 1
	AudioFocusStateGainTransient        int32 = 2
	AudioFocusStateLoss                 int32 = 3
	AudioFocusStateLossTransient        int32 = 4
	AudioFocusStateLossTransientCanDuck int32 = 5
)

type AudioFocusRequest struct{ Type int32 }

func (m AudioFocusRequest) MarshalProto() []byte { return appendVarint(nil, 1, uint64(uint32(m.Type))) }

func UnmarshalAudioFocusRequest(data []byte) (AudioFocusRequest, error) {
	var m AudioFocusRequest
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Type = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

type AudioFocusResponse struct{ Type int32 }

func (m AudioFocusResponse) MarshalProto() []byte { return appendVarint(nil, 1, uint64(uint32(m.Type))) }

func UnmarshalAudioFocusResponse(data []byte) (AudioFocusResponse, error) {
	var m AudioFocusResponse
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Type = int32(f.Varint)
		}
		return nil
	})
	return m, err
}
