package wire

// Per-channel capability payloads embedded in a ChannelDescription's
// Capability field (ServiceDiscoveryResponse, field 3 of each channel
// entry). Each channel kind defines its own shape; a handler with
// nothing to negotiate has no type here and leaves Capability nil.

// AVChannelCapability describes a video, media/speech/system-audio, or
// AV-input channel: the codec configuration indices it is willing to
// negotiate in AV_SETUP_RESPONSE.
type AVChannelCapability struct {
	Configs []int32
}

func (m AVChannelCapability) MarshalProto() []byte {
	var b []byte
	for _, c := range m.Configs {
		b = appendVarint(b, 1, uint64(uint32(c)))
	}
	return b
}

func UnmarshalAVChannelCapability(data []byte) (AVChannelCapability, error) {
	var m AVChannelCapability
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Configs = append(m.Configs, int32(f.Varint))
		}
		return nil
	})
	return m, err
}

// InputChannelCapability describes the input channel: the key codes
// the head unit can forward and, if present, the touchscreen's pixel
// geometry.
type InputChannelCapability struct {
	KeyCodes    []int32
	TouchScreen bool
	TouchWidth  int32
	TouchHeight int32
}

func (m InputChannelCapability) MarshalProto() []byte {
	var b []byte
	for _, k := range m.KeyCodes {
		b = appendVarint(b, 1, uint64(uint32(k)))
	}
	if m.TouchScreen {
		b = appendVarint(b, 2, uint64(uint32(m.TouchWidth)))
		b = appendVarint(b, 3, uint64(uint32(m.TouchHeight)))
	}
	return b
}

func UnmarshalInputChannelCapability(data []byte) (InputChannelCapability, error) {
	var m InputChannelCapability
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.KeyCodes = append(m.KeyCodes, int32(f.Varint))
		case 2:
			m.TouchScreen = true
			m.TouchWidth = int32(f.Varint)
		case 3:
			m.TouchScreen = true
			m.TouchHeight = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

// SensorChannelCapability describes the sensor channel: the sensor
// types the head unit can report readings for.
type SensorChannelCapability struct {
	SensorTypes []int32
}

func (m SensorChannelCapability) MarshalProto() []byte {
	var b []byte
	for _, t := range m.SensorTypes {
		b = appendVarint(b, 1, uint64(uint32(t)))
	}
	return b
}

func UnmarshalSensorChannelCapability(data []byte) (SensorChannelCapability, error) {
	var m SensorChannelCapability
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.SensorTypes = append(m.SensorTypes, int32(f.Varint))
		}
		return nil
	})
	return m, err
}

// AudioChannelCapability describes a media, speech, or system audio
// channel: the codec configuration indices offered, plus the fixed
// PCM format each config implies (spec.md §4.5.5: sample rate, channel
// count, bits per sample are not separately negotiated per config in
// this protocol, so one fixed format is advertised per channel).
type AudioChannelCapability struct {
	Configs       []int32
	SampleRate    int32
	ChannelCount  int32
	BitsPerSample int32
}

func (m AudioChannelCapability) MarshalProto() []byte {
	var b []byte
	for _, c := range m.Configs {
		b = appendVarint(b, 1, uint64(uint32(c)))
	}
	b = appendVarint(b, 2, uint64(uint32(m.SampleRate)))
	b = appendVarint(b, 3, uint64(uint32(m.ChannelCount)))
	b = appendVarint(b, 4, uint64(uint32(m.BitsPerSample)))
	return b
}

func UnmarshalAudioChannelCapability(data []byte) (AudioChannelCapability, error) {
	var m AudioChannelCapability
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.Configs = append(m.Configs, int32(f.Varint))
		case 2:
			m.SampleRate = int32(f.Varint)
		case 3:
			m.ChannelCount = int32(f.Varint)
		case 4:
			m.BitsPerSample = int32(f.Varint)
		}
		return nil
	})
	return m, err
}
