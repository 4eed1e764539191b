package wire

// InputBindingRequest negotiates which key codes and touch surfaces
// the mobile device wants delivered on the input channel.
type InputBindingRequest struct {
	KeyCodes   []int32
	TouchScreen bool
}

func (m InputBindingRequest) MarshalProto() []byte {
	var b []byte
	for _, k := range m.KeyCodes {
		b = appendVarint(b, 1, uint64(uint32(k)))
	}
	b = appendBool(b, 2, m.TouchScreen)
	return b
}

func UnmarshalInputBindingRequest(data []byte) (InputBindingRequest, error) {
	var m InputBindingRequest
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.KeyCodes = append(m.KeyCodes, int32(f.Varint))
		case 2:
			m.TouchScreen = f.Varint != 0
		}
		return nil
	})
	return m, err
}

type InputBindingResponse struct {
	Status int32
}

func (m InputBindingResponse) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.Status)))
}

func UnmarshalInputBindingResponse(data []byte) (InputBindingResponse, error) {
	var m InputBindingResponse
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Status = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

// InputEventIndication carries one key press/release or touch
// coordinate update from the head unit to the mobile device.
type InputEventIndication struct {
	Timestamp int64
	KeyCode   int32
	Down      bool
	HasTouch  bool
	TouchX    int32
	TouchY    int32
}

func (m InputEventIndication) MarshalProto() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Timestamp))
	b = appendVarint(b, 2, uint64(uint32(m.KeyCode)))
	b = appendBool(b, 3, m.Down)
	if m.HasTouch {
		b = appendVarint(b, 4, uint64(uint32(m.TouchX)))
		b = appendVarint(b, 5, uint64(uint32(m.TouchY)))
	}
	return b
}

func UnmarshalInputEventIndication(data []byte) (InputEventIndication, error) {
	var m InputEventIndication
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.Timestamp = int64(f.Varint)
		case 2:
			m.KeyCode = int32(f.Varint)
		case 3:
			m.Down = f.Varint != 0
		case 4:
			m.TouchX = int32(f.Varint)
			m.HasTouch = true
		case 5:
			m.TouchY = int32(f.Varint)
			m.HasTouch = true
		}
		return nil
	})
	return m, err
}

type SensorStartRequest struct {
	SensorType int32
}

func (m SensorStartRequest) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.SensorType)))
}

func UnmarshalSensorStartRequest(data []byte) (SensorStartRequest, error) {
	var m SensorStartRequest
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.SensorType = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

type SensorStartResponse struct {
	Status int32
}

func (m SensorStartResponse) MarshalProto() []byte {
	return appendVarint(nil, 1, uint64(uint32(m.Status)))
}

func UnmarshalSensorStartResponse(data []byte) (SensorStartResponse, error) {
	var m SensorStartResponse
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Status = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

// SensorValue is one reading of a (possibly multi-axis) sensor
// sample, e.g. the three axes of one accelerometer reading.
type SensorValue struct {
	Values []float64
}

// SensorEventIndication carries a batch of sensor readings, matching
// the original's nested repeated-value shape (see SPEC_FULL.md §12).
type SensorEventIndication struct {
	SensorType int32
	Batch      []SensorValue
}

func (m SensorEventIndication) MarshalProto() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(uint32(m.SensorType)))
	for _, v := range m.Batch {
		var vb []byte
		for _, f := range v.Values {
			vb = appendFixed64(vb, 1, floatBits(f))
		}
		b = appendBytesField(b, 2, vb)
	}
	return b
}

func UnmarshalSensorEventIndication(data []byte) (SensorEventIndication, error) {
	var m SensorEventIndication
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.SensorType = int32(f.Varint)
		case 2:
			var v SensorValue
			if err := ForEachField(f.Bytes, func(vf Field) error {
				if vf.Num == 1 {
					v.Values = append(v.Values, bitsFloat(vf.Fixed64))
				}
				return nil
			}); err != nil {
				return err
			}
			m.Batch = append(m.Batch, v)
		}
		return nil
	})
	return m, err
}
