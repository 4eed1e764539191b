package wire

// DistanceUnit and TurnSide enumerate the fields the original source
// carries on navigation events (SPEC_FULL.md §12); the distilled spec
// omits them but a real navigation handler cannot round-trip without
// them.
type DistanceUnit int32

const (
	DistanceUnitMeters     DistanceUnit = 0
	DistanceUnitKilometers DistanceUnit = 1
	DistanceUnitFeet       DistanceUnit = 2
	DistanceUnitMiles      DistanceUnit = 3
	DistanceUnitYards      DistanceUnit = 4
)

type TurnSide int32

const (
	TurnSideUnspecified TurnSide = 0
	TurnSideLeft        TurnSide = 1
	TurnSideRight       TurnSide = 2
)

type NavigationStatus struct {
	Active bool
}

func (m NavigationStatus) MarshalProto() []byte { return appendBool(nil, 1, m.Active) }

func UnmarshalNavigationStatus(data []byte) (NavigationStatus, error) {
	var m NavigationStatus
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Active = f.Varint != 0
		}
		return nil
	})
	return m, err
}

type NavigationTurnEvent struct {
	RoadName string
	Side     TurnSide
	Angle    int32
}

func (m NavigationTurnEvent) MarshalProto() []byte {
	var b []byte
	b = appendString(b, 1, m.RoadName)
	b = appendVarint(b, 2, uint64(uint32(m.Side)))
	b = appendVarint(b, 3, uint64(uint32(m.Angle)))
	return b
}

func UnmarshalNavigationTurnEvent(data []byte) (NavigationTurnEvent, error) {
	var m NavigationTurnEvent
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.RoadName = string(f.Bytes)
		case 2:
			m.Side = TurnSide(f.Varint)
		case 3:
			m.Angle = int32(f.Varint)
		}
		return nil
	})
	return m, err
}

type NavigationDistanceEvent struct {
	Distance int32
	Unit     DistanceUnit
}

func (m NavigationDistanceEvent) MarshalProto() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(uint32(m.Distance)))
	b = appendVarint(b, 2, uint64(uint32(m.Unit)))
	return b
}

func UnmarshalNavigationDistanceEvent(data []byte) (NavigationDistanceEvent, error) {
	var m NavigationDistanceEvent
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.Distance = int32(f.Varint)
		case 2:
			m.Unit = DistanceUnit(f.Varint)
		}
		return nil
	})
	return m, err
}

type MediaPlaybackStatus struct {
	Playing  bool
	Position int64
}

func (m MediaPlaybackStatus) MarshalProto() []byte {
	var b []byte
	b = appendBool(b, 1, m.Playing)
	b = appendVarint(b, 2, uint64(m.Position))
	return b
}

func UnmarshalMediaPlaybackStatus(data []byte) (MediaPlaybackStatus, error) {
	var m MediaPlaybackStatus
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.Playing = f.Varint != 0
		case 2:
			m.Position = int64(f.Varint)
		}
		return nil
	})
	return m, err
}

type MediaMetadata struct {
	Title  string
	Artist string
	Album  string
}

func (m MediaMetadata) MarshalProto() []byte {
	var b []byte
	b = appendString(b, 1, m.Title)
	b = appendString(b, 2, m.Artist)
	b = appendString(b, 3, m.Album)
	return b
}

func UnmarshalMediaMetadata(data []byte) (MediaMetadata, error) {
	var m MediaMetadata
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.Title = string(f.Bytes)
		case 2:
			m.Artist = string(f.Bytes)
		case 3:
			m.Album = string(f.Bytes)
		}
		return nil
	})
	return m, err
}

// BluetoothPairingRequest/Response carry the session-phase Bluetooth
// pairing handshake that rides the dedicated pairing channel rather
// than the out-of-scope pre-session rendezvous (spec.md §1 Non-goals).
type BluetoothPairingRequest struct {
	Address string
}

func (m BluetoothPairingRequest) MarshalProto() []byte { return appendString(nil, 1, m.Address) }

func UnmarshalBluetoothPairingRequest(data []byte) (BluetoothPairingRequest, error) {
	var m BluetoothPairingRequest
	err := ForEachField(data, func(f Field) error {
		if f.Num == 1 {
			m.Address = string(f.Bytes)
		}
		return nil
	})
	return m, err
}

type BluetoothPairingResponse struct {
	Status int32
	AlreadyPaired bool
}

func (m BluetoothPairingResponse) MarshalProto() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(uint32(m.Status)))
	b = appendBool(b, 2, m.AlreadyPaired)
	return b
}

func UnmarshalBluetoothPairingResponse(data []byte) (BluetoothPairingResponse, error) {
	var m BluetoothPairingResponse
	err := ForEachField(data, func(f Field) error {
		switch f.Num {
		case 1:
			m.Status = int32(f.Varint)
		case 2:
			m.AlreadyPaired = f.Varint != 0
		}
		return nil
	})
	return m, err
}
