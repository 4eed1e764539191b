package wire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

func floatBits(f float64) uint64 { return math.Float64bits(f) }
func bitsFloat(b uint64) float64 { return math.Float64frombits(b) }

// Field is one decoded protobuf wire-format field, as produced by
// ForEachField. Exactly one of Varint, Bytes, Fixed64 or Fixed32 is
// meaningful, selected by Type.
type Field struct {
	Num     protowire.Number
	Type    protowire.Type
	Varint  uint64
	Bytes   []byte
	Fixed64 uint64
	Fixed32 uint32
}

// ForEachField walks every top-level field in a protobuf-wire-format
// message body, calling fn for each. It does not descend into embedded
// sub-messages: a caller decodes one (a service-discovery channel
// entry, a sensor batch) by calling ForEachField again on f.Bytes. fn
// is responsible for switching
// on f.Num to assign recognized fields and ignoring the rest, per
// protobuf's forward-compatible "unknown field" convention.
func ForEachField(data []byte, fn func(f Field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return ErrMalformedProto
		}
		data = data[n:]

		f := Field{Num: num, Type: typ}
		var consumed int
		switch typ {
		case protowire.VarintType:
			v, n2 := protowire.ConsumeVarint(data)
			if n2 < 0 {
				return ErrMalformedProto
			}
			f.Varint = v
			consumed = n2
		case protowire.BytesType:
			v, n2 := protowire.ConsumeBytes(data)
			if n2 < 0 {
				return ErrMalformedProto
			}
			f.Bytes = v
			consumed = n2
		case protowire.Fixed64Type:
			v, n2 := protowire.ConsumeFixed64(data)
			if n2 < 0 {
				return ErrMalformedProto
			}
			f.Fixed64 = v
			consumed = n2
		case protowire.Fixed32Type:
			v, n2 := protowire.ConsumeFixed32(data)
			if n2 < 0 {
				return ErrMalformedProto
			}
			f.Fixed32 = v
			consumed = n2
		default:
			n2 := protowire.ConsumeFieldValue(num, typ, data)
			if n2 < 0 {
				return ErrMalformedProto
			}
			consumed = n2
		}

		if err := fn(f); err != nil {
			return err
		}
		data = data[consumed:]
	}
	return nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarint(b, num, 1)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	return appendVarint(b, num, uint64(uint32(v)))
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	return appendBytesField(b, num, []byte(v))
}

func appendFixed64(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, v)
}
