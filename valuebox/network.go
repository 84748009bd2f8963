package valuebox

import (
	"encoding/binary"
	"math"
)

// NetworkLength returns the exact number of bytes ToNetwork needs for v.
// Variable length kinds report their stored length, fixed kinds their
// wire width.
func (v *Value) NetworkLength() int {
	v.mustConcrete("NetworkLength")
	if v.kind.IsVariableSize() {
		return len(v.raw)
	}
	min, _ := v.kind.NetworkSizes()
	return min
}

// ToNetwork encodes v into out in NETWORK (big-endian) format. It
// returns the number of bytes written and the number of bytes the full
// encoding needs. When out is too small for a variable-length value a
// leading fragment is written and written < need; a fixed-size value is
// all-or-nothing and writes no bytes into a short destination.
//
// Size, elapsed and filter values have no portable wire format and
// return a codec error.
func (v *Value) ToNetwork(out []byte) (written, need int, err error) {
	v.mustConcrete("ToNetwork")

	if v.kind == KindFilter {
		return 0, 0, &CodecError{Kind: v.kind, Op: "encode"}
	}

	need = v.NetworkLength()
	if need == 0 && !v.kind.IsVariableSize() {
		return 0, 0, &CodecError{Kind: v.kind, Op: "encode"}
	}

	switch v.kind {
	case KindString, KindOctets:
		written = copy(out, v.raw)
		return written, need, nil
	}

	// Fixed kinds never fragment.
	if len(out) < need {
		return 0, need, nil
	}

	var buf [18]byte
	switch v.kind {
	case KindIPv4Addr:
		copy(buf[:4], v.ip.Addr[:4])

	case KindIPv4Prefix:
		buf[0] = v.ip.Prefix
		copy(buf[1:5], v.ip.Addr[:4])

	case KindIPv6Addr:
		copy(buf[:16], v.ip.Addr[:])

	case KindIPv6Prefix:
		buf[0] = v.ip.Scope
		buf[1] = v.ip.Prefix
		copy(buf[2:18], v.ip.Addr[:])

	case KindIFID:
		copy(buf[:8], v.ifid[:])

	case KindEthernet:
		copy(buf[:6], v.ether[:])

	case KindBool:
		if v.uval != 0 {
			buf[0] = 1
		}

	case KindUint8:
		buf[0] = uint8(v.uval)
	case KindUint16:
		binary.BigEndian.PutUint16(buf[:2], uint16(v.uval))
	case KindUint32, KindDate:
		binary.BigEndian.PutUint32(buf[:4], uint32(v.uval))
	case KindUint64, KindDateMilli, KindDateMicro, KindDateNano:
		binary.BigEndian.PutUint64(buf[:8], v.uval)

	case KindInt8:
		buf[0] = uint8(v.ival)
	case KindInt16:
		binary.BigEndian.PutUint16(buf[:2], uint16(v.ival))
	case KindInt32:
		binary.BigEndian.PutUint32(buf[:4], uint32(v.ival))
	case KindInt64:
		binary.BigEndian.PutUint64(buf[:8], uint64(v.ival))

	case KindFloat32:
		binary.BigEndian.PutUint32(buf[:4], math.Float32bits(float32(v.fval)))
	case KindFloat64:
		binary.BigEndian.PutUint64(buf[:8], math.Float64bits(v.fval))

	default:
		return 0, 0, &CodecError{Kind: v.kind, Op: "encode"}
	}

	written = copy(out, buf[:need])
	return written, need, nil
}

// FromNetwork decodes a complete NETWORK format fragment into a new
// value of the given kind. The fragment length must be inside the
// kind's [min, max] bounds: a short fragment is a truncation error and
// a long one is a trailing-garbage error, both reporting expected
// against actual byte counts.
func FromNetwork(kind Kind, data []byte, tainted bool) (*Value, error) {
	if !kind.IsConcrete() {
		panic("valuebox: FromNetwork with non-concrete kind " + kind.String())
	}

	if kind == KindFilter {
		return nil, &CodecError{Kind: kind, Op: "decode"}
	}

	min, max := kind.NetworkSizes()
	if min == 0 && max == 0 {
		return nil, &CodecError{Kind: kind, Op: "decode"}
	}
	if len(data) < min {
		return nil, &LengthError{Kind: kind, Got: len(data), Expected: min}
	}
	if len(data) > max {
		return nil, &LengthError{Kind: kind, Got: len(data), Expected: max, TooLong: true}
	}

	v := &Value{kind: kind, tainted: tainted}
	switch kind {
	case KindString, KindOctets:
		v.raw = append([]byte(nil), data...)

	case KindIPv4Addr:
		v.ip.Family = FamilyIPv4
		v.ip.Prefix = 32
		copy(v.ip.Addr[:4], data)

	case KindIPv4Prefix:
		if data[0] > 32 {
			return nil, &RangeError{Kind: kind,
				Value: prefixStr(data[0]), Min: "/0", Max: "/32"}
		}
		v.ip.Family = FamilyIPv4
		v.ip.Prefix = data[0]
		copy(v.ip.Addr[:4], data[1:])

	case KindIPv6Addr:
		v.ip.Family = FamilyIPv6
		v.ip.Prefix = 128
		copy(v.ip.Addr[:], data)

	case KindIPv6Prefix:
		if data[1] > 128 {
			return nil, &RangeError{Kind: kind,
				Value: prefixStr(data[1]), Min: "/0", Max: "/128"}
		}
		v.ip.Family = FamilyIPv6
		v.ip.Scope = data[0]
		v.ip.Prefix = data[1]
		copy(v.ip.Addr[:], data[2:])

	case KindIFID:
		copy(v.ifid[:], data)

	case KindEthernet:
		copy(v.ether[:], data)

	case KindBool:
		if data[0] != 0 {
			v.uval = 1
		}

	case KindUint8:
		v.uval = uint64(data[0])
	case KindUint16:
		v.uval = uint64(binary.BigEndian.Uint16(data))
	case KindUint32, KindDate:
		v.uval = uint64(binary.BigEndian.Uint32(data))
	case KindUint64, KindDateMilli, KindDateMicro, KindDateNano:
		v.uval = binary.BigEndian.Uint64(data)

	case KindInt8:
		v.ival = int64(int8(data[0]))
	case KindInt16:
		v.ival = int64(int16(binary.BigEndian.Uint16(data)))
	case KindInt32:
		v.ival = int64(int32(binary.BigEndian.Uint32(data)))
	case KindInt64:
		v.ival = int64(binary.BigEndian.Uint64(data))

	case KindFloat32:
		v.fval = float64(math.Float32frombits(binary.BigEndian.Uint32(data)))
	case KindFloat64:
		v.fval = math.Float64frombits(binary.BigEndian.Uint64(data))

	default:
		return nil, &CodecError{Kind: kind, Op: "decode"}
	}

	return v, nil
}
