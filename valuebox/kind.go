// Package valuebox implements boxed values representing every scalar data
// type the server exchanges with the wire, with storage, and with operators.
//
// There are three notional data formats:
//
//   - INTERNAL is the in-memory representation held by a Value.
//   - NETWORK is the big-endian wire representation produced by
//     Value.ToNetwork and consumed by FromNetwork.
//   - PRESENTATION is the human readable form produced by Value.String and
//     consumed by FromString.
//
// Cast converts between INTERNAL representations. The two codecs convert
// between INTERNAL and the other two formats.
package valuebox

import (
	"fmt"
	"math"
)

// Kind identifies the concrete scalar type held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota

	KindString
	KindOctets

	KindIPv4Addr
	KindIPv4Prefix
	KindIPv6Addr
	KindIPv6Prefix
	KindIFID
	KindEthernet

	KindBool

	KindUint8
	KindUint16
	KindUint32
	KindUint64

	KindInt8
	KindInt16
	KindInt32
	KindInt64

	KindFloat32
	KindFloat64

	KindDate      // seconds since the UNIX epoch, 32 bit unsigned
	KindDateMilli // milliseconds since the UNIX epoch
	KindDateMicro // microseconds since the UNIX epoch
	KindDateNano  // nanoseconds since the UNIX epoch

	KindSize    // in-memory byte count
	KindElapsed // elapsed time with microsecond resolution

	KindFilter // legacy vendor-specific binary filter blob

	// The combo kinds are parse-time placeholders. FromString replaces
	// them with the concrete IPv4/IPv6 kind selected by the address
	// family of the parsed input.
	KindComboIP
	KindComboIPPrefix

	kindMax
)

var kindNames = [kindMax]string{
	KindInvalid: "invalid",

	KindString: "string",
	KindOctets: "octets",

	KindIPv4Addr:   "ipv4addr",
	KindIPv4Prefix: "ipv4prefix",
	KindIPv6Addr:   "ipv6addr",
	KindIPv6Prefix: "ipv6prefix",
	KindIFID:       "ifid",
	KindEthernet:   "ether",

	KindBool: "bool",

	KindUint8:  "uint8",
	KindUint16: "uint16",
	KindUint32: "uint32",
	KindUint64: "uint64",

	KindInt8:  "int8",
	KindInt16: "int16",
	KindInt32: "int32",
	KindInt64: "int64",

	KindFloat32: "float32",
	KindFloat64: "float64",

	KindDate:      "date",
	KindDateMilli: "date_milli",
	KindDateMicro: "date_micro",
	KindDateNano:  "date_nano",

	KindSize:    "size",
	KindElapsed: "elapsed",

	KindFilter: "filter",

	KindComboIP:       "combo_ip",
	KindComboIPPrefix: "combo_ip_prefix",
}

// String returns the presentation name of the kind.
func (k Kind) String() string {
	if k >= kindMax {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// KindByName resolves a presentation name back to a Kind.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if Kind(k) != KindInvalid && n == name {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// Kinds returns every concrete kind, in declaration order. Parse-time
// placeholder kinds are excluded.
func Kinds() []Kind {
	out := make([]Kind, 0, int(kindMax))
	for k := KindString; k < KindComboIP; k++ {
		out = append(out, k)
	}
	return out
}

// Unbounded marks a kind with no upper wire-size limit.
const Unbounded = math.MaxInt

// NetworkSizes returns the [min, max] byte bounds of the kind's NETWORK
// format representation. Variable length kinds report an Unbounded max.
//
// A kind without an entry here is a programmer error, not a runtime
// condition, so the zero case panics.
func (k Kind) NetworkSizes() (min, max int) {
	switch k {
	case KindString, KindOctets:
		return 0, Unbounded
	case KindFilter:
		return 32, Unbounded

	case KindIPv4Addr:
		return 4, 4
	case KindIPv4Prefix:
		return 5, 5
	case KindIPv6Addr:
		return 16, 16
	case KindIPv6Prefix:
		return 18, 18
	case KindIFID:
		return 8, 8
	case KindEthernet:
		return 6, 6

	case KindBool:
		return 1, 1

	case KindUint8, KindInt8:
		return 1, 1
	case KindUint16, KindInt16:
		return 2, 2
	case KindUint32, KindInt32, KindFloat32, KindDate:
		return 4, 4
	case KindUint64, KindInt64, KindFloat64,
		KindDateMilli, KindDateMicro, KindDateNano:
		return 8, 8

	// System specific; left to a protocol overlay.
	case KindSize, KindElapsed:
		return 0, 0

	default:
		panic(fmt.Sprintf("valuebox: no network size entry for kind %q", k))
	}
}

// IsConcrete reports whether k names a fully constructed value kind, i.e.
// neither the invalid marker nor a parse-time placeholder.
func (k Kind) IsConcrete() bool {
	return k > KindInvalid && k < KindComboIP
}

// IsVariableSize reports whether values of this kind carry a variable
// length buffer whose stored length is authoritative.
func (k Kind) IsVariableSize() bool {
	switch k {
	case KindString, KindOctets, KindFilter:
		return true
	}
	return false
}

// IsIP reports whether k is one of the four IP address/prefix kinds.
func (k Kind) IsIP() bool {
	switch k {
	case KindIPv4Addr, KindIPv4Prefix, KindIPv6Addr, KindIPv6Prefix:
		return true
	}
	return false
}

// isUnsignedInt covers the kinds whose payload is an unsigned ordinal,
// including the date counters and the memory size kind.
func (k Kind) isUnsignedInt() bool {
	switch k {
	case KindUint8, KindUint16, KindUint32, KindUint64,
		KindDate, KindDateMilli, KindDateMicro, KindDateNano, KindSize:
		return true
	}
	return false
}

func (k Kind) isSignedInt() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// intBounds returns the inclusive value range of an integer-like kind.
// Unsigned kinds report min == 0 with umax set, signed kinds report both
// ends in smin/smax.
func (k Kind) intBounds() (smin int64, smax int64, umax uint64) {
	switch k {
	case KindUint8:
		return 0, 0, math.MaxUint8
	case KindUint16:
		return 0, 0, math.MaxUint16
	case KindUint32, KindDate:
		return 0, 0, math.MaxUint32
	case KindUint64, KindDateMilli, KindDateMicro, KindDateNano, KindSize:
		return 0, 0, math.MaxUint64
	case KindInt8:
		return math.MinInt8, math.MaxInt8, 0
	case KindInt16:
		return math.MinInt16, math.MaxInt16, 0
	case KindInt32:
		return math.MinInt32, math.MaxInt32, 0
	case KindInt64:
		return math.MinInt64, math.MaxInt64, 0
	default:
		panic(fmt.Sprintf("valuebox: kind %q has no integer bounds", k))
	}
}
