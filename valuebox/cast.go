package valuebox

import (
	"encoding/binary"
	"math"
	"time"
)

// Cast converts src to dstKind, producing a new value. Casting to the
// source's own kind degrades to a deep copy. The enum attachment, if
// any, is recorded on the result so that printing resolves aliases.
//
// Every conversion is exact: integer range overflow is rejected, never
// wrapped or saturated, and structural reinterpretation (IP mapping
// prefixes, prefix-length arithmetic) validates its requirements before
// writing anything.
func Cast(dstKind Kind, enum *Attribute, src *Value) (*Value, error) {
	src.mustConcrete("Cast")
	if !dstKind.IsConcrete() {
		panic("valuebox: Cast to non-concrete kind " + dstKind.String())
	}

	if dstKind == src.kind {
		dst := src.Copy()
		dst.enum = enum
		return dst, nil
	}

	var (
		dst *Value
		err error
	)
	switch dstKind {
	case KindString:
		dst, err = castToString(src)
	case KindOctets:
		dst, err = castToOctets(src)
	case KindIPv4Addr:
		dst, err = castToIPv4Addr(src)
	case KindIPv4Prefix:
		dst, err = castToIPv4Prefix(src)
	case KindIPv6Addr:
		dst, err = castToIPv6Addr(src)
	case KindIPv6Prefix:
		dst, err = castToIPv6Prefix(src)
	default:
		dst, err = castScalar(dstKind, enum, src)
	}
	if err != nil {
		return nil, err
	}

	dst.tainted = src.tainted
	dst.enum = enum
	return dst, nil
}

// castToString converts any kind to its string form. Octets become their
// raw character content verbatim (not hex); everything else goes through
// the presentation printing rule without quoting.
func castToString(src *Value) (*Value, error) {
	if src.kind == KindOctets {
		return NewStringBytes(src.raw, src.tainted), nil
	}
	return NewString(src.String(), src.tainted), nil
}

// castToOctets converts any kind to its raw byte form. Strings lose no
// bytes, IP kinds use their wire layout, and fixed scalars use their
// big-endian wire representation.
func castToOctets(src *Value) (*Value, error) {
	switch src.kind {
	case KindString, KindFilter:
		return NewOctets(src.raw, src.tainted), nil

	case KindIPv4Addr:
		return NewOctets(src.ip.addrBytes(), src.tainted), nil

	case KindIPv4Prefix:
		out := make([]byte, 0, 5)
		out = append(out, src.ip.Prefix)
		out = append(out, src.ip.addrBytes()...)
		return NewOctetsShallow(out, src.tainted), nil

	case KindIPv6Addr:
		return NewOctets(src.ip.addrBytes(), src.tainted), nil

	case KindIPv6Prefix:
		out := make([]byte, 0, 18)
		out = append(out, src.ip.Scope, src.ip.Prefix)
		out = append(out, src.ip.addrBytes()...)
		return NewOctetsShallow(out, src.tainted), nil

	case KindElapsed:
		sec := src.elapsed / 1e9
		usec := (src.elapsed % 1e9) / 1e3
		out := make([]byte, 16)
		binary.BigEndian.PutUint64(out[:8], uint64(sec))
		binary.BigEndian.PutUint64(out[8:], uint64(usec))
		return NewOctetsShallow(out, src.tainted), nil

	default:
		// Fixed scalars: the big-endian wire bytes.
		min, _ := src.kind.NetworkSizes()
		if min == 0 {
			return nil, &CastError{From: src.kind, To: KindOctets}
		}
		out := make([]byte, min)
		if _, _, err := src.ToNetwork(out); err != nil {
			return nil, err
		}
		return NewOctetsShallow(out, src.tainted), nil
	}
}

func castToIPv4Addr(src *Value) (*Value, error) {
	dst := &Value{kind: KindIPv4Addr}
	dst.ip.Family = FamilyIPv4
	dst.ip.Prefix = 32

	switch src.kind {
	case KindIPv6Addr:
		if !src.ip.hasV4V6Map() {
			return nil, noV4V6Map(src.kind, KindIPv4Addr)
		}
		copy(dst.ip.Addr[:4], src.ip.Addr[12:])

	case KindIPv4Prefix:
		if src.ip.Prefix != 32 {
			return nil, prefixTooWide(src.kind, KindIPv4Addr, src.ip.Prefix, 32)
		}
		copy(dst.ip.Addr[:4], src.ip.Addr[:4])

	case KindIPv6Prefix:
		if src.ip.Prefix != 128 {
			return nil, prefixTooWide(src.kind, KindIPv4Addr, src.ip.Prefix, 128)
		}
		if !src.ip.hasV4V6Map() {
			return nil, noV4V6Map(src.kind, KindIPv4Addr)
		}
		copy(dst.ip.Addr[:4], src.ip.Addr[12:])

	case KindString:
		return FromString(KindIPv4Addr, nil, string(src.raw), 0, src.tainted)

	case KindOctets:
		if len(src.raw) != 4 {
			return nil, octetsWrongLength(src.kind, KindIPv4Addr, 4, len(src.raw))
		}
		copy(dst.ip.Addr[:4], src.raw)

	case KindUint32, KindDate:
		binary.BigEndian.PutUint32(dst.ip.Addr[:4], uint32(src.uval))

	case KindInt32:
		binary.BigEndian.PutUint32(dst.ip.Addr[:4], uint32(src.ival))

	default:
		return nil, &CastError{From: src.kind, To: KindIPv4Addr}
	}

	return dst, nil
}

func castToIPv4Prefix(src *Value) (*Value, error) {
	dst := &Value{kind: KindIPv4Prefix}
	dst.ip.Family = FamilyIPv4

	switch src.kind {
	case KindIPv4Addr:
		dst.ip = src.ip
		dst.ip.Scope = 0

	case KindIPv6Addr:
		if !src.ip.hasV4V6Map() {
			return nil, noV4V6Map(src.kind, KindIPv4Prefix)
		}
		copy(dst.ip.Addr[:4], src.ip.Addr[12:])
		dst.ip.Prefix = 32

	case KindIPv6Prefix:
		if !src.ip.hasV4V6Map() {
			return nil, noV4V6Map(src.kind, KindIPv4Prefix)
		}
		// The low 32 bits of the v6 prefix length are the v4 bits.
		if src.ip.Prefix < 96 {
			return nil, &RangeError{Kind: KindIPv4Prefix,
				Value: prefixStr(src.ip.Prefix), Min: "/96", Max: "/128"}
		}
		copy(dst.ip.Addr[:4], src.ip.Addr[12:])
		dst.ip.Prefix = src.ip.Prefix - 96

	case KindString:
		return FromString(KindIPv4Prefix, nil, string(src.raw), 0, src.tainted)

	case KindOctets:
		if len(src.raw) != 5 {
			return nil, octetsWrongLength(src.kind, KindIPv4Prefix, 5, len(src.raw))
		}
		if src.raw[0] > 32 {
			return nil, &RangeError{Kind: KindIPv4Prefix,
				Value: prefixStr(src.raw[0]), Min: "/0", Max: "/32"}
		}
		dst.ip.Prefix = src.raw[0]
		copy(dst.ip.Addr[:4], src.raw[1:])

	case KindUint32:
		binary.BigEndian.PutUint32(dst.ip.Addr[:4], uint32(src.uval))
		dst.ip.Prefix = 32

	default:
		return nil, &CastError{From: src.kind, To: KindIPv4Prefix}
	}

	return dst, nil
}

func castToIPv6Addr(src *Value) (*Value, error) {
	dst := &Value{kind: KindIPv6Addr}
	dst.ip.Family = FamilyIPv6
	dst.ip.Prefix = 128

	switch src.kind {
	case KindIPv4Addr:
		copy(dst.ip.Addr[:12], v4v6Map[:])
		copy(dst.ip.Addr[12:], src.ip.Addr[:4])

	case KindIPv4Prefix:
		if src.ip.Prefix != 32 {
			return nil, prefixTooWide(src.kind, KindIPv6Addr, src.ip.Prefix, 32)
		}
		copy(dst.ip.Addr[:12], v4v6Map[:])
		copy(dst.ip.Addr[12:], src.ip.Addr[:4])

	case KindIPv6Prefix:
		if src.ip.Prefix != 128 {
			return nil, prefixTooWide(src.kind, KindIPv6Addr, src.ip.Prefix, 128)
		}
		dst.ip.Addr = src.ip.Addr
		dst.ip.Scope = src.ip.Scope

	case KindString:
		return FromString(KindIPv6Addr, nil, string(src.raw), 0, src.tainted)

	case KindOctets:
		if len(src.raw) != 16 {
			return nil, octetsWrongLength(src.kind, KindIPv6Addr, 16, len(src.raw))
		}
		copy(dst.ip.Addr[:], src.raw)

	default:
		return nil, &CastError{From: src.kind, To: KindIPv6Addr}
	}

	return dst, nil
}

func castToIPv6Prefix(src *Value) (*Value, error) {
	dst := &Value{kind: KindIPv6Prefix}
	dst.ip.Family = FamilyIPv6

	switch src.kind {
	case KindIPv4Addr:
		copy(dst.ip.Addr[:12], v4v6Map[:])
		copy(dst.ip.Addr[12:], src.ip.Addr[:4])
		dst.ip.Prefix = 128

	case KindIPv4Prefix:
		copy(dst.ip.Addr[:12], v4v6Map[:])
		copy(dst.ip.Addr[12:], src.ip.Addr[:4])
		dst.ip.Prefix = 96 + src.ip.Prefix

	case KindIPv6Addr:
		dst.ip.Addr = src.ip.Addr
		dst.ip.Scope = src.ip.Scope
		dst.ip.Prefix = 128

	case KindString:
		return FromString(KindIPv6Prefix, nil, string(src.raw), 0, src.tainted)

	case KindOctets:
		if len(src.raw) != 18 {
			return nil, octetsWrongLength(src.kind, KindIPv6Prefix, 18, len(src.raw))
		}
		if src.raw[1] > 128 {
			return nil, &RangeError{Kind: KindIPv6Prefix,
				Value: prefixStr(src.raw[1]), Min: "/0", Max: "/128"}
		}
		dst.ip.Scope = src.raw[0]
		dst.ip.Prefix = src.raw[1]
		copy(dst.ip.Addr[:], src.raw[2:])

	default:
		return nil, &CastError{From: src.kind, To: KindIPv6Prefix}
	}

	return dst, nil
}

// castScalar handles the remaining destination kinds: the integer
// family, floats, dates, size, elapsed time, ethernet and interface-id.
func castScalar(dstKind Kind, enum *Attribute, src *Value) (*Value, error) {
	// Strings delegate entirely to the presentation parser.
	if src.kind == KindString {
		return FromString(dstKind, enum, string(src.raw), 0, src.tainted)
	}

	// Octets of exactly the destination's wire width reinterpret the
	// bytes in network order; the network decoder already implements
	// that reinterpretation and its length checks.
	if src.kind == KindOctets {
		min, max := dstKind.NetworkSizes()
		if (min == 0 && max == 0) || dstKind == KindFilter {
			return nil, &CastError{From: src.kind, To: dstKind}
		}
		dst, err := FromNetwork(dstKind, src.raw, src.tainted)
		if err != nil {
			return nil, err
		}
		return dst, nil
	}

	// Bit-reinterpretation special cases.
	switch {
	case src.kind == KindIFID && dstKind == KindUint64:
		return NewUint64(binary.BigEndian.Uint64(src.ifid[:]), src.tainted), nil

	case src.kind == KindUint64 && dstKind == KindIFID:
		var ifid [8]byte
		binary.BigEndian.PutUint64(ifid[:], src.uval)
		return NewIFID(ifid, src.tainted), nil

	case src.kind == KindEthernet && dstKind == KindUint64:
		var buf [8]byte
		copy(buf[2:], src.ether[:])
		return NewUint64(binary.BigEndian.Uint64(buf[:]), src.tainted), nil

	case src.kind == KindUint64 && dstKind == KindEthernet:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], src.uval)
		if buf[0] != 0 || buf[1] != 0 {
			return nil, &CastError{From: src.kind, To: dstKind,
				Reason: "top two bytes must be zero"}
		}
		var ether [6]byte
		copy(ether[:], buf[2:])
		return NewEthernet(ether, src.tainted), nil

	case src.kind == KindIPv4Addr &&
		(dstKind == KindUint32 || dstKind == KindInt32 || dstKind == KindDate):
		n := binary.BigEndian.Uint32(src.ip.Addr[:4])
		if dstKind == KindInt32 && n > math.MaxInt32 {
			return nil, &RangeError{Kind: dstKind, Value: utoa(uint64(n)),
				Min: "0", Max: utoa(math.MaxInt32)}
		}
		return newInteger(dstKind, false, uint64(n)), nil

	case dstKind == KindElapsed && src.kind.isUnsignedInt():
		// Whole seconds.
		if src.uval > uint64(math.MaxInt64/int64(time.Second)) {
			return nil, &RangeError{Kind: dstKind, Value: utoa(src.uval),
				Min: "0", Max: utoa(uint64(math.MaxInt64 / int64(time.Second)))}
		}
		return NewElapsed(time.Duration(src.uval)*time.Second, src.tainted), nil
	}

	// Integer-to-integer conversion with exact range validation.
	if (src.kind.isUnsignedInt() || src.kind.isSignedInt()) &&
		(dstKind.isUnsignedInt() || dstKind.isSignedInt()) {
		return castInteger(dstKind, src)
	}

	return nil, &CastError{From: src.kind, To: dstKind}
}

// castInteger converts between the integer-like kinds (unsigned and
// signed widths, date counters, size). Any value that fits the
// destination range converts; anything else is a range error naming the
// offending magnitude and the legal range.
func castInteger(dstKind Kind, src *Value) (*Value, error) {
	smin, smax, umax := dstKind.intBounds()

	if src.kind.isSignedInt() {
		n := src.ival
		if dstKind.isSignedInt() {
			if n < smin || n > smax {
				return nil, &RangeError{Kind: dstKind, Value: itoa(n),
					Min: itoa(smin), Max: itoa(smax)}
			}
			return newInteger(dstKind, true, uint64(n)), nil
		}
		if n < 0 || uint64(n) > umax {
			return nil, &RangeError{Kind: dstKind, Value: itoa(n),
				Min: "0", Max: utoa(umax)}
		}
		return newInteger(dstKind, false, uint64(n)), nil
	}

	n := src.uval
	if dstKind.isSignedInt() {
		if n > uint64(smax) {
			return nil, &RangeError{Kind: dstKind, Value: utoa(n),
				Min: itoa(smin), Max: itoa(smax)}
		}
		return newInteger(dstKind, true, n), nil
	}
	if n > umax {
		return nil, &RangeError{Kind: dstKind, Value: utoa(n),
			Min: "0", Max: utoa(umax)}
	}
	return newInteger(dstKind, false, n), nil
}

// newInteger builds an integer-like value from a validated magnitude.
func newInteger(kind Kind, signed bool, n uint64) *Value {
	v := &Value{kind: kind}
	if signed {
		v.ival = int64(n)
	} else {
		v.uval = n
	}
	return v
}

func noV4V6Map(from, to Kind) error {
	return &CastError{From: from, To: to, Reason: "no IPv4-IPv6 mapping prefix"}
}

func prefixTooWide(from, to Kind, got, want uint8) error {
	return &RangeError{Kind: to, Value: prefixStr(got),
		Min: prefixStr(want), Max: prefixStr(want)}
}

func octetsWrongLength(from, to Kind, want, got int) error {
	return &CastError{From: from, To: to,
		Reason: "need exactly " + itoa(int64(want)) + " bytes, got " + itoa(int64(got))}
}

func prefixStr(n uint8) string {
	return "/" + itoa(int64(n))
}
