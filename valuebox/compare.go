package valuebox

import (
	"bytes"
	"fmt"
)

// Op is a comparison operator for CompareOp.
type Op uint8

const (
	OpEqual Op = iota
	OpNotEqual
	OpLessThan
	OpLessEqual
	OpGreaterThan
	OpGreaterEqual
)

var opNames = [...]string{
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLessThan:     "<",
	OpLessEqual:    "<=",
	OpGreaterThan:  ">",
	OpGreaterEqual: ">=",
}

func (op Op) String() string {
	if int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
	return opNames[op]
}

// Compare totally orders two values of the same kind, returning -1, 0 or
// +1. Comparing values of different kinds is a usage error, not a
// numeric result.
//
// Variable-length payloads order lexicographically with ties broken by
// length, so "0x00" sorts before "0x0000". Ethernet, interface-id and IP
// payloads order by raw bytes.
func Compare(a, b *Value) (int, error) {
	a.mustConcrete("Compare")
	b.mustConcrete("Compare")

	if a.kind != b.kind {
		return 0, &KindMismatchError{A: a.kind, B: b.kind}
	}

	switch a.kind {
	case KindString, KindOctets, KindFilter:
		return bytes.Compare(a.raw, b.raw), nil

	case KindBool, KindUint8, KindUint16, KindUint32, KindUint64,
		KindDate, KindDateMilli, KindDateMicro, KindDateNano, KindSize:
		return cmpOrdered(a.uval, b.uval), nil

	case KindInt8, KindInt16, KindInt32, KindInt64:
		return cmpOrdered(a.ival, b.ival), nil

	case KindFloat32, KindFloat64:
		return cmpOrdered(a.fval, b.fval), nil

	case KindElapsed:
		return cmpOrdered(a.elapsed, b.elapsed), nil

	case KindEthernet:
		return bytes.Compare(a.ether[:], b.ether[:]), nil

	case KindIFID:
		return bytes.Compare(a.ifid[:], b.ifid[:]), nil

	case KindIPv4Addr, KindIPv4Prefix, KindIPv6Addr, KindIPv6Prefix:
		return cmpIPAddr(&a.ip, &b.ip), nil

	default:
		// New kinds must be added here; falling through is a
		// programmer error.
		panic(fmt.Sprintf("valuebox: kind %q is not comparable", a.kind))
	}
}

func cmpOrdered[T ~uint64 | ~int64 | ~float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cmpIPAddr totally orders two address records field by field.
func cmpIPAddr(a, b *IPAddr) int {
	if c := cmpOrdered(uint64(a.Family), uint64(b.Family)); c != 0 {
		return c
	}
	if c := cmpOrdered(uint64(a.Prefix), uint64(b.Prefix)); c != 0 {
		return c
	}
	if c := cmpOrdered(uint64(a.Scope), uint64(b.Scope)); c != 0 {
		return c
	}
	return bytes.Compare(a.addrBytes(), b.addrBytes())
}

// CompareOp evaluates "a op b". For most kinds this is Compare followed
// by the operator. When either operand is an IP prefix and the other an
// address or prefix of the same family, the comparison is CIDR aware:
// equal-length prefixes collapse to an equality test over the masked
// address bits, and unequal-length prefixes test membership over the
// shorter prefix's leading bits, in the direction consistent with which
// side is the wider network.
func CompareOp(op Op, a, b *Value) (bool, error) {
	a.mustConcrete("CompareOp")
	b.mustConcrete("CompareOp")

	switch a.kind {
	case KindIPv4Addr, KindIPv4Prefix:
		switch b.kind {
		case KindIPv4Addr:
			if a.kind == KindIPv4Addr {
				break // plain address vs plain address
			}
			return cidrCompareOp(op, a.ip.Prefix, a.ip.addrBytes(), 32, b.ip.addrBytes()), nil
		case KindIPv4Prefix:
			return cidrCompareOp(op, a.ip.Prefix, a.ip.addrBytes(), b.ip.Prefix, b.ip.addrBytes()), nil
		default:
			return false, &KindMismatchError{A: a.kind, B: b.kind}
		}

	case KindIPv6Addr, KindIPv6Prefix:
		switch b.kind {
		case KindIPv6Addr:
			if a.kind == KindIPv6Addr {
				break
			}
			return cidrCompareOp(op, a.ip.Prefix, a.ip.addrBytes(), 128, b.ip.addrBytes()), nil
		case KindIPv6Prefix:
			return cidrCompareOp(op, a.ip.Prefix, a.ip.addrBytes(), b.ip.Prefix, b.ip.addrBytes()), nil
		default:
			return false, &KindMismatchError{A: a.kind, B: b.kind}
		}
	}

	cmp, err := Compare(a, b)
	if err != nil {
		return false, err
	}

	switch op {
	case OpEqual:
		return cmp == 0, nil
	case OpNotEqual:
		return cmp != 0, nil
	case OpLessThan:
		return cmp < 0, nil
	case OpLessEqual:
		return cmp <= 0, nil
	case OpGreaterThan:
		return cmp > 0, nil
	case OpGreaterEqual:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unknown comparison operator %q", op)
	}
}

// cidrCompareOp evaluates an operator over two networks given as
// (prefix-length, address-bytes) pairs of the same family.
//
// Equal prefix lengths collapse to an equality test over the masked
// address bits: == and != answer it directly, <= and >= are true only
// for the identical network, and < / > are always false — distinct
// same-width networks are unordered, not ranked.
//
// Different prefix lengths can never be equal. The ordering operators
// test membership: the shorter prefix is the superset, so "a >= b" can
// only hold when a is at most as long as b (192.0.0.0/8 >= 192.168.0.0/16
// when the first 8 bits agree), and symmetrically for "a <= b". When the
// operator direction is inconsistent with which side is wider, the
// result is false without inspecting any bits.
func cidrCompareOp(op Op, aNet uint8, a []byte, bNet uint8, b []byte) bool {
	if aNet == bNet {
		same := leadingBitsEqual(a, b, int(aNet))
		switch op {
		case OpEqual, OpLessEqual, OpGreaterEqual:
			return same
		case OpNotEqual:
			return !same
		}
		return false
	}

	switch op {
	case OpEqual:
		return false
	case OpNotEqual:
		return true
	case OpLessThan, OpLessEqual:
		if aNet < bNet {
			return false
		}
	case OpGreaterThan, OpGreaterEqual:
		if aNet > bNet {
			return false
		}
	default:
		return false
	}

	common := aNet
	if bNet < common {
		common = bNet
	}
	return leadingBitsEqual(a, b, int(common))
}

// leadingBitsEqual reports whether the first n bits of a and b agree.
func leadingBitsEqual(a, b []byte, n int) bool {
	i := 0
	for n >= 8 {
		if a[i] != b[i] {
			return false
		}
		i++
		n -= 8
	}
	if n == 0 {
		return true
	}
	mask := byte(0xff) << (8 - n)
	return a[i]&mask == b[i]&mask
}
