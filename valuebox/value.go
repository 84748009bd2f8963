package valuebox

import (
	"fmt"
	"strconv"
	"time"
)

// Value is a boxed scalar datum. Exactly one payload field is active,
// selected by kind: fixed-size scalars are held inline and copied by
// value, while the string/octets/filter kinds hold a byte buffer whose
// stored length is authoritative.
//
// Buffer ownership is either exclusive (Copy duplicates the bytes) or
// shared (CopyShallow aliases the same slice). The garbage collector
// keeps a shared buffer alive while any holder references it, so the
// "never free while referenced" contract holds by construction; the only
// caller obligation is to not mutate a shared buffer in place.
type Value struct {
	kind    Kind
	tainted bool
	enum    *Attribute // alias table, referenced, never owned

	raw     []byte // KindString, KindOctets, KindFilter
	uval    uint64 // KindBool (0/1), KindUint*, KindDate*, KindSize
	ival    int64  // KindInt*
	fval    float64
	ip      IPAddr
	ifid    [8]byte
	ether   [6]byte
	elapsed time.Duration
}

// New returns a zero value of the given kind, awaiting a typed set via
// decode, parse or cast. The payload is the kind's zero value.
func New(kind Kind) *Value {
	return &Value{kind: kind}
}

// Kind returns the active kind.
func (v *Value) Kind() Kind { return v.kind }

// Tainted reports whether the value originated from an untrusted source.
// The flag is propagated, never auto-cleared, by conversions.
func (v *Value) Tainted() bool { return v.tainted }

// SetTainted marks or clears the provenance flag.
func (v *Value) SetTainted(tainted bool) { v.tainted = tainted }

// Enum returns the attached dictionary attribute supplying symbolic
// aliases for this value, or nil.
func (v *Value) Enum() *Attribute { return v.enum }

// SetEnum attaches an alias table. The table is referenced, not owned.
func (v *Value) SetEnum(enum *Attribute) { v.enum = enum }

// mustConcrete asserts the precondition that v holds a fully constructed
// value. Violations are caller bugs, not data conditions.
func (v *Value) mustConcrete(op string) {
	if v == nil || !v.kind.IsConcrete() {
		kind := KindInvalid
		if v != nil {
			kind = v.kind
		}
		panic(fmt.Sprintf("valuebox: %s on value of kind %q", op, kind))
	}
}

//
// Typed constructors.
//

// NewString boxes a copy of s.
func NewString(s string, tainted bool) *Value {
	return &Value{kind: KindString, tainted: tainted, raw: []byte(s)}
}

// NewStringBytes boxes a copy of b as a string value. The buffer may
// contain embedded NUL bytes.
func NewStringBytes(b []byte, tainted bool) *Value {
	return &Value{kind: KindString, tainted: tainted, raw: append([]byte(nil), b...)}
}

// NewOctets boxes a copy of b.
func NewOctets(b []byte, tainted bool) *Value {
	return &Value{kind: KindOctets, tainted: tainted, raw: append([]byte(nil), b...)}
}

// NewOctetsShallow boxes b without copying. The value borrows the caller
// slice; the caller must not mutate it while the value is live. This is
// also the ownership-transfer constructor: hand over the slice and drop
// the caller reference.
func NewOctetsShallow(b []byte, tainted bool) *Value {
	return &Value{kind: KindOctets, tainted: tainted, raw: b}
}

// NewFilter boxes a copy of b as a legacy binary filter blob.
func NewFilter(b []byte, tainted bool) *Value {
	return &Value{kind: KindFilter, tainted: tainted, raw: append([]byte(nil), b...)}
}

// NewBool boxes a boolean.
func NewBool(b bool, tainted bool) *Value {
	v := &Value{kind: KindBool, tainted: tainted}
	if b {
		v.uval = 1
	}
	return v
}

// NewUint8 boxes an 8 bit unsigned integer.
func NewUint8(n uint8, tainted bool) *Value {
	return &Value{kind: KindUint8, tainted: tainted, uval: uint64(n)}
}

// NewUint16 boxes a 16 bit unsigned integer.
func NewUint16(n uint16, tainted bool) *Value {
	return &Value{kind: KindUint16, tainted: tainted, uval: uint64(n)}
}

// NewUint32 boxes a 32 bit unsigned integer.
func NewUint32(n uint32, tainted bool) *Value {
	return &Value{kind: KindUint32, tainted: tainted, uval: uint64(n)}
}

// NewUint64 boxes a 64 bit unsigned integer.
func NewUint64(n uint64, tainted bool) *Value {
	return &Value{kind: KindUint64, tainted: tainted, uval: n}
}

// NewInt8 boxes an 8 bit signed integer.
func NewInt8(n int8, tainted bool) *Value {
	return &Value{kind: KindInt8, tainted: tainted, ival: int64(n)}
}

// NewInt16 boxes a 16 bit signed integer.
func NewInt16(n int16, tainted bool) *Value {
	return &Value{kind: KindInt16, tainted: tainted, ival: int64(n)}
}

// NewInt32 boxes a 32 bit signed integer.
func NewInt32(n int32, tainted bool) *Value {
	return &Value{kind: KindInt32, tainted: tainted, ival: int64(n)}
}

// NewInt64 boxes a 64 bit signed integer.
func NewInt64(n int64, tainted bool) *Value {
	return &Value{kind: KindInt64, tainted: tainted, ival: n}
}

// NewFloat32 boxes a 32 bit float.
func NewFloat32(f float32, tainted bool) *Value {
	return &Value{kind: KindFloat32, tainted: tainted, fval: float64(f)}
}

// NewFloat64 boxes a 64 bit float.
func NewFloat64(f float64, tainted bool) *Value {
	return &Value{kind: KindFloat64, tainted: tainted, fval: f}
}

// NewDate boxes a 32 bit UNIX timestamp.
func NewDate(sec uint32, tainted bool) *Value {
	return &Value{kind: KindDate, tainted: tainted, uval: uint64(sec)}
}

// NewDateMilli boxes a millisecond-resolution UNIX timestamp.
func NewDateMilli(ms uint64, tainted bool) *Value {
	return &Value{kind: KindDateMilli, tainted: tainted, uval: ms}
}

// NewDateMicro boxes a microsecond-resolution UNIX timestamp.
func NewDateMicro(us uint64, tainted bool) *Value {
	return &Value{kind: KindDateMicro, tainted: tainted, uval: us}
}

// NewDateNano boxes a nanosecond-resolution UNIX timestamp.
func NewDateNano(ns uint64, tainted bool) *Value {
	return &Value{kind: KindDateNano, tainted: tainted, uval: ns}
}

// NewSize boxes a memory/file size.
func NewSize(n uint64, tainted bool) *Value {
	return &Value{kind: KindSize, tainted: tainted, uval: n}
}

// NewElapsed boxes an elapsed time.
func NewElapsed(d time.Duration, tainted bool) *Value {
	return &Value{kind: KindElapsed, tainted: tainted, elapsed: d}
}

// NewIFID boxes an 8 byte interface id.
func NewIFID(ifid [8]byte, tainted bool) *Value {
	return &Value{kind: KindIFID, tainted: tainted, ifid: ifid}
}

// NewEthernet boxes a 6 byte ethernet MAC address.
func NewEthernet(ether [6]byte, tainted bool) *Value {
	return &Value{kind: KindEthernet, tainted: tainted, ether: ether}
}

// FromIPAddr boxes an address record, selecting the value kind from the
// record's family and prefix length: a maximal prefix yields the plain
// address kind, anything narrower yields the prefix kind.
func FromIPAddr(ip IPAddr, tainted bool) (*Value, error) {
	var kind Kind

	switch ip.Family {
	case FamilyIPv4:
		if ip.Prefix > 32 {
			return nil, &RangeError{Kind: KindIPv4Prefix,
				Value: "/" + itoa(int64(ip.Prefix)), Min: "/0", Max: "/32"}
		}
		kind = KindIPv4Prefix
		if ip.Prefix == 32 {
			kind = KindIPv4Addr
		}
	case FamilyIPv6:
		if ip.Prefix > 128 {
			return nil, &RangeError{Kind: KindIPv6Prefix,
				Value: "/" + itoa(int64(ip.Prefix)), Min: "/0", Max: "/128"}
		}
		kind = KindIPv6Prefix
		if ip.Prefix == 128 {
			kind = KindIPv6Addr
		}
	default:
		return nil, fmt.Errorf("invalid address family %d", ip.Family)
	}

	return &Value{kind: kind, tainted: tainted, ip: ip}, nil
}

//
// Payload accessors.
//

// Bytes returns the variable-length payload of a string, octets or
// filter value. The returned slice is the live buffer, not a copy.
func (v *Value) Bytes() []byte {
	v.mustConcrete("Bytes")
	return v.raw
}

// Bool returns the payload of a boolean value.
func (v *Value) Bool() bool { return v.uval != 0 }

// Uint returns the payload of an unsigned integer, date or size value.
func (v *Value) Uint() uint64 { return v.uval }

// Int returns the payload of a signed integer value.
func (v *Value) Int() int64 { return v.ival }

// Float returns the payload of a float value.
func (v *Value) Float() float64 { return v.fval }

// IP returns the payload of an address/prefix value.
func (v *Value) IP() IPAddr { return v.ip }

// IFID returns the payload of an interface-id value.
func (v *Value) IFID() [8]byte { return v.ifid }

// Ether returns the payload of an ethernet value.
func (v *Value) Ether() [6]byte { return v.ether }

// Elapsed returns the payload of an elapsed-time value.
func (v *Value) Elapsed() time.Duration { return v.elapsed }

//
// Lifecycle.
//

// Clear releases the payload and resets the value to the invalid kind.
// Clearing an already-cleared value is a no-op.
func (v *Value) Clear() {
	*v = Value{}
}

// Copy returns a deep copy: variable-length payloads get a fresh
// independent buffer.
func (v *Value) Copy() *Value {
	v.mustConcrete("Copy")

	dst := *v
	if v.kind.IsVariableSize() && v.raw != nil {
		dst.raw = append([]byte(nil), v.raw...)
	}
	return &dst
}

// CopyShallow returns a copy whose variable-length payload aliases the
// source buffer instead of duplicating it. Neither holder may mutate the
// shared buffer in place.
func (v *Value) CopyShallow() *Value {
	v.mustConcrete("CopyShallow")

	dst := *v
	return &dst
}

// Steal transfers ownership of the payload to a new value without
// copying bytes. The source is cleared.
func (v *Value) Steal() *Value {
	v.mustConcrete("Steal")

	dst := *v
	v.Clear()
	return &dst
}

// Equal reports whether two values hold the same kind and payload. It is
// a convenience wrapper over Compare; values of different kinds are
// never equal.
func (v *Value) Equal(o *Value) bool {
	if v.kind != o.kind {
		return false
	}
	cmp, err := Compare(v, o)
	return err == nil && cmp == 0
}

// itoa is strconv.FormatInt shorthand for error construction.
func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// utoa formats an unsigned integer for error construction.
func utoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}
