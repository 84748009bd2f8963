package valuebox

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Family selects the address family of an IPAddr.
type Family uint8

const (
	FamilyNone Family = 0
	FamilyIPv4 Family = 4
	FamilyIPv6 Family = 6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	}
	return "none"
}

// bits returns the address width of the family in bits.
func (f Family) bits() uint8 {
	if f == FamilyIPv4 {
		return 32
	}
	return 128
}

// IPAddr is the cohesive address sub-record shared by the four IP kinds:
// family, prefix length, optional scope id and the raw address bytes.
// A prefix length of 32 (v4) or 128 (v6) denotes a non-prefixed address.
type IPAddr struct {
	Family Family
	Prefix uint8
	Scope  uint8    // IPv6 scope id as carried on the wire
	Addr   [16]byte // v4 addresses occupy the first 4 bytes
}

// v4v6Map is the well-known mapping prefix under which IPv4 addresses are
// represented inside the IPv6 space.
var v4v6Map = [12]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff}

// addrBytes returns the active raw address bytes: 4 for v4, 16 for v6.
func (a *IPAddr) addrBytes() []byte {
	if a.Family == FamilyIPv4 {
		return a.Addr[:4]
	}
	return a.Addr[:]
}

// hasV4V6Map reports whether a v6 address carries the IPv4 mapping prefix.
func (a *IPAddr) hasV4V6Map() bool {
	return [12]byte(a.Addr[:12]) == v4v6Map
}

// netipAddr converts the raw bytes to a netip.Addr for formatting.
func (a *IPAddr) netipAddr() netip.Addr {
	if a.Family == FamilyIPv4 {
		return netip.AddrFrom4([4]byte(a.Addr[:4]))
	}
	return netip.AddrFrom16(a.Addr)
}

// String prints the plain address, with a %scope suffix for scoped v6
// addresses. The prefix length is not printed; see prefixString.
func (a IPAddr) String() string {
	s := a.netipAddr().String()
	if a.Family == FamilyIPv6 && a.Scope != 0 {
		s += "%" + strconv.Itoa(int(a.Scope))
	}
	return s
}

// prefixString prints the address in CIDR notation, always including the
// /prefix suffix.
func (a IPAddr) prefixString() string {
	return a.String() + "/" + strconv.Itoa(int(a.Prefix))
}

// parseIPAddr parses a presentation-format address or prefix of the given
// family. FamilyNone accepts either family and reports what was found.
// Plain addresses get the family's maximum prefix length. Scoped v6
// addresses only accept a numeric zone; resolving interface names to
// scope ids belongs to the caller.
func parseIPAddr(in string, family Family) (IPAddr, error) {
	var out IPAddr

	addrPart := in
	prefix := -1
	if i := strings.IndexByte(in, '/'); i >= 0 {
		addrPart = in[:i]
		n, err := strconv.Atoi(in[i+1:])
		if err != nil || n < 0 {
			return out, fmt.Errorf("invalid prefix length %q", in[i+1:])
		}
		prefix = n
	}

	addr, err := netip.ParseAddr(addrPart)
	if err != nil {
		return out, fmt.Errorf("invalid IP address %q", addrPart)
	}

	if zone := addr.Zone(); zone != "" {
		scope, err := strconv.ParseUint(zone, 10, 8)
		if err != nil {
			return out, fmt.Errorf("invalid scope id %q, must be numeric", zone)
		}
		out.Scope = uint8(scope)
		addr = addr.WithZone("")
	}

	switch {
	case addr.Is4():
		out.Family = FamilyIPv4
		b := addr.As4()
		copy(out.Addr[:4], b[:])
	default:
		out.Family = FamilyIPv6
		out.Addr = addr.As16()
	}

	if family != FamilyNone && family != out.Family {
		return out, fmt.Errorf("expected an %s address, got %s", family, out.Family)
	}

	bits := int(out.Family.bits())
	if prefix < 0 {
		prefix = bits
	}
	if prefix > bits {
		return out, fmt.Errorf("prefix length /%d exceeds maximum /%d", prefix, bits)
	}
	out.Prefix = uint8(prefix)

	return out, nil
}
