package valuebox

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastSameKindIsDeepCopy(t *testing.T) {
	src := NewOctets([]byte{1, 2, 3}, true)
	dst, err := Cast(KindOctets, nil, src)
	require.NoError(t, err)

	dst.Bytes()[0] = 0xff
	assert.Equal(t, byte(1), src.Bytes()[0])
	assert.True(t, dst.Tainted())
}

func TestCastIntegerNarrowing(t *testing.T) {
	wide := NewUint16(300, false)
	_, err := Cast(KindUint8, nil, wide)
	require.Error(t, err)
	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindUint8, re.Kind)
	assert.Equal(t, "300", re.Value)
	assert.Equal(t, "255", re.Max)

	ok, err := Cast(KindUint8, nil, NewUint16(200, false))
	require.NoError(t, err)
	assert.Equal(t, uint64(200), ok.Uint())
}

func TestCastSignedUnsigned(t *testing.T) {
	_, err := Cast(KindUint32, nil, NewInt32(-1, false))
	require.Error(t, err, "negative to unsigned must fail")

	v, err := Cast(KindInt64, nil, NewUint32(4000000000, false))
	require.NoError(t, err, "widening into a big enough signed kind")
	assert.Equal(t, int64(4000000000), v.Int())

	_, err = Cast(KindInt32, nil, NewUint32(4000000000, false))
	require.Error(t, err, "magnitude above the signed maximum")
}

func TestCastPrefixToAddressRequiresFullWidth(t *testing.T) {
	prefix := mustParse(t, KindIPv4Prefix, "192.0.2.1/24")
	_, err := Cast(KindIPv4Addr, nil, prefix)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/32")

	full := mustParse(t, KindIPv4Prefix, "192.0.2.1/32")
	v, err := Cast(KindIPv4Addr, nil, full)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", v.String())
}

func TestCastIPv4IPv6Mapping(t *testing.T) {
	v4 := mustParse(t, KindIPv4Addr, "192.0.2.1")

	v6, err := Cast(KindIPv6Addr, nil, v4)
	require.NoError(t, err)
	assert.Equal(t, "::ffff:192.0.2.1", v6.String())

	back, err := Cast(KindIPv4Addr, nil, v6)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", back.String())

	unmapped := mustParse(t, KindIPv6Addr, "2001:db8::1")
	_, err = Cast(KindIPv4Addr, nil, unmapped)
	require.Error(t, err, "no IPv4 mapping prefix")
}

func TestCastIPv4PrefixToIPv6Prefix(t *testing.T) {
	v4 := mustParse(t, KindIPv4Prefix, "10.0.0.0/8")
	v6, err := Cast(KindIPv6Prefix, nil, v4)
	require.NoError(t, err)
	assert.Equal(t, "::ffff:10.0.0.0/104", v6.String())

	back, err := Cast(KindIPv4Prefix, nil, v6)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/8", back.String())
}

func TestCastToString(t *testing.T) {
	octets := NewOctets([]byte("raw-bytes"), false)
	s, err := Cast(KindString, nil, octets)
	require.NoError(t, err)
	assert.Equal(t, "raw-bytes", string(s.Bytes()),
		"octets cast to their character content, not hex")

	num, err := Cast(KindString, nil, NewUint32(42, false))
	require.NoError(t, err)
	assert.Equal(t, "42", string(num.Bytes()))
}

func TestCastToOctets(t *testing.T) {
	s, err := Cast(KindOctets, nil, NewString("hi", false))
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), s.Bytes())

	u, err := Cast(KindOctets, nil, NewUint16(0x0102, false))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, u.Bytes(), "big-endian wire bytes")

	prefix := mustParse(t, KindIPv4Prefix, "10.0.0.0/8")
	p, err := Cast(KindOctets, nil, prefix)
	require.NoError(t, err)
	assert.Equal(t, []byte{8, 10, 0, 0, 0}, p.Bytes())
}

func TestCastOctetsToFixedWidth(t *testing.T) {
	v, err := Cast(KindUint32, nil, NewOctets([]byte{0, 0, 1, 0}, false))
	require.NoError(t, err)
	assert.Equal(t, uint64(256), v.Uint())

	_, err = Cast(KindUint32, nil, NewOctets([]byte{1, 2}, false))
	require.Error(t, err, "short buffer must not zero-extend")
}

func TestCastStringSourceDelegatesToParser(t *testing.T) {
	v, err := Cast(KindUint32, nil, NewString("1234", false))
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), v.Uint())

	_, err = Cast(KindUint32, nil, NewString("not-a-number", false))
	require.Error(t, err)
}

func TestCastInterfaceIDUint64(t *testing.T) {
	ifid := NewIFID([8]byte{0, 1, 2, 3, 4, 5, 6, 7}, false)

	u, err := Cast(KindUint64, nil, ifid)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0001020304050607), u.Uint())

	back, err := Cast(KindIFID, nil, u)
	require.NoError(t, err)
	assert.Equal(t, [8]byte{0, 1, 2, 3, 4, 5, 6, 7}, back.IFID())
}

func TestCastEthernetUint64(t *testing.T) {
	ether := NewEthernet([6]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}, false)

	u, err := Cast(KindUint64, nil, ether)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x001122334455), u.Uint())

	back, err := Cast(KindEthernet, nil, u)
	require.NoError(t, err)
	assert.Equal(t, ether.Ether(), back.Ether())

	_, err = Cast(KindEthernet, nil, NewUint64(1<<48, false))
	require.Error(t, err, "top two bytes must be zero")
}

func TestCastIPv4AddrUint32(t *testing.T) {
	addr := mustParse(t, KindIPv4Addr, "127.0.0.1")
	u, err := Cast(KindUint32, nil, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7f000001), u.Uint())

	back, err := Cast(KindIPv4Addr, nil, u)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", back.String())
}

func TestCastUnsignedToElapsed(t *testing.T) {
	v, err := Cast(KindElapsed, nil, NewUint32(2, false))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, v.Elapsed())

	_, err = Cast(KindElapsed, nil, NewUint64(math.MaxUint64, false))
	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindElapsed, re.Kind)
}

func TestCastUnsupportedPair(t *testing.T) {
	_, err := Cast(KindBool, nil, NewUint32(1, false))
	require.Error(t, err)
	var ce *CastError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindUint32, ce.From)
	assert.Equal(t, KindBool, ce.To)
}

func TestCastRecordsEnum(t *testing.T) {
	attr := NewAttribute("Service-Type", KindUint32)
	require.NoError(t, attr.AddAlias("Framed-User", NewUint32(2, false)))

	v, err := Cast(KindUint32, attr, NewUint16(2, false))
	require.NoError(t, err)
	assert.Equal(t, "Framed-User", v.String())
}
