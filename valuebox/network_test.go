package valuebox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNetworkPartialWrite(t *testing.T) {
	v := NewString("hello", false)

	buf := make([]byte, 3)
	written, need, err := v.ToNetwork(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, written)
	assert.Equal(t, 5, need)
	assert.Equal(t, []byte("hel"), buf)

	buf = make([]byte, 8)
	written, need, err = v.ToNetwork(buf)
	require.NoError(t, err)
	assert.Equal(t, 5, written)
	assert.Equal(t, 5, need)
	assert.Equal(t, []byte("hello"), buf[:written])
}

func TestToNetworkFixedKindIsAllOrNothing(t *testing.T) {
	v := NewUint32(0x01020304, false)

	buf := []byte{0xaa, 0xbb}
	written, need, err := v.ToNetwork(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, written, "fixed kinds never fragment")
	assert.Equal(t, 4, need)
	assert.Equal(t, []byte{0xaa, 0xbb}, buf, "a short destination stays untouched")

	written, need, err = v.ToNetwork(make([]byte, 4))
	require.NoError(t, err)
	assert.Equal(t, 4, written)
	assert.Equal(t, 4, need)
}

func TestNetworkFilterNotCodable(t *testing.T) {
	v := NewFilter(make([]byte, 32), false)

	_, _, err := v.ToNetwork(make([]byte, 64))
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindFilter, ce.Kind)

	_, err = FromNetwork(KindFilter, make([]byte, 32), false)
	require.Error(t, err)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "decode", ce.Op)
}

func TestNetworkRoundTripFixedKinds(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		wire []byte
	}{
		{"uint16", NewUint16(0xbeef, false), []byte{0xbe, 0xef}},
		{"uint64", NewUint64(1, false), []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{"int8 negative", NewInt8(-2, false), []byte{0xfe}},
		{"bool true", NewBool(true, false), []byte{1}},
		{"date", NewDate(0x01020304, false), []byte{1, 2, 3, 4}},
		{"ether", NewEthernet([6]byte{1, 2, 3, 4, 5, 6}, false), []byte{1, 2, 3, 4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.v.NetworkLength())
			written, need, err := tt.v.ToNetwork(buf)
			require.NoError(t, err)
			assert.Equal(t, need, written)
			assert.Equal(t, tt.wire, buf)

			back, err := FromNetwork(tt.v.Kind(), buf, true)
			require.NoError(t, err)
			cmp, err := Compare(tt.v, back)
			require.NoError(t, err)
			assert.Equal(t, 0, cmp)
			assert.True(t, back.Tainted())
		})
	}
}

func TestNetworkIPv4PrefixLayout(t *testing.T) {
	v := mustParse(t, KindIPv4Prefix, "10.20.0.0/16")
	require.Equal(t, 5, v.NetworkLength())

	buf := make([]byte, 5)
	written, need, err := v.ToNetwork(buf)
	require.NoError(t, err)
	require.Equal(t, 5, written)
	require.Equal(t, 5, need)
	assert.Equal(t, []byte{16, 10, 20, 0, 0}, buf,
		"prefix length byte then the four address bytes")

	back, err := FromNetwork(KindIPv4Prefix, buf, false)
	require.NoError(t, err)
	assert.Equal(t, "10.20.0.0/16", back.String())
}

func TestNetworkIPv6PrefixLayout(t *testing.T) {
	v := mustParse(t, KindIPv6Prefix, "2001:db8::/32")
	require.Equal(t, 18, v.NetworkLength())

	buf := make([]byte, 18)
	_, _, err := v.ToNetwork(buf)
	require.NoError(t, err)
	assert.Equal(t, byte(0), buf[0], "scope id byte")
	assert.Equal(t, byte(32), buf[1], "prefix length byte")
	assert.Equal(t, byte(0x20), buf[2])
	assert.Equal(t, byte(0x01), buf[3])

	back, err := FromNetwork(KindIPv6Prefix, buf, false)
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::/32", back.String())
}

func TestFromNetworkLengthErrors(t *testing.T) {
	_, err := FromNetwork(KindUint32, []byte{1, 2}, false)
	require.Error(t, err)
	var le *LengthError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Got)
	assert.Equal(t, 4, le.Expected)
	assert.False(t, le.TooLong)

	_, err = FromNetwork(KindUint32, []byte{1, 2, 3, 4, 5}, false)
	require.Error(t, err)
	require.ErrorAs(t, err, &le)
	assert.True(t, le.TooLong, "trailing bytes are garbage, not padding")
}

func TestFromNetworkBadPrefixLength(t *testing.T) {
	_, err := FromNetwork(KindIPv4Prefix, []byte{33, 10, 0, 0, 0}, false)
	require.Error(t, err)
	var re *RangeError
	assert.ErrorAs(t, err, &re)
}

func TestNetworkNonCodableKinds(t *testing.T) {
	for _, v := range []*Value{
		NewSize(1024, false),
		NewElapsed(0, false),
	} {
		_, _, err := v.ToNetwork(make([]byte, 16))
		require.Error(t, err, "kind %q has no portable wire format", v.Kind())

		_, err = FromNetwork(v.Kind(), make([]byte, 8), false)
		require.Error(t, err)
	}
}

func TestNetworkFloatRoundTrip(t *testing.T) {
	v := NewFloat64(3.5, false)
	buf := make([]byte, 8)
	_, _, err := v.ToNetwork(buf)
	require.NoError(t, err)

	back, err := FromNetwork(KindFloat64, buf, false)
	require.NoError(t, err)
	assert.Equal(t, 3.5, back.Float())
}
