package valuebox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, kind Kind, in string) *Value {
	t.Helper()
	v, err := FromString(kind, nil, in, 0, false)
	require.NoError(t, err, "parsing %q as %q", in, kind)
	return v
}

func TestCompareOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		want int
	}{
		{"uint32 less", NewUint32(1, false), NewUint32(2, false), -1},
		{"uint32 equal", NewUint32(7, false), NewUint32(7, false), 0},
		{"int32 negative", NewInt32(-5, false), NewInt32(3, false), -1},
		{"float64", NewFloat64(2.5, false), NewFloat64(2.25, false), 1},
		{"string lexicographic", NewString("abc", false), NewString("abd", false), -1},
		{"string prefix shorter first", NewString("ab", false), NewString("abc", false), -1},
		{"octets", NewOctets([]byte{0x00, 0xff}, false), NewOctets([]byte{0x01}, false), -1},
		{"bool", NewBool(false, false), NewBool(true, false), -1},
		{"date", NewDate(100, false), NewDate(99, false), 1},
		{"ether", NewEthernet([6]byte{1}, false), NewEthernet([6]byte{2}, false), -1},
		{"ifid equal", NewIFID([8]byte{9}, false), NewIFID([8]byte{9}, false), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareKindMismatch(t *testing.T) {
	_, err := Compare(NewUint32(1, false), NewInt32(1, false))
	require.Error(t, err)
	var mismatch *KindMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, KindUint32, mismatch.A)
	assert.Equal(t, KindInt32, mismatch.B)
}

func TestCompareTaintDoesNotAffectOrdering(t *testing.T) {
	got, err := Compare(NewUint32(5, true), NewUint32(5, false))
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestCompareOpScalars(t *testing.T) {
	a := NewUint32(3, false)
	b := NewUint32(5, false)

	for _, tt := range []struct {
		op   Op
		want bool
	}{
		{OpEqual, false},
		{OpNotEqual, true},
		{OpLessThan, true},
		{OpLessEqual, true},
		{OpGreaterThan, false},
		{OpGreaterEqual, false},
	} {
		got, err := CompareOp(tt.op, a, b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "3 %s 5", tt.op)
	}
}

func TestCompareOpCIDR(t *testing.T) {
	net8 := "10.0.0.0/8"
	net8b := "10.0.0.0/8"
	net16 := "10.1.0.0/16"
	otherNet8 := "11.0.0.0/8"

	tests := []struct {
		name string
		op   Op
		a, b string
		want bool
	}{
		{"same network LE", OpLessEqual, net8, net8b, true},
		{"same network GE", OpGreaterEqual, net8, net8b, true},
		{"same network EQ", OpEqual, net8, net8b, true},
		{"same network LT", OpLessThan, net8, net8b, false},

		// Distinct same-width networks are unordered.
		{"same width differing EQ", OpEqual, net8, otherNet8, false},
		{"same width differing NE", OpNotEqual, net8, otherNet8, true},
		{"same width differing LT", OpLessThan, net8, otherNet8, false},
		{"same width differing GE", OpGreaterEqual, net8, otherNet8, false},

		// The shorter prefix is the superset, so it compares "greater".
		{"superset GE subset", OpGreaterEqual, net8, net16, true},
		{"superset GT subset", OpGreaterThan, net8, net16, true},
		{"superset LE subset", OpLessEqual, net8, net16, false},
		{"subset LE superset", OpLessEqual, net16, net8, true},
		{"subset GE superset", OpGreaterEqual, net16, net8, false},
		{"unequal depth NE", OpNotEqual, net8, net16, true},
		{"unequal depth EQ", OpEqual, net8, net16, false},

		// Disjoint networks fail membership in both directions.
		{"disjoint GE", OpGreaterEqual, otherNet8, net16, false},
		{"disjoint LE", OpLessEqual, net16, otherNet8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustParse(t, KindIPv4Prefix, tt.a)
			b := mustParse(t, KindIPv4Prefix, tt.b)
			got, err := CompareOp(tt.op, a, b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "%s %s %s", tt.a, tt.op, tt.b)
		})
	}
}

func TestCompareOpAddressMembership(t *testing.T) {
	addr := mustParse(t, KindIPv4Addr, "10.1.2.3")
	inside := mustParse(t, KindIPv4Prefix, "10.0.0.0/8")
	outside := mustParse(t, KindIPv4Prefix, "192.168.0.0/16")

	got, err := CompareOp(OpLessEqual, addr, inside)
	require.NoError(t, err)
	assert.True(t, got, "address inside the network")

	got, err = CompareOp(OpLessEqual, addr, outside)
	require.NoError(t, err)
	assert.False(t, got, "address outside the network")

	got, err = CompareOp(OpGreaterEqual, inside, addr)
	require.NoError(t, err)
	assert.True(t, got, "network contains the address")

	got, err = CompareOp(OpGreaterEqual, addr, inside)
	require.NoError(t, err)
	assert.False(t, got, "an address never contains a wider network")
}

func TestCompareOpCrossFamily(t *testing.T) {
	v4 := mustParse(t, KindIPv4Addr, "10.0.0.1")
	v6 := mustParse(t, KindIPv6Prefix, "2001:db8::/32")

	_, err := CompareOp(OpLessEqual, v4, v6)
	require.Error(t, err)
	var mismatch *KindMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestCompareOpIPv6CIDR(t *testing.T) {
	addr := mustParse(t, KindIPv6Addr, "2001:db8::1")
	net := mustParse(t, KindIPv6Prefix, "2001:db8::/32")

	got, err := CompareOp(OpLessEqual, addr, net)
	require.NoError(t, err)
	assert.True(t, got)

	other := mustParse(t, KindIPv6Addr, "2001:db9::1")
	got, err = CompareOp(OpLessEqual, other, net)
	require.NoError(t, err)
	assert.False(t, got)
}
