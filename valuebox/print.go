package valuebox

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// dateLayout is the calendar form for second resolution dates, chosen so
// a printed date parses back through FromString.
const dateLayout = "Jan _2 2006 15:04:05 MST"

// String returns the PRESENTATION form of the value without quoting.
// When the enum attachment resolves the value to a symbolic alias, the
// alias text wins over the canonical form.
func (v *Value) String() string {
	if v.enum != nil {
		if name, ok := v.enum.AliasByValue(v); ok {
			return name
		}
	}
	return v.canonical()
}

func (v *Value) canonical() string {
	switch v.kind {
	case KindInvalid:
		return "invalid"

	case KindString:
		return string(v.raw)

	case KindOctets, KindFilter:
		return "0x" + hex.EncodeToString(v.raw)

	case KindIPv4Addr, KindIPv6Addr:
		return v.ip.String()

	case KindIPv4Prefix, KindIPv6Prefix:
		return v.ip.prefixString()

	case KindIFID:
		return fmt.Sprintf("%x:%x:%x:%x",
			binary.BigEndian.Uint16(v.ifid[0:]),
			binary.BigEndian.Uint16(v.ifid[2:]),
			binary.BigEndian.Uint16(v.ifid[4:]),
			binary.BigEndian.Uint16(v.ifid[6:]))

	case KindEthernet:
		return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
			v.ether[0], v.ether[1], v.ether[2],
			v.ether[3], v.ether[4], v.ether[5])

	case KindBool:
		if v.uval != 0 {
			return "yes"
		}
		return "no"

	case KindUint8, KindUint16, KindUint32, KindUint64,
		KindDateMilli, KindDateMicro, KindDateNano, KindSize:
		return utoa(v.uval)

	case KindInt8, KindInt16, KindInt32, KindInt64:
		return itoa(v.ival)

	case KindFloat32:
		return strconv.FormatFloat(v.fval, 'f', 6, 32)

	case KindFloat64:
		return strconv.FormatFloat(v.fval, 'g', -1, 64)

	case KindDate:
		return time.Unix(int64(v.uval), 0).UTC().Format(dateLayout)

	case KindElapsed:
		sec := v.elapsed / time.Second
		usec := (v.elapsed % time.Second) / time.Microsecond
		return fmt.Sprintf("%d.%06d", sec, usec)

	default:
		panic(fmt.Sprintf("valuebox: cannot print kind %q", v.kind))
	}
}

// QuotedString returns the PRESENTATION form wrapped in the given quote
// character, with the interior escaped so the result parses back through
// FromString with the same quote. Quote 0 is identical to String.
func (v *Value) QuotedString(quote byte) string {
	if quote == 0 {
		return v.String()
	}
	return string(v.appendQuoted(nil, quote))
}

func (v *Value) appendQuoted(out []byte, quote byte) []byte {
	out = append(out, quote)
	if v.kind == KindString && (v.enum == nil || !v.hasAlias()) {
		out = appendEscaped(out, v.raw, quote)
	} else {
		out = append(out, v.String()...)
	}
	return append(out, quote)
}

func (v *Value) hasAlias() bool {
	_, ok := v.enum.AliasByValue(v)
	return ok
}

// Snprint writes the value's quoted PRESENTATION form into out and
// returns the length the complete rendering needs, which exceeds
// len(out) when the output was truncated. A truncated quoted rendering
// still ends with the closing quote so the result stays lexically
// balanced.
func (v *Value) Snprint(out []byte, quote byte) int {
	var full []byte
	if quote == 0 {
		full = []byte(v.String())
	} else {
		full = v.appendQuoted(nil, quote)
	}

	n := copy(out, full)
	if n < len(full) && quote != 0 && n > 0 {
		out[n-1] = quote
	}
	return len(full)
}
