package valuebox

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"
)

// Calendar date layouts accepted by FromString for second resolution
// dates, tried in order after the plain epoch-seconds form.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan _2 2006 15:04:05 MST",
	"Jan _2 2006 15:04:05",
	"Jan _2 2006",
}

// FromString parses a PRESENTATION format token into a new value of the
// given kind. The quote character selects the escape dialect applied to
// the input before any interpretation (see Unescape).
//
// When enum carries an alias matching the unescaped token and the alias
// kind matches, the alias value wins over literal parsing. The combo
// kinds resolve to the concrete IPv4 or IPv6 kind selected by the
// parsed address family.
func FromString(kind Kind, enum *Attribute, in string, quote byte, tainted bool) (*Value, error) {
	if !kind.IsConcrete() && kind != KindComboIP && kind != KindComboIPPrefix {
		panic("valuebox: FromString with kind " + kind.String())
	}

	raw := Unescape([]byte(in), quote)
	token := string(raw)

	if enum != nil {
		if alias := enum.Alias(token); alias != nil && alias.Kind() == kind {
			v := alias.Copy()
			v.tainted = tainted
			v.enum = enum
			return v, nil
		}
	}

	v, err := parseLiteral(kind, raw, token, tainted)
	if err != nil {
		return nil, err
	}
	v.enum = enum
	return v, nil
}

func parseLiteral(kind Kind, raw []byte, token string, tainted bool) (*Value, error) {
	switch kind {
	case KindString:
		return NewStringBytes(raw, tainted), nil

	case KindOctets, KindFilter:
		return parseOctets(kind, raw, token, tainted)

	case KindIPv4Addr, KindIPv6Addr, KindComboIP:
		return parseIPValue(kind, token, tainted, false)

	case KindIPv4Prefix, KindIPv6Prefix, KindComboIPPrefix:
		return parseIPValue(kind, token, tainted, true)

	case KindIFID:
		return parseIFID(token, tainted)

	case KindEthernet:
		return parseEthernet(token, tainted)

	case KindBool:
		switch token {
		case "yes", "true":
			return NewBool(true, tainted), nil
		case "no", "false":
			return NewBool(false, tainted), nil
		}
		return nil, &ParseError{Kind: kind, Input: token,
			Reason: `expected "yes", "no", "true" or "false"`}

	case KindFloat32:
		f, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return nil, numParseError(kind, token, err)
		}
		return NewFloat32(float32(f), tainted), nil

	case KindFloat64:
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, numParseError(kind, token, err)
		}
		return NewFloat64(f, tainted), nil

	case KindDate:
		return parseDate(token, tainted)

	case KindSize:
		return parseSize(token, tainted)

	case KindElapsed:
		return parseElapsed(token, tainted)

	default:
		return parseInteger(kind, token, tainted)
	}
}

func parseOctets(kind Kind, raw []byte, token string, tainted bool) (*Value, error) {
	if strings.HasPrefix(token, "0x") {
		hexPart := token[2:]
		if len(hexPart)%2 != 0 {
			return nil, &ParseError{Kind: kind, Input: token,
				Reason: "hex string has an odd number of digits"}
		}
		out, err := hex.DecodeString(hexPart)
		if err != nil {
			return nil, &ParseError{Kind: kind, Input: token,
				Reason: "invalid hex digit"}
		}
		v := &Value{kind: kind, tainted: tainted, raw: out}
		return v, nil
	}

	// No hex prefix: the raw character content becomes the payload.
	v := &Value{kind: kind, tainted: tainted}
	v.raw = append([]byte(nil), raw...)
	return v, nil
}

func parseIPValue(kind Kind, token string, tainted bool, allowPrefix bool) (*Value, error) {
	family := FamilyNone
	switch kind {
	case KindIPv4Addr, KindIPv4Prefix:
		family = FamilyIPv4
	case KindIPv6Addr, KindIPv6Prefix:
		family = FamilyIPv6
	}

	ip, err := parseIPAddr(token, family)
	if err != nil {
		return nil, &ParseError{Kind: kind, Input: token, Reason: err.Error()}
	}

	if !allowPrefix && ip.Prefix != ip.Family.bits() {
		return nil, &ParseError{Kind: kind, Input: token,
			Reason: "an address kind requires /" + strconv.Itoa(int(ip.Family.bits()))}
	}

	// The combo kinds resolve to the parsed family. An explicit prefix
	// kind stays a prefix even at full width.
	out := kind
	switch kind {
	case KindComboIP:
		out = KindIPv4Addr
		if ip.Family == FamilyIPv6 {
			out = KindIPv6Addr
		}
	case KindComboIPPrefix:
		out = KindIPv4Prefix
		if ip.Family == FamilyIPv6 {
			out = KindIPv6Prefix
		}
	}
	return &Value{kind: out, tainted: tainted, ip: ip}, nil
}

// parseIFID reads the four colon separated 16-bit hex groups of an
// interface id, e.g. "0011:2233:4455:6677".
func parseIFID(token string, tainted bool) (*Value, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 4 {
		return nil, &ParseError{Kind: KindIFID, Input: token,
			Reason: "expected four colon separated hex groups"}
	}
	var ifid [8]byte
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return nil, &ParseError{Kind: KindIFID, Input: token,
				Reason: "invalid hex group " + strconv.Quote(p)}
		}
		binary.BigEndian.PutUint16(ifid[2*i:], uint16(n))
	}
	return NewIFID(ifid, tainted), nil
}

// parseEthernet reads a MAC address in colon separated hex form, or a
// decimal integer whose low 48 bits are the address.
func parseEthernet(token string, tainted bool) (*Value, error) {
	if !strings.Contains(token, ":") {
		n, err := strconv.ParseUint(token, 10, 64)
		if err != nil || n > 0xffffffffffff {
			return nil, &ParseError{Kind: KindEthernet, Input: token,
				Reason: "expected colon separated hex bytes or a 48-bit integer"}
		}
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], n)
		var ether [6]byte
		copy(ether[:], buf[2:])
		return NewEthernet(ether, tainted), nil
	}

	parts := strings.Split(token, ":")
	if len(parts) != 6 {
		return nil, &ParseError{Kind: KindEthernet, Input: token,
			Reason: "expected six colon separated hex bytes"}
	}
	var ether [6]byte
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return nil, &ParseError{Kind: KindEthernet, Input: token,
				Reason: "invalid hex byte " + strconv.Quote(p)}
		}
		ether[i] = byte(n)
	}
	return NewEthernet(ether, tainted), nil
}

// parseDate accepts epoch seconds in decimal or a calendar form from
// dateLayouts. Calendar forms without a zone are read as local time.
func parseDate(token string, tainted bool) (*Value, error) {
	if n, err := strconv.ParseUint(token, 10, 32); err == nil {
		return NewDate(uint32(n), tainted), nil
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, token, time.Local)
		if err != nil {
			continue
		}
		sec := t.Unix()
		if sec < 0 || sec > math.MaxUint32 {
			return nil, &RangeError{Kind: KindDate, Value: token,
				Min: "0", Max: utoa(math.MaxUint32)}
		}
		return NewDate(uint32(sec), tainted), nil
	}
	return nil, &ParseError{Kind: KindDate, Input: token,
		Reason: "expected epoch seconds or a calendar date"}
}

// parseSize accepts a decimal byte count with an optional binary
// magnitude suffix (k, m, g or t, case insensitive).
func parseSize(token string, tainted bool) (*Value, error) {
	num := token
	var shift uint
	if len(token) > 0 {
		switch token[len(token)-1] {
		case 'k', 'K':
			shift, num = 10, token[:len(token)-1]
		case 'm', 'M':
			shift, num = 20, token[:len(token)-1]
		case 'g', 'G':
			shift, num = 30, token[:len(token)-1]
		case 't', 'T':
			shift, num = 40, token[:len(token)-1]
		}
	}

	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return nil, numParseError(KindSize, token, err)
	}
	if shift != 0 && n > math.MaxUint64>>shift {
		return nil, &RangeError{Kind: KindSize, Value: token,
			Min: "0", Max: utoa(math.MaxUint64)}
	}
	return NewSize(n<<shift, tainted), nil
}

// parseElapsed accepts "seconds" or "seconds.microseconds" with at most
// six fractional digits.
func parseElapsed(token string, tainted bool) (*Value, error) {
	secPart := token
	usec := uint64(0)
	if i := strings.IndexByte(token, '.'); i >= 0 {
		secPart = token[:i]
		frac := token[i+1:]
		if frac == "" || len(frac) > 6 {
			return nil, &ParseError{Kind: KindElapsed, Input: token,
				Reason: "expected at most six fractional digits"}
		}
		n, err := strconv.ParseUint(frac, 10, 32)
		if err != nil {
			return nil, numParseError(KindElapsed, token, err)
		}
		for pad := 6 - len(frac); pad > 0; pad-- {
			n *= 10
		}
		usec = n
	}

	sec, err := strconv.ParseUint(secPart, 10, 64)
	if err != nil {
		return nil, numParseError(KindElapsed, token, err)
	}
	if sec > uint64(math.MaxInt64/int64(time.Second)) {
		return nil, &RangeError{Kind: KindElapsed, Value: token,
			Min: "0", Max: utoa(uint64(math.MaxInt64 / int64(time.Second)))}
	}

	d := time.Duration(sec)*time.Second + time.Duration(usec)*time.Microsecond
	return NewElapsed(d, tainted), nil
}

// parseInteger handles every integer-like kind through the strconv base
// detection rules, so 0x and 0b prefixed literals work everywhere a
// decimal does.
func parseInteger(kind Kind, token string, tainted bool) (*Value, error) {
	smin, smax, umax := kind.intBounds()

	if kind.isSignedInt() {
		n, err := strconv.ParseInt(token, 0, 64)
		if err != nil {
			if isRangeErr(err) {
				return nil, &RangeError{Kind: kind, Value: token,
					Min: itoa(smin), Max: itoa(smax)}
			}
			return nil, numParseError(kind, token, err)
		}
		if n < smin || n > smax {
			return nil, &RangeError{Kind: kind, Value: token,
				Min: itoa(smin), Max: itoa(smax)}
		}
		v := newInteger(kind, true, uint64(n))
		v.tainted = tainted
		return v, nil
	}

	n, err := strconv.ParseUint(token, 0, 64)
	if err != nil {
		if isRangeErr(err) {
			return nil, &RangeError{Kind: kind, Value: token,
				Min: "0", Max: utoa(umax)}
		}
		return nil, numParseError(kind, token, err)
	}
	if n > umax {
		return nil, &RangeError{Kind: kind, Value: token,
			Min: "0", Max: utoa(umax)}
	}
	v := newInteger(kind, false, n)
	v.tainted = tainted
	return v, nil
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func numParseError(kind Kind, token string, err error) error {
	reason := "not a valid number"
	if ne, ok := err.(*strconv.NumError); ok && ne.Err != nil {
		reason = ne.Err.Error()
	}
	return &ParseError{Kind: kind, Input: token, Reason: reason}
}
