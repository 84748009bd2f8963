package valuebox

// Unescape interprets backslash escapes in a quoted token and returns
// the raw bytes. The quote character selects the dialect:
//
//   - 0 copies the input verbatim, no escape processing at all.
//   - a single quote collapses only \' and \\ and leaves every other
//     sequence untouched.
//   - any other quote additionally recognizes \r \n \t \\, a
//     backslash-escaped quote character, \xHH for one hex byte and
//     \OOO for up to three octal digits.
//
// A backslash starting no recognized sequence, including one at the
// very end of the input, is copied through unmodified. The output is
// never longer than the input.
func Unescape(in []byte, quote byte) []byte {
	out := make([]byte, 0, len(in))
	if quote == 0 {
		return append(out, in...)
	}

	for i := 0; i < len(in); i++ {
		c := in[i]
		if c != '\\' || i+1 == len(in) {
			out = append(out, c)
			continue
		}

		next := in[i+1]
		if quote == '\'' {
			if next == '\'' || next == '\\' {
				out = append(out, next)
				i++
			} else {
				out = append(out, c)
			}
			continue
		}

		switch {
		case next == 'r':
			out = append(out, '\r')
			i++
		case next == 'n':
			out = append(out, '\n')
			i++
		case next == 't':
			out = append(out, '\t')
			i++
		case next == '\\':
			out = append(out, '\\')
			i++
		case next == quote:
			out = append(out, quote)
			i++

		case next == 'x' && i+3 < len(in) && isHex(in[i+2]) && isHex(in[i+3]):
			out = append(out, hexVal(in[i+2])<<4|hexVal(in[i+3]))
			i += 3

		case next >= '0' && next <= '7':
			b := next - '0'
			n := 1
			for ; n < 3 && i+1+n < len(in); n++ {
				d := in[i+1+n]
				if d < '0' || d > '7' {
					break
				}
				b = b<<3 | (d - '0')
			}
			out = append(out, b)
			i += n

		default:
			out = append(out, c)
		}
	}
	return out
}

// appendEscaped renders raw string bytes for presentation. Control
// bytes and DEL become three-digit octal escapes, the common control
// characters get their mnemonic form, and the backslash plus the
// surrounding quote character are escaped. Bytes >= 0x80 pass through
// so multibyte UTF-8 sequences survive printing.
func appendEscaped(out []byte, in []byte, quote byte) []byte {
	for _, c := range in {
		switch {
		case c == '\r':
			out = append(out, '\\', 'r')
		case c == '\n':
			out = append(out, '\\', 'n')
		case c == '\t':
			out = append(out, '\\', 't')
		case c == '\\':
			out = append(out, '\\', '\\')
		case quote != 0 && c == quote:
			out = append(out, '\\', quote)
		case c < 0x20 || c == 0x7f:
			out = append(out, '\\',
				'0'+(c>>6)&7, '0'+(c>>3)&7, '0'+c&7)
		default:
			out = append(out, c)
		}
	}
	return out
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
