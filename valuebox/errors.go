package valuebox

import "fmt"

// Every fallible operation returns one of the typed errors below,
// carrying its diagnostic fields (kind names, lengths, offending values)
// so the caller can format or branch on them.

// KindMismatchError is returned when two values of different kinds are
// compared, including IP comparisons across address families.
type KindMismatchError struct {
	A, B Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("cannot compare values of kind %q and %q", e.A, e.B)
}

// CastError is returned for a cast pair with no defined conversion rule,
// or one whose structural requirements the source does not meet.
type CastError struct {
	From, To Kind
	Reason   string
}

func (e *CastError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid cast from %q to %q", e.From, e.To)
	}
	return fmt.Sprintf("invalid cast from %q to %q: %s", e.From, e.To, e.Reason)
}

// RangeError is returned when a cast or parse produces a value outside
// the destination kind's bounds. Value, Min and Max are held in their
// presentation form so signed, unsigned and prefix-length ranges can all
// be reported through the one type.
type RangeError struct {
	Kind            Kind
	Value, Min, Max string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %s is invalid for kind %q (must be in range %s-%s)",
		e.Value, e.Kind, e.Min, e.Max)
}

// LengthError is returned by the network codec when input is shorter than
// the kind's minimum wire size or longer than its maximum.
type LengthError struct {
	Kind     Kind
	Got      int
	Expected int
	TooLong  bool
}

func (e *LengthError) Error() string {
	if e.TooLong {
		return fmt.Sprintf("trailing garbage for kind %q: expected <= %d bytes, got %d bytes",
			e.Kind, e.Expected, e.Got)
	}
	return fmt.Sprintf("truncated value for kind %q: expected >= %d bytes, got %d bytes",
		e.Kind, e.Expected, e.Got)
}

// ParseError is returned when presentation input does not match the
// destination kind's textual grammar.
type ParseError struct {
	Kind   Kind
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cannot parse %q as kind %q", e.Input, e.Kind)
	}
	return fmt.Sprintf("cannot parse %q as kind %q: %s", e.Input, e.Kind, e.Reason)
}

// CodecError is returned when a kind has no NETWORK format representation.
type CodecError struct {
	Kind Kind
	Op   string // "encode" or "decode"
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("cannot %s kind %q in network format", e.Op, e.Kind)
}
