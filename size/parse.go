package size

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

// Spec is a parsed size token: a base size in bytes plus a signed adjustment.
// Parse guarantees 0 <= Base+Adjustment <= math.MaxUint64.
type Spec struct {
	Base       uint64
	Adjustment int64
}

// Length returns the effective length in bytes.
func (s Spec) Length() uint64 {
	if s.Adjustment >= 0 {
		return s.Base + uint64(s.Adjustment)
	}
	return s.Base - negate(s.Adjustment)
}

func (s Spec) String() string {
	switch {
	case s.Adjustment > 0:
		return fmt.Sprintf("%dB+%dB", s.Base, s.Adjustment)
	case s.Adjustment < 0:
		return fmt.Sprintf("%dB-%dB", s.Base, negate(s.Adjustment))
	default:
		return fmt.Sprintf("%dB", s.Base)
	}
}

// Parse parses token against DefaultUnits.
//
//	token := digits [unit] [('+' | '-') digits [unit]]
func Parse(token string) (Spec, error) {
	return DefaultUnits.Parse(token)
}

// Parse parses token using the units of this table.
func (u *Units) Parse(token string) (Spec, error) {
	if token == "" {
		return Spec{}, malformed(token, "empty size token")
	}

	base, rest, err := u.segment(token, token)
	if err != nil {
		return Spec{}, err
	}

	if rest == "" {
		return Spec{Base: base}, nil
	}

	sign := rest[0]
	if sign != '+' && sign != '-' {
		return Spec{}, malformed(token, "unexpected trailing text '%s'", rest)
	}

	adjustment, rest, err := u.segment(token, rest[1:])
	if err != nil {
		return Spec{}, err
	}

	if rest != "" {
		if rest[0] == '+' || rest[0] == '-' {
			return Spec{}, malformed(token, "only one adjustment segment is allowed")
		}
		return Spec{}, malformed(token, "unexpected trailing text '%s'", rest)
	}

	if adjustment > math.MaxInt64 {
		return Spec{}, overflow(token, "adjustment %d exceeds the signed 64-bit range", adjustment)
	}

	if sign == '-' {
		if adjustment > base {
			return Spec{}, overflow(token, "net size is negative")
		}
		return Spec{Base: base, Adjustment: -int64(adjustment)}, nil
	}

	if base > math.MaxUint64-adjustment {
		return Spec{}, overflow(token, "net size exceeds the unsigned 64-bit range")
	}
	return Spec{Base: base, Adjustment: int64(adjustment)}, nil
}

// MustParse is like Parse but panics if the token is invalid.
func MustParse(token string) Spec {
	spec, err := Parse(token)
	if err != nil {
		panic(err)
	}
	return spec
}

// segment consumes "digits [unit]" from the start of s and returns the byte
// value together with the unconsumed remainder.
func (u *Units) segment(token, s string) (uint64, string, error) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		if s == "" {
			return 0, "", malformed(token, "expected digits at end of token")
		}
		return 0, "", malformed(token, "expected digits before '%s'", s)
	}

	value, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, "", overflow(token, "value '%s' exceeds the unsigned 64-bit range", s[:i])
		}
		return 0, "", malformed(token, "invalid number '%s'", s[:i])
	}

	j := i
	for j < len(s) && isLetter(s[j]) {
		j++
	}
	if j == i {
		return value, s[i:], nil
	}

	unit, ok := u.Lookup(s[i:j])
	if !ok {
		return 0, "", unknownUnit(token, s[i:j])
	}

	hi, lo := bits.Mul64(value, unit.Multiplier)
	if hi != 0 {
		return 0, "", overflow(token, "%d%s exceeds the unsigned 64-bit range", value, unit.Name)
	}

	return lo, s[j:], nil
}

func negate(v int64) uint64 {
	return uint64(-(v + 1)) + 1
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
