package size

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSpec reports a token that does not follow the size grammar.
	ErrMalformedSpec = errors.New("size: malformed size spec")
	// ErrUnknownUnit reports a unit suffix missing from the unit table.
	ErrUnknownUnit = errors.New("size: unknown unit")
	// ErrOverflow reports a size outside of the uint64 range, or a negative net size.
	ErrOverflow = errors.New("size: size overflow")
)

// ParseError describes why a size token was rejected.
// Err is always one of ErrMalformedSpec, ErrUnknownUnit or ErrOverflow.
type ParseError struct {
	Token  string
	Err    error
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: '%s'", e.Err, e.Token)
	}
	return fmt.Sprintf("%v: '%s': %s", e.Err, e.Token, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func malformed(token, format string, args ...any) error {
	return &ParseError{Token: token, Err: ErrMalformedSpec, Reason: fmt.Sprintf(format, args...)}
}

func unknownUnit(token, unit string) error {
	return &ParseError{Token: token, Err: ErrUnknownUnit, Reason: fmt.Sprintf("unit '%s' is not recognized", unit)}
}

func overflow(token, format string, args ...any) error {
	return &ParseError{Token: token, Err: ErrOverflow, Reason: fmt.Sprintf(format, args...)}
}
