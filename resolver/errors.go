package resolver

import (
	"errors"
	"fmt"
)

// ErrInvalidRule is returned by New for an unusable directory rule.
var ErrInvalidRule = errors.New("resolver: invalid rule")

// ResolveError wraps the reason a path could not be resolved, usually a
// *size.ParseError for the final path segment.
type ResolveError struct {
	Path string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolver: failed to resolve '%s': %v", e.Path, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
