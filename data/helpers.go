package data

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// NewHandleID returns a time-ordered identifier for an open handle.
func NewHandleID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// CleanPath returns p as a clean absolute path.
func CleanPath(p string) (string, error) {
	if strings.IndexByte(p, 0) >= 0 {
		return "", fmt.Errorf("%w: path contains a NUL byte", ErrInvalidPath)
	}
	return path.Clean("/" + p), nil
}
