package data

import (
	"context"
	"errors"
	"io/fs"
	"sync"
)

// Standard errors returned by the filesystem and its adapters.
var (
	// Path errors
	ErrInvalidPath  = errors.New("sizefs: invalid path")
	ErrNotExist     = errors.New("sizefs: file does not exist")
	ErrIsDirectory  = errors.New("sizefs: is a directory")
	ErrNotDirectory = errors.New("sizefs: not a directory")

	// Every mutating operation fails with ErrReadOnly.
	ErrReadOnly   = errors.New("sizefs: read-only filesystem")
	ErrPermission = errors.New("sizefs: permission denied")

	// Handle errors
	ErrClosed   = errors.New("sizefs: file already closed")
	ErrBusy     = errors.New("sizefs: file is busy")
	ErrInvalid  = errors.New("sizefs: invalid argument")
	ErrTooLarge = errors.New("sizefs: file too large")
	ErrLimit    = errors.New("sizefs: too many open files")
	ErrShutdown = errors.New("sizefs: filesystem is shut down")

	// Command errors
	ErrUnknownCommand = errors.New("sizefs: unknown command")
	ErrCommandExists  = errors.New("sizefs: command already registered")
)

// Errors collects errors from concurrent or repeated operations.
type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.errors)
}

// Errors joins every collected error, or returns nil if there were none.
func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}

// PathError converts err into an *fs.PathError whose Err is the matching
// io/fs error, so os.IsNotExist and friends work on adapter results.
func PathError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var target error
	switch {
	case errors.Is(err, ErrNotExist), errors.Is(err, ErrInvalidPath):
		target = fs.ErrNotExist
	case errors.Is(err, ErrReadOnly), errors.Is(err, ErrPermission):
		target = fs.ErrPermission
	case errors.Is(err, ErrClosed), errors.Is(err, ErrShutdown):
		target = fs.ErrClosed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		target = err
	default:
		target = fs.ErrInvalid
	}

	return &fs.PathError{Op: op, Path: path, Err: target}
}
