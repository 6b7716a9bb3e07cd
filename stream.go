package sizefs

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/mwantia/sizefs/content"
	"github.com/mwantia/sizefs/data"
	"github.com/mwantia/sizefs/resolver"
)

// fileStream is an open handle. Its offset is guarded by mu; the content
// itself is generated on demand and never shared.
type fileStream struct {
	mu  sync.Mutex
	ctx context.Context

	fs       *fileSystemImpl
	id       string
	file     *resolver.VirtualFile
	info     *data.FileInfo
	reader   *content.Reader
	openedAt time.Time
	closed   bool
}

var _ data.Streamer = (*fileStream)(nil)

func (s *fileStream) ID() string {
	return s.id
}

func (s *fileStream) Path() string {
	return s.file.Path
}

func (s *fileStream) Stat() *data.FileInfo {
	return s.info
}

// Read reads up to len(p) bytes at the current offset and advances it.
func (s *fileStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return 0, err
	}

	started := time.Now()
	n, err := s.reader.Read(p)
	s.fs.metrics.Generated(s.kind(), n, started)

	return n, err
}

// ReadAt reads at an absolute offset without moving the current one.
func (s *fileStream) ReadAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	if err := s.check(); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.mu.Unlock()

	started := time.Now()
	n, err := s.reader.ReadAt(p, off)
	s.fs.metrics.Generated(s.kind(), n, started)

	return n, err
}

func (s *fileStream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, data.ErrClosed
	}

	pos, err := s.reader.Seek(offset, whence)
	if err != nil {
		s.fs.log.Debug("Seek on '%s' failed: %v", s.file.Path, err)
		return 0, data.ErrInvalid
	}

	return pos, nil
}

// Tell returns the current offset.
func (s *fileStream) Tell() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, _ := s.reader.Seek(0, io.SeekCurrent)
	return pos
}

// WriteTo streams the rest of the file to w. It stops early if the context
// the file was opened with is cancelled.
func (s *fileStream) WriteTo(w io.Writer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return 0, err
	}

	started := time.Now()
	n, err := s.reader.WriteTo(&contextWriter{ctx: s.ctx, w: w})
	s.fs.metrics.Generated(s.kind(), int(n), started)

	return n, err
}

// Close marks the handle as closed and unregisters it from the filesystem.
func (s *fileStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return data.ErrClosed
	}
	s.closed = true

	s.fs.unregister(s.id)
	s.fs.log.Debug("Closed '%s' (%s)", s.file.Path, s.id)

	return nil
}

// IsBusy reports whether another goroutine is currently using the handle.
func (s *fileStream) IsBusy() bool {
	if !s.mu.TryLock() {
		return true
	}
	s.mu.Unlock()
	return false
}

func (s *fileStream) check() error {
	if s.closed {
		return data.ErrClosed
	}

	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return nil
	}
}

func (s *fileStream) kind() string {
	return s.file.Pattern.Kind().String()
}

type contextWriter struct {
	ctx context.Context
	w   io.Writer
}

func (cw *contextWriter) Write(p []byte) (int, error) {
	if err := cw.ctx.Err(); err != nil {
		return 0, err
	}
	return cw.w.Write(p)
}
