package content

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// ChunkSize bounds the buffer used by Reader.WriteTo.
const ChunkSize = 256 * 1024

// Reader streams the content of one virtual file. It never holds more than
// ChunkSize bytes of generated content at a time.
//
// A Reader is not safe for concurrent use, except for ReadAt.
type Reader struct {
	pattern Pattern
	size    int64
	offset  int64
}

var (
	_ io.Reader   = (*Reader)(nil)
	_ io.ReaderAt = (*Reader)(nil)
	_ io.Seeker   = (*Reader)(nil)
	_ io.WriterTo = (*Reader)(nil)
)

// NewReader returns a Reader over a file of the given size. Sizes beyond
// math.MaxInt64 cannot be addressed through io.Seeker and are rejected.
func NewReader(p Pattern, size uint64) (*Reader, error) {
	if size > math.MaxInt64 {
		return nil, fmt.Errorf("%w: size %d exceeds the seekable range", ErrTooLarge, size)
	}
	return &Reader{pattern: p, size: int64(size)}, nil
}

func (r *Reader) Pattern() Pattern {
	return r.pattern
}

func (r *Reader) Size() int64 {
	return r.size
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	if r.offset >= r.size {
		return 0
	}
	return int(min(r.size-r.offset, math.MaxInt))
}

func (r *Reader) Read(b []byte) (int, error) {
	if r.offset >= r.size {
		return 0, io.EOF
	}

	n := clamp(len(b), r.size-r.offset)
	r.pattern.Fill(b[:n], uint64(r.offset))
	r.offset += int64(n)

	return n, nil
}

func (r *Reader) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("content.Reader.ReadAt: negative offset")
	}
	if off >= r.size {
		return 0, io.EOF
	}

	n := clamp(len(b), r.size-off)
	r.pattern.Fill(b[:n], uint64(off))
	if n < len(b) {
		return n, io.EOF
	}

	return n, nil
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int64

	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.offset + offset
	case io.SeekEnd:
		abs = r.size + offset
	default:
		return 0, fmt.Errorf("content.Reader.Seek: invalid whence %d", whence)
	}

	if abs < 0 {
		return 0, errors.New("content.Reader.Seek: negative position")
	}

	r.offset = abs
	return abs, nil
}

// WriteTo streams the unread content to w in chunks of at most ChunkSize.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	remaining := r.size - r.offset
	if remaining <= 0 {
		return 0, nil
	}

	buf := make([]byte, clamp(ChunkSize, remaining))
	if r.pattern.Constant() {
		r.pattern.Fill(buf, 0)
	}

	var written int64
	for r.offset < r.size {
		chunk := buf[:clamp(len(buf), r.size-r.offset)]
		if !r.pattern.Constant() {
			r.pattern.Fill(chunk, uint64(r.offset))
		}

		n, err := w.Write(chunk)
		r.offset += int64(n)
		written += int64(n)

		if err != nil {
			return written, err
		}
		if n != len(chunk) {
			return written, io.ErrShortWrite
		}
	}

	return written, nil
}

func clamp(n int, limit int64) int {
	if int64(n) > limit {
		return int(limit)
	}
	return n
}
