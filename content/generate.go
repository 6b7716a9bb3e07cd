package content

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrRange reports a read beyond the effective length of a file.
	ErrRange = errors.New("content: read out of range")
	// ErrTooLarge reports a range that cannot be held in a single buffer.
	ErrTooLarge = errors.New("content: range too large to buffer")
)

// RangeError describes an out-of-bounds read request.
type RangeError struct {
	Offset uint64
	Length uint64
	Size   uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("content: range [%d, +%d) exceeds size %d", e.Offset, e.Length, e.Size)
}

func (e *RangeError) Unwrap() error {
	return ErrRange
}

// CheckRange verifies that [offset, offset+length) lies within a file of the
// given size. A range ending exactly at size is valid.
func CheckRange(size, offset, length uint64) error {
	if offset > size || length > size-offset {
		return &RangeError{Offset: offset, Length: length, Size: size}
	}
	return nil
}

// Generate returns the bytes [offset, offset+length) of a file of the given
// size and pattern.
func Generate(p Pattern, size, offset, length uint64) ([]byte, error) {
	if err := CheckRange(size, offset, length); err != nil {
		return nil, err
	}
	if length > math.MaxInt {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, length)
	}

	buf := make([]byte, length)
	p.Fill(buf, offset)
	return buf, nil
}

// Fill writes the pattern bytes starting at offset into dst. It performs no
// bounds checks; callers clamp dst at the end of the file.
func (p Pattern) Fill(dst []byte, offset uint64) {
	switch p.kind {
	case KindZero, KindOne, KindDigit:
		fillByte(dst, p.Byte())
	case KindRandom:
		p.fillRandom(dst, offset)
	default:
		panic(fmt.Sprintf("content: unknown pattern kind %d", int(p.kind)))
	}
}

func fillByte(dst []byte, b byte) {
	if len(dst) == 0 {
		return
	}

	dst[0] = b
	for n := 1; n < len(dst); n *= 2 {
		copy(dst[n:], dst[:n])
	}
}
