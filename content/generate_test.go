package content_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"

	"github.com/mwantia/sizefs/content"
)

var seed = []byte("sizefs-test")

func TestGenerate_Constant(t *testing.T) {
	tests := []struct {
		name    string
		pattern content.Pattern
		want    byte
	}{
		{"zeros", content.Zero(), '0'},
		{"ones", content.One(), '1'},
		{"digit", content.MustDigit('7'), '7'},
		{"digit zero", content.MustDigit('0'), '0'},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf, err := content.Generate(tc.pattern, 1000, 10, 990)
			require.NoError(t, err)
			assert.Equal(t, bytes.Repeat([]byte{tc.want}, 990), buf)
		})
	}
}

func TestGenerate_Bounds(t *testing.T) {
	patterns := []content.Pattern{content.Zero(), content.One(), content.MustDigit('3'), content.Random(seed)}

	for _, p := range patterns {
		t.Run(p.String(), func(t *testing.T) {
			buf, err := content.Generate(p, 5, 0, 5)
			require.NoError(t, err)
			assert.Len(t, buf, 5)

			buf, err = content.Generate(p, 5, 5, 0)
			require.NoError(t, err)
			assert.Empty(t, buf)

			buf, err = content.Generate(p, 0, 0, 0)
			require.NoError(t, err)
			assert.Empty(t, buf)

			_, err = content.Generate(p, 5, 0, 6)
			require.ErrorIs(t, err, content.ErrRange)

			_, err = content.Generate(p, 5, 6, 0)
			require.ErrorIs(t, err, content.ErrRange)

			_, err = content.Generate(p, 5, math.MaxUint64, 2)
			require.ErrorIs(t, err, content.ErrRange)

			var rerr *content.RangeError
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, uint64(5), rerr.Size)
		})
	}
}

func TestGenerate_RandomConsistency(t *testing.T) {
	p := content.Random(seed)
	const size = 131072

	whole, err := content.Generate(p, size, 100, 100)
	require.NoError(t, err)

	// Interleave unrelated reads to make sure nothing is carried over.
	_, err = content.Generate(p, size, 4000, 77)
	require.NoError(t, err)

	again, err := content.Generate(p, size, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, whole, again)

	second, err := content.Generate(p, size, 150, 50)
	require.NoError(t, err)
	first, err := content.Generate(p, size, 100, 50)
	require.NoError(t, err)
	assert.Equal(t, whole, append(first, second...))

	single, err := content.Generate(p, size, 105, 1)
	require.NoError(t, err)
	assert.Equal(t, whole[5], single[0])

	// Two independently constructed patterns are identical.
	other, err := content.Generate(content.Random(seed), size, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, whole, other)

	differentSeed, err := content.Generate(content.Random([]byte("other")), size, 100, 100)
	require.NoError(t, err)
	assert.NotEqual(t, whole, differentSeed)
}

func TestGenerate_RandomMatchesChaCha20(t *testing.T) {
	key := blake2b.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)

	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	require.NoError(t, err)

	want := make([]byte, 1024)
	c.XORKeyStream(want, want)

	got, err := content.Generate(content.Random(seed), 1024, 0, 1024)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Block 2^32+3 lives under nonce 1, counter 3.
	binary.LittleEndian.PutUint64(nonce[4:], 1)
	c, err = chacha20.NewUnauthenticatedCipher(key[:], nonce)
	require.NoError(t, err)
	c.SetCounter(3)

	want = make([]byte, 64)
	c.XORKeyStream(want, want)

	offset := ((uint64(1) << 32) + 3) * 64
	got, err = content.Generate(content.Random(seed), math.MaxUint64, offset, 64)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGenerate_RandomCounterWrap(t *testing.T) {
	p := content.Random(seed)
	boundary := uint64(1) << 38
	const size = math.MaxUint64

	whole, err := content.Generate(p, size, boundary-100, 200)
	require.NoError(t, err)

	before, err := content.Generate(p, size, boundary-100, 100)
	require.NoError(t, err)
	after, err := content.Generate(p, size, boundary, 100)
	require.NoError(t, err)
	assert.Equal(t, whole, append(before, after...))

	start, err := content.Generate(p, size, 0, 100)
	require.NoError(t, err)
	assert.NotEqual(t, start, after, "the keystream must not repeat after the counter wraps")

	tail, err := content.Generate(p, size, size-10, 10)
	require.NoError(t, err)
	assert.Len(t, tail, 10)
}

func TestGenerate_RandomUnaligned(t *testing.T) {
	p := content.Random(seed)

	whole, err := content.Generate(p, 4096, 0, 4096)
	require.NoError(t, err)

	for _, off := range []uint64{1, 63, 64, 65, 127, 1000, 4095} {
		got, err := content.Generate(p, 4096, off, 4096-off)
		require.NoError(t, err)
		assert.Equal(t, whole[off:], got, "offset %d", off)
	}
}

func TestGenerate_Alphabet(t *testing.T) {
	p, err := content.RandomAlphabet(seed, "ab")
	require.NoError(t, err)

	buf, err := content.Generate(p, 10000, 0, 10000)
	require.NoError(t, err)

	counts := map[byte]int{}
	for _, b := range buf {
		counts[b]++
	}
	assert.Len(t, counts, 2)
	assert.Positive(t, counts['a'])
	assert.Positive(t, counts['b'])

	part, err := content.Generate(p, 10000, 5000, 10)
	require.NoError(t, err)
	assert.Equal(t, buf[5000:5010], part)
}
