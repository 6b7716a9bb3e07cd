package size_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwantia/sizefs/size"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		token  string
		spec   size.Spec
		length uint64
	}{
		{"0", size.Spec{Base: 0}, 0},
		{"1B", size.Spec{Base: 1}, 1},
		{"1b", size.Spec{Base: 1}, 1},
		{"42", size.Spec{Base: 42}, 42},
		{"007", size.Spec{Base: 7}, 7},
		{"1KB", size.Spec{Base: 1000}, 1000},
		{"1kb", size.Spec{Base: 1000}, 1000},
		{"1KiB", size.Spec{Base: 1024}, 1024},
		{"1kib", size.Spec{Base: 1024}, 1024},
		{"2MiB", size.Spec{Base: 2 << 20}, 2 << 20},
		{"128MB-1", size.Spec{Base: 128_000_000, Adjustment: -1}, 127_999_999},
		{"128MB+1", size.Spec{Base: 128_000_000, Adjustment: 1}, 128_000_001},
		{"110MB-10KB", size.Spec{Base: 110_000_000, Adjustment: -10_000}, 109_990_000},
		{"1GiB+1KiB", size.Spec{Base: 1 << 30, Adjustment: 1024}, 1<<30 + 1024},
		{"5B-5", size.Spec{Base: 5, Adjustment: -5}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			spec, err := size.Parse(tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.spec, spec)
			assert.Equal(t, tc.length, spec.Length())
		})
	}
}

func TestParse_Limits(t *testing.T) {
	spec, err := size.Parse("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), spec.Length())

	_, err = size.Parse("15EiB+1EiB-1")
	require.ErrorIs(t, err, size.ErrMalformedSpec, "a second sign segment must be rejected")

	spec, err = size.Parse("18446744073709551614+1")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), spec.Length())

	spec, err = size.Parse("9223372036854775807-9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), spec.Length())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		token string
		want  error
	}{
		{"", size.ErrMalformedSpec},
		{"KB5", size.ErrMalformedSpec},
		{"5XB", size.ErrUnknownUnit},
		{"5KB+", size.ErrMalformedSpec},
		{"5KB-", size.ErrMalformedSpec},
		{"+5", size.ErrMalformedSpec},
		{"5+3+2", size.ErrMalformedSpec},
		{"5+-3", size.ErrMalformedSpec},
		{"5 KB", size.ErrMalformedSpec},
		{"1.5GB", size.ErrMalformedSpec},
		{"5KB+3XB", size.ErrUnknownUnit},
		{"5Kb", nil},
		{"5K", size.ErrUnknownUnit},
		{"5KB3", size.ErrMalformedSpec},
		{"18446744073709551616", size.ErrOverflow},
		{"19EB", size.ErrOverflow},
		{"16EiB", size.ErrOverflow},
		{"1B-2B", size.ErrOverflow},
		{"18446744073709551615+1", size.ErrOverflow},
		{"1+9223372036854775808", size.ErrOverflow},
	}

	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			_, err := size.Parse(tc.token)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var perr *size.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.token, perr.Token)

			// Every failure maps to exactly one kind.
			kinds := 0
			for _, kind := range []error{size.ErrMalformedSpec, size.ErrUnknownUnit, size.ErrOverflow} {
				if errors.Is(err, kind) {
					kinds++
				}
			}
			assert.Equal(t, 1, kinds)
		})
	}
}

func TestParse_JEDECUnits(t *testing.T) {
	tests := map[string]uint64{
		"1K":      1024,
		"1KB":     1024,
		"1KiB":    1024,
		"128KB":   131072,
		"128KB-1": 131071,
		"128KB+1": 131073,
		"1MB+1KB": 1<<20 + 1024,
		"2g":      2 << 30,
	}

	for token, want := range tests {
		t.Run(token, func(t *testing.T) {
			spec, err := size.JEDECUnits.Parse(token)
			require.NoError(t, err)
			assert.Equal(t, want, spec.Length())
		})
	}
}

func TestNewUnits(t *testing.T) {
	_, err := size.NewUnits(size.Byte, size.Unit{Name: "b", Multiplier: 8})
	assert.Error(t, err, "case-insensitive duplicates must be rejected")

	_, err = size.NewUnits(size.Unit{Name: "", Multiplier: 1})
	assert.Error(t, err)

	_, err = size.NewUnits(size.Unit{Name: "X", Multiplier: 0})
	assert.Error(t, err)

	_, err = size.NewUnits(size.Unit{Name: "K1", Multiplier: 1})
	assert.Error(t, err)

	units, err := size.NewUnits(size.Byte, size.Unit{Name: "blk", Multiplier: 512})
	require.NoError(t, err)

	spec, err := units.Parse("8BLK+1")
	require.NoError(t, err)
	assert.Equal(t, uint64(4097), spec.Length())

	list := units.List()
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Name)
	assert.Equal(t, "blk", list[1].Name)
}

func TestSpec_String(t *testing.T) {
	assert.Equal(t, "1000B", size.MustParse("1KB").String())
	assert.Equal(t, "1000B+5B", size.MustParse("1KB+5").String())
	assert.Equal(t, "1000B-5B", size.MustParse("1KB-5").String())
}
