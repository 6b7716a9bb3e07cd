package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *CommandFlagSet {
	return &CommandFlagSet{
		Flags: map[string]*CommandFlag{
			"long":   {Name: "long", Short: "l", Type: "bool"},
			"all":    {Name: "all", Short: "a", Type: "bool"},
			"offset": {Name: "offset", Short: "o", Type: "int", Default: int64(0)},
			"units":  {Name: "units", Short: "u", Type: "string"},
		},
	}
}

func TestParser_Positional(t *testing.T) {
	args, err := NewParser(testFlags()).Parse([]string{"/zeros/1KB", "/ones/2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/zeros/1KB", "/ones/2"}, args.Args)
	assert.Equal(t, int64(0), args.Int("offset"))
	assert.False(t, args.Bool("long"))
	assert.False(t, args.Has("units"))
}

func TestParser_LongFlags(t *testing.T) {
	args, err := NewParser(testFlags()).Parse([]string{"--long", "--offset=12", "--units", "jedec", "/"})
	require.NoError(t, err)

	assert.True(t, args.Bool("long"))
	assert.Equal(t, int64(12), args.Int("offset"))
	assert.Equal(t, "jedec", args.String("units"))
	assert.Equal(t, []string{"/"}, args.Args)
}

func TestParser_ShortFlags(t *testing.T) {
	args, err := NewParser(testFlags()).Parse([]string{"-la", "-o", "7", "-ujedec", "x"})
	require.NoError(t, err)

	assert.True(t, args.Bool("long"))
	assert.True(t, args.Bool("all"))
	assert.Equal(t, int64(7), args.Int("offset"))
	assert.Equal(t, "jedec", args.String("units"))
	assert.Equal(t, []string{"x"}, args.Args)
}

func TestParser_NegativeNumbersAreValues(t *testing.T) {
	args, err := NewParser(testFlags()).Parse([]string{"-o", "-5", "-"})
	require.NoError(t, err)

	assert.Equal(t, int64(-5), args.Int("offset"))
	assert.Equal(t, []string{"-"}, args.Args)
}

func TestParser_DoubleDash(t *testing.T) {
	args, err := NewParser(testFlags()).Parse([]string{"-l", "--", "--offset", "-a"})
	require.NoError(t, err)

	assert.True(t, args.Bool("long"))
	assert.Equal(t, []string{"--offset", "-a"}, args.Args)
}

func TestParser_Errors(t *testing.T) {
	cases := map[string][]string{
		"unknown long":  {"--nope"},
		"unknown short": {"-x"},
		"missing value": {"--offset"},
		"bad int":       {"--offset", "ten"},
		"short missing": {"-o"},
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewParser(testFlags()).Parse(raw)
			require.Error(t, err)
		})
	}
}

func TestParser_Required(t *testing.T) {
	flags := &CommandFlagSet{
		Flags: map[string]*CommandFlag{
			"path": {Name: "path", Short: "p", Type: "string", Required: true},
		},
	}

	_, err := NewParser(flags).Parse(nil)
	require.ErrorContains(t, err, "required flag: -p / --path")

	args, err := NewParser(flags).Parse([]string{"-p", "/x"})
	require.NoError(t, err)
	assert.Equal(t, "/x", args.String("path"))
}

func TestParser_NilFlagSet(t *testing.T) {
	args, err := NewParser(nil).Parse([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, args.Args)

	_, err = NewParser(nil).Parse([]string{"--x"})
	require.Error(t, err)
}
