package sizefs_test

import (
	"bytes"
	"context"
	"io"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwantia/sizefs"
	"github.com/mwantia/sizefs/cmd"
	"github.com/mwantia/sizefs/content"
	"github.com/mwantia/sizefs/data"
	"github.com/mwantia/sizefs/log"
	"github.com/mwantia/sizefs/metrics"
)

func newFileSystem(tst *testing.T, opts ...sizefs.FileSystemOption) sizefs.FileSystem {
	tst.Helper()

	opts = append([]sizefs.FileSystemOption{sizefs.WithLogger(log.Discard())}, opts...)
	fs, err := sizefs.New(opts...)
	if err != nil {
		tst.Fatalf("Failed to initialize sizefs: %v", err)
	}
	tst.Cleanup(func() {
		_ = fs.Shutdown(context.Background())
	})

	return fs
}

// TestStat verifies how paths are classified into files and directories.
func TestStat(t *testing.T) {
	fs := newFileSystem(t)

	cases := []struct {
		path   string
		dir    bool
		length uint64
		kind   content.Kind
	}{
		{path: "/", dir: true},
		{path: "/zeros", dir: true},
		{path: "/5", dir: true, kind: content.KindDigit},
		{path: "/random/deeper/nested", dir: true, kind: content.KindRandom},
		{path: "/zeros/1KB", length: 1024},
		{path: "/ones/1KB+1", length: 1025, kind: content.KindOne},
		{path: "/random/4MiB-1", length: 4<<20 - 1, kind: content.KindRandom},
		{path: "/plain/7B", length: 7},
		{path: "//ones/./x/../3KB", length: 3072, kind: content.KindOne},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(tst *testing.T) {
			info, err := fs.Stat(tst.Context(), tc.path)
			require.NoError(tst, err)

			assert.Equal(tst, tc.dir, info.IsDir())
			assert.Equal(tst, tc.kind, info.Pattern().Kind())
			if tc.dir {
				assert.Equal(tst, data.ModeDirectory, info.FileMode())
				return
			}
			assert.Equal(tst, tc.length, info.Length())
			assert.Equal(tst, data.ModeFile, info.FileMode())
		})
	}
}

func TestStat_NotExist(t *testing.T) {
	fs := newFileSystem(t)

	for _, p := range []string{"/zeros/1XB", "/zeros/12KB+", "/random/0-1", "/zeros/99999999999EB"} {
		_, err := fs.Stat(t.Context(), p)
		require.ErrorIs(t, err, data.ErrNotExist, p)

		found, err := fs.Lookup(t.Context(), p)
		require.NoError(t, err)
		assert.False(t, found, p)
	}

	_, err := fs.Stat(t.Context(), "/zeros/a\x00b")
	require.ErrorIs(t, err, data.ErrInvalidPath)
}

func TestLookup(t *testing.T) {
	fs := newFileSystem(t)

	found, err := fs.Lookup(t.Context(), "/alpha_num/1GB")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = fs.Lookup(t.Context(), "/")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestResolve(t *testing.T) {
	fs := newFileSystem(t)

	file, err := fs.Resolve(t.Context(), "/5")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), file.Length)
	assert.Equal(t, content.Zero(), file.Pattern)

	file, err = fs.Resolve(t.Context(), "/ones/zeros/2")
	require.NoError(t, err)
	assert.Equal(t, content.Zero(), file.Pattern)

	_, err = fs.Resolve(t.Context(), "/zeros")
	require.Error(t, err)
}

func TestReadDirectory(t *testing.T) {
	fs := newFileSystem(t, sizefs.WithListedSizes("1MB", "1B", "1KiB", "1KB"))

	root, err := fs.ReadDirectory(t.Context(), "/")
	require.NoError(t, err)
	require.Len(t, root, 14)
	for _, entry := range root {
		assert.True(t, entry.IsDir(), entry.Path())
	}
	assert.Equal(t, "/zeros", root[0].Path())
	assert.Equal(t, "/9", root[13].Path())

	entries, err := fs.ReadDirectory(t.Context(), "/ones/sub")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
		assert.Equal(t, content.One(), entry.Pattern())
	}
	assert.Equal(t, []string{"1B", "1KB", "1KiB", "1MB"}, names)
	assert.Equal(t, "/ones/sub/1MB", entries[3].Path())
	assert.Equal(t, uint64(1<<20), entries[3].Length())

	_, err = fs.ReadDirectory(t.Context(), "/ones/1KB")
	require.ErrorIs(t, err, data.ErrNotDirectory)
}

func TestReadDirectory_InvalidListedSize(t *testing.T) {
	_, err := sizefs.New(sizefs.WithLogger(log.Discard()), sizefs.WithListedSizes("1QB"))
	require.Error(t, err)

	// "5" would be listed as a file but resolves as the digit directory.
	_, err = sizefs.New(sizefs.WithLogger(log.Discard()), sizefs.WithListedSizes("5"))
	require.Error(t, err)
}

// TestOpenFile_Read verifies that streaming a handle yields the same bytes as ReadFile.
func TestOpenFile_Read(t *testing.T) {
	fs := newFileSystem(t)
	ctx := t.Context()

	streamer, err := fs.OpenFile(ctx, "/random/1MB+3", data.AccessModeRead)
	require.NoError(t, err)
	defer streamer.Close()

	got, err := io.ReadAll(streamer)
	require.NoError(t, err)
	require.Len(t, got, 1<<20+3)

	want, err := fs.ReadFile(ctx, "/random/1MB+3", 0, math.MaxInt64)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(want, got))

	pos, err := streamer.Seek(-10, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20-7), pos)
	assert.Equal(t, pos, streamer.Tell())

	tail := make([]byte, 32)
	n, err := streamer.Read(tail)
	require.NoError(t, err)
	assert.Equal(t, want[len(want)-10:], tail[:n])

	buf := make([]byte, 4)
	_, err = streamer.ReadAt(buf, 100)
	require.NoError(t, err)
	assert.Equal(t, want[100:104], buf)

	_, err = streamer.Seek(-1, io.SeekStart)
	require.ErrorIs(t, err, data.ErrInvalid)
}

func TestOpenFile_WriteTo(t *testing.T) {
	fs := newFileSystem(t)

	streamer, err := fs.Open(t.Context(), "/3/1000")
	require.NoError(t, err)
	defer streamer.Close()

	var sb strings.Builder
	n, err := streamer.WriteTo(&sb)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), n)
	assert.Equal(t, strings.Repeat("3", 1000), sb.String())
}

func TestOpenFile_Errors(t *testing.T) {
	fs := newFileSystem(t)
	ctx := t.Context()

	_, err := fs.OpenFile(ctx, "/zeros/1B", data.AccessModeRead|data.AccessModeWrite)
	require.ErrorIs(t, err, data.ErrReadOnly)

	_, err = fs.OpenFile(ctx, "/zeros/1B", data.AccessModeFromFlags(0x40))
	require.ErrorIs(t, err, data.ErrReadOnly)

	_, err = fs.Open(ctx, "/zeros")
	require.ErrorIs(t, err, data.ErrIsDirectory)

	_, err = fs.Open(ctx, "/zeros/1QB")
	require.ErrorIs(t, err, data.ErrNotExist)

	// 9 EiB does not fit into an int64 offset.
	_, err = fs.Open(ctx, "/zeros/9EB")
	require.ErrorIs(t, err, data.ErrTooLarge)

	assert.Empty(t, fs.Handles())
}

func TestReadFile(t *testing.T) {
	fs := newFileSystem(t)
	ctx := t.Context()

	buf, err := fs.ReadFile(ctx, "/ones/10", 8, 100)
	require.NoError(t, err)
	assert.Equal(t, []byte("11"), buf)

	buf, err = fs.ReadFile(ctx, "/ones/10", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, buf)

	buf, err = fs.ReadFile(ctx, "/zeros/9EB", math.MaxInt64-4, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte("0000000000000000"), buf)

	_, err = fs.ReadFile(ctx, "/ones/10", -1, 1)
	require.ErrorIs(t, err, data.ErrInvalid)

	_, err = fs.ReadFile(ctx, "/ones", 0, 1)
	require.ErrorIs(t, err, data.ErrIsDirectory)
}

func TestReadFile_Deterministic(t *testing.T) {
	a := newFileSystem(t, sizefs.WithSeed([]byte("alpha")))
	b := newFileSystem(t, sizefs.WithSeed([]byte("alpha")))
	c := newFileSystem(t, sizefs.WithSeed([]byte("beta")))

	first, err := a.ReadFile(t.Context(), "/random/64KB", 1000, 4096)
	require.NoError(t, err)
	second, err := b.ReadFile(t.Context(), "/x/random/y/64KB", 1000, 4096)
	require.NoError(t, err)
	other, err := c.ReadFile(t.Context(), "/random/64KB", 1000, 4096)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestPatternDirectory(t *testing.T) {
	fs := newFileSystem(t, sizefs.WithPatternDirectory("hex", "[0-9,a-f]"))

	buf, err := fs.ReadFile(t.Context(), "/hex/4KB", 0, 4096)
	require.NoError(t, err)
	for _, c := range buf {
		assert.Contains(t, "0123456789abcdef", string(c))
	}

	info, err := fs.Stat(t.Context(), "/hex")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = sizefs.New(sizefs.WithLogger(log.Discard()), sizefs.WithPatternDirectory("bad", "[z-a]"))
	require.Error(t, err)
}

func TestCloseFile(t *testing.T) {
	fs := newFileSystem(t)
	ctx := t.Context()

	first, err := fs.Open(ctx, "/zeros/1B")
	require.NoError(t, err)
	second, err := fs.Open(ctx, "/ones/2B")
	require.NoError(t, err)

	handles := fs.Handles()
	require.Len(t, handles, 2)
	assert.Equal(t, first.ID(), handles[0].ID)
	assert.Equal(t, "/ones/2B", handles[1].Path)

	require.NoError(t, fs.CloseFile(ctx, first.ID(), false))
	require.ErrorIs(t, fs.CloseFile(ctx, first.ID(), false), data.ErrNotExist)
	require.ErrorIs(t, first.Close(), data.ErrClosed)

	_, err = first.Read(make([]byte, 1))
	require.ErrorIs(t, err, data.ErrClosed)

	require.NoError(t, second.Close())
	assert.Empty(t, fs.Handles())
}

func TestMaxHandles(t *testing.T) {
	fs := newFileSystem(t, sizefs.WithMaxHandles(1))

	streamer, err := fs.Open(t.Context(), "/zeros/1B")
	require.NoError(t, err)

	_, err = fs.Open(t.Context(), "/zeros/1B")
	require.ErrorIs(t, err, data.ErrLimit)

	require.NoError(t, streamer.Close())

	streamer, err = fs.Open(t.Context(), "/zeros/1B")
	require.NoError(t, err)
	require.NoError(t, streamer.Close())
}

func TestShutdown(t *testing.T) {
	fs, err := sizefs.New(sizefs.WithLogger(log.Discard()))
	require.NoError(t, err)

	streamer, err := fs.Open(t.Context(), "/zeros/1KB")
	require.NoError(t, err)

	require.NoError(t, fs.Shutdown(t.Context()))
	require.NoError(t, fs.Shutdown(t.Context()))
	assert.Empty(t, fs.Handles())

	_, err = streamer.Read(make([]byte, 1))
	require.ErrorIs(t, err, data.ErrClosed)

	_, err = fs.Open(t.Context(), "/zeros/1KB")
	require.ErrorIs(t, err, data.ErrShutdown)
}

func TestContextCancelled(t *testing.T) {
	fs := newFileSystem(t)

	ctx, cancel := context.WithCancel(t.Context())
	streamer, err := fs.Open(ctx, "/random/1MB")
	require.NoError(t, err)
	defer streamer.Close()

	cancel()

	_, err = streamer.Read(make([]byte, 16))
	require.ErrorIs(t, err, context.Canceled)

	_, err = fs.Stat(ctx, "/random/1MB")
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadOnly(t *testing.T) {
	fs := newFileSystem(t)
	ctx := t.Context()

	_, err := fs.WriteFile(ctx, "/zeros/1B", 0, []byte("x"))
	require.ErrorIs(t, err, data.ErrReadOnly)
	require.ErrorIs(t, fs.CreateDirectory(ctx, "/new"), data.ErrReadOnly)
	require.ErrorIs(t, fs.RemoveDirectory(ctx, "/zeros", true), data.ErrReadOnly)
	require.ErrorIs(t, fs.UnlinkFile(ctx, "/zeros/1B"), data.ErrReadOnly)
	require.ErrorIs(t, fs.Rename(ctx, "/zeros/1B", "/zeros/2B"), data.ErrReadOnly)
}

// TestConcurrentReads verifies that handles can be used from many goroutines at once.
func TestConcurrentReads(t *testing.T) {
	fs := newFileSystem(t)
	ctx := t.Context()

	want, err := fs.ReadFile(ctx, "/random/256KB", 0, 256<<10)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			streamer, err := fs.Open(ctx, "/random/256KB")
			if err != nil {
				errs[i] = err
				return
			}
			defer streamer.Close()

			results[i], errs[i] = io.ReadAll(streamer)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

type echoCommand struct{}

func (e *echoCommand) Name() string { return "echo" }

func (e *echoCommand) Description() string { return "Echo arguments" }

func (e *echoCommand) Usage() string { return "echo [args...]" }

func (e *echoCommand) GetFlags() *cmd.CommandFlagSet { return nil }

func (e *echoCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	_, err := io.WriteString(writer, strings.Join(args.Args, " "))
	return 0, err
}

func TestCommands(t *testing.T) {
	fs := newFileSystem(t)
	ctx := t.Context()

	names := make([]string, 0)
	for _, c := range fs.Commands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"cat", "ls", "size", "stat"}, names)

	require.NoError(t, fs.RegisterCommand(&echoCommand{}))
	require.ErrorIs(t, fs.RegisterCommand(&echoCommand{}), data.ErrCommandExists)
	require.Error(t, fs.RegisterCommand(nil))

	var out bytes.Buffer
	code, err := fs.Execute(ctx, &out, "echo", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "a b", out.String())

	removed, err := fs.UnregisterCommand("echo")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = fs.UnregisterCommand("echo")
	require.NoError(t, err)
	assert.False(t, removed)

	code, err = fs.Execute(ctx, &out, "echo")
	require.ErrorIs(t, err, data.ErrUnknownCommand)
	assert.Equal(t, 127, code)

	_, err = fs.Execute(ctx, &out)
	require.Error(t, err)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	fs := newFileSystem(t, sizefs.WithMetrics(metrics.New(reg)))
	ctx := t.Context()

	streamer, err := fs.Open(ctx, "/ones/1KB")
	require.NoError(t, err)
	_, err = io.ReadAll(streamer)
	require.NoError(t, err)

	assert.Equal(t, 1.0, gauge(t, reg, "sizefs_files_open_handles"))
	require.NoError(t, streamer.Close())
	assert.Equal(t, 0.0, gauge(t, reg, "sizefs_files_open_handles"))

	_, err = fs.Stat(ctx, "/zeros/1QB")
	require.Error(t, err)

	assert.Equal(t, 1.0, counter(t, reg, "sizefs_files_opens_total"))
	assert.Equal(t, 1024.0, counter(t, reg, "sizefs_content_generated_bytes_total"))
	assert.Equal(t, 1.0, counter(t, reg, "sizefs_resolver_failures_total"))
}

func counter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	var sum float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}

func gauge(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() == name {
			return family.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return 0
}
