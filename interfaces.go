package sizefs

import (
	"context"
	"io"
	"time"

	"github.com/mwantia/sizefs/cmd"
	"github.com/mwantia/sizefs/data"
	"github.com/mwantia/sizefs/resolver"
)

// FileSystem is a read-only virtual filesystem whose files are described
// entirely by their path: the nearest pattern directory selects the content
// and the filename is the exact size, e.g. "/random/128MiB+1".
type FileSystem interface {
	// Shutdown closes every open handle. The filesystem cannot be used afterwards.
	Shutdown(ctx context.Context) error

	// RegisterCommand adds a command that can be run through Execute.
	RegisterCommand(cmd cmd.Command) error

	// UnregisterCommand removes a command and reports whether it existed.
	UnregisterCommand(name string) (bool, error)

	// Commands returns all registered commands ordered by name.
	Commands() []cmd.Command

	// Execute runs a registered command, writing its output to writer.
	// Returns the exit code of the command.
	Execute(ctx context.Context, writer io.Writer, args ...string) (int, error)

	// Resolve maps path to its virtual file without opening it.
	Resolve(ctx context.Context, path string) (*resolver.VirtualFile, error)

	// OpenFile opens a file for reading. Any flag that could modify the file
	// fails with data.ErrReadOnly. The returned handle must be closed.
	OpenFile(ctx context.Context, path string, flags data.AccessMode) (data.Streamer, error)

	// Open is OpenFile with data.AccessModeRead.
	Open(ctx context.Context, path string) (data.Streamer, error)

	// CloseFile closes the open handle with the given ID. Without force,
	// a handle that is currently in use fails with data.ErrBusy.
	CloseFile(ctx context.Context, id string, force bool) error

	// Handles lists the currently open handles.
	Handles() []HandleInfo

	// ReadFile reads up to size bytes at offset. Reads are clamped at the
	// end of the file.
	ReadFile(ctx context.Context, path string, offset, size int64) ([]byte, error)

	// WriteFile always fails with data.ErrReadOnly.
	WriteFile(ctx context.Context, path string, offset int64, buffer []byte) (int, error)

	// Stat returns information about a file or directory.
	Stat(ctx context.Context, path string) (*data.FileInfo, error)

	// Lookup reports whether path names a file or directory.
	Lookup(ctx context.Context, path string) (bool, error)

	// ReadDirectory lists a directory. The root lists the pattern
	// directories; every other directory lists the configured common sizes.
	ReadDirectory(ctx context.Context, path string) ([]*data.FileInfo, error)

	// CreateDirectory, RemoveDirectory, UnlinkFile and Rename always fail
	// with data.ErrReadOnly.
	CreateDirectory(ctx context.Context, path string) error
	RemoveDirectory(ctx context.Context, path string, force bool) error
	UnlinkFile(ctx context.Context, path string) error
	Rename(ctx context.Context, oldPath string, newPath string) error
}

// HandleInfo describes an open handle.
type HandleInfo struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Offset   int64     `json:"offset"`
	OpenedAt time.Time `json:"opened_at"`
}
