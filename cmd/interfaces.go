package cmd

import (
	"context"
	"io"

	"github.com/mwantia/sizefs/data"
	"github.com/mwantia/sizefs/resolver"
)

// API is the part of the filesystem that commands may use.
type API interface {
	// Resolve maps path to its virtual file without opening it.
	Resolve(ctx context.Context, path string) (*resolver.VirtualFile, error)

	// Open opens a file for reading. The returned handle must be closed.
	Open(ctx context.Context, path string) (data.Streamer, error)

	// ReadFile reads up to size bytes at offset, clamped at the end of the file.
	ReadFile(ctx context.Context, path string, offset, size int64) ([]byte, error)

	// Stat returns file information for the given path.
	Stat(ctx context.Context, path string) (*data.FileInfo, error)

	// ReadDirectory returns the entries of the directory at path.
	ReadDirectory(ctx context.Context, path string) ([]*data.FileInfo, error)
}

// Command represents an executable command within the virtual filesystem.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "ls -l [path]")
	Usage() string

	// Execute runs the command with parsed arguments.
	// Output is written to writer. Returns the exit code (0 = success).
	Execute(ctx context.Context, api API, args *CommandArgs, writer io.Writer) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}
