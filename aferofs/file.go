package aferofs

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/spf13/afero"

	"github.com/mwantia/sizefs"
	"github.com/mwantia/sizefs/data"
)

// File is an open virtual file or directory. Files read through a
// data.Streamer; directories only support Readdir and Stat.
type File struct {
	ctx    context.Context
	fs     sizefs.FileSystem
	info   *data.FileInfo
	stream data.Streamer

	dirMu      sync.Mutex
	dirEntries []os.FileInfo
	dirPos     int
}

var _ afero.File = (*File)(nil)

func (f *File) Name() string {
	return f.info.Path()
}

// Info returns the information the file was opened with.
func (f *File) Info() *data.FileInfo {
	return f.info
}

func (f *File) Stat() (os.FileInfo, error) {
	return f.info, nil
}

func (f *File) Close() error {
	if f.stream == nil {
		return nil
	}
	return f.pathError("close", f.stream.Close())
}

func (f *File) Read(p []byte) (int, error) {
	if f.stream == nil {
		return 0, f.pathError("read", data.ErrIsDirectory)
	}

	n, err := f.stream.Read(p)
	if err == io.EOF {
		return n, err
	}
	return n, f.pathError("read", err)
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.stream == nil {
		return 0, f.pathError("read", data.ErrIsDirectory)
	}

	n, err := f.stream.ReadAt(p, off)
	if err == io.EOF {
		return n, err
	}
	return n, f.pathError("read", err)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.stream == nil {
		return 0, f.pathError("seek", data.ErrIsDirectory)
	}

	pos, err := f.stream.Seek(offset, whence)
	return pos, f.pathError("seek", err)
}

// WriteTo streams the remaining content to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	if f.stream == nil {
		return 0, f.pathError("read", data.ErrIsDirectory)
	}
	return f.stream.WriteTo(w)
}

// Readdir behaves like os.File.Readdir.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	f.dirMu.Lock()
	defer f.dirMu.Unlock()

	if !f.info.IsDir() {
		return nil, f.pathError("readdir", data.ErrNotDirectory)
	}

	if f.dirEntries == nil {
		entries, err := f.fs.ReadDirectory(f.ctx, f.info.Path())
		if err != nil {
			return nil, f.pathError("readdir", err)
		}

		f.dirEntries = make([]os.FileInfo, 0, len(entries))
		for _, entry := range entries {
			f.dirEntries = append(f.dirEntries, entry)
		}
	}

	remaining := f.dirEntries[f.dirPos:]
	if count <= 0 {
		f.dirPos = len(f.dirEntries)
		return remaining, nil
	}

	if len(remaining) == 0 {
		return nil, io.EOF
	}

	n := min(count, len(remaining))
	f.dirPos += n
	return remaining[:n], nil
}

func (f *File) Readdirnames(n int) ([]string, error) {
	infos, err := f.Readdir(n)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, err
}

func (f *File) Write(p []byte) (int, error) {
	return 0, f.pathError("write", data.ErrReadOnly)
}

func (f *File) WriteAt(p []byte, off int64) (int, error) {
	return 0, f.pathError("write", data.ErrReadOnly)
}

func (f *File) WriteString(s string) (int, error) {
	return 0, f.pathError("write", data.ErrReadOnly)
}

func (f *File) Truncate(size int64) error {
	return f.pathError("truncate", data.ErrReadOnly)
}

func (f *File) Sync() error {
	return nil
}

func (f *File) pathError(op string, err error) error {
	return data.PathError(op, f.info.Path(), err)
}
