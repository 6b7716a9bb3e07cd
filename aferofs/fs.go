// Package aferofs exposes a SizeFS filesystem as a read-only afero.Fs, so code
// written against afero can read virtual files like any other.
package aferofs

import (
	"context"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/mwantia/sizefs"
	"github.com/mwantia/sizefs/data"
)

// Fs is a read-only afero.Fs backed by a sizefs.FileSystem.
type Fs struct {
	ctx context.Context
	fs  sizefs.FileSystem
}

var _ afero.Fs = (*Fs)(nil)

func New(fs sizefs.FileSystem) *Fs {
	return &Fs{
		ctx: context.Background(),
		fs:  fs,
	}
}

// WithContext returns a copy of the Fs whose operations and files use ctx.
func (a *Fs) WithContext(ctx context.Context) *Fs {
	return &Fs{
		ctx: ctx,
		fs:  a.fs,
	}
}

func (a *Fs) Name() string {
	return "SizeFS"
}

func (a *Fs) Open(name string) (afero.File, error) {
	return a.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile opens files through a handle and directories as listings.
func (a *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	return a.openFile(name, flag)
}

func (a *Fs) openFile(name string, flag int) (*File, error) {
	if data.AccessModeFromFlags(flag).Mutates() {
		return nil, data.PathError("open", name, data.ErrReadOnly)
	}

	info, err := a.fs.Stat(a.ctx, name)
	if err != nil {
		return nil, data.PathError("open", name, err)
	}

	if info.IsDir() {
		return &File{ctx: a.ctx, fs: a.fs, info: info}, nil
	}

	stream, err := a.fs.Open(a.ctx, name)
	if err != nil {
		return nil, data.PathError("open", name, err)
	}

	return &File{ctx: a.ctx, fs: a.fs, info: info, stream: stream}, nil
}

func (a *Fs) Stat(name string) (os.FileInfo, error) {
	info, err := a.fs.Stat(a.ctx, name)
	if err != nil {
		return nil, data.PathError("stat", name, err)
	}
	return info, nil
}

func (a *Fs) Create(name string) (afero.File, error) {
	return nil, data.PathError("create", name, data.ErrReadOnly)
}

func (a *Fs) Mkdir(name string, perm os.FileMode) error {
	return data.PathError("mkdir", name, data.ErrReadOnly)
}

func (a *Fs) MkdirAll(path string, perm os.FileMode) error {
	return data.PathError("mkdir", path, data.ErrReadOnly)
}

func (a *Fs) Remove(name string) error {
	return data.PathError("remove", name, data.ErrReadOnly)
}

func (a *Fs) RemoveAll(path string) error {
	return data.PathError("remove", path, data.ErrReadOnly)
}

func (a *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrPermission}
}

func (a *Fs) Chmod(name string, mode os.FileMode) error {
	return data.PathError("chmod", name, data.ErrReadOnly)
}

func (a *Fs) Chown(name string, uid, gid int) error {
	return data.PathError("chown", name, data.ErrReadOnly)
}

func (a *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return data.PathError("chtimes", name, data.ErrReadOnly)
}
