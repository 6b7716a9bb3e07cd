package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mwantia/sizefs/data"
)

// FsExporter writes virtual files into an afero filesystem.
type FsExporter struct {
	fs   afero.Fs
	name string
}

// NewDirExporter writes below dir on the host filesystem.
func NewDirExporter(dir string) *FsExporter {
	return &FsExporter{
		fs:   afero.NewBasePathFs(afero.NewOsFs(), dir),
		name: "dir",
	}
}

func NewFsExporter(fs afero.Fs) *FsExporter {
	return &FsExporter{
		fs:   fs,
		name: fs.Name(),
	}
}

func (e *FsExporter) Name() string {
	return e.name
}

func (e *FsExporter) Open(ctx context.Context) error {
	return e.fs.MkdirAll("/", 0o755)
}

func (e *FsExporter) Export(ctx context.Context, key string, info *data.FileInfo, r io.Reader) error {
	name := filepath.FromSlash("/" + key)
	if err := e.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}

	f, err := e.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if uint64(n) != info.Length() {
		return fmt.Errorf("short export of '%s': wrote %d of %d bytes", key, n, info.Length())
	}
	return nil
}
