package tui

import (
	"bytes"
	"context"
	"encoding/hex"
	"strings"

	"github.com/mwantia/sizefs"
	"github.com/mwantia/sizefs/data"
)

// FSAdapter gives the TUI synchronous access to a filesystem.
type FSAdapter struct {
	ctx context.Context
	fs  sizefs.FileSystem
}

func NewFSAdapter(ctx context.Context, fs sizefs.FileSystem) *FSAdapter {
	return &FSAdapter{
		ctx: ctx,
		fs:  fs,
	}
}

// ListDirectory returns the entries of path in listing order.
func (a *FSAdapter) ListDirectory(path string) ([]*Entry, error) {
	infos, err := a.fs.ReadDirectory(a.ctx, path)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, newEntry(info))
	}
	return entries, nil
}

func (a *FSAdapter) Stat(path string) (*Entry, error) {
	info, err := a.fs.Stat(a.ctx, path)
	if err != nil {
		return nil, err
	}
	return newEntry(info), nil
}

// GeneratePreview renders the start of a file. Text content is wrapped to
// width, binary content is shown as a hex dump.
func (a *FSAdapter) GeneratePreview(path string, width, height int) (string, error) {
	width = max(width, 16)
	height = max(height, 1)

	info, err := a.fs.Stat(a.ctx, path)
	if err != nil {
		return "", err
	}

	if info.ContentType() == data.ContentTypeApplicationStream {
		buf, err := a.fs.ReadFile(a.ctx, path, 0, int64(16*height))
		if err != nil {
			return "", err
		}
		return hex.Dump(buf), nil
	}

	buf, err := a.fs.ReadFile(a.ctx, path, 0, int64(width*height))
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, height)
	for len(buf) > 0 {
		n := min(width, len(buf))
		lines = append(lines, string(buf[:n]))
		buf = buf[n:]
	}
	return strings.Join(lines, "\n"), nil
}

// Execute runs a filesystem command and returns its output.
func (a *FSAdapter) Execute(args ...string) (string, int, error) {
	var out bytes.Buffer
	code, err := a.fs.Execute(a.ctx, &out, args...)
	return out.String(), code, err
}
