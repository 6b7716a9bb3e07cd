package data

import (
	"encoding/json"
	"io/fs"
	"math"
	"path"
	"time"

	"github.com/mwantia/sizefs/content"
)

// Extended attributes exposed for every virtual file.
const (
	AttributePattern = "user.sizefs.pattern"
	AttributeSpec    = "user.sizefs.spec"
)

// FileInfo describes a virtual file or directory. It implements fs.FileInfo.
type FileInfo struct {
	path    string
	mode    FileMode
	length  uint64
	spec    string
	modTime time.Time
	pattern content.Pattern
}

var _ fs.FileInfo = (*FileInfo)(nil)

// NewFileInfo describes a read-only file of the given length. spec is the
// normalized size token, e.g. "1024B+1B".
func NewFileInfo(p string, length uint64, spec string, pattern content.Pattern, modTime time.Time) *FileInfo {
	return &FileInfo{
		path:    p,
		mode:    ModeFile,
		length:  length,
		spec:    spec,
		modTime: modTime,
		pattern: pattern,
	}
}

// NewDirectoryInfo describes a directory whose files use pattern.
func NewDirectoryInfo(p string, pattern content.Pattern, modTime time.Time) *FileInfo {
	return &FileInfo{
		path:    p,
		mode:    ModeDirectory,
		modTime: modTime,
		pattern: pattern,
	}
}

func (fi *FileInfo) Name() string {
	return path.Base(fi.path)
}

// Size returns the length clamped to math.MaxInt64; use Length for the exact value.
func (fi *FileInfo) Size() int64 {
	if fi.length > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(fi.length)
}

func (fi *FileInfo) Mode() fs.FileMode {
	return fi.mode.FS()
}

func (fi *FileInfo) ModTime() time.Time {
	return fi.modTime
}

func (fi *FileInfo) IsDir() bool {
	return fi.mode.IsDir()
}

// Sys returns the content.Pattern of the entry.
func (fi *FileInfo) Sys() any {
	return fi.pattern
}

func (fi *FileInfo) Path() string {
	return fi.path
}

func (fi *FileInfo) Length() uint64 {
	return fi.length
}

func (fi *FileInfo) FileMode() FileMode {
	return fi.mode
}

func (fi *FileInfo) Pattern() content.Pattern {
	return fi.pattern
}

func (fi *FileInfo) ContentType() string {
	return ContentTypeOf(fi.pattern)
}

// Attributes returns the extended attributes of the entry. Directories only
// carry the pattern of the files below them.
func (fi *FileInfo) Attributes() map[string]string {
	attrs := map[string]string{
		AttributePattern: fi.pattern.String(),
	}
	if !fi.IsDir() {
		attrs[AttributeSpec] = fi.spec
	}
	return attrs
}

type fileInfoJSON struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Directory   bool      `json:"directory"`
	Mode        string    `json:"mode"`
	Size        uint64    `json:"size"`
	Spec        string    `json:"spec,omitempty"`
	Pattern     string    `json:"pattern"`
	ContentType string    `json:"content_type,omitempty"`
	ModifyTime  time.Time `json:"modify_time"`
}

func (fi *FileInfo) MarshalJSON() ([]byte, error) {
	out := fileInfoJSON{
		Path:       fi.path,
		Name:       fi.Name(),
		Directory:  fi.IsDir(),
		Mode:       fi.mode.String(),
		Size:       fi.length,
		Spec:       fi.spec,
		Pattern:    fi.pattern.String(),
		ModifyTime: fi.modTime,
	}
	if !fi.IsDir() {
		out.ContentType = fi.ContentType()
	}

	return json.Marshal(out)
}
