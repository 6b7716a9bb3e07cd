package tui

import (
	"fmt"
	"time"

	"github.com/mwantia/sizefs/content"
	"github.com/mwantia/sizefs/data"
)

// Entry represents a file or directory entry in the TUI
type Entry struct {
	Name        string
	Path        string
	Length      uint64
	Spec        string
	Mode        data.FileMode
	ModTime     time.Time
	IsDir       bool
	Pattern     content.Pattern
	ContentType string
}

func newEntry(info *data.FileInfo) *Entry {
	entry := &Entry{
		Name:    info.Name(),
		Path:    info.Path(),
		Length:  info.Length(),
		Mode:    info.FileMode(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
		Pattern: info.Pattern(),
	}
	if !entry.IsDir {
		entry.Spec = info.Attributes()[data.AttributeSpec]
		entry.ContentType = info.ContentType()
	}
	return entry
}

// DisplayName returns the name with appropriate indicator
func (e *Entry) DisplayName() string {
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name
}

// DisplaySize returns human-readable size
func (e *Entry) DisplaySize() string {
	if e.IsDir {
		return "<DIR>"
	}

	const unit = 1024
	if e.Length < unit {
		return fmt.Sprintf("%d B", e.Length)
	}

	div, exp := uint64(unit), 0
	for n := e.Length / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(e.Length)/float64(div), "KMGTPE"[exp])
}

func (e *Entry) DisplayMode() string {
	return e.Mode.String()
}

func (e *Entry) DisplayModTime() string {
	return e.ModTime.Format("2006-01-02 15:04:05")
}

// Icon returns a marker for the kind of content below or inside the entry.
func (e *Entry) Icon() string {
	if e.IsDir {
		return "▸"
	}
	if e.Pattern.Constant() {
		return "≡"
	}
	return "≈"
}
