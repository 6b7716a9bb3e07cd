package data

import "io"

// Streamer is an open, read-only handle on a virtual file.
type Streamer interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.WriterTo
	io.Closer

	// ID identifies the handle within its filesystem.
	ID() string
	Path() string
	// Tell returns the current read offset.
	Tell() int64
	Stat() *FileInfo
}
