package data

import "io/fs"

// FileMode holds the type and permission bits of a virtual entry.
type FileMode uint32

const (
	ModeDir  FileMode = 1 << 31 // d: directory
	ModePerm FileMode = 0777    // Unix permission bits

	// Every virtual file is read-only.
	ModeFile      FileMode = 0444
	ModeDirectory FileMode = ModeDir | 0555
)

func (m FileMode) IsDir() bool {
	return m&ModeDir != 0
}

func (m FileMode) IsRegular() bool {
	return m&ModeDir == 0
}

func (m FileMode) Perm() FileMode {
	return m & ModePerm
}

// FS converts m into the io/fs representation.
func (m FileMode) FS() fs.FileMode {
	mode := fs.FileMode(m.Perm())
	if m.IsDir() {
		mode |= fs.ModeDir
	}
	return mode
}

// String returns the mode in ls -l format, e.g. "dr-xr-xr-x".
func (m FileMode) String() string {
	var buf [10]byte

	buf[0] = '-'
	if m.IsDir() {
		buf[0] = 'd'
	}

	const rwx = "rwxrwxrwx"
	for i, c := range rwx {
		if m&(1<<uint(9-1-i)) != 0 {
			buf[i+1] = byte(c)
		} else {
			buf[i+1] = '-'
		}
	}

	return string(buf[:])
}
