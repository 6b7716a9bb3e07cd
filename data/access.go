package data

import "os"

// AccessMode represents the flags a file is opened with.
type AccessMode int

const (
	AccessModeRead   AccessMode = 1 << iota // O_RDONLY: open for reading
	AccessModeWrite                         // O_WRONLY: open for writing
	AccessModeAppend                        // O_APPEND: append to file
	AccessModeCreate                        // O_CREATE: create if not exists
	AccessModeTrunc                         // O_TRUNC:  truncate on open
	AccessModeExcl                          // O_EXCL:   exclusive creation (with CREATE)
	AccessModeSync                          // O_SYNC:   synchronous I/O
)

// AccessModeFromFlags converts os.OpenFile flags.
func AccessModeFromFlags(flag int) AccessMode {
	var mode AccessMode

	switch flag & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR) {
	case os.O_WRONLY:
		mode |= AccessModeWrite
	case os.O_RDWR:
		mode |= AccessModeRead | AccessModeWrite
	default:
		mode |= AccessModeRead
	}

	if flag&os.O_APPEND != 0 {
		mode |= AccessModeAppend
	}
	if flag&os.O_CREATE != 0 {
		mode |= AccessModeCreate
	}
	if flag&os.O_TRUNC != 0 {
		mode |= AccessModeTrunc
	}
	if flag&os.O_EXCL != 0 {
		mode |= AccessModeExcl
	}
	if flag&os.O_SYNC != 0 {
		mode |= AccessModeSync
	}

	return mode
}

// IsReadOnly checks if the mode only allows reading.
func (m AccessMode) IsReadOnly() bool {
	return m&AccessModeRead != 0 && !m.Mutates()
}

// Mutates reports whether opening with m could change the file or create one.
func (m AccessMode) Mutates() bool {
	return m&(AccessModeWrite|AccessModeAppend|AccessModeCreate|AccessModeTrunc|AccessModeExcl) != 0
}
