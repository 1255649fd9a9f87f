//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// ErrNoExtent is returned by NextData/NextHole when no further extent of the
// requested kind exists at or after the given offset.
var ErrNoExtent = errors.New("no further extent")

// ErrExtentUnsupported is returned when the filesystem does not implement
// SEEK_DATA/SEEK_HOLE. Callers degrade to treating the file as one data
// extent.
var ErrExtentUnsupported = errors.New("extent queries unsupported")

// NextData returns the lowest offset >= offset that contains data.
func NextData(f *os.File, offset int64) (int64, error) {
	return seekExtent(f, offset, unix.SEEK_DATA)
}

// NextHole returns the lowest offset >= offset that falls in a hole. Every
// file has a virtual hole at EOF, so a successful query against a fully
// allocated file returns the file size.
func NextHole(f *os.File, offset int64) (int64, error) {
	return seekExtent(f, offset, unix.SEEK_HOLE)
}

func seekExtent(f *os.File, offset int64, whence int) (int64, error) {
	off, err := unix.Seek(int(f.Fd()), offset, whence)
	switch err {
	case nil:
		return off, nil
	case unix.ENXIO:
		// Offset is at or past EOF: no extent of this kind remains.
		return 0, ErrNoExtent
	case unix.EINVAL, unix.ENOTSUP:
		return 0, ErrExtentUnsupported
	default:
		return 0, &os.PathError{Op: "seek", Path: f.Name(), Err: err}
	}
}
