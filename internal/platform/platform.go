// Package platform wraps the OS primitives the copy engine and the
// individual utilities depend on: positioned read/write loops, whole-file
// clone requests, extent-boundary queries, and file metadata in the shape
// the rest of the suite wants it.
package platform

import (
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// FileStat is the subset of stat(2) the suite cares about.
type FileStat struct {
	Size    int64
	Blocks  int64 // allocated storage in 512-byte units
	BlkSize int64 // preferred I/O block size
	Mode    fs.FileMode
	Uid     uint32
	Gid     uint32
	Nlink   uint64
	Dev     uint64
	Ino     uint64
	AtimeNs int64
	MtimeNs int64
}

// IsFifo reports whether the file is a named pipe.
func (s FileStat) IsFifo() bool {
	return s.Mode&fs.ModeNamedPipe != 0
}

// Perm returns the permission bits.
func (s FileStat) Perm() fs.FileMode {
	return s.Mode.Perm()
}

// Stat stats the file at path, following symlinks.
func Stat(path string) (FileStat, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return FileStat{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return fromStat(&st), nil
}

// Lstat stats the file at path without following a final symlink.
func Lstat(path string) (FileStat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return FileStat{}, &os.PathError{Op: "lstat", Path: path, Err: err}
	}
	return fromStat(&st), nil
}

// FstatFd stats an open descriptor.
func FstatFd(f *os.File) (FileStat, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return FileStat{}, &os.PathError{Op: "fstat", Path: f.Name(), Err: err}
	}
	return fromStat(&st), nil
}

// IsFallbackErr reports whether err indicates a syscall is unavailable on
// this kernel or filesystem, rather than a genuine I/O failure.
func IsFallbackErr(err error) bool {
	switch err {
	// ENOTSUP covers EOPNOTSUPP too; they share errno 95 on Linux.
	case unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP, unix.EBADF:
		return true
	}
	if e, ok := err.(*os.PathError); ok {
		return IsFallbackErr(e.Err)
	}
	if e, ok := err.(*os.SyscallError); ok {
		return IsFallbackErr(e.Err)
	}
	return false
}

func modeFromUnix(mode uint32) fs.FileMode {
	m := fs.FileMode(mode & 0o7777)
	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		m |= fs.ModeDir
	case unix.S_IFLNK:
		m |= fs.ModeSymlink
	case unix.S_IFIFO:
		m |= fs.ModeNamedPipe
	case unix.S_IFSOCK:
		m |= fs.ModeSocket
	case unix.S_IFBLK:
		m |= fs.ModeDevice
	case unix.S_IFCHR:
		m |= fs.ModeDevice | fs.ModeCharDevice
	}
	if mode&unix.S_ISUID != 0 {
		m |= fs.ModeSetuid
	}
	if mode&unix.S_ISGID != 0 {
		m |= fs.ModeSetgid
	}
	if mode&unix.S_ISVTX != 0 {
		m |= fs.ModeSticky
	}
	return m
}

// Umask returns the process umask without changing it. The set-and-restore
// pair is not atomic; callers are single-threaded with respect to umask use.
func Umask() int {
	mask := unix.Umask(0)
	unix.Umask(mask)
	return mask
}
