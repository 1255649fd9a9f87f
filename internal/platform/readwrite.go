package platform

import (
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// CopyRange copies length bytes from src to dst starting at offset in both
// files, using pread/pwrite with a pooled buffer. Neither file's seek
// position is disturbed.
func CopyRange(src, dst *os.File, offset, length int64) (int64, error) {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	buf := *bufp

	srcFd := int(src.Fd())
	dstFd := int(dst.Fd())

	var total int64
	for length > 0 {
		toRead := length
		if toRead > bufferSize {
			toRead = bufferSize
		}

		n, err := unix.Pread(srcFd, buf[:toRead], offset)
		if err != nil {
			return total, &os.PathError{Op: "pread", Path: src.Name(), Err: err}
		}
		if n == 0 {
			break
		}

		written := 0
		for written < n {
			w, err := unix.Pwrite(dstFd, buf[written:n], offset+int64(written))
			if err != nil {
				return total + int64(written), &os.PathError{Op: "pwrite", Path: dst.Name(), Err: err}
			}
			written += w
		}

		offset += int64(n)
		length -= int64(n)
		total += int64(n)
	}

	return total, nil
}

// StreamCopy copies src to dst until EOF with a pooled buffer. Used where
// positioned I/O is impossible (pipes) or pointless (plain byte copies of
// files whose size may be a lie).
func StreamCopy(dst io.Writer, src io.Reader) (int64, error) {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	return io.CopyBuffer(dst, src, *bufp)
}

// Preallocate asks the filesystem to reserve size bytes for f. Best effort:
// not every filesystem implements fallocate.
func Preallocate(f *os.File, size int64) {
	if size <= 0 {
		return
	}
	preallocate(f, size)
}
