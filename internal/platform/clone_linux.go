//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// CloneFile issues a whole-file copy-on-write clone (FICLONE) of src into
// dst. On success the two files share storage until either is modified. On
// failure dst is left as created: zero-length, with no partial content.
func CloneFile(src, dst *os.File) error {
	if err := unix.IoctlFileClone(int(dst.Fd()), int(src.Fd())); err != nil {
		return &os.PathError{Op: "ficlone", Path: dst.Name(), Err: err}
	}
	return nil
}
