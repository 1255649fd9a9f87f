//go:build !linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// CloneFile is unavailable here; the engine's fallback chain handles it.
func CloneFile(src, dst *os.File) error {
	return &os.PathError{Op: "clone", Path: dst.Name(), Err: unix.ENOTSUP}
}
