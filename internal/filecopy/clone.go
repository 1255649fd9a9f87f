package filecopy

import (
	"os"

	"github.com/oxtool/ox/internal/platform"
)

// cloneAttempt tries a whole-file copy-on-write clone of source into dest.
// It performs no fallback of its own: on failure the destination exists but
// is zero-length, never partially written, and the strategy layer owns what
// happens next.
func cloneAttempt(source, dest string) error {
	src, err := os.Open(source)
	if err != nil {
		return err
	}
	defer src.Close()

	st, err := platform.FstatFd(src)
	if err != nil {
		return err
	}

	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Perm())
	if err != nil {
		return err
	}
	defer dst.Close()

	return cloneFile(src, dst)
}
