package filecopy

import (
	"os"

	"github.com/oxtool/ox/internal/platform"
)

// copyFifo streams a named pipe into a freshly created destination,
// returning the byte count. The destination starts with restrictive
// permissions (0o622 masked by the process umask) and is widened to the
// source's bits only after the stream completes, so attribute-preserving
// callers never expose a partially written file with its final mode.
func copyFifo(source, dest string) (int64, error) {
	st, err := platform.Stat(source)
	if err != nil {
		return 0, err
	}

	// Opening a pipe read-only blocks until a writer shows up. That is
	// the expected behavior, not a hang to engineer around.
	src, err := os.Open(source)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	stagedPerm := os.FileMode(0o622 &^ platform.Umask())
	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stagedPerm)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	n, err := platform.StreamCopy(dst, src)
	if err != nil {
		return n, err
	}

	if err := dst.Chmod(st.Perm()); err != nil {
		return n, err
	}
	return n, nil
}
