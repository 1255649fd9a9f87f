package filecopy

import (
	"errors"
	"io"
	"os"

	"github.com/oxtool/ox/internal/platform"
)

// probeResult is a read-only snapshot of the source taken once per copy.
// The source may change between probe and copy; that race is accepted, the
// probe is a strategy hint, not a guarantee.
type probeResult struct {
	hasData         bool
	size            int64
	blocks          int64 // 512-byte allocation units, per stat(2) convention
	sparse          bool  // heuristic: blocks < size/512
	usedExtentQuery bool
	perm            os.FileMode
}

// virtual reports the pseudo-file signature: no allocated storage, yet
// readable bytes. /proc and friends stat this way. Heuristic, not ground
// truth.
func (p probeResult) virtual() bool {
	return p.blocks == 0 && p.hasData
}

// probeSource inspects an open source file without copying it.
//
// Zero-size files get a direct read probe, because pseudo-filesystems
// declare size zero for files with real content. Non-empty files get an
// extent query instead: the existence of any data extent at or after
// offset 0 answers "has data" without reading a byte.
func probeSource(src *os.File) (probeResult, error) {
	st, err := platform.FstatFd(src)
	if err != nil {
		return probeResult{}, err
	}

	pr := probeResult{
		size:   st.Size,
		blocks: st.Blocks,
		perm:   st.Perm(),
	}

	if st.Size == 0 {
		blk := st.BlkSize
		if blk <= 0 {
			blk = 4096
		}
		buf := make([]byte, blk)
		n, err := src.ReadAt(buf, 0)
		if err != nil && err != io.EOF {
			return probeResult{}, err
		}
		pr.hasData = anyNonZero(buf[:n])
		return pr, nil
	}

	pr.usedExtentQuery = true
	switch _, err := platform.NextData(src, 0); {
	case err == nil:
		pr.hasData = true
	case errors.Is(err, platform.ErrNoExtent):
		// A non-empty file with no data extent anywhere: all hole.
		pr.hasData = false
	case errors.Is(err, platform.ErrExtentUnsupported):
		// No extent map here. Treat the file as solid data and
		// non-sparse, which degrades to plain or hole-creating copies.
		pr.usedExtentQuery = false
		pr.hasData = true
		return pr, nil
	default:
		return probeResult{}, err
	}

	pr.sparse = st.Blocks < st.Size/512
	return pr, nil
}

func anyNonZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return true
		}
	}
	return false
}
