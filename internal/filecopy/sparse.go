package filecopy

import (
	"errors"
	"io"
	"os"

	"github.com/oxtool/ox/internal/platform"
)

// copyCreatingHoles copies src block by block, skipping every all-zero
// block. The destination is pre-extended to the source size so skipped
// regions read back as zero without occupying storage. This is the one
// copier allowed to manufacture sparseness the source never had.
func copyCreatingHoles(src *os.File, dest string, size int64, perm os.FileMode) error {
	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer dst.Close()

	if err := dst.Truncate(size); err != nil {
		return err
	}

	st, err := platform.FstatFd(dst)
	if err != nil {
		return err
	}
	blk := st.BlkSize
	if blk <= 0 {
		blk = 4096
	}

	buf := make([]byte, blk)
	var off int64
	for {
		n, rerr := src.ReadAt(buf, off)
		if n > 0 && anyNonZero(buf[:n]) {
			if _, werr := dst.WriteAt(buf[:n], off); werr != nil {
				return werr
			}
		}
		off += int64(n)
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}

// copyPreservingExtents copies only the byte ranges the filesystem reports
// as allocated, walking SEEK_DATA/SEEK_HOLE pairs from offset zero. Holes
// that already existed in the source stay holes in the destination; zero
// bytes inside allocated extents are copied as-is, not turned into holes.
func copyPreservingExtents(src *os.File, dest string, size int64, perm os.FileMode) error {
	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer dst.Close()

	if err := dst.Truncate(size); err != nil {
		return err
	}

	var cur int64
	for {
		dataStart, err := platform.NextData(src, cur)
		switch {
		case errors.Is(err, platform.ErrNoExtent):
			return nil
		case errors.Is(err, platform.ErrExtentUnsupported):
			// Support vanished mid-walk (another filesystem would not
			// have probed sparse). Copy the remainder as solid data.
			_, err := platform.CopyRange(src, dst, cur, size-cur)
			return err
		case err != nil:
			return err
		}

		holeStart, err := platform.NextHole(src, dataStart)
		switch {
		case errors.Is(err, platform.ErrNoExtent),
			errors.Is(err, platform.ErrExtentUnsupported):
			holeStart = size
		case err != nil:
			return err
		}
		if holeStart <= dataStart {
			return nil
		}

		if _, err := platform.CopyRange(src, dst, dataStart, holeStart-dataStart); err != nil {
			return err
		}
		cur = holeStart
	}
}

// plainCopy streams every byte of src into dest. For zero-size virtual
// files this is the only strategy that works at all, since their declared
// size and extent map cannot be trusted.
func plainCopy(src *os.File, dest string, size int64, perm os.FileMode, destFifo bool) error {
	// The probe's extent query moved the source offset; rewind.
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return err
	}

	var dst *os.File
	var err error
	if destFifo {
		// An existing pipe cannot be created or truncated, only written.
		dst, err = os.OpenFile(dest, os.O_WRONLY, 0)
	} else {
		dst, err = os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	}
	if err != nil {
		return err
	}
	defer dst.Close()

	if !destFifo {
		platform.Preallocate(dst, size)
	}

	_, err = platform.StreamCopy(dst, src)
	return err
}
