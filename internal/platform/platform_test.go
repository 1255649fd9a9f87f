package platform

import (
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestCopyRangeBasic(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src")
	dstPath := filepath.Join(dir, "dst")

	data := []byte("hello, positioned copy")
	require.NoError(t, os.WriteFile(srcPath, data, 0o644))

	src, err := os.Open(srcPath)
	require.NoError(t, err)
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	defer dst.Close()

	n, err := CopyRange(src, dst, 0, int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	got, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCopyRangeLarge(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src")
	dstPath := filepath.Join(dir, "dst")

	// 4 MiB — larger than the pooled buffer.
	data := make([]byte, 4<<20)
	_, err := rand.Read(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(srcPath, data, 0o644))

	src, err := os.Open(srcPath)
	require.NoError(t, err)
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	defer dst.Close()

	n, err := CopyRange(src, dst, 0, int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	got, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCopyRangeOffset(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src")
	dstPath := filepath.Join(dir, "dst")

	require.NoError(t, os.WriteFile(srcPath, []byte("AAAA_BBBB_CCCC"), 0o644))

	src, err := os.Open(srcPath)
	require.NoError(t, err)
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	defer dst.Close()

	// Copy only "BBBB": offset 5, length 4, written at offset 5 in dst too.
	n, err := CopyRange(src, dst, 5, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	got, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("BBBB"), got[5:9])
}

func TestNextDataNextHole(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sparse")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	// 1 MiB hole, then 4 KiB of data.
	const holeLen = 1 << 20
	require.NoError(t, f.Truncate(holeLen))
	_, err = f.WriteAt(make([]byte, 4096), holeLen)
	require.NoError(t, err)

	dataStart, err := NextData(f, 0)
	if errors.Is(err, ErrExtentUnsupported) {
		t.Skip("filesystem does not support SEEK_DATA/SEEK_HOLE")
	}
	require.NoError(t, err)
	// Filesystems may round hole boundaries; the data must not start
	// after the bytes we wrote.
	assert.LessOrEqual(t, dataStart, int64(holeLen))
	assert.Greater(t, dataStart, int64(0))

	holeStart, err := NextHole(f, dataStart)
	require.NoError(t, err)
	assert.Equal(t, int64(holeLen+4096), holeStart)

	// Past EOF there is nothing left.
	_, err = NextData(f, holeLen+4096)
	assert.ErrorIs(t, err, ErrNoExtent)
}

func TestStatFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o640))

	st, err := Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Size)
	assert.Equal(t, os.FileMode(0o640), st.Perm())
	assert.False(t, st.IsFifo())
	assert.Positive(t, st.BlkSize)
}

func TestStatFifo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipe")
	require.NoError(t, unix.Mkfifo(path, 0o644))

	st, err := Stat(path)
	require.NoError(t, err)
	assert.True(t, st.IsFifo())
}

func TestIsFallbackErr(t *testing.T) {
	assert.True(t, IsFallbackErr(unix.ENOSYS))
	assert.True(t, IsFallbackErr(unix.EXDEV))
	assert.True(t, IsFallbackErr(&os.PathError{Op: "ioctl", Path: "x", Err: unix.ENOTSUP}))
	// EOPNOTSUPP aliases ENOTSUP on Linux and must classify the same way.
	assert.True(t, IsFallbackErr(unix.EOPNOTSUPP))
	assert.False(t, IsFallbackErr(unix.EIO))
	assert.False(t, IsFallbackErr(nil))
}

func TestUmask(t *testing.T) {
	mask := Umask()
	// Querying must not change the mask.
	assert.Equal(t, mask, Umask())
}
