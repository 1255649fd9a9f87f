package traverse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/oxtool/ox/internal/filecopy"
)

func TestCopySingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("one file"), 0o644))

	snap, err := Copy(context.Background(), src, dst, Options{})
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "one file", string(got))
	assert.Equal(t, int64(1), snap.FilesCopied)
}

func TestCopyIntoExistingDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "file.txt")
	dstDir := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(dstDir, 0o755))

	_, err := Copy(context.Background(), src, dstDir, Options{})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dstDir, "file.txt"))
	assert.NoError(t, err)
}

func TestCopyDirRequiresRecursive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	require.NoError(t, os.Mkdir(src, 0o755))

	_, err := Copy(context.Background(), src, filepath.Join(dir, "out"), Options{})
	assert.Error(t, err)
}

func TestCopyTree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub", "deeper"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a"), []byte("aaa"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b"), []byte("bbb"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "deeper", "c"), []byte("ccc"), 0o644))
	require.NoError(t, os.Symlink("a", filepath.Join(src, "link")))

	dst := filepath.Join(dir, "out")
	snap, err := Copy(context.Background(), src, dst, Options{Recursive: true})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dst, "sub", "deeper", "c"))
	require.NoError(t, err)
	assert.Equal(t, "ccc", string(got))

	target, err := os.Readlink(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "a", target)

	assert.Equal(t, int64(3), snap.FilesCopied)
	assert.Equal(t, int64(1), snap.SymlinksCreated)
}

func TestCopyTreeIntoExistingDirNests(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "f"), []byte("f"), 0o644))

	dst := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(dst, 0o755))

	_, err := Copy(context.Background(), src, dst, Options{Recursive: true})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dst, "tree", "f"))
	assert.NoError(t, err)
}

func TestHardlinksPreserved(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "orig"), []byte("shared"), 0o644))
	require.NoError(t, os.Link(filepath.Join(src, "orig"), filepath.Join(src, "alias")))

	dst := filepath.Join(dir, "out")
	snap, err := Copy(context.Background(), src, dst, Options{Recursive: true})
	require.NoError(t, err)

	var a, b unix.Stat_t
	require.NoError(t, unix.Stat(filepath.Join(dst, "orig"), &a))
	require.NoError(t, unix.Stat(filepath.Join(dst, "alias"), &b))
	assert.Equal(t, a.Ino, b.Ino, "hardlink pair should share an inode")
	assert.Equal(t, int64(1), snap.FilesCopied)
	assert.Equal(t, int64(1), snap.HardlinksCreated)
}

func TestFifoRecreatedWithoutCopyContents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, unix.Mkfifo(filepath.Join(src, "pipe"), 0o644))

	dst := filepath.Join(dir, "out")
	_, err := Copy(context.Background(), src, dst, Options{Recursive: true})
	require.NoError(t, err)

	info, err := os.Lstat(filepath.Join(dst, "pipe"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeNamedPipe)
}

func TestPreserveMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o741))

	_, err := Copy(context.Background(), src, dst, Options{Preserve: true})
	require.NoError(t, err)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o741), info.Mode().Perm())
}

func TestVerifyPasses(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("verified bytes"), 0o644))

	_, err := Copy(context.Background(), src, dst, Options{Verify: true})
	require.NoError(t, err)
}

func TestSparseModesThreadedThrough(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	data := make([]byte, 128<<10)
	for i := 64 << 10; i < len(data); i++ {
		data[i] = 1
	}
	require.NoError(t, os.WriteFile(src, data, 0o644))

	_, err := Copy(context.Background(), src, dst, Options{
		Reflink: filecopy.ReflinkNever,
		Sparse:  filecopy.SparseAlways,
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
