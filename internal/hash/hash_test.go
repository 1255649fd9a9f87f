package hash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileAlgorithms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	for _, alg := range []string{Blake3, XXH64, SHA256} {
		digest, err := File(alg, path)
		require.NoError(t, err, alg)
		assert.NotEmpty(t, digest, alg)
	}

	// Known vector keeps the sha256 wiring honest.
	digest, err := File(SHA256, path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", digest)
}

func TestFileStableAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("same bytes"), 0o644))

	a, err := File(Blake3, path)
	require.NoError(t, err)
	b, err := File(Blake3, path)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := New("md6")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err = File("md6", path)
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := File(Blake3, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
