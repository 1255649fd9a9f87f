// Package hash computes file digests for the hashsum utility and the
// post-copy verification pass.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Algorithm names accepted by New.
const (
	Blake3 = "blake3"
	XXH64  = "xxh64"
	SHA256 = "sha256"
)

// New returns a fresh hasher for the named algorithm.
func New(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case Blake3:
		return blake3.New(), nil
	case XXH64:
		return xxhash.New(), nil
	case SHA256:
		return sha256.New(), nil
	}
	return nil, fmt.Errorf("unknown algorithm %q", algorithm)
}

// File computes the digest of the file at path, returning it hex-encoded.
func File(algorithm, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h, err := New(algorithm)
	if err != nil {
		return "", err
	}

	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
