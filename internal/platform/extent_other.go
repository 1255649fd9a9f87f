//go:build !linux

package platform

import (
	"errors"
	"os"
)

var ErrNoExtent = errors.New("no further extent")

var ErrExtentUnsupported = errors.New("extent queries unsupported")

// NextData is unavailable here; callers treat every non-empty file as a
// single data extent.
func NextData(f *os.File, offset int64) (int64, error) {
	return 0, ErrExtentUnsupported
}

// NextHole is unavailable here.
func NextHole(f *os.File, offset int64) (int64, error) {
	return 0, ErrExtentUnsupported
}
