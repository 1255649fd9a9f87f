// Package ui holds the rendering helpers shared by the utilities: size
// formatting, terminal detection, and the ls color styles.
package ui

import (
	"os"

	units "github.com/docker/go-units"
	"golang.org/x/term"
)

// HumanSize renders a byte count in binary units ("4KiB", "1.2MiB").
func HumanSize(n int64) string {
	return units.BytesSize(float64(n))
}

// ParseSize parses a human size string ("512", "4K", "10MB") into bytes,
// using binary multiples the way every other file tool does.
func ParseSize(s string) (int64, error) {
	return units.RAMInBytes(s)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TermWidth returns the terminal width of f, or fallback when f is not a
// terminal or the size cannot be read.
func TermWidth(f *os.File, fallback int) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
