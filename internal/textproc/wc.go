// Package textproc implements the byte/line-oriented guts of the text
// utilities (wc, tail, od, fmt), separate from their flag surfaces.
package textproc

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// Counts holds the tallies wc reports.
type Counts struct {
	Lines int64
	Words int64
	Bytes int64
	Chars int64
}

// Add accumulates other into c, for per-file totals.
func (c *Counts) Add(other Counts) {
	c.Lines += other.Lines
	c.Words += other.Words
	c.Bytes += other.Bytes
	c.Chars += other.Chars
}

// Count tallies lines, words, bytes, and runes in r. A word is a maximal
// run of non-whitespace, and a line is counted per newline byte, both per
// POSIX wc.
func Count(r io.Reader) (Counts, error) {
	var c Counts
	br := bufio.NewReaderSize(r, 64<<10)
	inWord := false

	for {
		ch, size, err := br.ReadRune()
		if err == io.EOF {
			return c, nil
		}
		if err != nil {
			return c, err
		}

		c.Bytes += int64(size)
		c.Chars++
		if ch == '\n' {
			c.Lines++
		}
		if isSpace(ch) {
			inWord = false
		} else if !inWord {
			inWord = true
			c.Words++
		}
	}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return r != utf8.RuneError && r > 0x7F && isUnicodeSpace(r)
}

func isUnicodeSpace(r rune) bool {
	switch r {
	case 0x85, 0xA0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}
