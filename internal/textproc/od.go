package textproc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// DumpOptions controls od output.
type DumpOptions struct {
	Format       string // "o2" (default), "o1", "x1", "c"
	AddressRadix byte   // 'o' (default), 'x', 'd', 'n' for none
}

const dumpWidth = 16 // bytes per output line

// Dump writes r to w in od's line format: an offset column, then the
// bytes rendered per opts.Format. Runs of identical lines collapse into a
// single "*", like od -v left off.
func Dump(w io.Writer, r io.Reader, opts DumpOptions) error {
	if opts.Format == "" {
		opts.Format = "o2"
	}
	if opts.AddressRadix == 0 {
		opts.AddressRadix = 'o'
	}

	bw := bufio.NewWriter(w)
	br := bufio.NewReader(r)

	var (
		offset    int64
		prev      []byte
		squeezing bool
	)
	buf := make([]byte, dumpWidth)

	for {
		n, err := io.ReadFull(br, buf)
		if n > 0 {
			line := buf[:n]
			if n == dumpWidth && bytes.Equal(line, prev) {
				if !squeezing {
					fmt.Fprintln(bw, "*")
					squeezing = true
				}
			} else {
				squeezing = false
				prev = append(prev[:0], line...)
				if err := writeDumpLine(bw, offset, line, opts); err != nil {
					return err
				}
			}
			offset += int64(n)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return err
		}
	}

	if addr := formatAddress(offset, opts.AddressRadix); addr != "" {
		fmt.Fprintln(bw, addr)
	}
	return bw.Flush()
}

func writeDumpLine(w io.Writer, offset int64, line []byte, opts DumpOptions) error {
	var cells []string
	switch opts.Format {
	case "o2":
		for i := 0; i < len(line); i += 2 {
			// Little-endian pairing, matching od's default shorts.
			v := uint16(line[i])
			if i+1 < len(line) {
				v |= uint16(line[i+1]) << 8
			}
			cells = append(cells, fmt.Sprintf("%06o", v))
		}
	case "o1":
		for _, b := range line {
			cells = append(cells, fmt.Sprintf("%03o", b))
		}
	case "x1":
		for _, b := range line {
			cells = append(cells, fmt.Sprintf("%02x", b))
		}
	case "c":
		for _, b := range line {
			cells = append(cells, fmt.Sprintf("%3s", charCell(b)))
		}
	default:
		return fmt.Errorf("unknown dump format %q", opts.Format)
	}

	addr := formatAddress(offset, opts.AddressRadix)
	if addr == "" {
		_, err := fmt.Fprintln(w, strings.Join(cells, " "))
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s\n", addr, strings.Join(cells, " "))
	return err
}

func formatAddress(offset int64, radix byte) string {
	switch radix {
	case 'x':
		return fmt.Sprintf("%06x", offset)
	case 'd':
		return fmt.Sprintf("%07d", offset)
	case 'n':
		return ""
	default:
		return fmt.Sprintf("%07o", offset)
	}
}

func charCell(b byte) string {
	switch b {
	case 0:
		return `\0`
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\v':
		return `\v`
	case '\f':
		return `\f`
	case '\r':
		return `\r`
	}
	if b >= 0x20 && b < 0x7F {
		return string(rune(b))
	}
	return fmt.Sprintf("%03o", b)
}
