package textproc

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Reflow rewraps the paragraphs of r to at most width columns, greedy
// fill. Blank lines separate paragraphs and are preserved; a paragraph's
// words are joined with single spaces regardless of the input's line
// breaks.
func Reflow(w io.Writer, r io.Reader, width int) error {
	if width <= 0 {
		width = 75
	}

	bw := bufio.NewWriter(w)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 16<<20)

	var words []string
	flush := func() error {
		if len(words) == 0 {
			return nil
		}
		lineLen := 0
		for i, word := range words {
			switch {
			case i == 0:
				lineLen = len(word)
				if _, err := bw.WriteString(word); err != nil {
					return err
				}
			case lineLen+1+len(word) <= width:
				lineLen += 1 + len(word)
				if _, err := fmt.Fprintf(bw, " %s", word); err != nil {
					return err
				}
			default:
				lineLen = len(word)
				if _, err := fmt.Fprintf(bw, "\n%s", word); err != nil {
					return err
				}
			}
		}
		words = words[:0]
		return bw.WriteByte('\n')
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			if err := flush(); err != nil {
				return err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
			continue
		}
		words = append(words, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}
	return bw.Flush()
}
