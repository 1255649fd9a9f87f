package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/textproc"
)

func newWcCmd() *cobra.Command {
	var (
		countLines bool
		countWords bool
		countBytes bool
		countChars bool
	)

	cmd := &cobra.Command{
		Use:   "wc [flags] [file]...",
		Short: "Count lines, words, and bytes",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default output is lines, words, bytes.
			if !countLines && !countWords && !countBytes && !countChars {
				countLines, countWords, countBytes = true, true, true
			}

			show := func(c textproc.Counts, name string) {
				var cols []string
				if countLines {
					cols = append(cols, fmt.Sprintf("%7d", c.Lines))
				}
				if countWords {
					cols = append(cols, fmt.Sprintf("%7d", c.Words))
				}
				if countBytes {
					cols = append(cols, fmt.Sprintf("%7d", c.Bytes))
				}
				if countChars {
					cols = append(cols, fmt.Sprintf("%7d", c.Chars))
				}
				line := strings.Join(cols, " ")
				if name != "" {
					line += " " + name
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}

			if len(args) == 0 {
				c, err := textproc.Count(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("wc: %w", err)
				}
				show(c, "")
				return nil
			}

			var total textproc.Counts
			var firstErr error
			for _, arg := range args {
				var r io.Reader
				var opened *os.File
				if arg == "-" {
					r = cmd.InOrStdin()
				} else {
					f, err := os.Open(arg)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "ox: wc: %v\n", err)
						if firstErr == nil {
							firstErr = err
						}
						continue
					}
					opened = f
					r = f
				}

				c, err := textproc.Count(r)
				if opened != nil {
					opened.Close()
				}
				if err != nil {
					return fmt.Errorf("wc %s: %w", arg, err)
				}
				show(c, arg)
				total.Add(c)
			}
			if len(args) > 1 {
				show(total, "total")
			}
			return firstErr
		},
	}

	cmd.Flags().BoolVarP(&countLines, "lines", "l", false, "count newlines")
	cmd.Flags().BoolVarP(&countWords, "words", "w", false, "count words")
	cmd.Flags().BoolVarP(&countBytes, "bytes", "c", false, "count bytes")
	cmd.Flags().BoolVarP(&countChars, "chars", "m", false, "count characters")

	return cmd
}
