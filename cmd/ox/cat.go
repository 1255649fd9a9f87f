package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newCatCmd() *cobra.Command {
	var number bool

	cmd := &cobra.Command{
		Use:   "cat [flags] [file]...",
		Short: "Concatenate files to standard output",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()

			line := 1
			var firstErr error
			for _, arg := range args {
				var r io.Reader
				var opened *os.File
				if arg == "-" {
					r = cmd.InOrStdin()
				} else {
					f, err := os.Open(arg)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "ox: cat: %v\n", err)
						if firstErr == nil {
							firstErr = err
						}
						continue
					}
					opened = f
					r = f
				}

				err := catOne(out, r, number, &line)
				if opened != nil {
					opened.Close()
				}
				if err != nil {
					return fmt.Errorf("cat %s: %w", arg, err)
				}
			}
			return firstErr
		},
	}

	cmd.Flags().BoolVarP(&number, "number", "n", false, "number all output lines")

	return cmd
}

// catOne streams one input, numbering lines across inputs when asked.
func catOne(out io.Writer, r io.Reader, number bool, line *int) error {
	if !number {
		_, err := io.Copy(out, r)
		return err
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		fmt.Fprintf(out, "%6d\t%s\n", *line, sc.Text())
		(*line)++
	}
	return sc.Err()
}
