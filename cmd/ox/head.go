package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newHeadCmd() *cobra.Command {
	var (
		lines     int
		byteCount int64
	)

	cmd := &cobra.Command{
		Use:   "head [flags] [file]...",
		Short: "Print the first part of files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}

			out := cmd.OutOrStdout()
			var firstErr error
			for i, arg := range args {
				var r io.Reader
				var opened *os.File
				name := arg
				if arg == "-" {
					r = cmd.InOrStdin()
					name = "standard input"
				} else {
					f, err := os.Open(arg)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "ox: head: %v\n", err)
						if firstErr == nil {
							firstErr = err
						}
						continue
					}
					opened = f
					r = f
				}

				if len(args) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "==> %s <==\n", name)
				}

				var err error
				if cmd.Flags().Changed("bytes") {
					_, err = io.CopyN(out, r, byteCount)
					if err == io.EOF {
						err = nil
					}
				} else {
					err = headLines(out, r, lines)
				}
				if opened != nil {
					opened.Close()
				}
				if err != nil {
					return fmt.Errorf("head %s: %w", arg, err)
				}
			}
			return firstErr
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "print the first N lines")
	cmd.Flags().Int64VarP(&byteCount, "bytes", "c", 0, "print the first N bytes instead of lines")

	return cmd
}

func headLines(out io.Writer, r io.Reader, n int) error {
	br := bufio.NewReader(r)
	for i := 0; i < n; i++ {
		line, err := br.ReadString('\n')
		if line != "" {
			if _, werr := io.WriteString(out, line); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
