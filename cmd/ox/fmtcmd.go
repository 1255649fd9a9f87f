package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/textproc"
)

func newFmtCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "fmt [flags] [file]...",
		Short: "Reflow paragraphs to a target line width",
		RunE: func(cmd *cobra.Command, args []string) error {
			if width < 1 {
				return fmt.Errorf("invalid width %d", width)
			}

			if len(args) == 0 {
				return textproc.Reflow(cmd.OutOrStdout(), cmd.InOrStdin(), width)
			}

			for _, arg := range args {
				var r io.Reader
				var opened *os.File
				if arg == "-" {
					r = cmd.InOrStdin()
				} else {
					f, err := os.Open(arg)
					if err != nil {
						return fmt.Errorf("fmt: %w", err)
					}
					opened = f
					r = f
				}
				err := textproc.Reflow(cmd.OutOrStdout(), r, width)
				if opened != nil {
					opened.Close()
				}
				if err != nil {
					return fmt.Errorf("fmt %s: %w", arg, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 75, "maximum line width")

	return cmd
}
