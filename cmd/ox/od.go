package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/textproc"
)

func newOdCmd() *cobra.Command {
	var (
		format string
		radix  string
	)

	cmd := &cobra.Command{
		Use:   "od [flags] [file]...",
		Short: "Dump files in octal and other formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(radix) != 1 {
				return fmt.Errorf("invalid address radix %q", radix)
			}

			var r io.Reader
			switch len(args) {
			case 0:
				r = cmd.InOrStdin()
			default:
				readers := make([]io.Reader, 0, len(args))
				for _, arg := range args {
					if arg == "-" {
						readers = append(readers, cmd.InOrStdin())
						continue
					}
					f, err := os.Open(arg)
					if err != nil {
						return fmt.Errorf("od: %w", err)
					}
					defer f.Close()
					readers = append(readers, f)
				}
				r = io.MultiReader(readers...)
			}

			opts := textproc.DumpOptions{
				Format:       format,
				AddressRadix: radix[0],
			}
			return textproc.Dump(cmd.OutOrStdout(), r, opts)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "t", "o2", "output format: o1, o2, x1, c")
	cmd.Flags().StringVarP(&radix, "address-radix", "A", "o", "offset base: o, x, d, n")

	return cmd
}
