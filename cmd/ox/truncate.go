package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/ui"
)

func newTruncateCmd() *cobra.Command {
	var (
		sizeStr  string
		noCreate bool
	)

	cmd := &cobra.Command{
		Use:   "truncate -s SIZE file...",
		Short: "Shrink or extend files to a given size",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sizeStr == "" {
				return fmt.Errorf("truncate: --size is required")
			}

			relative := byte(0)
			spec := sizeStr
			if strings.HasPrefix(spec, "+") || strings.HasPrefix(spec, "-") {
				relative = spec[0]
				spec = spec[1:]
			}
			size, err := ui.ParseSize(spec)
			if err != nil {
				return fmt.Errorf("truncate: invalid size %q: %w", sizeStr, err)
			}

			var firstErr error
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					if os.IsNotExist(err) && noCreate {
						continue
					}
					if !os.IsNotExist(err) {
						fmt.Fprintf(cmd.ErrOrStderr(), "ox: truncate: %v\n", err)
						if firstErr == nil {
							firstErr = err
						}
						continue
					}
					f, cerr := os.OpenFile(arg, os.O_WRONLY|os.O_CREATE, 0o666)
					if cerr != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "ox: truncate: %v\n", cerr)
						if firstErr == nil {
							firstErr = cerr
						}
						continue
					}
					f.Close()
					info, err = os.Stat(arg)
					if err != nil {
						return fmt.Errorf("truncate %s: %w", arg, err)
					}
				}

				target := size
				switch relative {
				case '+':
					target = info.Size() + size
				case '-':
					target = info.Size() - size
					if target < 0 {
						target = 0
					}
				}

				if err := os.Truncate(arg, target); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "ox: truncate: %v\n", err)
					if firstErr == nil {
						firstErr = err
					}
				}
			}
			return firstErr
		},
	}

	cmd.Flags().StringVarP(&sizeStr, "size", "s", "", "target size, optionally prefixed with + or - for relative")
	cmd.Flags().BoolVarP(&noCreate, "no-create", "c", false, "do not create missing files")

	return cmd
}
