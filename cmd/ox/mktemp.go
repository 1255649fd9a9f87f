package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newMktempCmd() *cobra.Command {
	var (
		directory bool
		tmpdir    string
		prefix    string
	)

	cmd := &cobra.Command{
		Use:   "mktemp [flags]",
		Short: "Create a unique temporary file or directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := tmpdir
			if base == "" {
				base = os.TempDir()
			}

			path := filepath.Join(base, prefix+uuid.NewString())
			if directory {
				if err := os.Mkdir(path, 0o700); err != nil {
					return fmt.Errorf("mktemp: %w", err)
				}
			} else {
				f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
				if err != nil {
					return fmt.Errorf("mktemp: %w", err)
				}
				f.Close()
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&directory, "directory", "d", false, "create a directory instead of a file")
	cmd.Flags().StringVar(&tmpdir, "tmpdir", "", "create under this directory instead of $TMPDIR")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "tmp.", "name prefix")

	return cmd
}
