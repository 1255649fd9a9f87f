package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/hash"
)

func newHashsumCmd() *cobra.Command {
	var (
		algorithm string
		check     bool
	)

	cmd := &cobra.Command{
		Use:   "hashsum [flags] file...",
		Short: "Compute or verify file digests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if check {
				return checkSums(cmd, algorithm, args)
			}

			var firstErr error
			for _, arg := range args {
				digest, err := hash.File(algorithm, arg)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "ox: hashsum: %v\n", err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", digest, arg)
			}
			return firstErr
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", hash.Blake3, "digest algorithm: blake3, xxh64, sha256")
	cmd.Flags().BoolVarP(&check, "check", "c", false, "read digests from the given files and verify them")

	return cmd
}

// checkSums reads "digest  path" lines and verifies each named file.
func checkSums(cmd *cobra.Command, algorithm string, args []string) error {
	failed := 0
	for _, arg := range args {
		f, err := os.Open(arg)
		if err != nil {
			return fmt.Errorf("hashsum: %w", err)
		}

		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			want, path, ok := strings.Cut(line, "  ")
			if !ok {
				f.Close()
				return fmt.Errorf("hashsum: %s: malformed line %q", arg, line)
			}

			got, err := hash.File(algorithm, path)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: FAILED open or read\n", path)
				failed++
				continue
			}
			if got == want {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: FAILED\n", path)
				failed++
			}
		}
		err = sc.Err()
		f.Close()
		if err != nil {
			return fmt.Errorf("hashsum %s: %w", arg, err)
		}
	}

	if failed > 0 {
		return &exitError{code: 1, err: fmt.Errorf("hashsum: %d computed checksums did NOT match", failed)}
	}
	return nil
}
