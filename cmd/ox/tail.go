package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/textproc"
)

func newTailCmd() *cobra.Command {
	var (
		lines     int
		byteCount int64
		follow    bool
	)

	cmd := &cobra.Command{
		Use:   "tail [flags] [file]...",
		Short: "Print the last part of files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			if follow && (len(args) != 1 || args[0] == "-") {
				return fmt.Errorf("--follow requires exactly one file argument")
			}

			out := cmd.OutOrStdout()
			var firstErr error
			for i, arg := range args {
				if len(args) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "==> %s <==\n", arg)
				}

				var err error
				if arg == "-" {
					err = tailStream(out, cmd.InOrStdin(), lines, byteCount, cmd.Flags().Changed("bytes"))
				} else {
					err = tailFile(out, arg, lines, byteCount, cmd.Flags().Changed("bytes"))
				}
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "ox: tail: %v\n", err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}

				if follow {
					return followFile(cmd, out, arg)
				}
			}
			return firstErr
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "print the last N lines")
	cmd.Flags().Int64VarP(&byteCount, "bytes", "c", 0, "print the last N bytes instead of lines")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "output appended data as the file grows")

	return cmd
}

func tailFile(out io.Writer, path string, lines int, bytes int64, byBytes bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var data []byte
	if byBytes {
		data, err = textproc.LastBytes(f, bytes)
	} else {
		data, err = textproc.LastLines(f, lines)
	}
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func tailStream(out io.Writer, in io.Reader, lines int, bytes int64, byBytes bool) error {
	if byBytes {
		// No seeking on a pipe; buffer everything and keep the tail.
		data, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		if int64(len(data)) > bytes {
			data = data[int64(len(data))-bytes:]
		}
		_, err = out.Write(data)
		return err
	}

	data, err := textproc.TailReader(in, lines)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// followFile polls for growth. A truncated file restarts from the top.
func followFile(cmd *cobra.Command, out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		st, err := f.Stat()
		if err != nil {
			return err
		}
		if st.Size() < offset {
			slog.Debug("file truncated, restarting", "path", path)
			offset = 0
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				return err
			}
		}
		if st.Size() == offset {
			continue
		}

		n, err := io.Copy(out, f)
		if err != nil {
			return err
		}
		offset += n
	}
}
