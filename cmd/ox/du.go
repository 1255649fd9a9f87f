package main

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/platform"
	"github.com/oxtool/ox/internal/ui"
)

func newDuCmd() *cobra.Command {
	var (
		summarize bool
		apparent  bool
		human     bool
	)

	cmd := &cobra.Command{
		Use:   "du [flags] [path]...",
		Short: "Estimate disk usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			format := func(n int64) string {
				if human {
					return ui.HumanSize(n)
				}
				// du reports 1 KiB blocks by default.
				if !apparent {
					return fmt.Sprintf("%d", (n+1023)/1024)
				}
				return fmt.Sprintf("%d", n)
			}

			out := cmd.OutOrStdout()
			var firstErr error
			for _, arg := range args {
				total, err := duWalk(out, arg, summarize, apparent, format)
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", format(total), arg)
			}
			return firstErr
		},
	}

	cmd.Flags().BoolVarP(&summarize, "summarize", "s", false, "display only a total per argument")
	cmd.Flags().BoolVarP(&apparent, "bytes", "b", false, "apparent size in bytes instead of disk blocks")
	cmd.Flags().BoolVarP(&human, "human-readable", "H", false, "sizes in KiB/MiB/GiB")

	return cmd
}

// duWalk returns the usage of root, printing per-directory subtotals
// unless summarize is set. Unreadable entries are logged and skipped.
func duWalk(out io.Writer, root string, summarize, apparent bool, format func(int64) string) (int64, error) {
	dirTotals := map[string]int64{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("cannot read entry", "path", path, "error", err)
			return nil
		}
		if path == root && !d.IsDir() {
			st, err := platform.Lstat(path)
			if err != nil {
				return err
			}
			dirTotals[root] += usage(st, apparent)
			return nil
		}
		if d.IsDir() {
			return nil
		}

		st, err := platform.Lstat(path)
		if err != nil {
			slog.Warn("cannot stat entry", "path", path, "error", err)
			return nil
		}
		size := usage(st, apparent)

		// Attribute the size to every ancestor up to root.
		for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
			dirTotals[dir] += size
			if dir == root || dir == filepath.Dir(dir) {
				break
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("du %s: %w", root, err)
	}

	if !summarize {
		dirs := make([]string, 0, len(dirTotals))
		for dir := range dirTotals {
			if dir != root {
				dirs = append(dirs, dir)
			}
		}
		// Deepest first, the way du prints children before parents.
		sort.Slice(dirs, func(i, j int) bool { return dirs[i] > dirs[j] })
		for _, dir := range dirs {
			fmt.Fprintf(out, "%s\t%s\n", format(dirTotals[dir]), dir)
		}
	}
	return dirTotals[root], nil
}

func usage(st platform.FileStat, apparent bool) int64 {
	if apparent {
		return st.Size
	}
	return st.Blocks * 512
}
