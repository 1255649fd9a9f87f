package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/config"
	"github.com/oxtool/ox/internal/platform"
	"github.com/oxtool/ox/internal/ui"
)

func newLsCmd(cfg config.Config) *cobra.Command {
	var (
		long     bool
		all      bool
		human    bool
		colorStr string
	)

	cmd := &cobra.Command{
		Use:   "ls [flags] [path]...",
		Short: "List directory contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			if colorStr == "" {
				colorStr = "auto"
				if cfg.Defaults.Color != nil {
					colorStr = *cfg.Defaults.Color
				}
			}
			colored := colorStr == "always" ||
				(colorStr == "auto" && ui.IsTerminal(os.Stdout))

			out := cmd.OutOrStdout()
			var firstErr error
			for i, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "ox: ls: %v\n", err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}

				if !info.IsDir() {
					printEntry(out, arg, filepath.Dir(arg), long, human, colored)
					continue
				}

				if len(args) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "%s:\n", arg)
				}
				if err := listDir(out, arg, long, all, human, colored); err != nil {
					if firstErr == nil {
						firstErr = err
					}
				}
			}
			return firstErr
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "long listing format")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include entries starting with a dot")
	cmd.Flags().BoolVarP(&human, "human-readable", "H", false, "sizes in KiB/MiB/GiB")
	cmd.Flags().StringVar(&colorStr, "color", "", "colorize output: auto, always, never")

	return cmd
}

func listDir(out io.Writer, dir string, long, all, human, colored bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !all && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if long {
		for _, name := range names {
			printEntry(out, name, dir, true, human, colored)
		}
		return nil
	}

	printColumns(out, dir, names, colored)
	return nil
}

func printEntry(out io.Writer, name, dir string, long, human, colored bool) {
	path := name
	if !filepath.IsAbs(name) && dir != "" {
		path = filepath.Join(dir, filepath.Base(name))
	}

	st, err := platform.Lstat(path)
	if err != nil {
		fmt.Fprintf(out, "%s\n", name)
		return
	}

	if !long {
		fmt.Fprintf(out, "%s\n", ui.Colorize(filepath.Base(name), st.Mode, colored))
		return
	}

	size := fmt.Sprintf("%8d", st.Size)
	if human {
		size = fmt.Sprintf("%8s", ui.HumanSize(st.Size))
	}

	display := ui.Colorize(filepath.Base(name), st.Mode, colored)
	if st.Mode&fs.ModeSymlink != 0 {
		if target, err := os.Readlink(path); err == nil {
			display += " -> " + target
		}
	}

	mtime := time.Unix(0, st.MtimeNs).Format("Jan _2 15:04")
	fmt.Fprintf(out, "%s %3d %5d %5d %s %s %s\n",
		st.Mode, st.Nlink, st.Uid, st.Gid, size, mtime, display)
}

func printColumns(out io.Writer, dir string, names []string, colored bool) {
	if len(names) == 0 {
		return
	}

	width := ui.TermWidth(os.Stdout, 80)
	colWidth := 0
	for _, n := range names {
		if len(n) > colWidth {
			colWidth = len(n)
		}
	}
	colWidth += 2

	cols := width / colWidth
	if cols < 1 {
		cols = 1
	}

	for i, name := range names {
		st, err := platform.Lstat(filepath.Join(dir, name))
		display := name
		if err == nil {
			display = ui.Colorize(name, st.Mode, colored)
		}
		// Pad on the raw name length: color escapes have no width.
		pad := strings.Repeat(" ", colWidth-len(name))
		if (i+1)%cols == 0 || i == len(names)-1 {
			fmt.Fprintf(out, "%s\n", display)
		} else {
			fmt.Fprintf(out, "%s%s", display, pad)
		}
	}
}
