package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxtool/ox/internal/config"
	"github.com/oxtool/ox/internal/filecopy"
	"github.com/oxtool/ox/internal/stats"
	"github.com/oxtool/ox/internal/traverse"
	"github.com/oxtool/ox/internal/ui"
)

//nolint:revive // cognitive-complexity: flag surface of cp is inherently wide
func newCpCmd(cfg config.Config) *cobra.Command {
	var (
		recursive    bool
		recursiveCap bool
		archive      bool
		preserve     bool
		copyContents bool
		dereference  bool
		verify       bool
		showStats    bool
		reflinkStr   string
		sparseStr    string
		bwlimitStr   string
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "cp [flags] <source>... <dest>",
		Short: "Copy files and directories",
		Long: `Copy files and directories.

The copy strategy for each regular file is picked from --reflink and
--sparse: a copy-on-write clone where the filesystem supports one, a
hole-preserving or hole-creating sparse copy, or a plain byte copy.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reflink, err := filecopy.ParseReflinkMode(reflinkStr)
			if err != nil {
				return err
			}
			sparse, err := filecopy.ParseSparseMode(sparseStr)
			if err != nil {
				return err
			}

			if bwlimitStr == "" && cfg.Defaults.BWLimit != nil {
				bwlimitStr = *cfg.Defaults.BWLimit
			}
			var bwlimit int64
			if bwlimitStr != "" {
				bwlimit, err = ui.ParseSize(bwlimitStr)
				if err != nil {
					return fmt.Errorf("invalid --bwlimit: %w", err)
				}
			}

			if workers == 0 && cfg.Defaults.Workers != nil {
				workers = *cfg.Defaults.Workers
			}

			sources := args[:len(args)-1]
			dest := args[len(args)-1]

			if len(sources) > 1 {
				info, err := os.Stat(dest)
				if err != nil || !info.IsDir() {
					return fmt.Errorf("target %q is not a directory", dest)
				}
			}

			collector := stats.NewCollector()
			opts := traverse.Options{
				Recursive:    recursive || recursiveCap,
				Archive:      archive,
				Preserve:     preserve,
				CopyContents: copyContents,
				Dereference:  dereference,
				Reflink:      reflink,
				Sparse:       sparse,
				Workers:      workers,
				BWLimit:      bwlimit,
				Verify:       verify,
				Debug:        true,
				Stats:        collector,
			}

			var firstErr error
			for _, src := range sources {
				if _, err := traverse.Copy(cmd.Context(), src, dest, opts); err != nil {
					slog.Error("copy failed", "src", src, "error", err)
					if firstErr == nil {
						firstErr = err
					}
				}
			}

			if showStats {
				snap := collector.Snapshot()
				fmt.Fprintf(cmd.OutOrStdout(),
					"%d files (%s) copied, %d dirs, %d symlinks, %d hardlinks, %d clones in %s\n",
					snap.FilesCopied, ui.HumanSize(snap.BytesCopied),
					snap.DirsCreated, snap.SymlinksCreated, snap.HardlinksCreated,
					snap.ClonesUsed, snap.Elapsed.Round(1e6))
			}
			return firstErr
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "copy directories recursively")
	cmd.Flags().BoolVarP(&recursiveCap, "Recursive", "R", false, "same as -r")
	_ = cmd.Flags().MarkHidden("Recursive")
	cmd.Flags().BoolVarP(&archive, "archive", "a", false, "recurse and preserve everything")
	cmd.Flags().BoolVarP(&preserve, "preserve", "p", false, "preserve mode, ownership, timestamps")
	cmd.Flags().BoolVar(&copyContents, "copy-contents", false, "copy contents of special files (FIFOs) when recursing")
	cmd.Flags().BoolVarP(&dereference, "dereference", "L", false, "always follow symbolic links")
	cmd.Flags().BoolVar(&verify, "verify", false, "verify each copy with a BLAKE3 checksum")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print copy statistics on completion")
	cmd.Flags().StringVar(&reflinkStr, "reflink", "never", "copy-on-write clone mode: never, auto, always")
	cmd.Flags().StringVar(&sparseStr, "sparse", "auto", "sparse handling: auto, always, never")
	cmd.Flags().StringVar(&bwlimitStr, "bwlimit", "", "bandwidth cap, e.g. 10MB")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel copy workers (0 = auto)")
	cmd.Flags().Lookup("reflink").NoOptDefVal = "auto"

	return cmd
}
