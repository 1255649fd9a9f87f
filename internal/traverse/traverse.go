// Package traverse walks a source tree and dispatches one engine call per
// file. It owns everything the copy engine does not: recursion, link
// policy, attribute preservation, and the decision of which files to copy.
package traverse

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/oxtool/ox/internal/filecopy"
	"github.com/oxtool/ox/internal/platform"
	"github.com/oxtool/ox/internal/ratelimit"
	"github.com/oxtool/ox/internal/stats"
)

// Options controls a copy run.
type Options struct {
	Recursive    bool
	Preserve     bool // mode, times, ownership
	Archive      bool // implies Recursive + Preserve + xattrs
	CopyContents bool // stream FIFO contents instead of recreating the pipe
	Dereference  bool // follow symlinks instead of recreating them
	Reflink      filecopy.ReflinkMode
	Sparse       filecopy.SparseMode
	Workers      int
	BWLimit      int64 // bytes/sec, 0 = unlimited
	Verify       bool
	Debug        bool // log the per-file strategy report
	Stats        *stats.Collector
}

func (o Options) recursive() bool { return o.Recursive || o.Archive }
func (o Options) preserve() bool  { return o.Preserve || o.Archive }

type taskKind int

const (
	taskRegular taskKind = iota
	taskDir
	taskSymlink
	taskHardlink
	taskFifo
)

type task struct {
	srcPath    string
	dstPath    string
	linkTarget string // symlink target, or first destination for hardlinks
	kind       taskKind
	st         platform.FileStat
}

// devIno identifies an inode for hardlink detection.
type devIno struct {
	dev uint64
	ino uint64
}

// Copy copies src to dst per opts. src may be a file, FIFO, or (with
// recursion) a directory. The context label attached to engine errors is
// the original src argument, which is what the user typed.
func Copy(ctx context.Context, src, dst string, opts Options) (stats.Snapshot, error) {
	if opts.Stats == nil {
		opts.Stats = stats.NewCollector()
	}

	// A bare source argument follows symlinks, same as cp without -R.
	st, err := platform.Stat(src)
	if err != nil {
		return opts.Stats.Snapshot(), err
	}

	if st.Mode.IsDir() {
		if !opts.recursive() {
			return opts.Stats.Snapshot(), fmt.Errorf("-r not specified; omitting directory %q", src)
		}
		return copyTree(ctx, src, dst, opts)
	}

	// Single file: an existing directory destination means "copy into".
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	// A FIFO named directly gets its contents read, like cp without -R.
	opts.CopyContents = true

	w := &worker{opts: opts, label: src}
	if opts.BWLimit > 0 {
		w.limiter = ratelimit.NewBWLimiter(opts.BWLimit)
	}
	err = w.process(ctx, task{srcPath: src, dstPath: dst, kind: kindFor(st), st: st})
	return opts.Stats.Snapshot(), err
}

func kindFor(st platform.FileStat) taskKind {
	if st.IsFifo() {
		return taskFifo
	}
	return taskRegular
}

func copyTree(ctx context.Context, srcRoot, dstRoot string, opts Options) (stats.Snapshot, error) {
	// Copying into an existing directory nests the source under it,
	// same as cp -r.
	if info, err := os.Stat(dstRoot); err == nil && info.IsDir() {
		dstRoot = filepath.Join(dstRoot, filepath.Base(srcRoot))
	}

	tasks := make(chan task, 64)
	scanErr := make(chan error, 1)

	go func() {
		defer close(tasks)
		scanErr <- scan(ctx, srcRoot, dstRoot, opts, tasks)
	}()

	err := runPool(ctx, tasks, opts, srcRoot)
	if serr := <-scanErr; serr != nil && err == nil {
		err = serr
	}
	return opts.Stats.Snapshot(), err
}

// scan walks the source tree and emits one task per entry. Hardlinked
// regular files are emitted once as a copy and afterwards as links to the
// first destination, tracked in a concurrent registry because emission
// order races with the pool's consumption, not with other scanners.
func scan(ctx context.Context, srcRoot, dstRoot string, opts Options, out chan<- task) error {
	seen := xsync.NewMapOf[devIno, string]()

	return filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scan %s: %w", path, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return fmt.Errorf("rel path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dstRoot, rel)

		st, err := platform.Lstat(path)
		if err != nil {
			return fmt.Errorf("lstat %s: %w", path, err)
		}

		if st.Mode&fs.ModeSymlink != 0 && opts.Dereference {
			// Follow the link so mode and size describe the target.
			if st, err = platform.Stat(path); err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
		}

		tk := task{srcPath: path, dstPath: dstPath, st: st}
		switch {
		case st.Mode.IsDir():
			tk.kind = taskDir
		case st.Mode&fs.ModeSymlink != 0 && !opts.Dereference:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("readlink %s: %w", path, err)
			}
			tk.kind = taskSymlink
			tk.linkTarget = target
		case st.IsFifo():
			tk.kind = taskFifo
		default:
			tk.kind = taskRegular
			if st.Nlink > 1 {
				if first, loaded := seen.LoadOrStore(devIno{st.Dev, st.Ino}, dstPath); loaded {
					tk.kind = taskHardlink
					tk.linkTarget = first
				}
			}
		}

		select {
		case out <- tk:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}
