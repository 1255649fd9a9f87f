package traverse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/oxtool/ox/internal/filecopy"
	"github.com/oxtool/ox/internal/hash"
	"github.com/oxtool/ox/internal/ratelimit"
	"golang.org/x/time/rate"
)

type worker struct {
	opts    Options
	label   string // the CLI argument being processed, for error context
	limiter *rate.Limiter
}

// runPool fans tasks out to copy workers. Hardlink tasks are deferred
// until every copy has finished, so the link target is guaranteed to
// exist no matter which worker copied it.
func runPool(ctx context.Context, tasks <-chan task, opts Options, label string) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), 8)
	}

	var limiter *rate.Limiter
	if opts.BWLimit > 0 {
		limiter = ratelimit.NewBWLimiter(opts.BWLimit)
	}

	var (
		mu        sync.Mutex
		firstErr  error
		errCount  int
		hardlinks []task
	)
	recordErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errCount++
		if firstErr == nil {
			firstErr = err
		}
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := &worker{opts: opts, label: label, limiter: limiter}
			for tk := range tasks {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if tk.kind == taskHardlink {
					mu.Lock()
					hardlinks = append(hardlinks, tk)
					mu.Unlock()
					continue
				}
				if err := w.process(ctx, tk); err != nil {
					opts.Stats.AddFilesFailed(1)
					recordErr(err)
				}
			}
		}()
	}
	wg.Wait()

	w := &worker{opts: opts, label: label}
	for _, tk := range hardlinks {
		if err := w.process(ctx, tk); err != nil {
			opts.Stats.AddFilesFailed(1)
			recordErr(err)
		}
	}

	if errCount > 1 {
		return fmt.Errorf("%w (and %d more errors)", firstErr, errCount-1)
	}
	return firstErr
}

func (w *worker) process(ctx context.Context, tk task) error {
	switch tk.kind {
	case taskDir:
		return w.createDir(tk)
	case taskSymlink:
		return w.createSymlink(tk)
	case taskHardlink:
		return w.createHardlink(tk)
	case taskFifo:
		return w.copyFifo(ctx, tk)
	case taskRegular:
		return w.copyRegular(ctx, tk)
	default:
		return fmt.Errorf("unknown task kind %d for %s", tk.kind, tk.srcPath)
	}
}

func (w *worker) createDir(tk task) error {
	if err := os.MkdirAll(tk.dstPath, tk.st.Perm()); err != nil {
		return fmt.Errorf("mkdir %s: %w", tk.dstPath, err)
	}
	w.opts.Stats.AddDirsCreated(1)
	if w.opts.preserve() {
		return w.applyMetadata(tk)
	}
	return nil
}

func (w *worker) createSymlink(tk task) error {
	if err := os.MkdirAll(filepath.Dir(tk.dstPath), 0o755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", tk.dstPath, err)
	}
	_ = os.Remove(tk.dstPath)
	if err := os.Symlink(tk.linkTarget, tk.dstPath); err != nil {
		return fmt.Errorf("symlink %s -> %s: %w", tk.dstPath, tk.linkTarget, err)
	}
	w.opts.Stats.AddSymlinksCreated(1)
	return nil
}

func (w *worker) createHardlink(tk task) error {
	if err := os.MkdirAll(filepath.Dir(tk.dstPath), 0o755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", tk.dstPath, err)
	}
	_ = os.Remove(tk.dstPath)
	if err := os.Link(tk.linkTarget, tk.dstPath); err != nil {
		return fmt.Errorf("hardlink %s -> %s: %w", tk.dstPath, tk.linkTarget, err)
	}
	w.opts.Stats.AddHardlinksCreated(1)
	return nil
}

// copyFifo either recreates the pipe (the cp -R default) or streams its
// contents through the engine when --copy-contents is in effect.
func (w *worker) copyFifo(ctx context.Context, tk task) error {
	if !w.opts.CopyContents {
		_ = os.Remove(tk.dstPath)
		if err := unix.Mkfifo(tk.dstPath, uint32(tk.st.Perm())); err != nil {
			return fmt.Errorf("mkfifo %s: %w", tk.dstPath, err)
		}
		w.opts.Stats.AddFifosCopied(1)
		if w.opts.preserve() {
			return w.applyMetadata(tk)
		}
		return nil
	}

	report, err := filecopy.Copy(filecopy.Request{
		Source:       tk.srcPath,
		Dest:         tk.dstPath,
		Reflink:      w.opts.Reflink,
		Sparse:       w.opts.Sparse,
		SourceIsFifo: true,
		Context:      w.label,
	})
	if err != nil {
		return err
	}
	w.logReport(tk, report)
	w.opts.Stats.AddFifosCopied(1)
	if w.opts.preserve() {
		return w.applyMetadata(tk)
	}
	return nil
}

func (w *worker) copyRegular(ctx context.Context, tk task) error {
	if err := os.MkdirAll(filepath.Dir(tk.dstPath), 0o755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", tk.dstPath, err)
	}

	report, err := filecopy.Copy(filecopy.Request{
		Source:  tk.srcPath,
		Dest:    tk.dstPath,
		Reflink: w.opts.Reflink,
		Sparse:  w.opts.Sparse,
		Context: w.label,
	})
	if err != nil {
		return err
	}
	w.logReport(tk, report)

	w.opts.Stats.AddFilesCopied(1)
	w.opts.Stats.AddBytesCopied(tk.st.Size)
	if report.Reflink == filecopy.ReflinkYes {
		w.opts.Stats.AddClonesUsed(1)
	}

	if err := ratelimit.Pay(ctx, w.limiter, tk.st.Size); err != nil {
		return err
	}

	if w.opts.Verify {
		if err := w.verify(tk); err != nil {
			return err
		}
	}

	if w.opts.preserve() {
		return w.applyMetadata(tk)
	}
	return nil
}

func (w *worker) verify(tk task) error {
	srcSum, err := hash.File(hash.Blake3, tk.srcPath)
	if err != nil {
		return fmt.Errorf("verify %s: %w", tk.srcPath, err)
	}
	dstSum, err := hash.File(hash.Blake3, tk.dstPath)
	if err != nil {
		return fmt.Errorf("verify %s: %w", tk.dstPath, err)
	}
	if srcSum != dstSum {
		return fmt.Errorf("verify %s: checksum mismatch (%s != %s)", tk.dstPath, srcSum, dstSum)
	}
	return nil
}

func (w *worker) applyMetadata(tk task) error {
	if err := os.Chmod(tk.dstPath, tk.st.Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", tk.dstPath, err)
	}

	times := []unix.Timespec{
		unix.NsecToTimespec(tk.st.AtimeNs),
		unix.NsecToTimespec(tk.st.MtimeNs),
	}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, tk.dstPath, times, 0); err != nil {
		return fmt.Errorf("utimensat %s: %w", tk.dstPath, err)
	}

	if w.opts.Archive {
		if err := copyXattrs(tk.srcPath, tk.dstPath); err != nil {
			return err
		}
	}

	// Ownership last — fails without CAP_CHOWN, which is fine.
	_ = os.Lchown(tk.dstPath, int(tk.st.Uid), int(tk.st.Gid))
	return nil
}

func (w *worker) logReport(tk task, report filecopy.Report) {
	if w.opts.Debug {
		slog.Debug("copied", "src", tk.srcPath, "dst", tk.dstPath, "report", report.String())
	}
}
