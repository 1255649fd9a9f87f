// Package filecopy decides, for one source/destination pair, which
// low-level technique duplicates the bytes — a copy-on-write clone, a
// hole-creating sparse copy, an extent-preserving copy, or a plain byte
// stream — and executes it. The choice is driven by the two user-supplied
// modes (--reflink, --sparse) refined by a runtime probe of the source.
//
// Callers own everything around the copy: path resolution, recursion,
// attribute preservation, overwrite policy. One call copies one file.
package filecopy

import (
	"errors"
	"fmt"
	"os"

	"github.com/oxtool/ox/internal/platform"
)

// ReflinkMode controls use of copy-on-write clones.
type ReflinkMode int

const (
	ReflinkNever ReflinkMode = iota
	ReflinkAuto
	ReflinkAlways
)

// SparseMode controls hole handling in the destination.
type SparseMode int

const (
	SparseAuto SparseMode = iota
	SparseAlways
	SparseNever
)

// ParseReflinkMode converts a --reflink argument.
func ParseReflinkMode(s string) (ReflinkMode, error) {
	switch s {
	case "never":
		return ReflinkNever, nil
	case "auto":
		return ReflinkAuto, nil
	case "always":
		return ReflinkAlways, nil
	}
	return 0, fmt.Errorf("invalid argument %q for 'reflink'", s)
}

// ParseSparseMode converts a --sparse argument.
func ParseSparseMode(s string) (SparseMode, error) {
	switch s {
	case "auto":
		return SparseAuto, nil
	case "always":
		return SparseAlways, nil
	case "never":
		return SparseNever, nil
	}
	return 0, fmt.Errorf("invalid argument %q for 'sparse'", s)
}

func (m ReflinkMode) String() string {
	switch m {
	case ReflinkNever:
		return "never"
	case ReflinkAuto:
		return "auto"
	case ReflinkAlways:
		return "always"
	default:
		return "unknown"
	}
}

func (m SparseMode) String() string {
	switch m {
	case SparseAuto:
		return "auto"
	case SparseAlways:
		return "always"
	case SparseNever:
		return "never"
	default:
		return "unknown"
	}
}

// OffloadState records whether an accelerated (offloaded) copy ran.
type OffloadState int

const (
	OffloadUnknown OffloadState = iota
	OffloadYes
	OffloadNo
	OffloadAvoided     // acceleration skipped up front (FIFO, virtual file)
	OffloadUnsupported // acceleration attempted and refused by the kernel/fs
)

func (s OffloadState) String() string {
	switch s {
	case OffloadYes:
		return "yes"
	case OffloadNo:
		return "no"
	case OffloadAvoided:
		return "avoided"
	case OffloadUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// ReflinkState records whether a copy-on-write clone ran.
type ReflinkState int

const (
	ReflinkUnknown ReflinkState = iota
	ReflinkYes
	ReflinkNo
	ReflinkUnsupported
)

func (s ReflinkState) String() string {
	switch s {
	case ReflinkYes:
		return "yes"
	case ReflinkNo:
		return "no"
	case ReflinkUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// SparseDetection records which hole-discovery technique informed the
// strategy choice.
type SparseDetection int

const (
	SparseDetectionNo SparseDetection = iota
	SparseDetectionZeros
	SparseDetectionSeekHole
	SparseDetectionSeekHoleZeros
)

func (s SparseDetection) String() string {
	switch s {
	case SparseDetectionZeros:
		return "zeros"
	case SparseDetectionSeekHole:
		return "SEEK_HOLE"
	case SparseDetectionSeekHoleZeros:
		return "SEEK_HOLE + zeros"
	default:
		return "no"
	}
}

// Report describes the technique that actually ran, for optional display
// by the caller. It reflects execution, not intent.
type Report struct {
	Offload         OffloadState
	Reflink         ReflinkState
	SparseDetection SparseDetection
}

func (r Report) String() string {
	return fmt.Sprintf("copy offload: %s, reflink: %s, sparse detection: %s",
		r.Offload, r.Reflink, r.SparseDetection)
}

// Request describes one single-file copy. Immutable for the duration of
// one Copy call.
type Request struct {
	Source       string
	Dest         string
	Reflink      ReflinkMode
	Sparse       SparseMode
	SourceIsFifo bool
	Context      string // opaque label attached to error messages
}

// ErrInvalidModes is returned when --reflink=always is combined with a
// sparse mode other than auto. Detected before any filesystem access.
var ErrInvalidModes = errors.New("--reflink=always can be used only with --sparse=auto")

// cloneFile is swappable so tests can force clone failure on filesystems
// where FICLONE would otherwise succeed (or vice versa).
var cloneFile = platform.CloneFile

// Copy duplicates the bytes of req.Source into req.Dest using the
// strategy picked by the mode pair and the source probe. The returned
// Report describes what actually ran.
func Copy(req Request) (Report, error) {
	if req.Reflink == ReflinkAlways && req.Sparse != SparseAuto {
		return Report{}, req.wrap(ErrInvalidModes)
	}

	// Named pipes have no size or extent map; nothing below applies.
	if req.SourceIsFifo {
		if _, err := copyFifo(req.Source, req.Dest); err != nil {
			return Report{}, req.wrap(err)
		}
		return Report{
			Offload:         OffloadAvoided,
			Reflink:         ReflinkUnknown,
			SparseDetection: SparseDetectionNo,
		}, nil
	}

	if req.Reflink == ReflinkAlways {
		// Clone or fail loudly; the caller asked for the storage
		// guarantee, so no silent fallback.
		if err := cloneAttempt(req.Source, req.Dest); err != nil {
			return Report{}, req.wrap(err)
		}
		return Report{
			Offload:         OffloadYes,
			Reflink:         ReflinkYes,
			SparseDetection: SparseDetectionNo,
		}, nil
	}

	src, err := os.Open(req.Source)
	if err != nil {
		return Report{}, req.wrap(err)
	}
	defer src.Close()

	pr, err := probeSource(src)
	if err != nil {
		return Report{}, req.wrap(err)
	}

	// A pre-existing FIFO at the destination cannot be truncated or
	// hole-punched; those branches degrade to a plain stream.
	destFifo := destIsFifo(req.Dest)

	report, err := execute(req, src, pr, destFifo)
	if err != nil {
		return report, req.wrap(err)
	}
	return report, nil
}

func (req Request) wrap(err error) error {
	if req.Context == "" {
		return err
	}
	return fmt.Errorf("%s: %w", req.Context, err)
}

// destIsFifo reports whether a file already exists at path and is a named
// pipe. A missing destination is simply not a FIFO.
func destIsFifo(path string) bool {
	st, err := platform.Stat(path)
	return err == nil && st.IsFifo()
}

// execute runs the (reflink, sparse) policy matrix for a regular-file
// source. The probe result refines each branch; the clone attempt's own
// outcome is the only additional runtime input, consumed by Auto-reflink
// branches.
func execute(req Request, src *os.File, pr probeResult, destFifo bool) (Report, error) {
	perm := pr.perm

	switch req.Reflink {
	case ReflinkNever:
		report := Report{Offload: OffloadNo, Reflink: ReflinkNo}
		return runSparse(req, src, pr, destFifo, perm, report)

	case ReflinkAuto:
		if err := cloneAttempt(req.Source, req.Dest); err == nil {
			return Report{
				Offload:         OffloadYes,
				Reflink:         ReflinkYes,
				SparseDetection: SparseDetectionNo,
			}, nil
		}
		// The failed attempt left the destination empty; the fallback
		// copier recreates it.
		report := Report{Offload: OffloadUnsupported, Reflink: ReflinkNo}
		return runSparse(req, src, pr, destFifo, perm, report)

	default:
		return Report{}, fmt.Errorf("unhandled reflink mode %d", req.Reflink)
	}
}

// runSparse picks the copier for the sparse mode, after reflink handling
// is out of the way. The base report carries the offload/reflink states
// already established by the caller; probe-driven avoidance upgrades them.
func runSparse(req Request, src *os.File, pr probeResult, destFifo bool, perm os.FileMode, base Report) (Report, error) {
	switch req.Sparse {
	case SparseNever:
		base.SparseDetection = SparseDetectionNo
		return base, plainCopy(src, req.Dest, pr.size, perm, destFifo)

	case SparseAlways:
		base.SparseDetection = sparseDetectionFor(pr, SparseAlways)
		if pr.virtual() || destFifo {
			return avoided(base), plainCopy(src, req.Dest, pr.size, perm, destFifo)
		}
		return base, copyCreatingHoles(src, req.Dest, pr.size, perm)

	case SparseAuto:
		base.SparseDetection = sparseDetectionFor(pr, SparseAuto)
		if pr.virtual() || destFifo {
			return avoided(base), plainCopy(src, req.Dest, pr.size, perm, destFifo)
		}
		if pr.sparse {
			return base, copyPreservingExtents(src, req.Dest, pr.size, perm)
		}
		return base, plainCopy(src, req.Dest, pr.size, perm, destFifo)

	default:
		return base, fmt.Errorf("unhandled sparse mode %d", req.Sparse)
	}
}

// avoided marks a probe-driven decision to skip acceleration. A clone
// attempt that already failed stays Unsupported: the attempt happened, so
// the report may not claim it was avoided.
func avoided(base Report) Report {
	if base.Offload != OffloadUnsupported {
		base.Offload = OffloadAvoided
	}
	return base
}

// sparseDetectionFor names the hole-discovery technique that informed the
// decision. Under sparse=always both the probe's extent query and the
// copier's zero-run scan contribute (unless the probe never consulted the
// extent map); under sparse=auto only the extent map does.
func sparseDetectionFor(pr probeResult, mode SparseMode) SparseDetection {
	switch mode {
	case SparseAlways:
		if pr.usedExtentQuery {
			return SparseDetectionSeekHoleZeros
		}
		return SparseDetectionZeros
	case SparseAuto:
		if pr.usedExtentQuery {
			return SparseDetectionSeekHole
		}
		return SparseDetectionZeros
	default:
		return SparseDetectionNo
	}
}
