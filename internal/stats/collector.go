// Package stats tracks counters for a cp run using lock-free atomics, so
// parallel copy workers never contend on a mutex.
package stats

import (
	"sync/atomic"
	"time"
)

// Collector accumulates counters across scanner and copy workers.
type Collector struct {
	filesCopied      atomic.Int64
	filesFailed      atomic.Int64
	bytesCopied      atomic.Int64
	dirsCreated      atomic.Int64
	symlinksCreated  atomic.Int64
	hardlinksCreated atomic.Int64
	fifosCopied      atomic.Int64
	clonesUsed       atomic.Int64
	startTime        time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) AddFilesCopied(n int64)      { c.filesCopied.Add(n) }
func (c *Collector) AddFilesFailed(n int64)      { c.filesFailed.Add(n) }
func (c *Collector) AddBytesCopied(n int64)      { c.bytesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64)      { c.dirsCreated.Add(n) }
func (c *Collector) AddSymlinksCreated(n int64)  { c.symlinksCreated.Add(n) }
func (c *Collector) AddHardlinksCreated(n int64) { c.hardlinksCreated.Add(n) }
func (c *Collector) AddFifosCopied(n int64)      { c.fifosCopied.Add(n) }
func (c *Collector) AddClonesUsed(n int64)       { c.clonesUsed.Add(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesCopied      int64
	FilesFailed      int64
	BytesCopied      int64
	DirsCreated      int64
	SymlinksCreated  int64
	HardlinksCreated int64
	FifosCopied      int64
	ClonesUsed       int64
	Elapsed          time.Duration
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesCopied:      c.filesCopied.Load(),
		FilesFailed:      c.filesFailed.Load(),
		BytesCopied:      c.bytesCopied.Load(),
		DirsCreated:      c.dirsCreated.Load(),
		SymlinksCreated:  c.symlinksCreated.Load(),
		HardlinksCreated: c.hardlinksCreated.Load(),
		FifosCopied:      c.fifosCopied.Load(),
		ClonesUsed:       c.clonesUsed.Load(),
		Elapsed:          c.Elapsed(),
	}
}

// Elapsed returns the wall time since the collector was created.
func (c *Collector) Elapsed() time.Duration {
	if c.startTime.IsZero() {
		return 0
	}
	return time.Since(c.startTime)
}
