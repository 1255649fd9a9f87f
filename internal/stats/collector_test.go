package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				c.AddFilesCopied(1)
				c.AddBytesCopied(10)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, int64(8000), snap.FilesCopied)
	assert.Equal(t, int64(80000), snap.BytesCopied)
}

func TestSnapshotZeroValue(t *testing.T) {
	var c Collector
	snap := c.Snapshot()
	assert.Zero(t, snap.FilesCopied)
	assert.Zero(t, snap.Elapsed)
}
