// Package ratelimit provides the token bucket behind cp's --bwlimit flag.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

const maxBurst = 1 << 20 // 1 MiB

// NewBWLimiter creates a rate.Limiter capping aggregate throughput to
// bytesPerSec. The burst is 1 MiB so natural copy-sized chunks pass
// without blocking on every small read.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := maxBurst
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// Pay charges n bytes against the limiter, blocking until the bucket has
// refilled. Charges are split into burst-sized chunks because WaitN
// rejects requests larger than the burst outright.
func Pay(ctx context.Context, l *rate.Limiter, n int64) error {
	if l == nil || n <= 0 {
		return nil
	}
	burst := int64(l.Burst())
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := l.WaitN(ctx, int(chunk)); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
