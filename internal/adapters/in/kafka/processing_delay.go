package kafka

import (
	"context"
	"math/rand/v2"
	"time"
)

// ProcessingDelay is the simulated work between OrderProcessingStarted and the
// outcome decision. A zero ProcessingDelay does not wait.
type ProcessingDelay struct {
	Min time.Duration
	Max time.Duration
}

// DefaultProcessingDelay returns a delay between 200ms and 3s.
func DefaultProcessingDelay() ProcessingDelay {
	return ProcessingDelay{Min: 200 * time.Millisecond, Max: 3 * time.Second}
}

// Next draws a uniformly distributed duration in [Min, Max].
func (d ProcessingDelay) Next() time.Duration {
	if d.Max <= d.Min {
		return max(d.Min, 0)
	}
	return d.Min + time.Duration(rand.Int64N(int64(d.Max-d.Min)+1))
}

// Wait sleeps for Next() and returns ctx.Err() if ctx ends first.
func (d ProcessingDelay) Wait(ctx context.Context) error {
	wait := d.Next()
	if wait <= 0 {
		return ctx.Err()
	}
	if !sleep(ctx, wait) {
		return ctx.Err()
	}
	return nil
}
