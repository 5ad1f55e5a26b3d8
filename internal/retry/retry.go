// Package retry provides a bounded retry primitive with exponential backoff.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/DehydratedMud/go-triton/internal/pool"
)

// Policy bounds a retry loop.
type Policy struct {
	// MaxRetries is the number of calls allowed after the first one.
	MaxRetries int
	// Interval is the delay before the first retry.
	Interval time.Duration
	// Factor multiplies the delay after every retry. Values below 1 keep the delay constant.
	Factor float64
	// MaxInterval caps the delay. Zero means no cap.
	MaxInterval time.Duration
}

// Once returns a policy allowing a single retry after interval.
func Once(interval time.Duration) Policy {
	return Policy{MaxRetries: 1, Interval: interval, Factor: 1}
}

// Delay returns the wait before retry n, counted from 1.
func (p Policy) Delay(n int) time.Duration {
	d := p.Interval
	for i := 1; i < n && p.Factor > 1; i++ {
		next := float64(d) * p.Factor
		if next >= math.MaxInt64 {
			d = math.MaxInt64
			break
		}
		d = time.Duration(next)
		if p.MaxInterval > 0 && d >= p.MaxInterval {
			return p.MaxInterval
		}
	}
	if p.MaxInterval > 0 && d > p.MaxInterval {
		return p.MaxInterval
	}

	return d
}

// Func is one attempt. attempt is 0 for the first call. It reports whether the
// loop is done; a non-nil error stops the loop immediately.
type Func func(ctx context.Context, attempt int) (done bool, err error)

// Do calls fn once, then retries while fn is not done and retries remain,
// waiting Delay(n) before retry n. It returns whether fn reported done.
func Do(ctx context.Context, p Policy, fn Func) (bool, error) {
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := pool.Sleep(ctx, p.Delay(attempt)); err != nil {
				return false, err
			}
		}

		done, err := fn(ctx, attempt)
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
		if attempt >= p.MaxRetries {
			return false, nil
		}
	}
}
