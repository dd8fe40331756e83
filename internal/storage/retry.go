package storage

import (
	"context"
	"math/rand/v2"
	"time"
)

// Retry delays between conditional update attempts
const (
	RetryBaseDelay = time.Millisecond
	RetryMaxDelay  = 50 * time.Millisecond
)

// RetryDelay returns a jittered delay for the given zero-based attempt,
// doubling from RetryBaseDelay up to RetryMaxDelay. The result lies in
// [d/2, d] for the uncapped delay d.
func RetryDelay(attempt int) time.Duration {
	d := RetryBaseDelay
	for i := 0; i < attempt && d < RetryMaxDelay; i++ {
		d *= 2
	}
	if d > RetryMaxDelay {
		d = RetryMaxDelay
	}
	half := d / 2
	return half + rand.N(half+1)
}

// WaitRetry sleeps for RetryDelay(attempt) or until ctx is done
func WaitRetry(ctx context.Context, attempt int) error {
	timer := time.NewTimer(RetryDelay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
