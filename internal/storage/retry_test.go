package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelayBounds(t *testing.T) {
	for attempt := 0; attempt < 20; attempt++ {
		d := RetryDelay(attempt)
		assert.GreaterOrEqual(t, d, RetryBaseDelay/2, "attempt %d", attempt)
		assert.LessOrEqual(t, d, RetryMaxDelay, "attempt %d", attempt)
	}
}

func TestRetryDelayGrows(t *testing.T) {
	assert.LessOrEqual(t, RetryDelay(0), RetryBaseDelay)
	assert.GreaterOrEqual(t, RetryDelay(10), RetryMaxDelay/2)
}

func TestWaitRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := WaitRetry(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), RetryMaxDelay)
}
