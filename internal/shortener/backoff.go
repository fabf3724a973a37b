package shortener

import (
	"context"
	"math"
	"time"
)

// Backoff возвращает задержку перед повтором номер n (с нуля):
// min(base * 2^n, max). При base <= 0 задержки нет.
func Backoff(base, max time.Duration, n int) time.Duration {
	if base <= 0 {
		return 0
	}
	if n < 0 {
		n = 0
	}

	delay := base
	for i := 0; i < n; i++ {
		if max > 0 && delay >= max {
			return max
		}
		if delay > math.MaxInt64/2 {
			return delay
		}
		delay *= 2
	}
	if max > 0 && delay > max {
		return max
	}
	return delay
}

// SleepFunc ожидает d или отмены ctx
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep - SleepFunc на основе таймера
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
