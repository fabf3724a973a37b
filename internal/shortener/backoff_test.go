package shortener

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		name string
		base time.Duration
		max  time.Duration
		n    int
		want time.Duration
	}{
		{name: "First retry", base: 2 * time.Second, max: 30 * time.Second, n: 0, want: 2 * time.Second},
		{name: "Doubles", base: 2 * time.Second, max: 30 * time.Second, n: 1, want: 4 * time.Second},
		{name: "Doubles again", base: 2 * time.Second, max: 30 * time.Second, n: 3, want: 16 * time.Second},
		{name: "Capped", base: 2 * time.Second, max: 30 * time.Second, n: 4, want: 30 * time.Second},
		{name: "Huge attempt capped", base: 2 * time.Second, max: 30 * time.Second, n: 1000, want: 30 * time.Second},
		{name: "No cap", base: time.Millisecond, max: 0, n: 10, want: 1024 * time.Millisecond},
		{name: "Zero base", base: 0, max: time.Second, n: 5, want: 0},
		{name: "Negative attempt", base: time.Second, max: time.Minute, n: -1, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Backoff(tt.base, tt.max, tt.n))
		})
	}
}

func TestBackoff_Monotonic(t *testing.T) {
	prev := time.Duration(0)
	for n := 0; n < 20; n++ {
		d := Backoff(100*time.Millisecond, 10*time.Second, n)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func TestSleep(t *testing.T) {
	start := time.Now()
	assert.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Sleep(ctx, 0), context.Canceled)
}
