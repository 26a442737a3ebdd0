package engine

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDeferredRetriesUntilDone(t *testing.T) {
	d := NewDeferred(zerolog.Nop())
	calls := 0
	d.Add("attach", func(time.Time) bool {
		calls++
		return calls == 3
	})

	now := time.Unix(0, 0)
	assert.Equal(t, 1, d.Drain(now))
	assert.Equal(t, 1, d.Drain(now))
	assert.Equal(t, 0, d.Drain(now))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, d.Drain(now), "finished task never reruns")
	assert.Equal(t, 3, calls)
}

func TestDeferredRetryInterval(t *testing.T) {
	d := NewDeferred(zerolog.Nop())
	var attempts []time.Time
	d.AddRetry("audio", 2*time.Second, func(now time.Time) bool {
		attempts = append(attempts, now)
		return false
	})

	start := time.Unix(100, 0)
	for ms := 0; ms <= 5000; ms += 100 {
		d.Drain(start.Add(time.Duration(ms) * time.Millisecond))
	}
	assert.Equal(t, []time.Time{start, start.Add(2 * time.Second), start.Add(4 * time.Second)}, attempts)
	assert.True(t, d.Pending("audio"))
	assert.False(t, d.Pending("db"))
}

func TestDeferredTaskMayQueueFollowUp(t *testing.T) {
	d := NewDeferred(zerolog.Nop())
	ran := false
	d.Add("first", func(time.Time) bool {
		d.Add("second", func(time.Time) bool {
			ran = true
			return true
		})
		return true
	})

	now := time.Unix(0, 0)
	assert.Equal(t, 1, d.Drain(now))
	assert.False(t, ran)
	assert.Equal(t, 0, d.Drain(now))
	assert.True(t, ran)
	assert.Equal(t, 0, d.Len())
}
