package clock

import "time"

// Timer is a one-shot deadline checked by Poll from a single goroutine.
// The zero value is idle.
type Timer struct {
	deadline time.Time
	armed    bool
	fn       func()
}

// Schedule arms the timer to run fn once d after now, replacing any pending run
func (t *Timer) Schedule(now time.Time, d time.Duration, fn func()) {
	t.deadline = now.Add(d)
	t.armed = true
	t.fn = fn
}

// Cancel disarms the timer; reports whether a run was pending
func (t *Timer) Cancel() bool {
	was := t.armed
	t.armed = false
	t.fn = nil
	return was
}

// Pending reports whether a run is scheduled
func (t *Timer) Pending() bool {
	return t.armed
}

// Deadline returns the scheduled fire time, zero when idle
func (t *Timer) Deadline() time.Time {
	if !t.armed {
		return time.Time{}
	}
	return t.deadline
}

// Poll runs the callback if the deadline has passed and reports whether it fired
func (t *Timer) Poll(now time.Time) bool {
	if !t.armed || now.Before(t.deadline) {
		return false
	}
	fn := t.fn
	t.armed = false
	t.fn = nil
	if fn != nil {
		fn()
	}
	return true
}
