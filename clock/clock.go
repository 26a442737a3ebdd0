// Package clock provides the time sources of the simulation: wall time,
// a pausable game clock layered over it, a controllable mock for tests and
// a one-shot cancellable timer polled from the frame loop.
package clock

import "time"

// Clock is anything that reports the current time
type Clock interface {
	Now() time.Time
}

// Wall reads the system monotonic clock
type Wall struct{}

// Now returns time.Now
func (Wall) Now() time.Time {
	return time.Now()
}
