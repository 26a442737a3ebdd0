package input

import (
	"sort"
	"time"
)

// HoldTracker synthesizes key-up for inputs that only report presses.
// A key counts as held while its presses keep arriving within the timeout.
type HoldTracker struct {
	timeout  time.Duration
	lastSeen map[string]time.Time
}

// NewHoldTracker creates a tracker releasing keys after timeout without a repeat
func NewHoldTracker(timeout time.Duration) *HoldTracker {
	return &HoldTracker{
		timeout:  timeout,
		lastSeen: make(map[string]time.Time),
	}
}

// Press records a press and reports whether it started a new hold
func (h *HoldTracker) Press(key string, now time.Time) bool {
	_, held := h.lastSeen[key]
	h.lastSeen[key] = now
	return !held
}

// Expire releases keys not pressed within the timeout and returns them sorted
func (h *HoldTracker) Expire(now time.Time) []string {
	var released []string
	for k, seen := range h.lastSeen {
		if now.Sub(seen) >= h.timeout {
			released = append(released, k)
			delete(h.lastSeen, k)
		}
	}
	sort.Strings(released)
	return released
}

// ReleaseAll releases every held key and returns them sorted
func (h *HoldTracker) ReleaseAll() []string {
	released := make([]string, 0, len(h.lastSeen))
	for k := range h.lastSeen {
		released = append(released, k)
	}
	clear(h.lastSeen)
	sort.Strings(released)
	return released
}

// Held reports whether key is currently held
func (h *HoldTracker) Held(key string) bool {
	_, ok := h.lastSeen[key]
	return ok
}
