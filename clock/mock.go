package clock

import (
	"sync"
	"time"
)

// Mock is a manually advanced clock for tests
type Mock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMock creates a mock clock reading start
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

// Now returns the mocked time
func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set jumps the clock to t
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
