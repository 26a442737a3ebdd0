package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Pausable reports game time: elapsed source time minus every paused interval
type Pausable struct {
	mu sync.RWMutex

	source Clock
	epoch  time.Time // source time at creation

	paused     atomic.Bool
	pauseStart time.Time     // source time the current pause began
	pausedFor  time.Duration // accumulated paused time, excluding the current pause
}

// NewPausable creates a running clock over the wall clock
func NewPausable() *Pausable {
	return NewPausableFrom(Wall{})
}

// NewPausableFrom creates a running clock driven by source
func NewPausableFrom(source Clock) *Pausable {
	return &Pausable{
		source: source,
		epoch:  source.Now(),
	}
}

// Now returns game time, frozen while paused
func (p *Pausable) Now() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.paused.Load() {
		return p.epoch.Add(p.pauseStart.Sub(p.epoch) - p.pausedFor)
	}
	return p.epoch.Add(p.source.Now().Sub(p.epoch) - p.pausedFor)
}

// Pause freezes game time; no-op when already paused
func (p *Pausable) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused.Load() {
		p.pauseStart = p.source.Now()
		p.paused.Store(true)
	}
}

// Resume continues game time from where it froze
func (p *Pausable) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused.Load() {
		p.pausedFor += p.source.Now().Sub(p.pauseStart)
		p.pauseStart = time.Time{}
		p.paused.Store(false)
	}
}

// Toggle flips the pause state and returns the new state
func (p *Pausable) Toggle() bool {
	if p.paused.Load() {
		p.Resume()
		return false
	}
	p.Pause()
	return true
}

// IsPaused reports the pause state
func (p *Pausable) IsPaused() bool {
	return p.paused.Load()
}

// PausedFor returns total paused time including any pause in progress
func (p *Pausable) PausedFor() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	total := p.pausedFor
	if p.paused.Load() {
		total += p.source.Now().Sub(p.pauseStart)
	}
	return total
}
