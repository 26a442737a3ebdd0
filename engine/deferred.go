package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task runs once per attempt and reports whether it is finished
type Task func(now time.Time) bool

type deferredTask struct {
	name     string
	fn       Task
	interval time.Duration
	next     time.Time
	attempts int
}

// Deferred holds work retried from the frame loop until it reports done.
// Add is safe from any goroutine; Drain runs on the frame loop.
type Deferred struct {
	mu    sync.Mutex
	tasks []*deferredTask
	log   zerolog.Logger
}

// NewDeferred creates an empty task queue
func NewDeferred(log zerolog.Logger) *Deferred {
	return &Deferred{log: log.With().Str("component", "deferred").Logger()}
}

// Add queues fn to run on every drain until it returns true
func (d *Deferred) Add(name string, fn Task) {
	d.AddRetry(name, 0, fn)
}

// AddRetry queues fn to run at most once per interval until it returns true
func (d *Deferred) AddRetry(name string, interval time.Duration, fn Task) {
	d.mu.Lock()
	d.tasks = append(d.tasks, &deferredTask{name: name, fn: fn, interval: interval})
	d.mu.Unlock()
}

// Drain runs every due task and drops the finished ones. Returns how many remain.
func (d *Deferred) Drain(now time.Time) int {
	d.mu.Lock()
	due := make([]*deferredTask, 0, len(d.tasks))
	for _, t := range d.tasks {
		if !now.Before(t.next) {
			due = append(due, t)
		}
	}
	d.mu.Unlock()

	// Tasks run unlocked so they may Add follow-up work
	finished := make(map[*deferredTask]bool)
	for _, t := range due {
		t.attempts++
		if t.fn(now) {
			finished[t] = true
			d.log.Debug().Str("task", t.name).Int("attempts", t.attempts).Msg("deferred task done")
			continue
		}
		t.next = now.Add(t.interval)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(finished) > 0 {
		live := d.tasks[:0]
		for _, t := range d.tasks {
			if !finished[t] {
				live = append(live, t)
			}
		}
		for i := len(live); i < len(d.tasks); i++ {
			d.tasks[i] = nil
		}
		d.tasks = live
	}
	return len(d.tasks)
}

// Len returns the number of pending tasks
func (d *Deferred) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks)
}

// Pending reports whether a task with name is queued
func (d *Deferred) Pending(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range d.tasks {
		if t.name == name {
			return true
		}
	}
	return false
}
