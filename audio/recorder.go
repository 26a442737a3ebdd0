package audio

import (
	"errors"
	"sync"
)

// ErrDisabled is returned by Initialize when audio is switched off in config
var ErrDisabled = errors.New("audio disabled")

// Call is one recorded player invocation
type Call struct {
	Cue  Cue
	Stop bool
}

// Recorder is an in-memory CuePlayer that keeps every call in order.
// Used headless and by tests.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) Play(c Cue) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Cue: c})
	r.mu.Unlock()
}

func (r *Recorder) Stop(c Cue) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Cue: c, Stop: true})
	r.mu.Unlock()
}

// Calls returns a copy of the recorded calls
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Played returns the cues started, in order
func (r *Recorder) Played() []Cue {
	var out []Cue
	for _, c := range r.Calls() {
		if !c.Stop {
			out = append(out, c.Cue)
		}
	}
	return out
}

// Count returns how many times c was started
func (r *Recorder) Count(c Cue) int {
	n := 0
	for _, p := range r.Played() {
		if p == c {
			n++
		}
	}
	return n
}

// Stopped reports whether c was ever stopped
func (r *Recorder) Stopped(c Cue) bool {
	for _, call := range r.Calls() {
		if call.Stop && call.Cue == c {
			return true
		}
	}
	return false
}

// Reset forgets every recorded call
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

var (
	_ CuePlayer = (*Recorder)(nil)
	_ CuePlayer = (*Manager)(nil)
)
