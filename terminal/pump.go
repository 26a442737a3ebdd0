package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-drive/clock"
	"github.com/lixenwraith/vi-drive/event"
	"github.com/lixenwraith/vi-drive/input"
	"github.com/lixenwraith/vi-drive/parameter"
)

// Pump translates terminal key presses into key-down events and synthesizes
// the matching key-up once a key stops repeating.
type Pump struct {
	keys     *input.KeyTable
	hold     *input.HoldTracker
	queue    *event.Queue
	clock    clock.Clock
	onResize func()
	log      zerolog.Logger
}

// NewPump creates a pump writing into queue; keys released after timeout without a repeat
func NewPump(keys *input.KeyTable, queue *event.Queue, clk clock.Clock, timeout time.Duration, log zerolog.Logger) *Pump {
	return &Pump{
		keys:  keys,
		hold:  input.NewHoldTracker(timeout),
		queue: queue,
		clock: clk,
		log:   log.With().Str("component", "pump").Logger(),
	}
}

// OnResize sets the callback for terminal size changes
func (p *Pump) OnResize(fn func()) {
	p.onResize = fn
}

// HandleEvent routes one terminal event
func (p *Pump) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		p.HandleKey(input.KeyName(ev), p.clock.Now())
	case *tcell.EventResize:
		if p.onResize != nil {
			p.onResize()
		}
	}
}

// HandleKey pushes a key-down for a bound key name; unbound keys are ignored
func (p *Pump) HandleKey(name string, now time.Time) {
	a := p.keys.Lookup(name)
	if a == input.ActionNone {
		p.log.Debug().Str("key", name).Msg("unbound key")
		return
	}
	p.hold.Press(name, now)
	p.queue.Push(event.Down(a, name, now))
}

// Expire pushes key-up for keys whose repeats stopped
func (p *Pump) Expire(now time.Time) int {
	released := p.hold.Expire(now)
	p.release(released, now)
	return len(released)
}

// ReleaseAll pushes key-up for every held key
func (p *Pump) ReleaseAll() {
	p.release(p.hold.ReleaseAll(), p.clock.Now())
}

func (p *Pump) release(names []string, now time.Time) {
	for _, name := range names {
		if a := p.keys.Lookup(name); a != input.ActionNone {
			p.queue.Push(event.Up(a, name, now))
		}
	}
}

// Run pumps events until ctx ends or events closes, then releases held keys
func (p *Pump) Run(ctx context.Context, events <-chan tcell.Event) {
	ticker := time.NewTicker(parameter.InputPollInterval)
	defer ticker.Stop()
	defer p.ReleaseAll()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			p.HandleEvent(ev)
		case <-ticker.C:
			p.Expire(p.clock.Now())
		}
	}
}
