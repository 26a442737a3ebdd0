package event

import (
	"time"

	"github.com/lixenwraith/vi-drive/input"
)

// Type classifies an input event
type Type uint8

const (
	// KeyDown is a press or an auto-repeat of a bound key
	KeyDown Type = iota + 1

	// KeyUp is a release, real or synthesized after the hold timeout
	KeyUp
)

func (t Type) String() string {
	switch t {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	}
	return "invalid"
}

// Event is one discrete input, already mapped to an action
type Event struct {
	Type   Type
	Action input.Action
	Key    string
	At     time.Time
}

// Down builds a key-down event
func Down(a input.Action, key string, at time.Time) Event {
	return Event{Type: KeyDown, Action: a, Key: key, At: at}
}

// Up builds a key-up event
func Up(a input.Action, key string, at time.Time) Event {
	return Event{Type: KeyUp, Action: a, Key: key, At: at}
}
