package engine

import (
	"time"

	"github.com/lixenwraith/vi-drive/control"
	"github.com/lixenwraith/vi-drive/render"
)

// Frame is what one driver tick produced
type Frame struct {
	Tick     uint64
	At       time.Time     // game time
	Elapsed  time.Duration // game time since the previous tick, clamped
	SubSteps int
	Paused   bool

	Control control.Outputs
	Scene   render.Scene
}

// FrameObserver receives every frame on the driver goroutine
type FrameObserver interface {
	OnFrame(f *Frame)
}

// ObserverFunc adapts a function to FrameObserver
type ObserverFunc func(f *Frame)

func (fn ObserverFunc) OnFrame(f *Frame) { fn(f) }
