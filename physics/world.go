package physics

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-drive/parameter"
)

// PreStepFunc runs at the start of every fixed step, before integration
type PreStepFunc func(dt float64)

// World owns bodies, gravity and the fixed-step accumulator
type World struct {
	gravity mgl64.Vec3
	bodies  []*Body
	nextID  int

	preStep []PreStepFunc

	step        float64 // seconds per fixed step
	maxSubSteps int
	accumulator float64
	time        float64
	steps       uint64
}

// NewWorld creates an empty world with default gravity and step
func NewWorld() *World {
	return &World{
		gravity:     mgl64.Vec3{0, parameter.GravityY, 0},
		step:        parameter.FixedStepDuration.Seconds(),
		maxSubSteps: parameter.MaxSubSteps,
	}
}

// Gravity returns the world gravity vector
func (w *World) Gravity() mgl64.Vec3 { return w.gravity }

// SetGravity replaces the world gravity vector
func (w *World) SetGravity(g mgl64.Vec3) { w.gravity = g }

// SetStep configures the fixed step length and the per-call substep cap
func (w *World) SetStep(step time.Duration, maxSubSteps int) {
	if step > 0 {
		w.step = step.Seconds()
	}
	if maxSubSteps > 0 {
		w.maxSubSteps = maxSubSteps
	}
}

// Time returns simulated seconds
func (w *World) Time() float64 { return w.time }

// Steps returns the number of fixed steps taken
func (w *World) Steps() uint64 { return w.steps }

// Bodies returns the registered bodies; callers must not modify the slice
func (w *World) Bodies() []*Body { return w.bodies }

// AddBody registers a body and assigns its ID
func (w *World) AddBody(b *Body) {
	w.nextID++
	b.id = w.nextID
	w.bodies = append(w.bodies, b)
}

// RemoveBody unregisters a body; reports whether it was present
func (w *World) RemoveBody(b *Body) bool {
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return true
		}
	}
	return false
}

// AddPreStep registers a callback run at the start of every fixed step
func (w *World) AddPreStep(fn PreStepFunc) {
	w.preStep = append(w.preStep, fn)
}

// FixedStep accumulates elapsed time and runs whole fixed steps, at most maxSubSteps.
// Time beyond the cap is discarded. Returns the number of steps taken.
func (w *World) FixedStep(elapsed time.Duration) int {
	if elapsed > 0 {
		w.accumulator += elapsed.Seconds()
	}
	n := 0
	for w.accumulator >= w.step && n < w.maxSubSteps {
		w.Step(w.step)
		w.accumulator -= w.step
		n++
	}
	if n == w.maxSubSteps && w.accumulator >= w.step {
		w.accumulator = 0
	}
	return n
}

// Step advances the simulation by exactly dt seconds
func (w *World) Step(dt float64) {
	for _, fn := range w.preStep {
		fn(dt)
	}

	for _, b := range w.bodies {
		if b.kind == Dynamic {
			b.integrateVelocity(w.gravity, dt)
		}
	}

	w.solveGroundContacts(dt)

	for _, b := range w.bodies {
		if b.kind == Dynamic {
			b.integratePosition(dt)
		}
	}

	w.time += dt
	w.steps++
}

// groundHeight returns the plane height if any static plane exists
func (w *World) groundHeight() (float64, bool) {
	for _, b := range w.bodies {
		if b.kind == Static && b.shape.Kind == ShapePlane {
			return b.position[1], true
		}
	}
	return 0, false
}
