package control

import "time"

// State is the controller-owned vehicle control state
type State struct {
	EngineOn          bool
	Steering          float64 // radians, [-SteeringLimit, SteeringLimit], positive is left
	AccelerationForce float64 // newtons on each rear wheel
	TurboActive       bool
	Headlights        float64

	// VibrationTime advances by a fixed step every tick the engine runs
	VibrationTime float64

	// EngineTime is seconds of simulated time with the engine on
	EngineTime float64

	// Speed is horizontal chassis speed in km/h, refreshed after each physics advance
	Speed float64

	// TurboUntil is the pending turbo deadline, zero when none
	TurboUntil time.Time
}

// Outputs is the per-tick result of Update
type Outputs struct {
	State State

	// Event counts for this tick
	Brakes      int
	Skids       int
	TurboStarts int
	TurboEnds   int
}
