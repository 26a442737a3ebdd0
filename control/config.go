package control

import (
	"time"

	"github.com/lixenwraith/vi-drive/parameter"
)

// Turbo retrigger modes
const (
	// RetriggerReschedule cancels a pending turbo end and schedules a new one
	RetriggerReschedule = "reschedule"

	// RetriggerStack keeps every pending turbo end, so an earlier press can end a later boost early
	RetriggerStack = "stack"
)

// Config holds controller tuning
type Config struct {
	KickForce       float64
	ThrottleForce   float64
	ReverseForce    float64
	ThrottleDamping float64
	SteeringStep    float64
	SteeringLimit   float64
	HeadlightsOn    float64
	HeadlightsTurbo float64
	TurboDuration   time.Duration
	TurboRetrigger  string
	TurboDriveBoost float64
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		KickForce:       parameter.EngineKickForce,
		ThrottleForce:   parameter.ThrottleForce,
		ReverseForce:    parameter.ReverseForce,
		ThrottleDamping: parameter.ThrottleDamping,
		SteeringStep:    parameter.SteeringStep,
		SteeringLimit:   parameter.SteeringLimit,
		HeadlightsOn:    parameter.HeadlightsOn,
		HeadlightsTurbo: parameter.HeadlightsTurbo,
		TurboDuration:   parameter.TurboDuration,
		TurboRetrigger:  RetriggerReschedule,
		TurboDriveBoost: parameter.TurboDriveBoost,
	}
}
