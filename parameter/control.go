package parameter

import "time"

// Engine toggle
const (
	// EngineKickForce is the X force applied at chassis position on engine start
	EngineKickForce = 150.0

	HeadlightsOff   = 0.0
	HeadlightsOn    = 20.0
	HeadlightsTurbo = 50.0
)

// Throttle
const (
	ThrottleForce   = 400.0
	ReverseForce    = -300.0
	ThrottleDamping = 0.3
)

// Steering
const (
	SteeringStep  = 0.05
	SteeringLimit = 0.5
)

// Brake heuristic, speeds in km/h
const (
	// BrakeFactorMin bounds how much horizontal velocity survives a brake press
	BrakeFactorMin   = 0.7
	BrakeFactorSlope = 0.02

	TiltSlope = 0.08 * 1.5
	TiltMax   = 8.0

	// TiltLift and TiltPitch scale the nose-dip impulse
	TiltLift  = 12.0
	TiltPitch = 3.0

	// TiltSpin scales the pitch angular velocity set on brake
	TiltSpin = 0.6

	SkidSpeedMin      = 40.0
	SkidJitter        = 0.1
	SkidSpeedScale    = 100.0
	SkidImpulse       = 100.0
	SkidTriggerSpeed  = 30.0
	SkidLateralMin    = 2.0
	BrakeCueSpeed     = 2.0
	BrakeDampingBase  = 0.8
	BrakeDampingSlope = 0.005
	BrakeDampingMax   = 0.99
)

// Turbo
const (
	TurboDuration = 6000 * time.Millisecond

	// TurboDriveBoost is added to drive force while turbo is active (cosmetic turbo when 0)
	TurboDriveBoost = 0.0
)

// Idle vibration and wheel spin
const (
	VibrationStep      = 0.02
	VibrationFreqY     = 10.0
	VibrationAmpY      = 0.0015
	VibrationFreqX     = 8.0
	VibrationAmpX      = 0.00075
	VibrationFreqRoll  = 12.0
	VibrationAmpRoll   = 0.002
	WheelSpinPerSpeed  = 0.05
	MetersPerSecToKmph = 3.6
)
