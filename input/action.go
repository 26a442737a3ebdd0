package input

// Action is a platform-independent input command
type Action uint8

const (
	ActionNone Action = iota

	// Driving
	ActionEngine
	ActionThrottle
	ActionReverse
	ActionSteerLeft
	ActionSteerRight
	ActionBrake
	ActionTurbo

	// Camera
	ActionOrbitLeft
	ActionOrbitRight
	ActionOrbitUp
	ActionOrbitDown

	// System
	ActionPause
	ActionQuit

	actionCount
)

// String returns the canonical config name of the action
func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "unknown"
}

// IsDrive reports whether the action belongs to the vehicle controller
func (a Action) IsDrive() bool {
	return a >= ActionEngine && a <= ActionTurbo
}

// IsOrbit reports whether the action moves the camera
func (a Action) IsOrbit() bool {
	return a >= ActionOrbitLeft && a <= ActionOrbitDown
}

// ReleasesDrive reports whether key-up of this action clears drive force and steering
func (a Action) ReleasesDrive() bool {
	return a == ActionThrottle || a == ActionReverse || a == ActionBrake
}

// ReleasesSteering reports whether key-up of this action centres the steering
func (a Action) ReleasesSteering() bool {
	return a == ActionSteerLeft || a == ActionSteerRight
}
