package parameter

import "time"

// World
const (
	// GravityY is the world gravity along +Y in m/s²
	GravityY = -9.82

	// FixedTimeStep is the physics step in seconds (60 Hz)
	FixedTimeStep = 1.0 / 60.0

	// FixedStepDuration is FixedTimeStep as a duration
	FixedStepDuration = time.Second / 60

	// MaxSubSteps caps physics steps per frame so a stalled frame cannot spiral
	MaxSubSteps = 10

	// MaxFrameDelta clamps the elapsed time fed to the accumulator
	MaxFrameDelta = 250 * time.Millisecond
)

// Body defaults
const (
	// DefaultLinearDamping is the velocity decay fraction per second for new bodies
	DefaultLinearDamping = 0.01

	// DefaultAngularDamping is the spin decay fraction per second for new bodies
	DefaultAngularDamping = 0.01
)

// Ground contact between chassis hull and the plane
const (
	// ContactFriction is the Coulomb coefficient for hull scraping the ground
	ContactFriction = 0.3

	// ContactRestitution is the bounce of hull-ground impacts
	ContactRestitution = 0.0

	// ContactBaumgarte is the fraction of penetration corrected per step
	ContactBaumgarte = 0.2

	// ContactSlop is penetration depth tolerated without correction
	ContactSlop = 0.005
)
