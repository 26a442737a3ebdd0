package parameter

// Chassis
const (
	ChassisMass        = 100.0
	ChassisHalfWidth   = 1.75
	ChassisHalfHeight  = 0.5
	ChassisHalfLength  = 4.0
	ChassisSpawnHeight = 6.0
)

// Wheels
const (
	WheelRadius = 0.9

	// WheelCount is fixed: front-right, front-left, rear-right, rear-left
	WheelCount = 4

	// Connection offsets relative to chassis centre
	WheelOffsetX     = 2.0
	WheelOffsetY     = -1.0
	WheelOffsetFront = 4.1
	WheelOffsetRear  = -3.9
)

// Suspension
const (
	SuspensionStiffness   = 250.0
	SuspensionRestLength  = 0.8
	SuspensionMaxTravel   = 0.5
	FrictionSlip          = 2.0
	DampingRelaxation     = 2.3
	DampingCompression    = 4.4
	MaxSuspensionForce    = 1000.0
	SideFrictionStiffness = 1.0

	// RollingFriction is the fraction of forward contact velocity removed per wheel per step
	RollingFriction = 0.0005

	// SideGrip is the fraction of lateral slip cancelled per wheel per step
	SideGrip = 0.2
)
