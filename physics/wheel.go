package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-drive/parameter"
)

// Wheel positions in the fixed order expected by the controller
const (
	FrontRight = iota
	FrontLeft
	RearRight
	RearLeft
)

// WheelSpec describes one raycast wheel. Points and directions are chassis-local.
type WheelSpec struct {
	ConnectionPoint mgl64.Vec3
	Direction       mgl64.Vec3
	Axle            mgl64.Vec3

	Radius                float64
	SuspensionStiffness   float64
	SuspensionRestLength  float64
	MaxSuspensionTravel   float64
	FrictionSlip          float64
	DampingRelaxation     float64
	DampingCompression    float64
	MaxSuspensionForce    float64
	SideFrictionStiffness float64
	RollingFriction       float64
}

// DefaultWheelSpec returns the shared suspension tuning with no connection point
func DefaultWheelSpec() WheelSpec {
	return WheelSpec{
		Direction:             mgl64.Vec3{0, -1, 0},
		Axle:                  mgl64.Vec3{1, 0, 0},
		Radius:                parameter.WheelRadius,
		SuspensionStiffness:   parameter.SuspensionStiffness,
		SuspensionRestLength:  parameter.SuspensionRestLength,
		MaxSuspensionTravel:   parameter.SuspensionMaxTravel,
		FrictionSlip:          parameter.FrictionSlip,
		DampingRelaxation:     parameter.DampingRelaxation,
		DampingCompression:    parameter.DampingCompression,
		MaxSuspensionForce:    parameter.MaxSuspensionForce,
		SideFrictionStiffness: parameter.SideFrictionStiffness,
		RollingFriction:       parameter.RollingFriction,
	}
}

// StandardWheels returns the four wheel specs in FR, FL, RR, RL order
func StandardWheels(base WheelSpec) [parameter.WheelCount]WheelSpec {
	x, y := parameter.WheelOffsetX, parameter.WheelOffsetY
	offsets := [parameter.WheelCount]mgl64.Vec3{
		FrontRight: {-x, y, parameter.WheelOffsetFront},
		FrontLeft:  {x, y, parameter.WheelOffsetFront},
		RearRight:  {-x, y, parameter.WheelOffsetRear},
		RearLeft:   {x, y, parameter.WheelOffsetRear},
	}
	var specs [parameter.WheelCount]WheelSpec
	for i := range specs {
		specs[i] = base
		specs[i].ConnectionPoint = offsets[i]
	}
	return specs
}

// Wheel is the live state of one wheel
type Wheel struct {
	Spec  WheelSpec
	Index int

	Steering    float64 // radians about chassis up, positive turns left
	EngineForce float64 // newtons along the wheel's forward direction

	SuspensionLength float64
	SuspensionForce  float64
	InContact        bool
	Skidding         bool
	ContactPoint     mgl64.Vec3

	// Rotation is the accumulated roll angle about the axle in radians
	Rotation float64
}
