// Package physics is a compact rigid-body world with a raycast-suspension
// vehicle. Callers depend on the Engine, RigidBody and VehicleControls
// contracts; World and Vehicle are the stock implementations.
package physics

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-drive/vmath"
)

var (
	// ErrWheelLimit is returned when a fifth wheel is added
	ErrWheelLimit = errors.New("vehicle already has four wheels")

	// ErrWheelCount is returned when a vehicle without four wheels joins a world
	ErrWheelCount = errors.New("vehicle needs exactly four wheels")

	// ErrAlreadyAdded is returned when a vehicle joins a second world
	ErrAlreadyAdded = errors.New("vehicle already added to a world")
)

// Engine steps the simulation
type Engine interface {
	Gravity() mgl64.Vec3
	FixedStep(elapsed time.Duration) int
	AddBody(b *Body)
}

// RigidBody is the body surface used by the controller and camera
type RigidBody interface {
	Position() mgl64.Vec3
	Quaternion() mgl64.Quat
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(w mgl64.Vec3)
	LinearDamping() float64
	SetLinearDamping(d float64)
	ApplyForce(force, worldPoint mgl64.Vec3)
	ApplyImpulse(impulse, worldPoint mgl64.Vec3)
	Pose() vmath.Pose
}

// VehicleControls is the per-wheel drive and steering surface
type VehicleControls interface {
	Chassis() RigidBody
	SetWheelForce(force float64, wheel int)
	SetSteeringValue(angle float64, wheel int)
}

var (
	_ Engine          = (*World)(nil)
	_ RigidBody       = (*Body)(nil)
	_ VehicleControls = (*Vehicle)(nil)
)
