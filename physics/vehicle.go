package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/vmath"
)

// ChassisSpec describes the vehicle body
type ChassisSpec struct {
	Mass        float64
	HalfExtents mgl64.Vec3
	Position    mgl64.Vec3
}

// DefaultChassisSpec returns the stock chassis at its spawn point
func DefaultChassisSpec() ChassisSpec {
	return ChassisSpec{
		Mass: parameter.ChassisMass,
		HalfExtents: mgl64.Vec3{
			parameter.ChassisHalfWidth,
			parameter.ChassisHalfHeight,
			parameter.ChassisHalfLength,
		},
		Position: mgl64.Vec3{0, parameter.ChassisSpawnHeight, 0},
	}
}

// Vehicle is a chassis body suspended on raycast wheels over the ground plane
type Vehicle struct {
	chassis *Body
	wheels  []*Wheel
	world   *World
}

// NewVehicle creates a vehicle with no wheels
func NewVehicle(spec ChassisSpec) *Vehicle {
	return &Vehicle{
		chassis: NewBody(spec.Mass, Box(spec.HalfExtents), spec.Position),
	}
}

// NewStandardVehicle builds the four-wheel car from chassis and shared wheel tuning
func NewStandardVehicle(chassis ChassisSpec, wheel WheelSpec) (*Vehicle, error) {
	v := NewVehicle(chassis)
	for _, spec := range StandardWheels(wheel) {
		if _, err := v.AddWheel(spec); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// AddWheel attaches a wheel and returns its index
func (v *Vehicle) AddWheel(spec WheelSpec) (int, error) {
	if len(v.wheels) >= parameter.WheelCount {
		return -1, fmt.Errorf("add wheel %d: %w", len(v.wheels), ErrWheelLimit)
	}
	if spec.Direction.LenSqr() == 0 {
		spec.Direction = mgl64.Vec3{0, -1, 0}
	}
	spec.Direction = spec.Direction.Normalize()
	idx := len(v.wheels)
	v.wheels = append(v.wheels, &Wheel{
		Spec:             spec,
		Index:            idx,
		SuspensionLength: spec.SuspensionRestLength,
	})
	return idx, nil
}

// AddToWorld registers the chassis and the per-step wheel update
func (v *Vehicle) AddToWorld(w *World) error {
	if v.world != nil {
		return ErrAlreadyAdded
	}
	if len(v.wheels) != parameter.WheelCount {
		return fmt.Errorf("vehicle has %d wheels: %w", len(v.wheels), ErrWheelCount)
	}
	v.world = w
	w.AddBody(v.chassis)
	w.AddPreStep(v.update)
	return nil
}

// Chassis returns the chassis body
func (v *Vehicle) Chassis() RigidBody { return v.chassis }

// ChassisBody returns the concrete chassis body
func (v *Vehicle) ChassisBody() *Body { return v.chassis }

// NumWheels returns the number of attached wheels
func (v *Vehicle) NumWheels() int { return len(v.wheels) }

// Wheel returns wheel i, or nil when out of range
func (v *Vehicle) Wheel(i int) *Wheel {
	if i < 0 || i >= len(v.wheels) {
		return nil
	}
	return v.wheels[i]
}

// SetWheelForce sets the drive force of wheel i; out of range indices are ignored
func (v *Vehicle) SetWheelForce(force float64, i int) {
	if w := v.Wheel(i); w != nil {
		w.EngineForce = force
	}
}

// SetSteeringValue sets the steering angle of wheel i; out of range indices are ignored
func (v *Vehicle) SetSteeringValue(angle float64, i int) {
	if w := v.Wheel(i); w != nil {
		w.Steering = angle
	}
}

// WheelForce returns the drive force of wheel i
func (v *Vehicle) WheelForce(i int) float64 {
	if w := v.Wheel(i); w != nil {
		return w.EngineForce
	}
	return 0
}

// SteeringValue returns the steering angle of wheel i
func (v *Vehicle) SteeringValue(i int) float64 {
	if w := v.Wheel(i); w != nil {
		return w.Steering
	}
	return 0
}

// WheelPose returns the world transform of wheel i: hub position, steered chassis
// orientation and accumulated roll
func (v *Vehicle) WheelPose(i int) vmath.Pose {
	w := v.Wheel(i)
	if w == nil {
		return vmath.IdentityPose()
	}
	pose := v.chassis.Pose()
	hubLocal := w.Spec.ConnectionPoint.Add(w.Spec.Direction.Mul(w.SuspensionLength))
	orient := pose.Orientation.Mul(vmath.RotateY(w.Steering)).Mul(mgl64.QuatRotate(w.Rotation, w.Spec.Axle))
	return vmath.Pose{Position: pose.Transform(hubLocal), Orientation: orient}
}

// update runs before each fixed step: suspension then tyre forces
func (v *Vehicle) update(dt float64) {
	groundY, hasGround := v.world.groundHeight()
	for _, w := range v.wheels {
		v.castWheel(w, groundY, hasGround)
	}
	for _, w := range v.wheels {
		if w.InContact {
			v.applySuspension(w, dt)
		}
	}
	for _, w := range v.wheels {
		if w.InContact {
			v.applyTyre(w, dt)
		} else {
			w.Skidding = false
		}
	}
}

// castWheel finds where the suspension ray meets the ground
func (v *Vehicle) castWheel(w *Wheel, groundY float64, hasGround bool) {
	pose := v.chassis.Pose()
	origin := pose.Transform(w.Spec.ConnectionPoint)
	dir := pose.Orientation.Rotate(w.Spec.Direction)
	rayLen := w.Spec.SuspensionRestLength + w.Spec.Radius

	w.InContact = false
	w.SuspensionForce = 0
	if !hasGround || dir[1] >= 0 {
		w.SuspensionLength = w.Spec.SuspensionRestLength
		return
	}

	dist := (groundY - origin[1]) / dir[1]
	if dist < 0 || dist > rayLen {
		w.SuspensionLength = w.Spec.SuspensionRestLength
		return
	}

	length := dist - w.Spec.Radius
	minLen := w.Spec.SuspensionRestLength - w.Spec.MaxSuspensionTravel
	maxLen := w.Spec.SuspensionRestLength + w.Spec.MaxSuspensionTravel
	w.SuspensionLength = vmath.Clamp(length, minLen, maxLen)
	w.ContactPoint = origin.Add(dir.Mul(dist))
	w.InContact = true
}

// applySuspension pushes the chassis up along the ground normal at the contact point
func (v *Vehicle) applySuspension(w *Wheel, dt float64) {
	normal := vmath.AxisY
	dir := v.chassis.quaternion.Rotate(w.Spec.Direction)

	// Project contact velocity onto the suspension axis; clip nearly parallel rays
	denom := normal.Dot(dir)
	relVel, clipped := 0.0, 10.0
	if denom < -0.1 {
		inv := -1 / denom
		relVel = normal.Dot(v.chassis.PointVelocity(w.ContactPoint)) * inv
		clipped = inv
	}

	// Only the spring saturates; the damper always acts so rebound sheds energy
	spring := w.Spec.SuspensionStiffness * (w.Spec.SuspensionRestLength - w.SuspensionLength) * clipped
	spring = vmath.Clamp(spring*v.chassis.mass, 0, w.Spec.MaxSuspensionForce)
	damping := w.Spec.DampingRelaxation
	if relVel < 0 {
		damping = w.Spec.DampingCompression
	}
	force := math.Max(spring-damping*relVel*v.chassis.mass, 0)
	w.SuspensionForce = force

	v.chassis.ApplyImpulse(normal.Mul(force*dt), w.ContactPoint)
}

// applyTyre applies drive, rolling resistance and lateral grip, limited by friction slip
func (v *Vehicle) applyTyre(w *Wheel, dt float64) {
	normal := vmath.AxisY
	q := v.chassis.quaternion

	forward := q.Rotate(vmath.RotateY(w.Steering).Rotate(vmath.AxisZ))
	forward = vmath.SafeNormalize(vmath.ProjectOnPlane(forward, normal))
	side := vmath.SafeNormalize(normal.Cross(forward))
	if forward.LenSqr() == 0 || side.LenSqr() == 0 {
		return
	}

	r := w.ContactPoint.Sub(v.chassis.position)
	vp := v.chassis.PointVelocity(w.ContactPoint)

	vSide := vp.Dot(side)
	sideImpulse := -parameter.SideGrip * w.Spec.SideFrictionStiffness * vSide / v.chassis.effectiveInvMass(r, side)

	vFwd := vp.Dot(forward)
	fwdImpulse := w.EngineForce*dt - w.Spec.RollingFriction*vFwd/v.chassis.effectiveInvMass(r, forward)

	limit := w.Spec.FrictionSlip * w.SuspensionForce * dt
	total := math.Hypot(sideImpulse, fwdImpulse)
	w.Skidding = total > limit
	if w.Skidding && total > 0 {
		scale := limit / total
		sideImpulse *= scale
		fwdImpulse *= scale
	}

	v.chassis.ApplyImpulse(side.Mul(sideImpulse).Add(forward.Mul(fwdImpulse)), w.ContactPoint)
	w.Rotation = math.Mod(w.Rotation+vFwd*dt/w.Spec.Radius, 2*math.Pi)
}
