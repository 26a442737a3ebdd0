package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/vmath"
)

// BodyType selects whether a body is integrated
type BodyType uint8

const (
	Dynamic BodyType = iota
	Static
)

// ShapeKind enumerates supported collision shapes
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	// ShapePlane is the infinite y=0 plane with +Y normal
	ShapePlane
)

// Shape is a collision shape in body-local space
type Shape struct {
	Kind        ShapeKind
	HalfExtents mgl64.Vec3
}

// Box returns a box shape with the given half extents
func Box(halfExtents mgl64.Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// Plane returns the ground plane shape
func Plane() Shape {
	return Shape{Kind: ShapePlane}
}

// Body is a rigid body. All vectors are world frame unless stated otherwise.
// Not safe for concurrent use; owned by the simulation goroutine.
type Body struct {
	id    int
	kind  BodyType
	shape Shape

	mass       float64
	invMass    float64
	invInertia mgl64.Vec3 // body-local principal axes

	position        mgl64.Vec3
	quaternion      mgl64.Quat
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3

	// Accumulated until the next step, then cleared
	force  mgl64.Vec3
	torque mgl64.Vec3

	linearDamping  float64
	angularDamping float64
}

// NewBody creates a dynamic body; mass <= 0 yields a static body
func NewBody(mass float64, shape Shape, position mgl64.Vec3) *Body {
	b := &Body{
		kind:           Dynamic,
		shape:          shape,
		position:       position,
		quaternion:     mgl64.QuatIdent(),
		linearDamping:  parameter.DefaultLinearDamping,
		angularDamping: parameter.DefaultAngularDamping,
	}
	if mass <= 0 || shape.Kind == ShapePlane {
		b.kind = Static
		return b
	}
	b.mass = mass
	b.invMass = 1 / mass
	b.invInertia = boxInvInertia(mass, shape.HalfExtents)
	return b
}

// boxInvInertia returns the inverse principal moments of a solid box
func boxInvInertia(mass float64, he mgl64.Vec3) mgl64.Vec3 {
	w, h, d := 2*he[0], 2*he[1], 2*he[2]
	ix := mass / 12 * (h*h + d*d)
	iy := mass / 12 * (w*w + d*d)
	iz := mass / 12 * (w*w + h*h)
	inv := func(i float64) float64 {
		if i == 0 {
			return 0
		}
		return 1 / i
	}
	return mgl64.Vec3{inv(ix), inv(iy), inv(iz)}
}

func (b *Body) ID() int            { return b.id }
func (b *Body) Type() BodyType     { return b.kind }
func (b *Body) Shape() Shape       { return b.shape }
func (b *Body) Mass() float64      { return b.mass }
func (b *Body) InvMass() float64   { return b.invMass }
func (b *Body) IsDynamic() bool    { return b.kind == Dynamic }
func (b *Body) Force() mgl64.Vec3  { return b.force }
func (b *Body) Torque() mgl64.Vec3 { return b.torque }

func (b *Body) Position() mgl64.Vec3            { return b.position }
func (b *Body) SetPosition(p mgl64.Vec3)        { b.position = p }
func (b *Body) Quaternion() mgl64.Quat          { return b.quaternion }
func (b *Body) SetQuaternion(q mgl64.Quat)      { b.quaternion = q.Normalize() }
func (b *Body) Velocity() mgl64.Vec3            { return b.velocity }
func (b *Body) SetVelocity(v mgl64.Vec3)        { b.velocity = v }
func (b *Body) AngularVelocity() mgl64.Vec3     { return b.angularVelocity }
func (b *Body) SetAngularVelocity(w mgl64.Vec3) { b.angularVelocity = w }
func (b *Body) LinearDamping() float64          { return b.linearDamping }
func (b *Body) AngularDamping() float64         { return b.angularDamping }

// SetLinearDamping sets the fraction of linear velocity lost per second, clamped to [0, 1]
func (b *Body) SetLinearDamping(d float64) {
	b.linearDamping = vmath.Clamp(d, 0, 1)
}

// SetAngularDamping sets the fraction of angular velocity lost per second, clamped to [0, 1]
func (b *Body) SetAngularDamping(d float64) {
	b.angularDamping = vmath.Clamp(d, 0, 1)
}

// Pose returns the body transform
func (b *Body) Pose() vmath.Pose {
	return vmath.Pose{Position: b.position, Orientation: b.quaternion}
}

// ApplyForce accumulates force at a world point until the next step.
// An off-centre point also accumulates torque.
func (b *Body) ApplyForce(force, worldPoint mgl64.Vec3) {
	if b.kind != Dynamic {
		return
	}
	b.force = b.force.Add(force)
	b.torque = b.torque.Add(worldPoint.Sub(b.position).Cross(force))
}

// ApplyImpulse changes velocity immediately as if impulse acted at a world point
func (b *Body) ApplyImpulse(impulse, worldPoint mgl64.Vec3) {
	if b.kind != Dynamic {
		return
	}
	b.velocity = b.velocity.Add(impulse.Mul(b.invMass))
	r := worldPoint.Sub(b.position)
	b.angularVelocity = b.angularVelocity.Add(b.invInertiaWorld(r.Cross(impulse)))
}

// PointVelocity returns the velocity of a world point rigidly attached to the body
func (b *Body) PointVelocity(worldPoint mgl64.Vec3) mgl64.Vec3 {
	return b.velocity.Add(b.angularVelocity.Cross(worldPoint.Sub(b.position)))
}

// invInertiaWorld applies the world-frame inverse inertia tensor R·I⁻¹·Rᵀ to v
func (b *Body) invInertiaWorld(v mgl64.Vec3) mgl64.Vec3 {
	local := b.quaternion.Inverse().Rotate(v)
	return b.quaternion.Rotate(vmath.Hadamard(b.invInertia, local))
}

// effectiveInvMass is the inverse mass felt by an impulse along unit dir at offset r
func (b *Body) effectiveInvMass(r, dir mgl64.Vec3) float64 {
	if b.kind != Dynamic {
		return 0
	}
	rn := r.Cross(dir)
	return b.invMass + b.invInertiaWorld(rn).Cross(r).Dot(dir)
}

// integrateVelocity applies gravity and accumulated loads, then damping
func (b *Body) integrateVelocity(gravity mgl64.Vec3, dt float64) {
	accel := gravity.Add(b.force.Mul(b.invMass))
	b.velocity = b.velocity.Add(accel.Mul(dt))
	b.angularVelocity = b.angularVelocity.Add(b.invInertiaWorld(b.torque).Mul(dt))

	b.velocity = b.velocity.Mul(math.Pow(1-b.linearDamping, dt))
	b.angularVelocity = b.angularVelocity.Mul(math.Pow(1-b.angularDamping, dt))
}

// integratePosition advances pose and clears accumulators
func (b *Body) integratePosition(dt float64) {
	b.position = b.position.Add(b.velocity.Mul(dt))
	b.quaternion = vmath.IntegrateQuat(b.quaternion, b.angularVelocity, dt)
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}
