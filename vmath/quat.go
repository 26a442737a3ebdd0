package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a rigid transform: world position plus orientation
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// IdentityPose returns a pose at the origin with no rotation
func IdentityPose() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

// Transform maps a body-local point into the world frame
func (p Pose) Transform(local mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.Orientation.Rotate(local))
}

// IntegrateQuat advances orientation q by angular velocity w (world frame, rad/s) over dt
func IntegrateQuat(q mgl64.Quat, w mgl64.Vec3, dt float64) mgl64.Quat {
	spin := mgl64.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * dt)
	return q.Add(spin).Normalize()
}

// Yaw returns the heading angle about +Y, zero when the body faces +Z
func Yaw(q mgl64.Quat) float64 {
	fwd := q.Rotate(AxisZ)
	return math.Atan2(fwd[0], fwd[2])
}

// RotateX returns a rotation of angle radians about the X axis
func RotateX(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, AxisX)
}

// RotateY returns a rotation of angle radians about the Y axis
func RotateY(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, AxisY)
}

// RotateZ returns a rotation of angle radians about the Z axis
func RotateZ(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, AxisZ)
}
