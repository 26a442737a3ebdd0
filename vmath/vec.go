package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis unit vectors in the world frame: +Y up, +Z chassis forward, +X chassis left
var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// Lerp moves a toward b by fraction t, componentwise
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// IsFinite reports whether every component is neither NaN nor Inf
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// HorizontalMag returns the length of v projected onto the XZ plane
func HorizontalMag(v mgl64.Vec3) float64 {
	return math.Sqrt(v[0]*v[0] + v[2]*v[2])
}

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Hadamard multiplies two vectors componentwise
func Hadamard(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// ProjectOnPlane removes the component of v along unit normal n
func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// SafeNormalize returns v scaled to unit length, or zero for a degenerate vector
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
