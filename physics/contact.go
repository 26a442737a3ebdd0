package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/vmath"
)

const contactIterations = 4

var boxCorners = [8]mgl64.Vec3{
	{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
}

// solveGroundContacts resolves box hulls penetrating the ground plane.
// Sequential impulses over every penetrating corner, then a single positional push.
func (w *World) solveGroundContacts(dt float64) {
	groundY, ok := w.groundHeight()
	if !ok {
		return
	}
	normal := vmath.AxisY

	for _, b := range w.bodies {
		if b.kind != Dynamic || b.shape.Kind != ShapeBox {
			continue
		}

		var points [8]mgl64.Vec3
		count := 0
		maxDepth := 0.0
		for _, c := range boxCorners {
			p := b.Pose().Transform(vmath.Hadamard(c, b.shape.HalfExtents))
			depth := groundY - p[1]
			if depth > 0 {
				points[count] = p
				count++
				maxDepth = math.Max(maxDepth, depth)
			}
		}
		if count == 0 {
			continue
		}

		for iter := 0; iter < contactIterations; iter++ {
			for _, p := range points[:count] {
				resolveContact(b, p, normal)
			}
		}

		// Positional correction leaves a little slop so resting contacts stay active
		if correction := maxDepth - parameter.ContactSlop; correction > 0 {
			b.position[1] += correction * parameter.ContactBaumgarte
		}
	}
}

// resolveContact applies normal and friction impulses at one contact point
func resolveContact(b *Body, p, n mgl64.Vec3) {
	r := p.Sub(b.position)
	vp := b.PointVelocity(p)
	vn := vp.Dot(n)
	if vn >= 0 {
		return
	}

	jn := -(1 + parameter.ContactRestitution) * vn / b.effectiveInvMass(r, n)
	b.ApplyImpulse(n.Mul(jn), p)

	vp = b.PointVelocity(p)
	vt := vmath.ProjectOnPlane(vp, n)
	speed := vt.Len()
	if speed < 1e-9 {
		return
	}
	dir := vt.Mul(-1 / speed)
	jt := math.Min(speed/b.effectiveInvMass(r, dir), parameter.ContactFriction*jn)
	b.ApplyImpulse(dir.Mul(jt), p)
}
