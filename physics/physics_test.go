package physics

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/vmath"
)

const step = time.Second / 60

func newGroundWorld() *World {
	w := NewWorld()
	w.AddBody(NewBody(0, Plane(), mgl64.Vec3{}))
	return w
}

// settledCar returns a car that has dropped from its spawn point and come to rest
func settledCar(t *testing.T) (*World, *Vehicle) {
	t.Helper()
	w := newGroundWorld()
	v, err := NewStandardVehicle(DefaultChassisSpec(), DefaultWheelSpec())
	require.NoError(t, err)
	require.NoError(t, v.AddToWorld(w))

	for i := 0; i < 300; i++ {
		w.Step(parameter.FixedTimeStep)
	}
	return w, v
}

func TestFixedStepAccumulates(t *testing.T) {
	w := NewWorld()

	assert.Equal(t, 0, w.FixedStep(10*time.Millisecond))
	assert.Equal(t, 1, w.FixedStep(10*time.Millisecond))
	assert.Equal(t, uint64(1), w.Steps())

	// A long stall is capped and the backlog dropped
	assert.Equal(t, parameter.MaxSubSteps, w.FixedStep(time.Second))
	assert.Equal(t, 0, w.FixedStep(0))
}

func TestFreeFall(t *testing.T) {
	w := NewWorld()
	b := NewBody(1, Box(mgl64.Vec3{0.5, 0.5, 0.5}), mgl64.Vec3{0, 100, 0})
	b.SetLinearDamping(0)
	w.AddBody(b)

	for i := 0; i < 60; i++ {
		w.Step(parameter.FixedTimeStep)
	}
	assert.InDelta(t, parameter.GravityY, b.Velocity().Y(), 1e-9)
	assert.InDelta(t, 100+0.5*parameter.GravityY, b.Position().Y(), 0.1)
}

func TestStaticBodyIgnoresLoads(t *testing.T) {
	b := NewBody(0, Box(mgl64.Vec3{1, 1, 1}), mgl64.Vec3{})
	assert.False(t, b.IsDynamic())

	b.ApplyImpulse(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{})
	b.ApplyForce(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{})
	assert.Equal(t, mgl64.Vec3{}, b.Velocity())
	assert.Equal(t, mgl64.Vec3{}, b.Force())
}

func TestApplyForceAtCentreHasNoTorque(t *testing.T) {
	b := NewBody(100, Box(mgl64.Vec3{1.75, 0.5, 4}), mgl64.Vec3{0, 6, 0})
	b.ApplyForce(mgl64.Vec3{150, 0, 0}, b.Position())

	assert.Equal(t, mgl64.Vec3{150, 0, 0}, b.Force())
	assert.Equal(t, mgl64.Vec3{}, b.Torque())
}

func TestForceSurvivesVelocityReset(t *testing.T) {
	w := NewWorld()
	w.SetGravity(mgl64.Vec3{})
	b := NewBody(100, Box(mgl64.Vec3{1, 1, 1}), mgl64.Vec3{})
	b.SetLinearDamping(0)
	w.AddBody(b)

	b.ApplyForce(mgl64.Vec3{150, 0, 0}, b.Position())
	b.SetVelocity(mgl64.Vec3{})
	w.Step(parameter.FixedTimeStep)

	assert.InDelta(t, 150.0/100*parameter.FixedTimeStep, b.Velocity().X(), 1e-12)
	assert.Equal(t, mgl64.Vec3{}, b.Force(), "accumulator cleared after step")
}

func TestApplyImpulseOffCentreSpins(t *testing.T) {
	b := NewBody(1, Box(mgl64.Vec3{1, 1, 1}), mgl64.Vec3{})
	b.ApplyImpulse(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0})

	assert.InDelta(t, 1.0, b.Velocity().Z(), 1e-12)
	// r × J = (1,0,0) × (0,0,1) = (0,-1,0)
	assert.Less(t, b.AngularVelocity().Y(), 0.0)
}

func TestBoxComesToRestOnGround(t *testing.T) {
	w := newGroundWorld()
	b := NewBody(10, Box(mgl64.Vec3{1, 0.5, 1}), mgl64.Vec3{0, 3, 0})
	w.AddBody(b)

	for i := 0; i < 240; i++ {
		w.Step(parameter.FixedTimeStep)
	}
	assert.InDelta(t, 0.5, b.Position().Y(), 0.05)
	assert.InDelta(t, 0, b.Velocity().Len(), 0.2)
}

func TestAddWheelLimit(t *testing.T) {
	v := NewVehicle(DefaultChassisSpec())
	for i, spec := range StandardWheels(DefaultWheelSpec()) {
		idx, err := v.AddWheel(spec)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	_, err := v.AddWheel(DefaultWheelSpec())
	require.ErrorIs(t, err, ErrWheelLimit)
	assert.Equal(t, 4, v.NumWheels())
}

func TestAddToWorldValidation(t *testing.T) {
	w := newGroundWorld()

	bare := NewVehicle(DefaultChassisSpec())
	require.ErrorIs(t, bare.AddToWorld(w), ErrWheelCount)

	v, err := NewStandardVehicle(DefaultChassisSpec(), DefaultWheelSpec())
	require.NoError(t, err)
	require.NoError(t, v.AddToWorld(w))
	require.ErrorIs(t, v.AddToWorld(w), ErrAlreadyAdded)
}

func TestWheelLayout(t *testing.T) {
	specs := StandardWheels(DefaultWheelSpec())

	assert.Equal(t, mgl64.Vec3{-2, -1, 4.1}, specs[FrontRight].ConnectionPoint)
	assert.Equal(t, mgl64.Vec3{2, -1, 4.1}, specs[FrontLeft].ConnectionPoint)
	assert.Equal(t, mgl64.Vec3{-2, -1, -3.9}, specs[RearRight].ConnectionPoint)
	assert.Equal(t, mgl64.Vec3{2, -1, -3.9}, specs[RearLeft].ConnectionPoint)
	for _, s := range specs {
		assert.Equal(t, 250.0, s.SuspensionStiffness)
		assert.Equal(t, 0.8, s.SuspensionRestLength)
		assert.Equal(t, 2.0, s.FrictionSlip)
		assert.Equal(t, 2.3, s.DampingRelaxation)
		assert.Equal(t, 4.4, s.DampingCompression)
		assert.Equal(t, 1000.0, s.MaxSuspensionForce)
	}
}

func TestOutOfRangeWheelIgnored(t *testing.T) {
	v, err := NewStandardVehicle(DefaultChassisSpec(), DefaultWheelSpec())
	require.NoError(t, err)

	v.SetWheelForce(400, 7)
	v.SetSteeringValue(0.5, -1)
	assert.Nil(t, v.Wheel(7))
	assert.Equal(t, 0.0, v.WheelForce(7))
	assert.Equal(t, 0.0, v.SteeringValue(-1))
}

func TestVehicleSettlesOnSuspension(t *testing.T) {
	_, v := settledCar(t)
	body := v.ChassisBody()

	for i := 0; i < v.NumWheels(); i++ {
		assert.True(t, v.Wheel(i).InContact, "wheel %d", i)
	}
	// connection (-1) + suspension (~0.79) + radius (0.9)
	assert.InDelta(t, 2.69, body.Position().Y(), 0.1)
	assert.InDelta(t, 0, vmath.HorizontalMag(body.Velocity()), 0.05)
	assert.InDelta(t, 0, body.Position().X(), 0.05)
	assert.InDelta(t, 0, body.Position().Z(), 0.05)
}

func TestRearDriveAcceleratesForward(t *testing.T) {
	w, v := settledCar(t)
	v.SetWheelForce(400, RearRight)
	v.SetWheelForce(400, RearLeft)

	prev := v.ChassisBody().Velocity().Z()
	for i := 0; i < 120; i++ {
		w.Step(parameter.FixedTimeStep)
		vz := v.ChassisBody().Velocity().Z()
		require.Greater(t, vz, prev, "step %d", i)
		prev = vz
	}
	assert.Greater(t, v.ChassisBody().Position().Z(), 1.0)
	assert.InDelta(t, 0, v.ChassisBody().Position().X(), 0.1)
}

func TestPositiveSteeringTurnsLeft(t *testing.T) {
	w, v := settledCar(t)
	v.SetSteeringValue(0.3, FrontRight)
	v.SetSteeringValue(0.3, FrontLeft)
	v.SetWheelForce(400, RearRight)
	v.SetWheelForce(400, RearLeft)

	for i := 0; i < 180; i++ {
		w.Step(parameter.FixedTimeStep)
	}
	assert.Greater(t, vmath.Yaw(v.ChassisBody().Quaternion()), 0.05)
	assert.Greater(t, v.ChassisBody().Position().X(), 0.0)
}

func TestWheelPoseHangsBelowConnection(t *testing.T) {
	_, v := settledCar(t)
	chassis := v.ChassisBody().Pose()

	for i := 0; i < v.NumWheels(); i++ {
		hub := v.WheelPose(i).Position
		conn := chassis.Transform(v.Wheel(i).Spec.ConnectionPoint)
		assert.Less(t, hub.Y(), conn.Y())
		assert.InDelta(t, parameter.WheelRadius, hub.Y(), 0.1, "wheel %d hub at radius height", i)
	}
}

func TestSaturatedSpringStillDamps(t *testing.T) {
	w := newGroundWorld()
	v, err := NewStandardVehicle(DefaultChassisSpec(), DefaultWheelSpec())
	require.NoError(t, err)
	require.NoError(t, v.AddToWorld(w))

	// Chassis low enough that every spring is past its force cap
	body := v.ChassisBody()
	body.SetPosition(mgl64.Vec3{0, 2.0, 0})

	body.SetVelocity(mgl64.Vec3{0, 3, 0})
	v.update(parameter.FixedTimeStep)
	// 1000 - 2.3*3*100 for the first wheel solved; later wheels see its impulse
	assert.InDelta(t, 310, v.Wheel(FrontRight).SuspensionForce, 1e-6)
	for i := 0; i < v.NumWheels(); i++ {
		require.True(t, v.Wheel(i).InContact)
		assert.Less(t, v.Wheel(i).SuspensionForce, parameter.MaxSuspensionForce, "rebound wheel %d", i)
	}

	body.SetVelocity(mgl64.Vec3{0, -3, 0})
	v.update(parameter.FixedTimeStep)
	for i := 0; i < v.NumWheels(); i++ {
		assert.Greater(t, v.Wheel(i).SuspensionForce, parameter.MaxSuspensionForce, "compression wheel %d", i)
	}
}

func TestDropReboundIsDamped(t *testing.T) {
	w := newGroundWorld()
	v, err := NewStandardVehicle(DefaultChassisSpec(), DefaultWheelSpec())
	require.NoError(t, err)
	require.NoError(t, v.AddToWorld(w))
	body := v.ChassisBody()

	landed := false
	peak := 0.0
	for i := 0; i < 300; i++ {
		w.Step(parameter.FixedTimeStep)
		if !landed {
			landed = v.Wheel(RearLeft).InContact
			continue
		}
		peak = max(peak, body.Position().Y())
	}
	require.True(t, landed)
	assert.Less(t, peak, 4.0, "car bounced back towards spawn height")
	assert.InDelta(t, 0, body.Velocity().Y(), 0.05)
	assert.InDelta(t, 0, body.AngularVelocity().Len(), 0.05)
}

func TestThrottleHoldNeverLosesSpeed(t *testing.T) {
	w, v := settledCar(t)
	v.SetWheelForce(400, RearRight)
	v.SetWheelForce(400, RearLeft)

	prev := v.ChassisBody().Velocity().Z()
	for i := 0; i < 300; i++ {
		w.Step(parameter.FixedTimeStep)
		vz := v.ChassisBody().Velocity().Z()
		require.GreaterOrEqual(t, vz, prev, "step %d", i)
		prev = vz
	}
	assert.Greater(t, prev, 20.0)
}
