package control

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-drive/audio"
	"github.com/lixenwraith/vi-drive/clock"
	"github.com/lixenwraith/vi-drive/event"
	"github.com/lixenwraith/vi-drive/input"
	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/physics"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeVehicle records wheel commands over a real body
type fakeVehicle struct {
	body     *physics.Body
	forces   [4]float64
	steering [4]float64
}

func newFakeVehicle() *fakeVehicle {
	return &fakeVehicle{body: physics.NewBody(100, physics.Box(mgl64.Vec3{1.75, 0.5, 4}), mgl64.Vec3{0, 6, 0})}
}

func (f *fakeVehicle) Chassis() physics.RigidBody            { return f.body }
func (f *fakeVehicle) SetWheelForce(force float64, i int)    { f.forces[i] = force }
func (f *fakeVehicle) SetSteeringValue(angle float64, i int) { f.steering[i] = angle }

type harness struct {
	ctrl  *Controller
	veh   *fakeVehicle
	cues  *audio.Recorder
	clock *clock.Mock
}

func newHarness(cfg Config) *harness {
	h := &harness{veh: newFakeVehicle(), cues: &audio.Recorder{}, clock: clock.NewMock(t0)}
	h.ctrl = New(cfg, h.veh, h.clock, zerolog.Nop(), WithRand(rand.New(rand.NewSource(1))), WithCuePlayer(h.cues))
	return h
}

func down(a input.Action) event.Event { return event.Down(a, a.String(), t0) }
func up(a input.Action) event.Event   { return event.Up(a, a.String(), t0) }

func (h *harness) press(evs ...event.Event) Outputs {
	return h.ctrl.Update(evs, parameter.FixedTimeStep)
}

func TestSteeringStaysClamped(t *testing.T) {
	h := newHarness(DefaultConfig())

	for i := 0; i < 20; i++ {
		h.press(down(input.ActionSteerLeft))
	}
	assert.InDelta(t, 0.5, h.ctrl.State().Steering, 1e-12)
	assert.Equal(t, h.veh.steering[physics.FrontRight], h.veh.steering[physics.FrontLeft])

	for i := 0; i < 30; i++ {
		h.press(down(input.ActionSteerRight))
	}
	assert.InDelta(t, -0.5, h.ctrl.State().Steering, 1e-12)
	assert.InDelta(t, -0.5, h.veh.steering[physics.FrontLeft], 1e-12)
	assert.Zero(t, h.veh.steering[physics.RearLeft], "rear wheels never steer")
}

func TestSteeringBoundedUnderRandomInput(t *testing.T) {
	h := newHarness(DefaultConfig())
	rng := rand.New(rand.NewSource(7))
	actions := []input.Action{input.ActionSteerLeft, input.ActionSteerRight}

	for i := 0; i < 2000; i++ {
		a := actions[rng.Intn(2)]
		if rng.Intn(10) == 0 {
			h.press(up(a))
		} else {
			h.press(down(a))
		}
		s := h.ctrl.State().Steering
		require.GreaterOrEqual(t, s, -0.5-1e-12)
		require.LessOrEqual(t, s, 0.5+1e-12)
	}
}

func TestSteeringWorksWithEngineOff(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.press(down(input.ActionSteerLeft))
	assert.InDelta(t, 0.05, h.veh.steering[physics.FrontRight], 1e-12)

	h.press(up(input.ActionSteerLeft))
	assert.Zero(t, h.ctrl.State().Steering)
	assert.Zero(t, h.veh.steering[physics.FrontRight])
}

func TestBrakeFactorBounds(t *testing.T) {
	assert.Equal(t, 1.0, BrakeFactor(0))
	for s := 0.0; s <= 400; s += 0.5 {
		f := BrakeFactor(s)
		require.GreaterOrEqual(t, f, 0.7)
		require.LessOrEqual(t, f, 1.0)
	}
	assert.InDelta(t, 0.8, BrakeFactor(10), 1e-12)
	assert.Equal(t, 0.7, BrakeFactor(50))
}

func TestTiltFactorBounds(t *testing.T) {
	assert.Equal(t, 0.0, TiltFactor(0))
	for s := 0.0; s <= 400; s += 0.5 {
		f := TiltFactor(s)
		require.GreaterOrEqual(t, f, 0.0)
		require.LessOrEqual(t, f, 8.0)
	}
	assert.Equal(t, 8.0, TiltFactor(66.67))
	assert.Equal(t, 8.0, TiltFactor(150))
	assert.InDelta(t, 6.0, TiltFactor(50), 1e-12)
}

func TestSkidFactor(t *testing.T) {
	assert.Zero(t, SkidFactor(40, 0.99))
	assert.Zero(t, SkidFactor(10, 0))

	for u := 0.0; u < 1; u += 0.01 {
		f := SkidFactor(50, u)
		require.GreaterOrEqual(t, f, -0.05)
		require.LessOrEqual(t, f, 0.05)
	}
	assert.InDelta(t, -0.05, SkidFactor(50, 0), 1e-12)
}

func TestBrakeDamping(t *testing.T) {
	assert.InDelta(t, 0.8, BrakeDamping(0), 1e-12)
	assert.InDelta(t, 0.9, BrakeDamping(20), 1e-12)
	assert.Equal(t, 0.99, BrakeDamping(100))
}

func TestEngineOnKick(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.veh.body.SetVelocity(mgl64.Vec3{1, -2, 3})

	out := h.press(down(input.ActionEngine))

	assert.True(t, out.State.EngineOn)
	assert.Equal(t, mgl64.Vec3{}, h.veh.body.Velocity(), "velocity reset after the kick")
	assert.Equal(t, mgl64.Vec3{150, 0, 0}, h.veh.body.Force(), "kick force still pending")
	assert.Equal(t, 20.0, out.State.Headlights)
	assert.Equal(t, []audio.Cue{audio.CueEngineStart, audio.CueMusic}, h.cues.Played())
}

func TestEngineOffZeroesRearForcesSameTick(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.press(down(input.ActionEngine), down(input.ActionThrottle))
	require.Equal(t, 400.0, h.veh.forces[physics.RearRight])
	require.Equal(t, 400.0, h.veh.forces[physics.RearLeft])

	out := h.press(down(input.ActionEngine))

	assert.False(t, out.State.EngineOn)
	assert.Zero(t, h.veh.forces[physics.RearRight])
	assert.Zero(t, h.veh.forces[physics.RearLeft])
	assert.Zero(t, out.State.AccelerationForce)
	assert.Zero(t, out.State.Headlights)
}

func TestThrottleRequiresEngine(t *testing.T) {
	h := newHarness(DefaultConfig())
	damping := h.veh.body.LinearDamping()

	out := h.press(down(input.ActionThrottle))

	assert.Zero(t, out.State.AccelerationForce)
	assert.Zero(t, h.veh.forces[physics.RearRight])
	assert.Equal(t, damping, h.veh.body.LinearDamping())
	assert.Empty(t, h.cues.Played())
}

func TestThrottleAndReverse(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.press(down(input.ActionEngine))

	out := h.press(down(input.ActionThrottle))
	assert.Equal(t, 400.0, out.State.AccelerationForce)
	assert.InDelta(t, 0.3, h.veh.body.LinearDamping(), 1e-12)
	assert.Equal(t, 1, h.cues.Count(audio.CueRace))

	out = h.press(down(input.ActionReverse))
	assert.Equal(t, -300.0, out.State.AccelerationForce)
	assert.Equal(t, -300.0, h.veh.forces[physics.RearLeft])
	assert.Zero(t, h.veh.forces[physics.FrontLeft], "front wheels never driven")
}

func TestDriveKeyUpClearsForceAndSteering(t *testing.T) {
	for _, a := range []input.Action{input.ActionThrottle, input.ActionReverse, input.ActionBrake} {
		t.Run(a.String(), func(t *testing.T) {
			h := newHarness(DefaultConfig())
			h.press(down(input.ActionEngine), down(input.ActionThrottle), down(input.ActionSteerLeft))

			out := h.press(up(a))

			assert.Zero(t, out.State.AccelerationForce)
			assert.Zero(t, h.veh.forces[physics.RearRight])
			assert.Zero(t, h.veh.forces[physics.RearLeft])
			assert.Zero(t, h.veh.steering[physics.FrontRight])
			assert.Zero(t, h.veh.steering[physics.FrontLeft])
			assert.True(t, h.cues.Stopped(audio.CueRace))
		})
	}
}

func TestLastWriteWinsWithinTick(t *testing.T) {
	h := newHarness(DefaultConfig())
	out := h.press(
		down(input.ActionEngine),
		down(input.ActionThrottle),
		down(input.ActionReverse),
	)
	assert.Equal(t, -300.0, out.State.AccelerationForce)
}

func TestBrakeSkidBranch(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.press(down(input.ActionEngine))

	// 50 km/h with 3 m/s sideways
	vz := math.Sqrt(math.Pow(50/3.6, 2) - 9)
	v := mgl64.Vec3{3, 0, vz}
	h.veh.body.SetVelocity(v)
	require.InDelta(t, 50, h.ctrl.RecordSpeed(v), 1e-9)

	h.veh.forces = [4]float64{400, 400, 400, 400}
	out := h.press(down(input.ActionBrake))

	assert.Equal(t, 1, out.Skids)
	assert.Zero(t, out.Brakes)
	assert.Equal(t, 1, h.cues.Count(audio.CueSkid))
	assert.Zero(t, h.cues.Count(audio.CueBrake))
	assert.Equal(t, [4]float64{}, h.veh.forces)

	// skid impulse ≤ 0.05·100 N·s on 100 kg, then scaled by brakeFactor 0.7
	got := h.veh.body.Velocity()
	assert.InDelta(t, 3*0.7, got.X(), 0.05*0.7+1e-9)
	assert.InDelta(t, 6*12/100.0, got.Y(), 1e-9, "lift from tilt 6")
	assert.InDelta(t, (vz-6*3/100.0)*0.7, got.Z(), 0.05*0.7+1e-9)
	assert.True(t, mgl64.Vec3{3.6, 0, 0}.ApproxEqual(h.veh.body.AngularVelocity()))
	assert.Equal(t, 0.99, h.veh.body.LinearDamping())
}

func TestBrakeCueWithoutSkid(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.press(down(input.ActionEngine))
	v := mgl64.Vec3{0, 0, 20 / 3.6}
	h.veh.body.SetVelocity(v)
	h.ctrl.RecordSpeed(v)

	out := h.press(down(input.ActionBrake))

	assert.Equal(t, 1, out.Brakes)
	assert.Zero(t, out.Skids)
	assert.Equal(t, 1, h.cues.Count(audio.CueBrake))
	assert.True(t, h.cues.Stopped(audio.CueRace))
	// nose-dip impulse lands before the brake factor: tilt 2.4 at 20 km/h
	tilt := TiltFactor(20)
	assert.InDelta(t, (20/3.6-tilt*3/100)*0.7, h.veh.body.Velocity().Z(), 1e-9)
}

func TestBrakeAtRest(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.press(down(input.ActionEngine))
	h.cues.Reset()

	out := h.press(down(input.ActionBrake))

	assert.Zero(t, out.Brakes)
	assert.Zero(t, out.Skids)
	assert.Equal(t, mgl64.Vec3{}, h.veh.body.Velocity())
	assert.InDelta(t, 0.8, h.veh.body.LinearDamping(), 1e-12)
	assert.Empty(t, h.cues.Played())
}

func TestBrakeRequiresEngine(t *testing.T) {
	h := newHarness(DefaultConfig())
	v := mgl64.Vec3{0, 0, 10}
	h.veh.body.SetVelocity(v)
	h.ctrl.RecordSpeed(v)

	h.press(down(input.ActionBrake))
	assert.Equal(t, v, h.veh.body.Velocity())
}

func TestBrakeRepeatRetriggers(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.press(down(input.ActionEngine))
	v := mgl64.Vec3{0, 0, 20 / 3.6}
	h.veh.body.SetVelocity(v)
	h.ctrl.RecordSpeed(v)

	out := h.press(down(input.ActionBrake), down(input.ActionBrake))
	assert.Equal(t, 2, out.Brakes)
	// speed is not re-read between presses, so both use the 20 km/h tilt
	tilt := TiltFactor(20)
	once := (20/3.6 - tilt*3/100) * 0.7
	assert.InDelta(t, (once-tilt*3/100)*0.7, h.veh.body.Velocity().Z(), 1e-9)
}

func TestTurboReschedule(t *testing.T) {
	h := newHarness(DefaultConfig())

	out := h.press(down(input.ActionTurbo))
	assert.True(t, out.State.TurboActive)
	assert.Equal(t, 50.0, out.State.Headlights)
	assert.Equal(t, 1, h.cues.Count(audio.CueNitro))

	h.clock.Advance(3 * time.Second)
	h.press(down(input.ActionTurbo))
	assert.Equal(t, 1, h.ctrl.PendingTurboTimers())

	h.clock.Advance(3 * time.Second)
	out = h.press()
	assert.True(t, out.State.TurboActive, "re-trigger extended the boost")
	assert.Zero(t, out.TurboEnds)

	h.clock.Advance(3 * time.Second)
	out = h.press()
	assert.False(t, out.State.TurboActive)
	assert.Equal(t, 1, out.TurboEnds)
	assert.Equal(t, 20.0, out.State.Headlights)
	assert.Zero(t, h.ctrl.PendingTurboTimers())
}

func TestTurboStackKeepsLegacyDoubleFire(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TurboRetrigger = RetriggerStack
	h := newHarness(cfg)

	h.press(down(input.ActionTurbo))
	h.clock.Advance(3 * time.Second)
	h.press(down(input.ActionTurbo))
	assert.Equal(t, 2, h.ctrl.PendingTurboTimers())

	// First press ends the boost 3 s after the second press
	h.clock.Advance(3 * time.Second)
	out := h.press()
	assert.False(t, out.State.TurboActive)
	assert.Equal(t, 1, out.TurboEnds)

	h.clock.Advance(3 * time.Second)
	out = h.press()
	assert.Equal(t, 1, out.TurboEnds, "second timer still fires")
	assert.Zero(t, h.ctrl.PendingTurboTimers())
}

func TestTurboEndIndependentOfKeyUp(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.press(down(input.ActionTurbo))
	h.press(up(input.ActionTurbo))
	assert.True(t, h.ctrl.State().TurboActive)

	h.clock.Advance(parameter.TurboDuration)
	assert.False(t, h.press().State.TurboActive)
}

func TestTurboDriveBoost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TurboDriveBoost = 100
	h := newHarness(cfg)
	h.press(down(input.ActionEngine))

	h.press(down(input.ActionThrottle))
	assert.Equal(t, 400.0, h.veh.forces[physics.RearLeft])

	h.press(down(input.ActionTurbo), down(input.ActionThrottle))
	assert.Equal(t, 500.0, h.veh.forces[physics.RearLeft])

	h.press(down(input.ActionReverse))
	assert.Equal(t, -400.0, h.veh.forces[physics.RearLeft])
}

func TestVibrationOnlyWhileEngineOn(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.press()
	assert.Zero(t, h.ctrl.State().VibrationTime)

	h.press(down(input.ActionEngine))
	for i := 0; i < 9; i++ {
		h.press()
	}
	assert.InDelta(t, 0.2, h.ctrl.State().VibrationTime, 1e-9)
	assert.InDelta(t, 10*parameter.FixedTimeStep, h.ctrl.State().EngineTime, 1e-9)
}

func TestRecordSpeed(t *testing.T) {
	h := newHarness(DefaultConfig())
	assert.InDelta(t, 18.0, h.ctrl.RecordSpeed(mgl64.Vec3{3, 100, 4}), 1e-9)
	assert.InDelta(t, 18.0, h.ctrl.State().Speed, 1e-9)
}

func TestCuesDroppedUntilAttached(t *testing.T) {
	veh := newFakeVehicle()
	ctrl := New(DefaultConfig(), veh, clock.NewMock(t0), zerolog.Nop())

	assert.NotPanics(t, func() {
		ctrl.Update([]event.Event{down(input.ActionEngine), down(input.ActionTurbo)}, 0)
	})

	rec := &audio.Recorder{}
	ctrl.AttachAudio(rec)
	ctrl.Update([]event.Event{down(input.ActionThrottle)}, 0)
	assert.Equal(t, []audio.Cue{audio.CueRace}, rec.Played())
}

func TestEngineOnThrottleAcceleratesCar(t *testing.T) {
	world := physics.NewWorld()
	world.AddBody(physics.NewBody(0, physics.Plane(), mgl64.Vec3{}))
	veh, err := physics.NewStandardVehicle(physics.DefaultChassisSpec(), physics.DefaultWheelSpec())
	require.NoError(t, err)
	require.NoError(t, veh.AddToWorld(world))
	for i := 0; i < 300; i++ {
		world.Step(parameter.FixedTimeStep)
	}

	ctrl := New(DefaultConfig(), veh, clock.NewMock(t0), zerolog.Nop())
	ctrl.Update([]event.Event{down(input.ActionEngine), down(input.ActionThrottle)}, parameter.FixedTimeStep)
	assert.Equal(t, 400.0, veh.WheelForce(physics.RearRight))
	assert.Equal(t, 400.0, veh.WheelForce(physics.RearLeft))

	prev := ctrl.RecordSpeed(veh.ChassisBody().Velocity())
	for i := 0; i < 60; i++ {
		ctrl.Update(nil, parameter.FixedTimeStep)
		world.Step(parameter.FixedTimeStep)
		speed := ctrl.RecordSpeed(veh.ChassisBody().Velocity())
		require.Greater(t, speed, prev, "tick %d", i)
		prev = speed
	}
	assert.Greater(t, prev, 10.0)
}
