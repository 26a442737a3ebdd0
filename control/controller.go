// Package control turns typed input actions into vehicle forces, impulses
// and steering, and owns the persistent control state.
package control

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-drive/audio"
	"github.com/lixenwraith/vi-drive/clock"
	"github.com/lixenwraith/vi-drive/event"
	"github.com/lixenwraith/vi-drive/input"
	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/physics"
	"github.com/lixenwraith/vi-drive/vmath"
)

var (
	frontWheels = [2]int{physics.FrontRight, physics.FrontLeft}
	rearWheels  = [2]int{physics.RearRight, physics.RearLeft}
)

// Controller applies input to a vehicle. Not safe for concurrent use;
// input producers go through event.Queue and the frame loop calls Update.
type Controller struct {
	cfg     Config
	vehicle physics.VehicleControls
	clock   clock.Clock
	cues    audio.CuePlayer
	rnd     *rand.Rand
	log     zerolog.Logger

	state State
	out   Outputs

	turbo   clock.Timer
	stacked []*clock.Timer
}

// Option configures a Controller
type Option func(*Controller)

// WithRand sets the skid jitter source
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rnd = r }
}

// WithCuePlayer attaches a cue player at construction
func WithCuePlayer(p audio.CuePlayer) Option {
	return func(c *Controller) { c.cues = p }
}

// New creates a controller for vehicle with the engine off
func New(cfg Config, vehicle physics.VehicleControls, clk clock.Clock, log zerolog.Logger, opts ...Option) *Controller {
	c := &Controller{
		cfg:     cfg,
		vehicle: vehicle,
		clock:   clk,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     log.With().Str("component", "control").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AttachAudio sets the cue player; cues requested before attachment are dropped
func (c *Controller) AttachAudio(p audio.CuePlayer) {
	c.cues = p
}

// State returns a copy of the control state
func (c *Controller) State() State {
	return c.state
}

// Update applies events in order, fires due timers and advances per-tick state
func (c *Controller) Update(events []event.Event, dt float64) Outputs {
	c.out = Outputs{}

	for _, ev := range events {
		switch ev.Type {
		case event.KeyDown:
			c.HandleKeyDown(ev.Action)
		case event.KeyUp:
			c.HandleKeyUp(ev.Action)
		}
	}

	c.pollTimers()

	if c.state.EngineOn {
		c.state.VibrationTime += parameter.VibrationStep
		c.state.EngineTime += dt
	}

	c.out.State = c.state
	return c.out
}

// RecordSpeed refreshes the speed reading from chassis velocity and returns it in km/h
func (c *Controller) RecordSpeed(velocity mgl64.Vec3) float64 {
	c.state.Speed = vmath.HorizontalMag(velocity) * parameter.MetersPerSecToKmph
	return c.state.Speed
}

// HandleKeyDown applies a press or auto-repeat of a
func (c *Controller) HandleKeyDown(a input.Action) {
	switch a {
	case input.ActionEngine:
		c.toggleEngine()
	case input.ActionThrottle:
		c.drive(c.cfg.ThrottleForce)
	case input.ActionReverse:
		c.drive(c.cfg.ReverseForce)
	case input.ActionSteerLeft:
		c.steer(c.state.Steering + c.cfg.SteeringStep)
	case input.ActionSteerRight:
		c.steer(c.state.Steering - c.cfg.SteeringStep)
	case input.ActionBrake:
		c.brake()
	case input.ActionTurbo:
		c.startTurbo()
	}
}

// HandleKeyUp applies a release of a
func (c *Controller) HandleKeyUp(a input.Action) {
	switch {
	case a.ReleasesDrive():
		c.state.AccelerationForce = 0
		c.stopCue(audio.CueRace)
		c.setRearForce(0)
		c.steer(0)
	case a.ReleasesSteering():
		c.steer(0)
	}
}

func (c *Controller) toggleEngine() {
	c.state.EngineOn = !c.state.EngineOn
	chassis := c.vehicle.Chassis()

	if c.state.EngineOn {
		// Force first, then velocity reset: the force is still applied on the next step
		chassis.ApplyForce(mgl64.Vec3{c.cfg.KickForce, 0, 0}, chassis.Position())
		chassis.SetVelocity(mgl64.Vec3{})
		c.state.Headlights = c.cfg.HeadlightsOn
		c.playCue(audio.CueEngineStart)
		c.playCue(audio.CueMusic)
		c.log.Info().Msg("engine on")
		return
	}

	c.state.AccelerationForce = 0
	c.setRearForce(0)
	c.stopCue(audio.CueRace)
	c.state.Headlights = parameter.HeadlightsOff
	c.log.Info().Msg("engine off")
}

func (c *Controller) drive(force float64) {
	if !c.state.EngineOn {
		return
	}
	if c.state.TurboActive && c.cfg.TurboDriveBoost != 0 {
		force += math.Copysign(c.cfg.TurboDriveBoost, force)
	}
	c.vehicle.Chassis().SetLinearDamping(c.cfg.ThrottleDamping)
	c.state.AccelerationForce = force
	c.setRearForce(force)
	c.playCue(audio.CueRace)
}

func (c *Controller) steer(angle float64) {
	c.state.Steering = vmath.Clamp(angle, -c.cfg.SteeringLimit, c.cfg.SteeringLimit)
	for _, w := range frontWheels {
		c.vehicle.SetSteeringValue(c.state.Steering, w)
	}
}

// brake runs the one-shot brake sequence for a single key-down
func (c *Controller) brake() {
	if !c.state.EngineOn {
		return
	}
	chassis := c.vehicle.Chassis()
	speed := c.state.Speed
	brakeFactor := BrakeFactor(speed)
	tilt := TiltFactor(speed)
	skid := SkidFactor(speed, c.rnd.Float64())

	c.stopCue(audio.CueRace)

	// Impulse axes are chassis-local: X lateral, Y up, Z forward
	q := chassis.Quaternion()
	pos := chassis.Position()
	lateral := q.Rotate(vmath.AxisX).Dot(chassis.Velocity())

	switch {
	case speed > parameter.SkidTriggerSpeed && math.Abs(lateral) > parameter.SkidLateralMin:
		j := skid * parameter.SkidImpulse
		chassis.ApplyImpulse(q.Rotate(mgl64.Vec3{j, 0, j}), pos)
		c.playCue(audio.CueSkid)
		c.out.Skids++
		c.log.Debug().Float64("speed", speed).Float64("lateral", lateral).Float64("skid", skid).Msg("skid")
	case speed > parameter.BrakeCueSpeed:
		c.playCue(audio.CueBrake)
		c.out.Brakes++
	}

	chassis.ApplyImpulse(q.Rotate(mgl64.Vec3{0, tilt * parameter.TiltLift, -tilt * parameter.TiltPitch}), pos)
	for i := 0; i < parameter.WheelCount; i++ {
		c.vehicle.SetWheelForce(0, i)
	}

	v := chassis.Velocity()
	chassis.SetVelocity(mgl64.Vec3{v[0] * brakeFactor, v[1], v[2] * brakeFactor})
	chassis.SetAngularVelocity(q.Rotate(mgl64.Vec3{tilt * parameter.TiltSpin, 0, 0}))
	chassis.SetLinearDamping(BrakeDamping(speed))
}

func (c *Controller) startTurbo() {
	c.state.TurboActive = true
	c.state.Headlights = c.cfg.HeadlightsTurbo
	c.playCue(audio.CueNitro)
	c.out.TurboStarts++

	now := c.clock.Now()
	if c.cfg.TurboRetrigger == RetriggerStack {
		t := &clock.Timer{}
		t.Schedule(now, c.cfg.TurboDuration, c.endTurbo)
		c.stacked = append(c.stacked, t)
		c.state.TurboUntil = t.Deadline()
		return
	}
	c.turbo.Schedule(now, c.cfg.TurboDuration, c.endTurbo)
	c.state.TurboUntil = c.turbo.Deadline()
}

func (c *Controller) endTurbo() {
	c.state.TurboActive = false
	c.state.Headlights = c.cfg.HeadlightsOn
	c.state.TurboUntil = time.Time{}
	c.out.TurboEnds++
}

// pollTimers fires due turbo timers; stacked timers fire oldest first
func (c *Controller) pollTimers() {
	now := c.clock.Now()
	c.turbo.Poll(now)

	if len(c.stacked) == 0 {
		return
	}
	live := c.stacked[:0]
	for _, t := range c.stacked {
		if !t.Poll(now) {
			live = append(live, t)
		}
	}
	c.stacked = live
	if c.state.TurboActive && len(live) > 0 {
		c.state.TurboUntil = live[len(live)-1].Deadline()
	}
}

// PendingTurboTimers returns how many turbo ends are scheduled
func (c *Controller) PendingTurboTimers() int {
	n := len(c.stacked)
	if c.turbo.Pending() {
		n++
	}
	return n
}

func (c *Controller) setRearForce(force float64) {
	for _, w := range rearWheels {
		c.vehicle.SetWheelForce(force, w)
	}
}

func (c *Controller) playCue(cue audio.Cue) {
	if c.cues != nil {
		c.cues.Play(cue)
	}
}

func (c *Controller) stopCue(cue audio.Cue) {
	if c.cues != nil {
		c.cues.Stop(cue)
	}
}
