// Package engine runs the frame loop: input routing, control, fixed-step
// physics, visual pose sync, camera follow and output publication.
package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-drive/camera"
	"github.com/lixenwraith/vi-drive/clock"
	"github.com/lixenwraith/vi-drive/control"
	"github.com/lixenwraith/vi-drive/event"
	"github.com/lixenwraith/vi-drive/input"
	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/physics"
	"github.com/lixenwraith/vi-drive/render"
	"github.com/lixenwraith/vi-drive/status"
	"github.com/lixenwraith/vi-drive/vmath"
)

// ErrRunning is returned when Run is called on a driver that is already looping
var ErrRunning = errors.New("driver already running")

// Components are the collaborators a Driver orchestrates
type Components struct {
	World   *physics.World
	Vehicle *physics.Vehicle
	Control *control.Controller
	Camera  *camera.Follower
	Queue   *event.Queue
	Clock   *clock.Pausable // game time, frozen while paused
	Wall    clock.Clock     // loop scheduling and deferred retries; defaults to wall time
	Status  *status.Registry
}

// Driver owns the per-tick ordering of the simulation
type Driver struct {
	c        Components
	deferred *Deferred
	out      *status.Outputs
	log      zerolog.Logger

	interval  time.Duration
	maxBehind time.Duration

	observers []FrameObserver

	tick  uint64
	last  time.Time
	drive []event.Event

	running  atomic.Bool
	quit     chan struct{}
	quitOnce sync.Once
}

// NewDriver wires the components into a frame loop ticking every interval
func NewDriver(c Components, interval time.Duration, log zerolog.Logger) *Driver {
	if c.Wall == nil {
		c.Wall = clock.Wall{}
	}
	if c.Status == nil {
		c.Status = status.NewRegistry()
	}
	log = log.With().Str("component", "driver").Logger()
	return &Driver{
		c:         c,
		deferred:  NewDeferred(log),
		out:       status.Bind(c.Status),
		log:       log,
		interval:  interval,
		maxBehind: maxBehind(interval),
		drive:     make([]event.Event, 0, parameter.EventQueueSize),
		quit:      make(chan struct{}),
	}
}

// maxBehind scales FrameMaxBehind to the configured interval
func maxBehind(interval time.Duration) time.Duration {
	return interval * (parameter.FrameMaxBehind / parameter.FrameInterval)
}

// AddObserver registers o for every subsequent frame; call before Run
func (d *Driver) AddObserver(o FrameObserver) {
	d.observers = append(d.observers, o)
}

// Deferred returns the retry queue drained each tick
func (d *Driver) Deferred() *Deferred {
	return d.deferred
}

// Done is closed once a quit is requested
func (d *Driver) Done() <-chan struct{} {
	return d.quit
}

// Quit asks Run to return after the current tick
func (d *Driver) Quit() {
	d.quitOnce.Do(func() { close(d.quit) })
}

// Ticks returns the number of frames run
func (d *Driver) Ticks() uint64 {
	return d.tick
}

// Run ticks on a deadline schedule until ctx ends or a quit is requested.
// A loop that falls more than FrameMaxBehind (scaled to the interval) behind resynchronizes instead of bursting.
func (d *Driver) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer d.running.Store(false)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	next := d.c.Wall.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.quit:
			return nil
		default:
		}

		now := d.c.Wall.Now()
		if !now.Before(next) {
			d.Tick()
			next = next.Add(d.interval)
			if now.Sub(next) > d.maxBehind {
				next = now.Add(d.interval)
			}
		}

		sleep := next.Sub(d.c.Wall.Now())
		if sleep <= 0 {
			continue
		}
		timer.Reset(sleep)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		case <-d.quit:
			return nil
		}
	}
}

// Tick runs one frame and returns it
func (d *Driver) Tick() *Frame {
	d.tick++
	now := d.c.Clock.Now()

	d.drive = d.drive[:0]
	for _, ev := range d.c.Queue.Consume() {
		d.route(ev)
	}

	var elapsed time.Duration
	if !d.last.IsZero() {
		elapsed = now.Sub(d.last)
	}
	d.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > parameter.MaxFrameDelta {
		elapsed = parameter.MaxFrameDelta
	}

	f := &Frame{Tick: d.tick, At: now, Elapsed: elapsed, Paused: d.c.Clock.IsPaused()}
	if f.Paused {
		f.Control.State = d.c.Control.State()
	} else {
		f.Control = d.c.Control.Update(d.drive, elapsed.Seconds())
		f.SubSteps = d.c.World.FixedStep(elapsed)
		f.Control.State.Speed = d.c.Control.RecordSpeed(d.c.Vehicle.ChassisBody().Velocity())
	}

	f.Scene = d.scene(f.Control.State)
	f.Scene.Paused = f.Paused
	f.Scene.Tick = d.tick
	if f.Paused {
		f.Scene.Camera = d.c.Camera.State()
	} else {
		f.Scene.Camera = d.c.Camera.Update(f.Scene.Chassis)
	}

	pending := d.deferred.Drain(d.c.Wall.Now())

	d.publish(f, pending)
	for _, o := range d.observers {
		o.OnFrame(f)
	}
	return f
}

// route handles loop-level actions and collects control events in order
func (d *Driver) route(ev event.Event) {
	switch ev.Action {
	case input.ActionQuit:
		if ev.Type == event.KeyDown {
			d.log.Info().Str("key", ev.Key).Msg("quit requested")
			d.Quit()
		}
		return
	case input.ActionPause:
		if ev.Type == event.KeyDown {
			paused := d.c.Clock.Toggle()
			d.log.Info().Bool("paused", paused).Msg("pause toggled")
		}
		return
	}

	if ev.Action.IsOrbit() {
		if ev.Type == event.KeyDown {
			d.orbit(ev.Action)
		}
		return
	}

	if d.c.Clock.IsPaused() {
		// Releases still apply so nothing stays held across a pause
		if ev.Type == event.KeyUp {
			d.c.Control.HandleKeyUp(ev.Action)
		}
		return
	}
	d.drive = append(d.drive, ev)
}

func (d *Driver) orbit(a input.Action) {
	switch a {
	case input.ActionOrbitLeft:
		d.c.Camera.OrbitBy(-1, 0)
	case input.ActionOrbitRight:
		d.c.Camera.OrbitBy(1, 0)
	case input.ActionOrbitUp:
		d.c.Camera.OrbitBy(0, 1)
	case input.ActionOrbitDown:
		d.c.Camera.OrbitBy(0, -1)
	}
}

// scene syncs visual transforms from the physics pose, adding idle
// vibration to the chassis and a speed-proportional spin offset to the wheels
func (d *Driver) scene(st control.State) render.Scene {
	body := d.c.Vehicle.ChassisBody()
	chassis := body.Pose()

	if st.EngineOn {
		t := st.VibrationTime
		chassis.Position = chassis.Position.Add(mgl64.Vec3{
			math.Sin(parameter.VibrationFreqX*t) * parameter.VibrationAmpX,
			math.Sin(parameter.VibrationFreqY*t) * parameter.VibrationAmpY,
			0,
		})
		roll := math.Sin(parameter.VibrationFreqRoll*t) * parameter.VibrationAmpRoll
		chassis.Orientation = chassis.Orientation.Mul(vmath.RotateZ(roll)).Normalize()
	}

	s := render.Scene{
		Chassis:     chassis,
		HalfExtents: body.Shape().HalfExtents,
		Speed:       st.Speed,
		Steering:    st.Steering,
		Headlights:  st.Headlights,
		EngineOn:    st.EngineOn,
		Turbo:       st.TurboActive,
	}
	spin := -st.Speed * parameter.WheelSpinPerSpeed
	for i := 0; i < d.c.Vehicle.NumWheels() && i < len(s.Wheels); i++ {
		pose := d.c.Vehicle.WheelPose(i)
		pose.Orientation = pose.Orientation.Mul(mgl64.QuatRotate(spin, d.c.Vehicle.Wheel(i).Spec.Axle))
		s.Wheels[i] = pose
	}
	return s
}

func (d *Driver) publish(f *Frame, pending int) {
	st := f.Control.State
	d.out.Speed.Set(st.Speed)
	d.out.MaxSpeed.Max(st.Speed)
	d.out.EngineOn.Store(st.EngineOn)
	d.out.Turbo.Store(st.TurboActive)
	d.out.Steering.Set(st.Steering)
	d.out.Acceleration.Set(st.AccelerationForce)
	d.out.Headlights.Set(st.Headlights)
	d.out.Needle.Set(render.NeedleAngle(st.Speed))
	d.out.SpeedLabel.Store(render.NeedleLabel(st.Speed))
	d.out.Ticks.Store(int64(f.Tick))
	d.out.SubSteps.Store(int64(f.SubSteps))
	d.out.Paused.Store(f.Paused)
	d.out.Deferred.Store(int64(pending))
	d.out.CameraResets.Store(int64(d.c.Camera.Resets()))
	d.out.Brakes.Add(int64(f.Control.Brakes))
	d.out.Skids.Add(int64(f.Control.Skids))
}
