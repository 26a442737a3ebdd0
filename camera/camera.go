// Package camera keeps a third-person chase camera trailing a rigid body.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/vmath"
)

// State is the camera output for one frame
type State struct {
	Position mgl64.Vec3
	LookAt   mgl64.Vec3
}

// View returns the right-handed view matrix for the state with +Y up
func (s State) View() mgl64.Mat4 {
	return mgl64.LookAtV(s.Position, s.LookAt, vmath.AxisY)
}

// Config holds follow tuning
type Config struct {
	Start     mgl64.Vec3 // position before the first update
	ChaseZ    float64    // Z offset forced each frame
	Lerp      float64    // per-frame approach fraction in (0, 1]
	Look      mgl64.Vec3 // look-at point in target local space
	Reset     mgl64.Vec3 // offset from target used to recover from a non-finite position
	OrbitStep float64
}

// DefaultConfig returns the stock chase tuning
func DefaultConfig() Config {
	return Config{
		Start:     mgl64.Vec3{parameter.CameraStartX, parameter.CameraStartY, parameter.CameraStartZ},
		ChaseZ:    parameter.CameraChaseZ,
		Lerp:      parameter.CameraLerp,
		Look:      mgl64.Vec3{parameter.CameraLookX, parameter.CameraLookY, parameter.CameraLookZ},
		Reset:     mgl64.Vec3{parameter.CameraResetX, parameter.CameraResetY, parameter.CameraResetZ},
		OrbitStep: parameter.CameraOrbitStep,
	}
}

// Follower smooths the camera toward a chase point behind the target.
// The offset is recomputed from the live delta every frame, so manual X/Y
// drift persists while Z is pinned to the chase distance.
type Follower struct {
	cfg    Config
	state  State
	resets int
	log    zerolog.Logger
}

// NewFollower creates a follower at cfg.Start
func NewFollower(cfg Config, log zerolog.Logger) *Follower {
	return &Follower{
		cfg:   cfg,
		state: State{Position: cfg.Start},
		log:   log.With().Str("component", "camera").Logger(),
	}
}

// Update advances one frame toward the chase point of target and returns the new state
func (f *Follower) Update(target vmath.Pose) State {
	p := target.Position
	c := f.state.Position

	offset := c.Sub(p)
	chase := p.Add(mgl64.Vec3{offset[0], offset[1], f.cfg.ChaseZ})
	c = vmath.Lerp(c, chase, f.cfg.Lerp)

	f.state.LookAt = target.Transform(f.cfg.Look)

	if !vmath.IsFinite(c) {
		f.resets++
		f.log.Warn().
			Floats64("camera", c[:]).
			Floats64("target", p[:]).
			Int("resets", f.resets).
			Msg("camera position not finite, resetting")
		c = p.Add(f.cfg.Reset)
	}
	f.state.Position = c
	return f.state
}

// OrbitBy shifts the camera by dx, dy orbit steps; the next Update keeps the shift
func (f *Follower) OrbitBy(dx, dy float64) {
	f.state.Position[0] += dx * f.cfg.OrbitStep
	f.state.Position[1] += dy * f.cfg.OrbitStep
}

// State returns the last computed state
func (f *Follower) State() State {
	return f.state
}

// Resets returns how many non-finite recoveries have happened
func (f *Follower) Resets() int {
	return f.resets
}

// Place moves the camera directly, bypassing smoothing
func (f *Follower) Place(position mgl64.Vec3) {
	f.state.Position = position
}
