package status

import "sync/atomic"

// Metric names published by the frame driver
const (
	KeySpeed        = "vehicle.speed_kmh"
	KeyEngineOn     = "vehicle.engine_on"
	KeyTurbo        = "vehicle.turbo"
	KeySteering     = "vehicle.steering"
	KeyAcceleration = "vehicle.acceleration"
	KeyHeadlights   = "vehicle.headlights"
	KeyNeedle       = "gauge.needle_deg"
	KeySpeedLabel   = "gauge.label"
	KeyTicks        = "engine.ticks"
	KeySubSteps     = "engine.substeps"
	KeyPaused       = "engine.paused"
	KeyDeferred     = "engine.deferred"
	KeyCameraResets = "camera.resets"
	KeyBrakes       = "control.brakes"
	KeySkids        = "control.skids"
	KeyMaxSpeed     = "vehicle.max_speed_kmh"
	KeyAudioReady   = "audio.ready"
	KeySamples      = "telemetry.samples"
)

// Outputs caches the cells written every frame
type Outputs struct {
	Speed        *AtomicFloat
	MaxSpeed     *AtomicFloat
	EngineOn     *atomic.Bool
	Turbo        *atomic.Bool
	Steering     *AtomicFloat
	Acceleration *AtomicFloat
	Headlights   *AtomicFloat
	Needle       *AtomicFloat
	SpeedLabel   *AtomicString
	Ticks        *atomic.Int64
	SubSteps     *atomic.Int64
	Paused       *atomic.Bool
	Deferred     *atomic.Int64
	CameraResets *atomic.Int64
	Brakes       *atomic.Int64
	Skids        *atomic.Int64
	AudioReady   *atomic.Bool
}

// Bind registers the frame outputs in r
func Bind(r *Registry) *Outputs {
	return &Outputs{
		Speed:        r.Floats.Get(KeySpeed),
		MaxSpeed:     r.Floats.Get(KeyMaxSpeed),
		EngineOn:     r.Bools.Get(KeyEngineOn),
		Turbo:        r.Bools.Get(KeyTurbo),
		Steering:     r.Floats.Get(KeySteering),
		Acceleration: r.Floats.Get(KeyAcceleration),
		Headlights:   r.Floats.Get(KeyHeadlights),
		Needle:       r.Floats.Get(KeyNeedle),
		SpeedLabel:   r.Strings.Get(KeySpeedLabel),
		Ticks:        r.Ints.Get(KeyTicks),
		SubSteps:     r.Ints.Get(KeySubSteps),
		Paused:       r.Bools.Get(KeyPaused),
		Deferred:     r.Ints.Get(KeyDeferred),
		CameraResets: r.Ints.Get(KeyCameraResets),
		Brakes:       r.Ints.Get(KeyBrakes),
		Skids:        r.Ints.Get(KeySkids),
		AudioReady:   r.Bools.Get(KeyAudioReady),
	}
}
