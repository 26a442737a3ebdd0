package telemetry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-drive/engine"
	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/vmath"
)

// maxBuffered caps samples held while no store is attached
const maxBuffered = parameter.TelemetryBatchSize * 10

// RecorderConfig tunes sampling and flushing
type RecorderConfig struct {
	SampleEvery   int
	BatchSize     int
	FlushInterval time.Duration
}

// DefaultRecorderConfig returns the stock sampling tuning
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		SampleEvery:   parameter.TelemetrySampleEvery,
		BatchSize:     parameter.TelemetryBatchSize,
		FlushInterval: parameter.TelemetryFlushInterval,
	}
}

// Recorder observes frames and keeps the session summary, buffered samples
// and metric instruments up to date. Samples are held until a store attaches.
type Recorder struct {
	cfg     RecorderConfig
	metrics *Metrics
	log     zerolog.Logger

	mu        sync.Mutex
	store     *Store
	influx    *InfluxSink
	session   *Session
	summary   Session
	buffer    []Sample
	lastFlush time.Time
	lastPos   mgl64.Vec3
	havePos   bool
	dropped   int

	samples atomic.Int64
	counter *atomic.Int64
}

// NewRecorder creates a recorder; metrics may be nil
func NewRecorder(cfg RecorderConfig, metrics *Metrics, log zerolog.Logger) *Recorder {
	if cfg.SampleEvery < 1 {
		cfg.SampleEvery = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	return &Recorder{
		cfg:     cfg,
		metrics: metrics,
		log:     log.With().Str("component", "recorder").Logger(),
	}
}

// PublishSamples mirrors the recorded sample count into counter
func (r *Recorder) PublishSamples(counter *atomic.Int64) {
	r.counter = counter
}

// AttachStore starts a session in store; buffered samples are flushed on the next frame
func (r *Recorder) AttachStore(store *Store, at time.Time, config any) error {
	sess, err := store.StartSession(at, config)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = store
	r.session = sess
	r.log.Info().Uint("session", sess.ID).Int("buffered", len(r.buffer)).Msg("telemetry session started")
	return nil
}

// AttachInflux mirrors subsequent samples to sink
func (r *Recorder) AttachInflux(sink *InfluxSink) {
	r.mu.Lock()
	r.influx = sink
	r.mu.Unlock()
}

// OnFrame implements engine.FrameObserver
func (r *Recorder) OnFrame(f *engine.Frame) {
	ctx := context.Background()
	st := f.Control.State
	if r.metrics != nil {
		r.metrics.frame(ctx, f.SubSteps, f.Paused)
		r.metrics.events(ctx, f.Control.Brakes, f.Control.Skids, f.Control.TurboStarts)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.Frames++
	r.summary.Brakes += f.Control.Brakes
	r.summary.Skids += f.Control.Skids
	r.summary.TurboUses += f.Control.TurboStarts
	if st.Speed > r.summary.MaxSpeed {
		r.summary.MaxSpeed = st.Speed
	}

	pos := f.Scene.Chassis.Position
	if r.havePos && vmath.IsFinite(pos) {
		r.summary.Distance += vmath.HorizontalMag(pos.Sub(r.lastPos))
	}
	if vmath.IsFinite(pos) {
		r.lastPos = pos
		r.havePos = true
	}

	if r.lastFlush.IsZero() {
		r.lastFlush = f.At
	}

	if !f.Paused && f.Tick%uint64(r.cfg.SampleEvery) == 0 {
		r.record(ctx, f, pos)
	}

	if r.store != nil && (len(r.buffer) >= r.cfg.BatchSize || f.At.Sub(r.lastFlush) >= r.cfg.FlushInterval) {
		r.flushLocked(f.At)
	}
}

func (r *Recorder) record(ctx context.Context, f *engine.Frame, pos mgl64.Vec3) {
	st := f.Control.State
	s := Sample{
		Tick:         int64(f.Tick),
		At:           f.At,
		Speed:        st.Speed,
		PosX:         pos.X(),
		PosY:         pos.Y(),
		PosZ:         pos.Z(),
		Steering:     st.Steering,
		Acceleration: st.AccelerationForce,
		EngineOn:     st.EngineOn,
		Turbo:        st.TurboActive,
	}
	if r.session != nil {
		s.SessionID = r.session.ID
	}

	if len(r.buffer) >= maxBuffered {
		r.buffer = r.buffer[1:]
		r.dropped++
	}
	r.buffer = append(r.buffer, s)

	n := r.samples.Add(1)
	if r.counter != nil {
		r.counter.Store(n)
	}
	if r.metrics != nil {
		r.metrics.sample(ctx, s.Speed, s.EngineOn)
	}
	if r.influx != nil {
		if err := r.influx.WriteSample(s); err != nil {
			r.log.Warn().Err(err).Msg("influx sample dropped")
		}
	}
}

func (r *Recorder) flushLocked(now time.Time) {
	r.lastFlush = now
	if len(r.buffer) == 0 {
		return
	}
	for i := range r.buffer {
		r.buffer[i].SessionID = r.session.ID
	}
	if err := r.store.AddSamples(r.buffer); err != nil {
		r.log.Error().Err(err).Int("samples", len(r.buffer)).Msg("sample flush failed")
	}
	r.buffer = r.buffer[:0]
}

// Summary returns the running session summary
func (r *Recorder) Summary() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Samples returns how many samples were recorded
func (r *Recorder) Samples() int64 {
	return r.samples.Load()
}

// Buffered returns samples waiting for a flush
func (r *Recorder) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffer)
}

// Dropped returns samples discarded while no store was attached
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Session returns the stored session, nil until a store attaches
func (r *Recorder) Session() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Close flushes remaining samples, writes the summary and closes the influx sink.
// The store stays open for its owner.
func (r *Recorder) Close(at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.influx != nil {
		err = r.influx.Close()
		r.influx = nil
	}
	if r.store == nil {
		return err
	}

	r.flushLocked(at)
	sess := r.session
	sess.Frames = r.summary.Frames
	sess.MaxSpeed = r.summary.MaxSpeed
	sess.Distance = r.summary.Distance
	sess.Brakes = r.summary.Brakes
	sess.Skids = r.summary.Skids
	sess.TurboUses = r.summary.TurboUses
	if serr := r.store.EndSession(sess, at); serr != nil {
		r.log.Error().Err(serr).Msg("session summary not saved")
		if err == nil {
			err = serr
		}
	}
	r.log.Info().
		Uint("session", sess.ID).
		Int64("frames", sess.Frames).
		Float64("maxSpeed", sess.MaxSpeed).
		Float64("distance", sess.Distance).
		Msg("telemetry session closed")

	r.store = nil
	return err
}
