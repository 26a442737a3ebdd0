package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

// Config controls the audio device and mix
type Config struct {
	Enabled    bool
	SampleRate int
	Buffer     time.Duration
	Volume     float64 // base-2 exponent, 0 is unity
}

// Manager plays cues through the speaker.
// Every method is safe before Initialize and after Close; calls are then dropped.
type Manager struct {
	mu          sync.Mutex
	cfg         Config
	sr          beep.SampleRate
	mixer       *beep.Mixer
	master      *effects.Volume
	loops       map[Cue]*beep.Ctrl
	initialized bool
	log         zerolog.Logger
}

// NewManager creates a manager with no device attached
func NewManager(cfg Config, log zerolog.Logger) *Manager {
	mixer := &beep.Mixer{}
	return &Manager{
		cfg:    cfg,
		sr:     beep.SampleRate(cfg.SampleRate),
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2, Volume: cfg.Volume},
		loops:  make(map[Cue]*beep.Ctrl),
		log:    log.With().Str("component", "audio").Logger(),
	}
}

// Initialize opens the speaker; repeated calls after success are no-ops
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if !m.cfg.Enabled {
		return ErrDisabled
	}
	if err := speaker.Init(m.sr, m.sr.N(m.cfg.Buffer)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(m.master)
	m.initialized = true
	m.log.Info().Int("sample_rate", int(m.sr)).Msg("audio device attached")
	return nil
}

// Ready reports whether a device is attached
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// Play starts a cue; a looped cue already playing is left alone
func (m *Manager) Play(c Cue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}

	if c.Looped() {
		if ctrl, ok := m.loops[c]; ok {
			speaker.Lock()
			ctrl.Paused = false
			speaker.Unlock()
			return
		}
		ctrl := &beep.Ctrl{Streamer: newCueStreamer(c, m.sr)}
		m.loops[c] = ctrl
		speaker.Lock()
		m.mixer.Add(ctrl)
		speaker.Unlock()
		return
	}

	speaker.Lock()
	m.mixer.Add(newCueStreamer(c, m.sr))
	speaker.Unlock()
}

// Stop pauses a looped cue; one-shots run to completion
func (m *Manager) Stop(c Cue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctrl, ok := m.loops[c]
	if !ok || !m.initialized {
		return
	}
	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()
}

// SetMuted silences the master bus without tearing down streams
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		m.master.Silent = muted
		return
	}
	speaker.Lock()
	m.master.Silent = muted
	speaker.Unlock()
}

// Close stops every stream and releases the device
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	speaker.Close()

	clear(m.loops)
	m.initialized = false
}
