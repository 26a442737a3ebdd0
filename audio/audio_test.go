package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = beep.SampleRate(44100)

// drain streams s until it ends or max samples pass; returns count and peak
func drain(s beep.Streamer, max int) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for total < max {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = math.Max(peak, math.Abs(smp[0]))
		}
		total += n
		if !ok {
			break
		}
	}
	return total, peak
}

func TestCueStreamers(t *testing.T) {
	oneShots := map[Cue]time.Duration{
		CueEngineStart: 900 * time.Millisecond,
		CueBrake:       450 * time.Millisecond,
		CueSkid:        700 * time.Millisecond,
		CueNitro:       1200 * time.Millisecond,
	}
	for cue, d := range oneShots {
		t.Run(cue.String(), func(t *testing.T) {
			n, peak := drain(newCueStreamer(cue, testRate), testRate.N(5*time.Second))
			assert.Equal(t, testRate.N(d), n, "one-shot ends after its duration")
			assert.Greater(t, peak, 0.01)
			assert.LessOrEqual(t, peak, 1.0)
		})
	}

	for _, cue := range []Cue{CueRace, CueMusic} {
		t.Run(cue.String(), func(t *testing.T) {
			limit := testRate.N(3 * time.Second)
			n, peak := drain(newCueStreamer(cue, testRate), limit)
			assert.GreaterOrEqual(t, n, limit, "looped cue keeps streaming")
			assert.Greater(t, peak, 0.01)
			assert.LessOrEqual(t, peak, 1.0)
		})
	}
}

func TestCueLooped(t *testing.T) {
	assert.True(t, CueRace.Looped())
	assert.True(t, CueMusic.Looped())
	assert.False(t, CueSkid.Looped())
	assert.Equal(t, "unknown", Cue(99).String())
}

func TestManagerWithoutDevice(t *testing.T) {
	m := NewManager(Config{Enabled: false, SampleRate: 44100, Buffer: 50 * time.Millisecond}, zerolog.Nop())

	require.ErrorIs(t, m.Initialize(), ErrDisabled)
	assert.False(t, m.Ready())

	assert.NotPanics(t, func() {
		m.Play(CueEngineStart)
		m.Play(CueRace)
		m.Stop(CueRace)
		m.SetMuted(true)
		m.Close()
	})
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Play(CueRace)
	r.Play(CueSkid)
	r.Stop(CueRace)
	r.Play(CueSkid)

	assert.Equal(t, []Cue{CueRace, CueSkid, CueSkid}, r.Played())
	assert.Equal(t, 2, r.Count(CueSkid))
	assert.True(t, r.Stopped(CueRace))
	assert.False(t, r.Stopped(CueSkid))

	r.Reset()
	assert.Empty(t, r.Calls())
}
