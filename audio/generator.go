package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/vi-drive/parameter"
)

// newCueStreamer builds the synthesized streamer for a cue.
// Looped cues never end; one-shots are cut with beep.Take.
func newCueStreamer(c Cue, sr beep.SampleRate) beep.Streamer {
	switch c {
	case CueEngineStart:
		return beep.Take(sr.N(parameter.EngineStartDuration), NewCrankGenerator(sr, parameter.EngineStartDuration))
	case CueRace:
		return NewRumbleGenerator(sr, parameter.RaceBaseFreq)
	case CueBrake:
		return beep.Take(sr.N(parameter.BrakeDuration), NewSquealGenerator(sr))
	case CueSkid:
		return beep.Take(sr.N(parameter.SkidDuration), NewScrubGenerator(sr, time.Now().UnixNano()))
	case CueNitro:
		return beep.Take(sr.N(parameter.NitroDuration), NewHissGenerator(sr, parameter.NitroDuration, time.Now().UnixNano()))
	case CueMusic:
		return NewSynthwaveGenerator(sr, parameter.MusicTempoBPM)
	}
	return beep.Silence(0)
}

// lcg is a tiny deterministic noise source
type lcg struct{ seed int64 }

func (l *lcg) next() float64 {
	l.seed = (l.seed*1103515245 + 12345) & 0x7fffffff
	return float64(l.seed)/float64(0x7fffffff)*2 - 1
}

// CrankGenerator is a starter-motor whine rising into idle
type CrankGenerator struct {
	sr    beep.SampleRate
	pos   int
	total int
}

func NewCrankGenerator(sr beep.SampleRate, d time.Duration) *CrankGenerator {
	return &CrankGenerator{sr: sr, total: sr.N(d)}
}

func (g *CrankGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		progress := math.Min(float64(g.pos)/float64(g.total), 1)

		// Chug rate climbs as the engine catches
		chug := 0.5 + 0.5*math.Sin(2*math.Pi*(6+18*progress)*t)
		freq := 40 + 60*progress
		sample := 0.3 * chug * math.Sin(2*math.Pi*freq*t)
		sample += 0.1 * math.Sin(2*math.Pi*freq*2*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *CrankGenerator) Err() error { return nil }

// RumbleGenerator is the looping engine note under throttle
type RumbleGenerator struct {
	sr   beep.SampleRate
	base float64
	pos  int
}

func NewRumbleGenerator(sr beep.SampleRate, base float64) *RumbleGenerator {
	return &RumbleGenerator{sr: sr, base: base}
}

func (g *RumbleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Slow wobble keeps the loop from sounding static
		freq := g.base * (1 + 0.08*math.Sin(2*math.Pi*0.7*t))
		sample := 0.2 * math.Sin(2*math.Pi*freq*t)
		sample += 0.12 * math.Sin(2*math.Pi*freq*2*t)
		sample += 0.06 * math.Sin(2*math.Pi*freq*3*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *RumbleGenerator) Err() error { return nil }

// SquealGenerator is a short high brake squeal with vibrato
type SquealGenerator struct {
	sr  beep.SampleRate
	pos int
}

func NewSquealGenerator(sr beep.SampleRate) *SquealGenerator {
	return &SquealGenerator{sr: sr}
}

func (g *SquealGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		attack := math.Min(t/0.02, 1)
		envelope := attack * math.Exp(-t*4)
		freq := 1900 + 60*math.Sin(2*math.Pi*11*t)
		sample := 0.15 * envelope * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SquealGenerator) Err() error { return nil }

// ScrubGenerator is tyre scrub: low-passed noise over a falling rumble
type ScrubGenerator struct {
	sr    beep.SampleRate
	pos   int
	noise lcg
	lp    float64
}

func NewScrubGenerator(sr beep.SampleRate, seed int64) *ScrubGenerator {
	return &ScrubGenerator{sr: sr, noise: lcg{seed: seed}}
}

func (g *ScrubGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Exp(-t * 3)
		g.lp += 0.2 * (g.noise.next() - g.lp)
		rumble := 0.2 * math.Sin(2*math.Pi*(90-40*t)*t)
		sample := envelope * (0.35*g.lp + rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ScrubGenerator) Err() error { return nil }

// HissGenerator is the nitro burst: noise swelling then fading
type HissGenerator struct {
	sr    beep.SampleRate
	pos   int
	total int
	noise lcg
}

func NewHissGenerator(sr beep.SampleRate, d time.Duration, seed int64) *HissGenerator {
	return &HissGenerator{sr: sr, total: sr.N(d), noise: lcg{seed: seed}}
}

func (g *HissGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		progress := math.Min(float64(g.pos)/float64(g.total), 1)
		envelope := math.Sin(math.Pi * progress)
		sample := 0.25 * envelope * g.noise.next()

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *HissGenerator) Err() error { return nil }

// SynthwaveGenerator is the background loop: kick on every beat over a bass line
type SynthwaveGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int // per beat
	kickLen int
}

func NewSynthwaveGenerator(sr beep.SampleRate, bpm float64) *SynthwaveGenerator {
	beat := time.Duration(float64(time.Minute) / bpm)
	return &SynthwaveGenerator{
		sr:      sr,
		samples: sr.N(beat),
		kickLen: sr.N(100 * time.Millisecond),
	}
}

// bassline cycles every four beats, in Hz
var bassline = [4]float64{110, 110, 98, 82.41}

func (g *SynthwaveGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		beat := g.pos / g.samples
		beatPos := g.pos % g.samples
		t := float64(beatPos) / float64(g.sr)

		kick := 0.0
		if beatPos < g.kickLen {
			env := 1 - float64(beatPos)/float64(g.kickLen)
			kick = 0.35 * env * math.Sin(2*math.Pi*60*(1+2*env)*t)
		}
		bass := 0.12 * math.Sin(2*math.Pi*bassline[beat%len(bassline)]*t)

		sample := kick + bass
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SynthwaveGenerator) Err() error { return nil }
