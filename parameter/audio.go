package parameter

import "time"

const (
	AudioSampleRate = 44100

	// AudioBufferDuration sets speaker latency
	AudioBufferDuration = 50 * time.Millisecond

	// AudioAttachRetry is the interval between audio device attach attempts
	AudioAttachRetry = 2 * time.Second

	// AudioMasterVolume is the beep effects.Volume exponent (base 2) of the mix
	AudioMasterVolume = -1.0
)

// Cue shapes
const (
	EngineStartDuration = 900 * time.Millisecond
	BrakeDuration       = 450 * time.Millisecond
	SkidDuration        = 700 * time.Millisecond
	NitroDuration       = 1200 * time.Millisecond
	RaceBaseFreq        = 55.0
	MusicTempoBPM       = 110.0
)
