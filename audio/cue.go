package audio

// Cue identifies a sound the simulation can request
type Cue uint8

const (
	CueEngineStart Cue = iota
	CueRace
	CueBrake
	CueSkid
	CueNitro
	CueMusic

	cueCount
)

var cueNames = [cueCount]string{
	CueEngineStart: "engine_start",
	CueRace:        "race",
	CueBrake:       "brake",
	CueSkid:        "skid",
	CueNitro:       "nitro",
	CueMusic:       "music",
}

func (c Cue) String() string {
	if c < cueCount {
		return cueNames[c]
	}
	return "unknown"
}

// Looped reports whether the cue plays until stopped
func (c Cue) Looped() bool {
	return c == CueRace || c == CueMusic
}

// CuePlayer is the fire-and-forget playback surface used by the simulation.
// Implementations must tolerate calls while no device is attached.
type CuePlayer interface {
	Play(c Cue)
	Stop(c Cue)
}
