package parameter

import "time"

// Frame loop
const (
	// FrameInterval is the render/update cadence (~60 FPS)
	FrameInterval = 16 * time.Millisecond

	// FrameMaxBehind resets the deadline when the loop falls this far behind
	FrameMaxBehind = 2 * FrameInterval
)

// Event queue
const (
	// EventQueueSize is the fixed capacity of the input ring buffer
	EventQueueSize = 256

	// EventBufferMask is EventQueueSize - 1
	EventBufferMask = 255
)

// Input
const (
	// KeyReleaseTimeout synthesizes a key-up when a held key stops repeating.
	// Must exceed the terminal's initial key-repeat delay.
	KeyReleaseTimeout = 700 * time.Millisecond

	// InputPollInterval is how often held keys are checked for release
	InputPollInterval = 20 * time.Millisecond
)
