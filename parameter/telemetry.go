package parameter

import "time"

const (
	// TelemetrySampleEvery records one sample per this many frames
	TelemetrySampleEvery = 30

	// TelemetryBatchSize is the insert batch for buffered samples
	TelemetryBatchSize = 100

	// TelemetryFlushInterval bounds how long samples stay buffered
	TelemetryFlushInterval = 5 * time.Second

	// TelemetryRetryInterval is the delay between store reconnect attempts
	TelemetryRetryInterval = 10 * time.Second
)
