package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/lixenwraith/vi-drive/telemetry"

// Metrics holds the OpenTelemetry instruments fed by the recorder
type Metrics struct {
	frames   metric.Int64Counter
	brakes   metric.Int64Counter
	skids    metric.Int64Counter
	turbo    metric.Int64Counter
	speed    metric.Float64Histogram
	substeps metric.Int64Histogram
}

// DefaultMeter returns the meter of the global provider
func DefaultMeter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// NewMetrics creates the instruments on m
func NewMetrics(m metric.Meter) (*Metrics, error) {
	var (
		ms  Metrics
		err error
	)
	if ms.frames, err = m.Int64Counter("vidrive.frames",
		metric.WithDescription("Frames driven")); err != nil {
		return nil, fmt.Errorf("frames counter: %w", err)
	}
	if ms.brakes, err = m.Int64Counter("vidrive.brakes",
		metric.WithDescription("Brake presses at speed")); err != nil {
		return nil, fmt.Errorf("brakes counter: %w", err)
	}
	if ms.skids, err = m.Int64Counter("vidrive.skids",
		metric.WithDescription("Skid impulses applied")); err != nil {
		return nil, fmt.Errorf("skids counter: %w", err)
	}
	if ms.turbo, err = m.Int64Counter("vidrive.turbo",
		metric.WithDescription("Turbo activations")); err != nil {
		return nil, fmt.Errorf("turbo counter: %w", err)
	}
	if ms.speed, err = m.Float64Histogram("vidrive.speed",
		metric.WithDescription("Sampled vehicle speed"),
		metric.WithUnit("km/h")); err != nil {
		return nil, fmt.Errorf("speed histogram: %w", err)
	}
	if ms.substeps, err = m.Int64Histogram("vidrive.substeps",
		metric.WithDescription("Fixed physics steps per frame")); err != nil {
		return nil, fmt.Errorf("substeps histogram: %w", err)
	}
	return &ms, nil
}

func (ms *Metrics) frame(ctx context.Context, substeps int, paused bool) {
	attrs := metric.WithAttributes(attribute.Bool("paused", paused))
	ms.frames.Add(ctx, 1, attrs)
	ms.substeps.Record(ctx, int64(substeps))
}

func (ms *Metrics) events(ctx context.Context, brakes, skids, turbo int) {
	if brakes > 0 {
		ms.brakes.Add(ctx, int64(brakes))
	}
	if skids > 0 {
		ms.skids.Add(ctx, int64(skids))
	}
	if turbo > 0 {
		ms.turbo.Add(ctx, int64(turbo))
	}
}

func (ms *Metrics) sample(ctx context.Context, speed float64, engineOn bool) {
	ms.speed.Record(ctx, speed, metric.WithAttributes(attribute.Bool("engine_on", engineOn)))
}
