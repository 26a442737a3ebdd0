package telemetry

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
)

// MeasurementVehicle is the measurement name of mirrored samples
const MeasurementVehicle = "vehicle"

// ErrInfluxUnavailable is returned when the server is unreachable and no backup path is set
var ErrInfluxUnavailable = errors.New("influxdb unavailable")

// InfluxConfig addresses the mirror
type InfluxConfig struct {
	URL           string
	Token         string
	Org           string
	Bucket        string
	BatchSize     uint
	FlushInterval time.Duration
	// BackupPath receives gzipped line protocol while the server is down
	BackupPath string
}

// InfluxSink mirrors samples to InfluxDB, falling back to a gzip line
// protocol file when the server does not answer the initial ping
type InfluxSink struct {
	mu     sync.Mutex
	client influxdb2.Client
	writer influxdb2_api.WriteAPI
	backup *gzip.Writer
	file   io.Closer
	tags   map[string]string
	log    zerolog.Logger
}

// NewInfluxSink connects to cfg.URL
func NewInfluxSink(ctx context.Context, cfg InfluxConfig, log zerolog.Logger) (*InfluxSink, error) {
	log = log.With().Str("component", "influx").Logger()
	opts := influxdb2.DefaultOptions().
		SetBatchSize(cfg.BatchSize).
		SetFlushInterval(uint(cfg.FlushInterval / time.Millisecond))
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)

	s := &InfluxSink{client: client, tags: map[string]string{}, log: log}

	running, err := client.Ping(ctx)
	if err != nil || !running {
		client.Close()
		s.client = nil
		if cfg.BackupPath == "" {
			if err == nil {
				err = ErrInfluxUnavailable
			}
			return nil, fmt.Errorf("ping %s: %w", cfg.URL, err)
		}
		file, ferr := os.OpenFile(cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if ferr != nil {
			return nil, fmt.Errorf("open influx backup: %w", ferr)
		}
		s.file = file
		s.backup = gzip.NewWriter(file)
		log.Warn().Err(err).Str("backupPath", cfg.BackupPath).Msg("influxdb unreachable, writing backup file")
		return s, nil
	}

	s.writer = client.WriteAPI(cfg.Org, cfg.Bucket)
	errCh := s.writer.Errors()
	go func() {
		for werr := range errCh {
			log.Error().Err(werr).Str("bucket", cfg.Bucket).Msg("influx write failed")
		}
	}()
	log.Info().Str("url", cfg.URL).Str("bucket", cfg.Bucket).Msg("influx sink ready")
	return s, nil
}

// newBackupSink writes only to w, for tests and offline runs
func newBackupSink(w io.Writer, log zerolog.Logger) *InfluxSink {
	return &InfluxSink{backup: gzip.NewWriter(w), tags: map[string]string{}, log: log}
}

// SetTag adds a tag to every subsequent point
func (s *InfluxSink) SetTag(key, value string) {
	s.mu.Lock()
	s.tags[key] = value
	s.mu.Unlock()
}

// WriteSample queues one sample
func (s *InfluxSink) WriteSample(sample Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := samplePoint(sample, s.tags)
	if s.writer != nil {
		s.writer.WritePoint(p)
		return nil
	}
	if s.backup == nil {
		return ErrInfluxUnavailable
	}
	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	if _, err := s.backup.Write([]byte(line)); err != nil {
		return fmt.Errorf("write influx backup: %w", err)
	}
	return nil
}

// Flush pushes buffered points
func (s *InfluxSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer != nil {
		s.writer.Flush()
		return nil
	}
	if s.backup != nil {
		return s.backup.Flush()
	}
	return nil
}

// Close flushes and releases the client or backup file
func (s *InfluxSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writer != nil {
		s.writer.Flush()
	}
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	var err error
	if s.backup != nil {
		err = s.backup.Close()
		s.backup = nil
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
		s.file = nil
	}
	return err
}

func samplePoint(sample Sample, tags map[string]string) *influxdb2_write.Point {
	p := influxdb2_write.NewPointWithMeasurement(MeasurementVehicle).
		AddTag("session", fmt.Sprintf("%d", sample.SessionID)).
		AddField("tick", sample.Tick).
		AddField("speed", sample.Speed).
		AddField("pos_x", sample.PosX).
		AddField("pos_y", sample.PosY).
		AddField("pos_z", sample.PosZ).
		AddField("steering", sample.Steering).
		AddField("acceleration", sample.Acceleration).
		AddField("engine_on", sample.EngineOn).
		AddField("turbo", sample.Turbo).
		SetTime(sample.At)
	for k, v := range tags {
		p.AddTag(k, v)
	}
	return p
}
