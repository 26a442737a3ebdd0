// Package telemetry records drive sessions: summary rows and periodic
// samples in a SQL store, an optional InfluxDB mirror and OpenTelemetry
// instruments.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lixenwraith/vi-drive/parameter"
)

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is returned for a driver other than sqlite or postgres
var ErrUnknownDriver = errors.New("unknown telemetry driver")

// StoreConfig selects and addresses the SQL backend
type StoreConfig struct {
	Driver string
	// DSN is a file path for sqlite (":memory:" for a private in-memory DB)
	// or a connection string for postgres
	DSN string
}

// Store persists sessions and samples through gorm
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the configured backend and migrates the schema
func Open(cfg StoreConfig, log zerolog.Logger) (*Store, error) {
	gcfg := &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        parameter.TelemetryBatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.DSN), gcfg)
	case DriverPostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gcfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("telemetry open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("telemetry sql handle: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// In-memory sqlite databases are per connection
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("telemetry ping: %w", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("telemetry migrate: %w", err)
	}

	log = log.With().Str("component", "telemetry").Str("driver", cfg.Driver).Logger()
	log.Info().Msg("telemetry store ready")
	return &Store{db: db, log: log}, nil
}

// DB exposes the gorm handle for queries
func (s *Store) DB() *gorm.DB {
	return s.db
}

// StartSession inserts a new session with a JSON snapshot of config
func (s *Store) StartSession(at time.Time, config any) (*Session, error) {
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("encode session config: %w", err)
	}
	sess := &Session{StartedAt: at, Config: datatypes.JSON(raw)}
	if err := s.db.Create(sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// AddSamples inserts samples in batches
func (s *Store) AddSamples(samples []Sample) error {
	if len(samples) == 0 {
		return nil
	}
	if err := s.db.CreateInBatches(samples, parameter.TelemetryBatchSize).Error; err != nil {
		return fmt.Errorf("insert %d samples: %w", len(samples), err)
	}
	return nil
}

// EndSession stamps the end time and saves the summary fields
func (s *Store) EndSession(sess *Session, at time.Time) error {
	sess.EndedAt = &at
	if err := s.db.Omit("Samples").Save(sess).Error; err != nil {
		return fmt.Errorf("save session %d: %w", sess.ID, err)
	}
	return nil
}

// Session loads a session by id
func (s *Store) Session(id uint) (*Session, error) {
	var sess Session
	if err := s.db.First(&sess, id).Error; err != nil {
		return nil, fmt.Errorf("load session %d: %w", id, err)
	}
	return &sess, nil
}

// SampleCount returns how many samples a session has
func (s *Store) SampleCount(sessionID uint) (int64, error) {
	var n int64
	err := s.db.Model(&Sample{}).Where("session_id = ?", sessionID).Count(&n).Error
	return n, err
}

// Close releases the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
