// Package logging builds the process logger. The terminal owns stdout, so
// output goes to a rotating file under the log directory and, optionally,
// to a Graylog GELF endpoint.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

const (
	// DefaultDir is the log directory relative to the working directory
	DefaultDir = "logs"
	// DefaultFileName is the active log file name
	DefaultFileName = "vi-drive.log"
	// MaxFileSize triggers rotation of the active file at startup
	MaxFileSize = 10 * 1024 * 1024
)

// Config selects log sinks
type Config struct {
	Enabled  bool
	Level    string
	Dir      string
	FileName string
	// GraylogAddr is host:port of a GELF UDP input, empty to disable
	GraylogAddr string
}

// Sink is an open logger with the resources behind it
type Sink struct {
	Logger zerolog.Logger
	file   *os.File
	gelf   *gelf.Writer
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup opens the configured sinks. A disabled config returns a no-op logger
// and never touches the filesystem.
func Setup(cfg Config) (*Sink, error) {
	if !cfg.Enabled {
		return &Sink{Logger: zerolog.Nop()}, nil
	}
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	if cfg.FileName == "" {
		cfg.FileName = DefaultFileName
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(cfg.Dir, cfg.FileName)
	if err := rotate(path, time.Now()); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	s := &Sink{file: file}
	writers := []io.Writer{file}
	if cfg.GraylogAddr != "" {
		gw, err := gelf.NewWriter(cfg.GraylogAddr)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("graylog writer %s: %w", cfg.GraylogAddr, err)
		}
		s.gelf = gw
		writers = append(writers, gw)
	}

	s.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().Logger()
	s.Logger.Info().Str("path", path).Bool("graylog", s.gelf != nil).Msg("logging set up")
	return s, nil
}

// rotate renames path aside when it has grown past MaxFileSize
func rotate(path string, now time.Time) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= MaxFileSize {
		return nil
	}
	ext := filepath.Ext(path)
	rotated := strings.TrimSuffix(path, ext) + "." + now.Format("20060102_150405") + ext
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}

// Close releases the file and GELF connection
func (s *Sink) Close() error {
	var err error
	if s.gelf != nil {
		err = s.gelf.Close()
		s.gelf = nil
	}
	if s.file != nil {
		if ferr := s.file.Close(); err == nil {
			err = ferr
		}
		s.file = nil
	}
	return err
}
