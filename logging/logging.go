// Package logging sets up the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const TimeFormat = "2006-01-02 15:04:05"

type Config struct {
	// File, when set, receives a copy of the log, rotated by size.
	File       string
	MaxSizeMB  int `validate:"gte=0"`
	MaxBackups int `validate:"gte=0"`
}

var DefaultConfig = Config{
	MaxSizeMB:  1,
	MaxBackups: 2,
}

// Init routes the global logger to a console writer on stderr, the rotating
// file of cfg if any, and any extra writers. debug lowers the level so that
// every ACPI call gets traced.
func Init(cfg Config, debug bool, writers ...io.Writer) error {
	logWriters := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: TimeFormat}}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		logWriters = append(logWriters, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
	}
	logWriters = append(logWriters, writers...)

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(logWriters...)).With().Timestamp().Logger()
	return nil
}
