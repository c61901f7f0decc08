// Package logging builds the logrus logger shared by every component
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultDir      = "logs"
	DefaultFileName = "tower.log"
	// MaxLogSizeMB rotates the log file once a write would take it past this size
	MaxLogSizeMB = 10
	MaxLogSize   = MaxLogSizeMB * 1024 * 1024
	// MaxLogBackups is how many rotated files are kept
	MaxLogBackups = 5

	// LevelEnv overrides Options.Level when set
	LevelEnv = "TOWER_LOG_LEVEL"
)

type Options struct {
	Debug  bool   // Write to a file under Dir; otherwise everything is discarded
	Level  string // logrus level name, default "info" ("debug" when Debug is set)
	Format string // "text" or "json"
	Dir    string
	File   string
}

// New builds the logger
// The returned closer is non-nil only when logging to a file
// The terminal belongs to the viewer, so nothing is ever written to stdout or stderr
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetLevel(resolveLevel(opts))

	if strings.ToLower(opts.Format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			DisableColors:    true,
			DisableQuote:     true,
			QuoteEmptyFields: true,
		})
	}

	if !opts.Debug {
		log.SetOutput(io.Discard)
		return log, nil, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir
	}
	name := opts.File
	if name == "" {
		name = DefaultFileName
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "create log directory")
	}

	out := &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    MaxLogSizeMB,
		MaxBackups: MaxLogBackups,
		LocalTime:  true,
	}
	log.SetOutput(out)
	return log, out, nil
}

func resolveLevel(opts Options) logrus.Level {
	name := opts.Level
	if env, ok := os.LookupEnv(LevelEnv); ok {
		name = env
	}
	if name == "" {
		if opts.Debug {
			return logrus.DebugLevel
		}
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
