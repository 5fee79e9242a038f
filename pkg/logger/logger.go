// Package logger provides structured diagnostics using zerolog
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

var globalLogger zerolog.Logger

// Config controls where diagnostics go and how verbose they are.
// Findings never go through the logger; they are written to stdout.
type Config struct {
	Level   string `json:"level" yaml:"level"`
	Debug   bool   `json:"debug" yaml:"debug"`
	Quiet   bool   `json:"quiet" yaml:"quiet"`
	NoColor bool   `json:"no_color" yaml:"no_color"`
	File    string `json:"file" yaml:"file"`
}

func init() {
	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init configures the global logger. Diagnostics go to stderr, as a
// console stream on a terminal and JSON lines otherwise. When File is set
// a rotated JSON copy is written there as well.
func Init(config Config) error {
	level := zerolog.InfoLevel

	switch {
	case config.Debug:
		level = zerolog.DebugLevel
	case config.Quiet:
		level = zerolog.WarnLevel
	case config.Level != "":
		var err error

		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return err
		}
	}

	var output io.Writer = os.Stderr
	if term.IsTerminal(int(os.Stderr.Fd())) {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			NoColor:    config.NoColor,
			TimeFormat: time.TimeOnly,
		}
	}

	if config.File != "" {
		output = zerolog.MultiLevelWriter(output, &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			Compress:   true,
		})
	}

	globalLogger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Logger = globalLogger

	return nil
}

// SetLevel changes the level of the global logger
func SetLevel(level zerolog.Level) {
	globalLogger = globalLogger.Level(level)
	log.Logger = globalLogger
}

func GetLogger() zerolog.Logger {
	return globalLogger
}

func Debug() *zerolog.Event {
	return globalLogger.Debug()
}

func Info() *zerolog.Event {
	return globalLogger.Info()
}

func Warn() *zerolog.Event {
	return globalLogger.Warn()
}

func Error() *zerolog.Event {
	return globalLogger.Error()
}

func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}

// NewTestLogger returns a logger that writes to w at debug level, for tests
// that assert on diagnostics.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}
