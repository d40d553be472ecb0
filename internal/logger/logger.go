// Package logger provides JSON structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level      string
	Debug      bool
	Output     string
	TimeFormat string
}

// DefaultConfig reads the logging settings from the environment.
func DefaultConfig() Config {
	return Config{
		Level:      getEnvOrDefault("LOG_LEVEL", "info"),
		Debug:      getEnvBoolOrDefault("DEBUG", false),
		Output:     getEnvOrDefault("LOG_OUTPUT", "stdout"),
		TimeFormat: os.Getenv("LOG_TIME_FORMAT"),
	}
}

// New builds a logger from cfg and installs it as the zerolog global.
func New(cfg Config) (zerolog.Logger, error) {
	var output io.Writer = os.Stdout
	if cfg.Output == "stderr" {
		output = os.Stderr
	}

	return NewWithWriter(cfg, output)
}

// NewWithWriter is New writing to w.
func NewWithWriter(cfg Config, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel

	if cfg.Debug {
		level = zerolog.DebugLevel
	} else if cfg.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), err
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	l := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Logger = l

	return l, nil
}

// WithComponent tags l with a component name.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	value = strings.ToLower(value)

	return value == "true" || value == "1" || value == "yes" || value == "on"
}
