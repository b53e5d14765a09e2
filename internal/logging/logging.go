package logging

import (
	"io"
	"os"
	"strings"

	"whisperlib/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logger type handed to every component.
type Logger = logrus.Logger

// Configure sets up logrus with rotation.
func Configure(cfg *config.Config) (*Logger, error) {
	if err := config.MustStatePaths(cfg); err != nil {
		return nil, err
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.Paths.LogPath,
		MaxSize:    20, // megabytes
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   false,
	}
	var out io.Writer = rotator
	if cfg.Logging.Stdout {
		out = io.MultiWriter(os.Stdout, rotator)
	}
	return New(cfg, out), nil
}

// New builds a logger writing to out with the configured level and format.
func New(cfg *config.Config, out io.Writer) *Logger {
	logger := logrus.New()
	switch strings.ToLower(cfg.Logging.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if lvl, err := logrus.ParseLevel(strings.ToLower(cfg.Logging.Level)); err == nil {
		logger.SetLevel(lvl)
	}
	logger.SetOutput(out)
	return logger
}

// NewTestLogger returns a logger that discards output.
func NewTestLogger() *Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
