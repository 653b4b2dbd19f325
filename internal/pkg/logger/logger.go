// Package logger builds the application's zap logger and bridges slog and logrus to it.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a config level string onto a zap level. Unknown values fall back to info.
func ParseLevel(levelStr string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info", "":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// New creates a production zap logger at the given level.
// When file is set, logs are appended to it in addition to stdout.
func New(levelStr, file string) (*zap.Logger, error) {
	level, ok := ParseLevel(levelStr)

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	if file != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	if !ok {
		z.Warn("Invalid log level in config, defaulting to info", zap.String("level", levelStr))
	}
	return z, nil
}

// InstallSlog routes the default slog logger through z.
func InstallSlog(z *zap.Logger) *slog.Logger {
	l := slog.New(zapslog.NewHandler(z.Core()))
	slog.SetDefault(l)
	return l
}

// ConfigureLogrus sets the global logrus logger to JSON on stdout at the given level.
func ConfigureLogrus(levelStr string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		logrus.Warnf("Invalid log level in config: %s. Defaulting to Info.", levelStr)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
