// Package logger adapts zap to the ports.Logger seam. Logs go to stderr so
// they never interleave with command output on stdout; the default level is
// warn, raised to debug by --verbose.
package logger

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/pkg/filesystem"
	"github.com/okzu/shellm/internal/ports"
)

// ZapLogger implements ports.Logger on a zap core.
type ZapLogger struct {
	z *zap.Logger
}

// New builds the process logger from the logging settings. verbose forces
// debug level regardless of the configured one.
func New(settings domain.LoggingSettings, verbose bool) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zapcore.WarnLevel
	if settings.Level != "" {
		parsed, err := zapcore.ParseLevel(settings.Level)
		if err == nil {
			level = parsed
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	if settings.File != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, filesystem.ExpandPath(settings.File))
	}

	z, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{z: z}, nil
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.z.Debug(msg, zapFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.z.Info(msg, zapFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.z.Warn(msg, zapFields(fields)...)
}

func (l *ZapLogger) Error(msg string, err error, fields map[string]interface{}) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.z.Error(msg, zf...)
}

// Sync flushes buffered entries at process exit.
func (l *ZapLogger) Sync() {
	_ = l.z.Sync()
}

// zapFields flattens the map sorted by key so identical calls log
// identically.
func zapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

var _ ports.Logger = (*ZapLogger)(nil)
