package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fairness-auditor/internal/application/port/output"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

type LoggerAdapter struct {
	logger *zap.Logger
	file   *os.File
}

type Config struct {
	// Dir receives one JSON log file per run. Empty disables the file.
	Dir     string
	RunName string
	// Level applies to the console; the file always records debug.
	Level   string
	Console bool
}

func DefaultConfig(runName string) Config {
	return Config{
		Dir:     "log",
		RunName: runName,
		Level:   "info",
		Console: true,
	}
}

func NewLoggerAdapter(cfg Config) (*LoggerAdapter, error) {
	var cores []zapcore.Core
	var file *os.File

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}

		filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), sanitize(cfg.RunName))
		f, err := os.Create(filepath.Join(cfg.Dir, filename))
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		file = f

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapcore.DebugLevel))
	}

	if cfg.Console {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), parseLevel(cfg.Level)))
	}

	return &LoggerAdapter{
		logger: zap.New(zapcore.NewTee(cores...)),
		file:   file,
	}, nil
}

// NewFromZap wraps an existing zap logger. Close only syncs it.
func NewFromZap(l *zap.Logger) *LoggerAdapter {
	return &LoggerAdapter{logger: l}
}

func NewNop() *LoggerAdapter {
	return NewFromZap(zap.NewNop())
}

func (l *LoggerAdapter) Debug(msg string, args ...any) {
	l.logger.Debug(msg, fields(args)...)
}

func (l *LoggerAdapter) Info(msg string, args ...any) {
	l.logger.Info(msg, fields(args)...)
}

func (l *LoggerAdapter) Warn(msg string, args ...any) {
	l.logger.Warn(msg, fields(args)...)
}

func (l *LoggerAdapter) Error(msg string, args ...any) {
	l.logger.Error(msg, fields(args)...)
}

func (l *LoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return &LoggerAdapter{
		logger: l.logger.With(field(key, value)),
		file:   l.file,
	}
}

func (l *LoggerAdapter) WithFields(fs map[string]any) output.LoggerPort {
	zfs := make([]zap.Field, 0, len(fs))
	for k, v := range fs {
		zfs = append(zfs, field(k, v))
	}
	return &LoggerAdapter{
		logger: l.logger.With(zfs...),
		file:   l.file,
	}
}

// Zap exposes the underlying logger for libraries that take one directly.
func (l *LoggerAdapter) Zap() *zap.Logger {
	return l.logger
}

func (l *LoggerAdapter) Close() error {
	_ = l.logger.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// fields turns alternating key/value arguments into zap fields. A trailing
// key without a value is dropped.
func fields(args []any) []zap.Field {
	out := make([]zap.Field, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		out = append(out, field(key, args[i+1]))
	}
	return out
}

func field(key string, value any) zap.Field {
	if err, ok := value.(error); ok {
		return zap.NamedError(key, err)
	}
	return zap.Any(key, value)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	if s == "" {
		return "run"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
