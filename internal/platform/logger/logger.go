package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger keeps the key/value call shape used across the service
// (logger.Info("msg", "key", value)) on top of a zap SugaredLogger.
type Logger struct {
	sugar  *zap.SugaredLogger
	config *LoggerConfig
}

func NewLogger(cfg *LoggerConfig) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.normalized()

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.Encoding = cfg.Format
	if cfg.Format == "console" {
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if err := zapConfig.Level.UnmarshalText([]byte(cfg.Level)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, defaulting to info: %v\n", cfg.Level, err)
		zapConfig.Level.SetLevel(zapcore.InfoLevel)
	}
	zapConfig.OutputPaths = []string{cfg.Output}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	base, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building zap logger: %v, falling back to production defaults\n", err)
		base, _ = zap.NewProduction(zap.AddCallerSkip(1))
	}

	return &Logger{sugar: base.Sugar(), config: cfg}
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar(), config: DefaultConfig()}
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// With returns a child logger that always carries the given pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...), config: l.config}
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{sugar: l.sugar.Named(name), config: l.config}
}

// Zap exposes the underlying structured logger for libraries that want one.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func newFromCore(core zapcore.Core) *Logger {
	return &Logger{sugar: zap.New(core).Sugar(), config: DefaultConfig()}
}
