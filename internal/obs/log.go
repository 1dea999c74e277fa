package obs

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerOnce sync.Once
	logger     *zap.Logger
)

// Logger returns the shared structured logger used across the service.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = newLogger("info")
		}
	})
	return logger
}

// InitLogger builds the process logger at the given level. Must be called
// before the first Logger() use to take effect.
func InitLogger(level string) *zap.Logger {
	logger = newLogger(level)
	return logger
}

// SetLogger replaces the shared logger. Intended for tests.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	logger = l
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
