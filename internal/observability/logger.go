package observability

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig contains logger settings.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL"       envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// ServiceName is attached to every log line.
const ServiceName = "llmcost"

//nolint:gochecknoglobals // process-wide logger, only the fields travel on context
var (
	globalLogger   atomic.Pointer[zap.Logger]
	fallbackOnce   sync.Once
	fallbackLogger *zap.Logger
)

// InitLogger builds the process logger from cfg and installs it. Production
// mode writes JSON with ISO8601 timestamps; development mode writes console lines.
func InitLogger(cfg *LogConfig) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &LogConfig{}
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.InitialFields = map[string]any{"service": ServiceName}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	SetLogger(logger)
	return logger, nil
}

// SetLogger replaces the process logger. Tests install observer or nop cores.
func SetLogger(logger *zap.Logger) {
	globalLogger.Store(logger)
}

func getBaseLogger() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}

	fallbackOnce.Do(func() {
		logger, err := zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
		fallbackLogger = logger
	})
	return fallbackLogger
}

// FromContext returns the process logger annotated with the correlation
// fields found on ctx.
func FromContext(ctx context.Context) *zap.Logger {
	fields := fieldsFrom(ctx).zapFields()
	if len(fields) == 0 {
		return getBaseLogger()
	}
	return getBaseLogger().With(fields...)
}
