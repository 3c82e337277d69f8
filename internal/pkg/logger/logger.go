package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger.
// Production emits JSON at info level; anything else gets a colored console encoder at debug level.
func New(isProduction bool) (*zap.Logger, error) {
	if isProduction {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// Must is New for binaries that cannot run without a logger.
func Must(isProduction bool) *zap.Logger {
	l, err := New(isProduction)
	if err != nil {
		panic(err)
	}
	return l
}
