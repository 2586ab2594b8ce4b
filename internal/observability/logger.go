package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/svclab/itemsvc/internal/config"
)

type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
}

func NewLogger(cfg config.LoggingConfig) (*Logger, error) {
	var zapConfig zap.Config

	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	// Set log level
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	// Set output format
	if cfg.Format == "json" {
		zapConfig.Encoding = "json"
	} else {
		zapConfig.Encoding = "console"
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{Logger: logger, level: zapConfig.Level}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// WithApp returns a logger annotated with the service identity fields
// carried on every record.
func (l *Logger) WithApp(app config.AppConfig) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			zap.String("app", app.Name),
			zap.String("environment", app.Environment),
		),
		level: l.level,
	}
}

// SetLevel adjusts the level at runtime. Used by the config watcher.
func (l *Logger) SetLevel(level string) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return
	}
	l.level.SetLevel(parsed)
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}
