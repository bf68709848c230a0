package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *slog.Logger

// ParseLevel maps a config level string onto slog and zap levels, defaulting to info.
func ParseLevel(levelStr string) (slog.Level, zapcore.Level) {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug, zapcore.DebugLevel
	case "WARN":
		return slog.LevelWarn, zapcore.WarnLevel
	case "ERROR":
		return slog.LevelError, zapcore.ErrorLevel
	default:
		return slog.LevelInfo, zapcore.InfoLevel
	}
}

// NewZap builds the process zap logger. Debug level gets the development encoder.
func NewZap(levelStr string) (*zap.Logger, error) {
	_, zapLevel := ParseLevel(levelStr)
	var cfg zap.Config
	if zapLevel == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	return cfg.Build()
}

// InitSlog routes the global slog logger into zapLogger.
func InitSlog(levelStr string, zapLogger *zap.Logger) {
	slogLevel, _ := ParseLevel(levelStr)
	handler := slogzap.Option{
		Level:  slogLevel,
		Logger: zapLogger,
	}.NewZapHandler()
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

func ensureInitialized() {
	if globalLogger == nil {
		globalLogger = slog.Default()
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	ensureInitialized()
	if globalLogger.Enabled(context.Background(), slog.LevelDebug) {
		globalLogger.Debug(msg, args...)
	}
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
	os.Exit(1)
}
