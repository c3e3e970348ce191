/**
 * @description
 * Structured logger for the Pasarin backend.
 * Thin facade over zap's SugaredLogger so call sites stay printf-style.
 *
 * @dependencies
 * - go.uber.org/zap
 *
 * @notes
 * - Development mode uses zap's console encoder, production uses JSON.
 */

package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	// Default to development output until Init is called with the real env.
	configure("development")
}

// Init reconfigures the global logger for the given environment
// ("development" or "production"). Call once at startup.
func Init(env string) {
	configure(env)
}

func configure(env string) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	sugar = l.Sugar()
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

// Warn logs a warning
func Warn(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

// Fatal logs an error and exits
func Fatal(format string, v ...interface{}) {
	sugar.Fatalf(format, v...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return sugar.Sync()
}
