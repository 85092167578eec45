// Package logger exposes ctx-first logging helpers over a shared zap
// sugared logger.
package logger

import (
	"context"

	"go.uber.org/zap"
)

var global *zap.SugaredLogger

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	global = l.Sugar()
}

// SetLogger replaces the shared logger, e.g. with a development or
// no-op logger in tests.
func SetLogger(l *zap.Logger) {
	global = l.Sugar()
}

func Debugf(_ context.Context, format string, args ...any) {
	global.Debugf(format, args...)
}

func Infof(_ context.Context, format string, args ...any) {
	global.Infof(format, args...)
}

func Warnf(_ context.Context, format string, args ...any) {
	global.Warnf(format, args...)
}

func Errorf(_ context.Context, format string, args ...any) {
	global.Errorf(format, args...)
}
