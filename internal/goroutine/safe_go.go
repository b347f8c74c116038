package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Logger is the minimal logging surface needed for panic reports.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler recovers panics in goroutines.
type RecoveryHandler struct {
	logger Logger
}

func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo starts a goroutine with panic recovery.
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("Panic in goroutine: %v\nStack trace:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SafeGoWithContext starts a context-aware goroutine with panic recovery.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("Panic in goroutine (with context): %v\nStack trace:\n%s", r, debug.Stack())
			}
		}()
		fn(ctx)
	}()
}

// SimpleLogger is a minimal Logger writing to stdout.
type SimpleLogger struct{}

func (l *SimpleLogger) Errorf(format string, args ...interface{}) {
	fmt.Printf("[ERROR] "+format+"\n", args...)
}

// DefaultRecoveryHandler is the package-level handler with simple logging.
var DefaultRecoveryHandler = NewRecoveryHandler(&SimpleLogger{})

// SafeGo starts a panic-safe goroutine using the default handler.
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

// SafeGoWithContext starts a panic-safe goroutine with context.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
