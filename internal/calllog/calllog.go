// Package calllog records traffic across the native boundary. Builds with
// the dev tag stream entries to the local mcplogd socket; other builds
// discard them.
package calllog

import "time"

const (
	levelDebug = "debug"
	levelWarn  = "warn"
)

// Dispatch records one completed request.
func Dispatch(op string, status int, elapsed time.Duration) {
	emit(levelDebug, "dispatch", map[string]any{
		"op":         op,
		"status":     status,
		"elapsed_us": elapsed.Microseconds(),
	})
}

// Failure records a request that did not produce an answer.
func Failure(op string, err error) {
	emit(levelWarn, "dispatch failed", map[string]any{
		"op":    op,
		"error": err.Error(),
	})
}

// EngineError records an error reported by the engine inside an answer.
func EngineError(op string, status int, name, message string) {
	emit(levelWarn, "engine error", map[string]any{
		"op":      op,
		"status":  status,
		"name":    name,
		"message": message,
	})
}

// Lifecycle records init and finalize calls.
func Lifecycle(event string) {
	emit(levelDebug, event, nil)
}
