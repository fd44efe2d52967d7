//go:build !dev

package calllog

func emit(level, message string, metadata map[string]any) {
	_ = level
	_ = message
	_ = metadata
}
