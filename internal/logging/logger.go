package logging

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(LevelInfo))
}

// ParseLevel maps LOG_LEVEL values to a Level. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetLevel sets the process-wide minimum level.
func SetLevel(l Level) {
	minLevel.Store(int32(l))
}

func enabled(l Level) bool {
	return int32(l) >= minLevel.Load()
}

type requestIDKey struct{}

// WithRequestID stores the request ID in ctx for loggers built from it.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID from ctx, or "" when absent.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging for handlers and stores
type Logger struct {
	requestID string
}

// New creates a logger with request context
func New(ctx context.Context) *Logger {
	requestID := "unknown"
	if rid := RequestID(ctx); rid != "" {
		requestID = rid
	}
	return &Logger{requestID: requestID}
}

func (l *Logger) emit(level Level, tag, operation, msg string) {
	if !enabled(level) {
		return
	}
	log.Printf("[%s] request_id=%s operation=%s %s", tag, l.requestID, operation, msg)
}

// LogDebugf logs a formatted debug message with context
func (l *Logger) LogDebugf(operation string, format string, args ...interface{}) {
	l.emit(LevelDebug, "debug", operation, fmt.Sprintf(format, args...))
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation string, message string) {
	l.emit(LevelInfo, "info", operation, "message="+message)
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.emit(LevelInfo, "info", operation, fmt.Sprintf(format, args...))
}

// LogWarn logs a warning with context
func (l *Logger) LogWarn(operation string, message string) {
	l.emit(LevelWarn, "warn", operation, "message="+message)
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	l.emit(LevelWarn, "warn", operation, fmt.Sprintf(format, args...))
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	l.emit(LevelError, "error", operation, fmt.Sprintf("error=%v", err))
}

// LogErrorf logs a formatted error with context
func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	l.emit(LevelError, "error", operation, fmt.Sprintf(format, args...))
}
