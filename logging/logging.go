package logging

import (
	"log"
	"sync/atomic"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

var verbosity int64 = InfoLevel

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// SetLevel configures the minimum level at which messages are emitted
func SetLevel(level int) {
	atomic.StoreInt64(&verbosity, int64(level))
}

// Logf emits a formatted message via the standard logger, if level is at or
// above the configured verbosity
func Logf(level int, format string, args ...interface{}) {
	if int64(level) < atomic.LoadInt64(&verbosity) {
		return
	}
	log.Printf("["+LogLevelToString(level)+"] "+format, args...)
}
