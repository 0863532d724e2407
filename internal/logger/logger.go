package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Options configures the process-wide logger.
type Options struct {
	Level string
	// File, when set, receives a copy of every entry with size-based rotation.
	File string
}

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Get returns a singleton logger configured with the provided options.
// The first call initializes the logger; subsequent calls ignore the options
// and return the already initialized instance.
func Get(opts Options) *Logger {
	once.Do(func() {
		globalLogger = New(opts)
	})
	return globalLogger
}
