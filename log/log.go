// Package log provides a zap backed logger for lifostack and its tools.
// The package level functions write to the default Logger set by SetLogger.
package log

import "os"

// EnvLogTrace turns on Tracef when set to anything but "" or "0".
const EnvLogTrace = "LIFOSTACK_LOG_TRACE"

var traceEnabled = traceFromEnv()

func traceFromEnv() bool {
	v := os.Getenv(EnvLogTrace)
	return v != "" && v != "0"
}

// Tracef writes per-element detail, only when EnvLogTrace is set.
func Tracef(format string, args ...interface{}) {
	if !traceEnabled {
		return
	}
	GetDefaultLogger().Tracef(format, args...)
}

// Debugf logs at debug level through the default Logger.
func Debugf(format string, args ...interface{}) {
	GetDefaultLogger().Debugf(format, args...)
}

// Infof logs at info level through the default Logger.
func Infof(format string, args ...interface{}) {
	GetDefaultLogger().Infof(format, args...)
}

// Warnf logs at warn level through the default Logger.
func Warnf(format string, args ...interface{}) {
	GetDefaultLogger().Warnf(format, args...)
}

// Errorf logs at error level through the default Logger.
func Errorf(format string, args ...interface{}) {
	GetDefaultLogger().Errorf(format, args...)
}

// Sync flushes the default Logger.
func Sync() error {
	return GetDefaultLogger().Sync()
}
