package logging

import "job-hunt-agent/internal/logging/types"

// Aliases so callers outside the logging tree only import this package
type (
	Logger        = types.Logger
	LogLevel      = types.LogLevel
	AdapterConfig = types.AdapterConfig
)

const (
	DebugLevel = types.DebugLevel
	InfoLevel  = types.InfoLevel
	WarnLevel  = types.WarnLevel
	ErrorLevel = types.ErrorLevel
)

// ParseLogLevel parses a configured level name, defaulting to info
func ParseLogLevel(name string) LogLevel {
	return types.ParseLevel(name)
}
