package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatCompact is slog's key=value text output (default).
	FormatCompact Format = "compact"

	// FormatJSON is one JSON object per line, for log aggregation.
	FormatJSON Format = "json"
)

// LevelTrace sits below debug and is only emitted when explicitly enabled.
const LevelTrace = slog.LevelDebug - 4

// Environment variables read by [New] when no explicit option is given.
const (
	EnvLogFormat = "REACT_LOG_FORMAT"
	EnvLogLevel  = "REACT_LOG_LEVEL"
)

// ParseFormat parses a format string. Unknown values yield FormatCompact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads REACT_LOG_FORMAT, falling back to LOG_FORMAT.
func GetFormatFromEnv() Format {
	if format := os.Getenv(EnvLogFormat); format != "" {
		return ParseFormat(format)
	}
	return ParseFormat(os.Getenv("LOG_FORMAT"))
}

// ParseLogLevel parses TRACE, DEBUG, INFO, WARN/WARNING or ERROR
// (case-insensitive). Unknown values yield INFO and a warning on stderr.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "", "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Warning: Unknown log level '%s', using INFO\n", level)
		return slog.LevelInfo
	}
}

// GetLogLevelFromEnv reads REACT_LOG_LEVEL, falling back to LOG_LEVEL. Default INFO.
func GetLogLevelFromEnv() slog.Level {
	if level := os.Getenv(EnvLogLevel); level != "" {
		return ParseLogLevel(level)
	}
	return ParseLogLevel(os.Getenv("LOG_LEVEL"))
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}
