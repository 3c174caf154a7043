package config

import (
	"log/slog"

	"git.home.luguber.info/inful/pageloader/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = normalization.NewEnum("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// SlogLevel maps the level onto slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormats = normalization.NewEnum("log format", map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// SessionDriver selects the session store backend.
type SessionDriver string

const (
	SessionMemory SessionDriver = "memory"
	SessionSQLite SessionDriver = "sqlite"
	SessionNATS   SessionDriver = "nats"
)

var sessionDrivers = normalization.NewEnum("session driver", map[string]SessionDriver{
	"memory":    SessionMemory,
	"sqlite":    SessionSQLite,
	"sqlite3":   SessionSQLite,
	"nats":      SessionNATS,
	"jetstream": SessionNATS,
}, SessionMemory)

// NormalizeSessionDriver returns the canonical driver, or an error naming the
// valid drivers.
func NormalizeSessionDriver(raw string) (SessionDriver, error) {
	return sessionDrivers.Parse(raw)
}

// RetryBackoffMode selects how fetch retry delays grow.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffs = normalization.NewEnum("retry backoff", map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"constant":    RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
	"exp":         RetryBackoffExponential,
}, RetryBackoffLinear)
