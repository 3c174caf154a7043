package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// NormalizationResult captures adjustments made while normalizing.
type NormalizationResult struct{ Warnings []string }

// Normalize canonicalizes enumerated fields in place. Unknown log settings fall
// back to their defaults with a warning; an unknown session driver is left for
// Validate to reject.
func Normalize(c *Config) *NormalizationResult {
	res := &NormalizationResult{}
	if raw := string(c.Logging.Level); strings.TrimSpace(raw) != "" {
		level, ok := logLevels.Normalize(raw)
		if !ok {
			res.Warnings = append(res.Warnings, warnChanged("logging.level", raw, level))
		}
		c.Logging.Level = level
	}
	if raw := string(c.Logging.Format); strings.TrimSpace(raw) != "" {
		format, ok := logFormats.Normalize(raw)
		if !ok {
			res.Warnings = append(res.Warnings, warnChanged("logging.format", raw, format))
		}
		c.Logging.Format = format
	}
	if raw := string(c.Session.Driver); strings.TrimSpace(raw) != "" {
		if d, err := NormalizeSessionDriver(raw); err == nil {
			c.Session.Driver = d
		}
	}
	if raw := string(c.Site.FetchRetry.Backoff); strings.TrimSpace(raw) != "" {
		mode, ok := retryBackoffs.Normalize(raw)
		if !ok {
			res.Warnings = append(res.Warnings, warnChanged("site.fetch_retry.backoff", raw, mode))
		}
		c.Site.FetchRetry.Backoff = mode
	}
	c.Site.CodeBasePath = strings.TrimSuffix(strings.TrimSpace(c.Site.CodeBasePath), "/")
	return res
}

func warnChanged(field, from string, to any) string {
	return fmt.Sprintf("%s: %q normalized to %q", field, from, fmt.Sprint(to))
}

func warn(msg string) {
	slog.Warn("Configuration", slog.String("detail", msg))
}
