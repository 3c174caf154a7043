package config

import "time"

// Default returns a configuration with every default applied and no site.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero values.
func ApplyDefaults(c *Config) {
	if c.Site.Language == "" {
		c.Site.Language = "en"
	}
	if c.Site.FetchTimeout == 0 {
		c.Site.FetchTimeout = 15 * time.Second
	}
	if c.Site.FetchRetry == (RetryConfig{}) {
		c.Site.FetchRetry = RetryConfig{
			Backoff:    RetryBackoffLinear,
			Initial:    200 * time.Millisecond,
			Max:        2 * time.Second,
			MaxRetries: 2,
		}
	}
	if c.Site.FetchRetry.Backoff == "" {
		c.Site.FetchRetry.Backoff = RetryBackoffLinear
	}
	if c.Viewport.Width == 0 {
		c.Viewport.Width = 1280
	}
	if c.Lifecycle.DelayedAfter == 0 {
		c.Lifecycle.DelayedAfter = 3 * time.Second
	}
	if c.Lifecycle.DelayedModule == "" {
		c.Lifecycle.DelayedModule = "/scripts/delayed.js"
	}
	if c.Lifecycle.FontWidthThreshold == 0 {
		c.Lifecycle.FontWidthThreshold = 900
	}
	if c.Session.Driver == "" {
		c.Session.Driver = SessionMemory
	}
	if c.Session.Driver == SessionSQLite && c.Session.Path == "" {
		c.Session.Path = "pageloader-session.db"
	}
	if c.Session.Driver == SessionNATS {
		if c.Session.Bucket == "" {
			c.Session.Bucket = "pageloader_sessions"
		}
		if c.Session.TTL == 0 {
			c.Session.TTL = 24 * time.Hour
		}
	}
	if c.RUM.Weight == 0 {
		c.RUM.Weight = 100
	}
	if c.RUM.Subject == "" {
		c.RUM.Subject = "pageloader.rum"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RenderTimeout == 0 {
		c.Server.RenderTimeout = 30 * time.Second
	}
	if c.Server.SessionCookie == "" {
		c.Server.SessionCookie = "pl_session"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
}
