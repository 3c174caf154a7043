package config

import (
	"net/url"
	"strings"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

// Validate checks a normalized, defaulted configuration.
func Validate(c *Config) error {
	validators := []func(*Config) error{
		validateSite,
		validateLifecycle,
		validateSession,
		validateRUM,
	}
	for _, v := range validators {
		if err := v(c); err != nil {
			return err
		}
	}
	return nil
}

func validateSite(c *Config) error {
	s := c.Site
	if s.Origin != "" && s.ContentDir != "" {
		return derrors.ConfigError("site.origin and site.content_dir are mutually exclusive").Build()
	}
	if s.Origin != "" {
		if err := absoluteURL("site.origin", s.Origin); err != nil {
			return err
		}
	}
	if s.BaseURL != "" {
		if err := absoluteURL("site.base_url", s.BaseURL); err != nil {
			return err
		}
	}
	if s.CodeBasePath != "" && !strings.HasPrefix(s.CodeBasePath, "/") {
		return derrors.ConfigError("site.code_base_path must start with /").WithContext("value", s.CodeBasePath).Build()
	}
	if s.FetchTimeout < 0 {
		return derrors.ConfigError("site.fetch_timeout must not be negative").Build()
	}
	if r := s.FetchRetry; r.MaxRetries < 0 || r.Initial < 0 || r.Max < 0 {
		return derrors.ConfigError("site.fetch_retry values must not be negative").Build()
	}
	if c.Viewport.Width < 0 {
		return derrors.ConfigError("viewport.width must not be negative").Build()
	}
	return nil
}

func validateLifecycle(c *Config) error {
	l := c.Lifecycle
	if l.DelayedAfter < 0 {
		return derrors.ConfigError("lifecycle.delayed_after must not be negative").Build()
	}
	if !strings.HasPrefix(l.DelayedModule, "/") {
		return derrors.ConfigError("lifecycle.delayed_module must start with /").WithContext("value", l.DelayedModule).Build()
	}
	if l.FontWidthThreshold < 0 {
		return derrors.ConfigError("lifecycle.font_width_threshold must not be negative").Build()
	}
	return nil
}

func validateSession(c *Config) error {
	s := c.Session
	if _, err := NormalizeSessionDriver(string(s.Driver)); err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "session.driver invalid").Build()
	}
	if s.Driver == SessionNATS && s.NATSURL == "" {
		return derrors.ConfigError("session.nats_url is required for the nats driver").Build()
	}
	return nil
}

func validateRUM(c *Config) error {
	r := c.RUM
	if r.Weight < 1 {
		return derrors.ConfigError("rum.weight must be at least 1").WithContext("value", r.Weight).Build()
	}
	if r.Enabled && r.NATSURL == "" {
		return derrors.ConfigError("rum.nats_url is required when rum is enabled").Build()
	}
	return nil
}

func absoluteURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return derrors.ConfigError(field+" must be an absolute URL").WithContext("value", raw).Build()
	}
	return nil
}
