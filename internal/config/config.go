// Package config loads the pageloader YAML configuration.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

// Config is the complete configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Viewport  ViewportConfig  `yaml:"viewport"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Session   SessionConfig   `yaml:"session"`
	RUM       RUMConfig       `yaml:"rum"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig says where pages come from.
type SiteConfig struct {
	// Origin is a remote site to proxy; ContentDir a local content tree.
	// Exactly one is set.
	Origin       string        `yaml:"origin,omitempty"`
	ContentDir   string        `yaml:"content_dir,omitempty"`
	BaseURL      string        `yaml:"base_url,omitempty"`
	CodeBasePath string        `yaml:"code_base_path,omitempty"`
	Language     string        `yaml:"language"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	CheckStyles  bool          `yaml:"check_styles"`
	FetchRetry   RetryConfig   `yaml:"fetch_retry"`
}

// RetryConfig governs retries of transient failures fetching a page
// document from the origin. MaxRetries 0 disables retrying.
type RetryConfig struct {
	Backoff    RetryBackoffMode `yaml:"backoff"`
	Initial    time.Duration    `yaml:"initial"`
	Max        time.Duration    `yaml:"max"`
	MaxRetries int              `yaml:"max_retries"`
}

// ViewportConfig describes the simulated browser window.
type ViewportConfig struct {
	Width     int  `yaml:"width"`
	RevealAll bool `yaml:"reveal_all"`
}

// LifecycleConfig tunes the page phases.
type LifecycleConfig struct {
	DelayedAfter       time.Duration `yaml:"delayed_after"`
	DelayedModule      string        `yaml:"delayed_module"`
	FontWidthThreshold int           `yaml:"font_width_threshold"`
}

// SessionConfig selects the session flag store.
type SessionConfig struct {
	Driver SessionDriver `yaml:"driver"`
	// Path is the SQLite database file.
	Path string `yaml:"path,omitempty"`
	// NATSURL and Bucket address the JetStream key-value bucket.
	NATSURL string        `yaml:"nats_url,omitempty"`
	Bucket  string        `yaml:"bucket,omitempty"`
	TTL     time.Duration `yaml:"ttl,omitempty"`
}

// RUMConfig enables sampled enhancement checkpoints.
type RUMConfig struct {
	Enabled bool   `yaml:"enabled"`
	Weight  int    `yaml:"weight"`
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	Metrics       bool          `yaml:"metrics"`
	RenderTimeout time.Duration `yaml:"render_timeout"`
	SessionCookie string        `yaml:"session_cookie"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads configPath, expanding ${VAR} references after loading .env
// files, then normalizes, defaults and validates the result.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, derrors.ConfigError("configuration file not found").WithContext("path", configPath).Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read config file").WithContext("path", configPath).Build()
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to unmarshal config").Build()
	}

	res := Normalize(&cfg)
	for _, w := range res.Warnings {
		warn(w)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}
	example := Default()
	example.Site.ContentDir = "./content"
	example.Site.BaseURL = "http://localhost:8080"

	data, err := yaml.Marshal(example)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}
