// Package commands implements the pageloader CLI commands.
package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pageloader/internal/config"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

// Global is passed to every command.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"pageloader.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render RenderCmd `cmd:"" help:"Render pages to HTML files or stdout"`
	Serve  ServeCmd  `cmd:"" help:"Serve decorated pages over HTTP"`
	Watch  WatchCmd  `cmd:"" help:"Render pages and re-render when the content directory changes"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
	Rules  RulesCmd  `cmd:"" help:"Show the content transform rule order (text, mermaid, dot)"`
}

// AfterApply runs after flag parsing; it sets up logging until the
// configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(os.Stderr, config.LoggingConfig{Level: config.LogLevelInfo, Format: config.LogFormatText}, c.Verbose)
	return nil
}

// SourceFlags override the configured page source.
type SourceFlags struct {
	ContentDir string `short:"d" name:"content-dir" help:"Local content directory (overrides site.content_dir)"`
	Origin     string `name:"origin" help:"Remote origin URL (overrides site.origin)"`
}

// loadConfig reads the configuration file, falling back to defaults when the
// file does not exist, applies source overrides and configures logging.
func (c *CLI) loadConfig(src SourceFlags) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		if _, statErr := os.Stat(c.Config); !errors.Is(statErr, os.ErrNotExist) {
			return nil, err
		}
		slog.Debug("No configuration file, using defaults", slog.String("path", c.Config))
		cfg = config.Default()
	}
	if src.ContentDir != "" {
		cfg.Site.ContentDir, cfg.Site.Origin = src.ContentDir, ""
	}
	if src.Origin != "" {
		cfg.Site.Origin, cfg.Site.ContentDir = src.Origin, ""
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if cfg.Site.Origin == "" && cfg.Site.ContentDir == "" {
		return nil, derrors.ConfigError("no page source: set site.content_dir or site.origin").Build()
	}
	setupLogging(os.Stderr, cfg.Logging, c.Verbose)
	return cfg, nil
}

func setupLogging(w io.Writer, cfg config.LoggingConfig, verbose bool) {
	level := cfg.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
