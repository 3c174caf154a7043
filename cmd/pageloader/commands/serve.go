package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
	"git.home.luguber.info/inful/pageloader/internal/metrics"
	"git.home.luguber.info/inful/pageloader/internal/server"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	SourceFlags
	Addr string `short:"a" help:"Listen address (overrides server.addr)"`
}

// Run executes the serve command.
func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig(s.SourceFlags)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		opts     []server.Option
	)
	if cfg.Server.Metrics {
		reg := metrics.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		opts = append(opts, server.WithMetrics(metrics.HTTPHandler(reg)))
	}
	engine, cl, err := buildEngine(ctx, cfg, recorder)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cl.Close(); cerr != nil {
			slog.Warn("Failed to release resources", logfields.Error(cerr))
		}
	}()

	opts = append(opts,
		server.WithSessionCookie(cfg.Server.SessionCookie),
		server.WithRenderTimeout(cfg.Server.RenderTimeout),
		server.WithLogger(slog.Default()))
	srv := server.New(cfg.Server.Addr, engine, opts...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return derrors.WrapError(err, derrors.CategoryNetwork, "shutdown failed").Build()
	}
	return nil
}
