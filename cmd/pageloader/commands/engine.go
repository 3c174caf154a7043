package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"git.home.luguber.info/inful/pageloader/internal/config"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/lifecycle"
	"git.home.luguber.info/inful/pageloader/internal/metrics"
	"git.home.luguber.info/inful/pageloader/internal/observability"
	"git.home.luguber.info/inful/pageloader/internal/render"
	"git.home.luguber.info/inful/pageloader/internal/resources"
	"git.home.luguber.info/inful/pageloader/internal/retry"
	"git.home.luguber.info/inful/pageloader/internal/rum"
	"git.home.luguber.info/inful/pageloader/internal/session"
	"git.home.luguber.info/inful/pageloader/internal/source"
)

// closers releases what buildEngine opened, in reverse order.
type closers []func() error

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// buildEngine wires an Engine from configuration. The returned closers must
// be closed once no render is in flight.
func buildEngine(ctx context.Context, cfg *config.Config, recorder metrics.Recorder) (*render.Engine, closers, error) {
	var cl closers
	fail := func(err error) (*render.Engine, closers, error) {
		_ = cl.Close()
		return nil, nil, err
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	reporter := observability.NewLogReporter(slog.Default(), recorder)

	src, err := newSource(cfg)
	if err != nil {
		return fail(err)
	}

	backend, err := newSessionBackend(ctx, cfg.Session)
	if err != nil {
		return fail(err)
	}
	cl = append(cl, backend.Close)

	var sampler rum.Sampler = rum.Noop{}
	if cfg.RUM.Enabled {
		pub, err := rum.NewNATSPublisher(cfg.RUM.NATSURL, cfg.RUM.Subject)
		if err != nil {
			return fail(derrors.WrapError(err, derrors.CategoryNetwork, "RUM publisher unavailable").Build())
		}
		cl = append(cl, pub.Close)
		sampler = rum.New(cfg.RUM.Weight, pub, rum.WithReporter(reporter))
	}

	scheduler, err := lifecycle.NewScheduler()
	if err != nil {
		return fail(derrors.WrapError(err, derrors.CategoryInternal, "scheduler unavailable").Build())
	}
	cl = append(cl, scheduler.Stop)

	return &render.Engine{
		Source:    src,
		Session:   backend,
		RUM:       sampler,
		Scheduler: scheduler,
		Reporter:  reporter,
		Recorder:  recorder,
		Options: render.Options{
			Lifecycle: lifecycle.Options{
				Language:           cfg.Site.Language,
				CodeBase:           cfg.Site.CodeBasePath,
				FontWidthThreshold: cfg.Lifecycle.FontWidthThreshold,
				DelayedAfter:       cfg.Lifecycle.DelayedAfter,
				DelayedModule:      cfg.Lifecycle.DelayedModule,
			},
			ViewportWidth: cfg.Viewport.Width,
			RevealAll:     cfg.Viewport.RevealAll,
			CheckStyles:   cfg.Site.CheckStyles,
		},
	}, cl, nil
}

func newSource(cfg *config.Config) (source.Source, error) {
	if cfg.Site.Origin != "" {
		origin, err := source.NewOrigin(cfg.Site.Origin, resources.NewHTTPFetcher(cfg.Site.FetchTimeout))
		if err != nil {
			return nil, err
		}
		origin.Retry = retry.FromConfig(cfg.Site.FetchRetry)
		return origin, nil
	}
	base := cfg.Site.BaseURL
	if base == "" {
		base = "http://localhost" + cfg.Server.Addr
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid base URL").WithContext("value", base).Build()
	}
	return source.OpenDir(cfg.Site.ContentDir, u)
}

func newSessionBackend(ctx context.Context, cfg config.SessionConfig) (session.Backend, error) {
	switch cfg.Driver {
	case config.SessionSQLite:
		return session.NewSQLite(cfg.Path)
	case config.SessionNATS:
		return session.NewKV(ctx, cfg.NATSURL, cfg.Bucket, cfg.TTL)
	default:
		return session.NewMemory(), nil
	}
}
