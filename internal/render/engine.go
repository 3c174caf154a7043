// Package render wires the per-page collaborators and runs a page through its
// lifecycle, returning the decorated document once the page is quiescent.
package render

import (
	"context"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pageloader/internal/blocks/footer"
	"git.home.luguber.info/inful/pageloader/internal/blocks/header"
	"git.home.luguber.info/inful/pageloader/internal/blocks/widget"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/fragment"
	"git.home.luguber.info/inful/pageloader/internal/icons"
	"git.home.luguber.info/inful/pageloader/internal/intersect"
	"git.home.luguber.info/inful/pageloader/internal/lifecycle"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
	"git.home.luguber.info/inful/pageloader/internal/metrics"
	"git.home.luguber.info/inful/pageloader/internal/observability"
	"git.home.luguber.info/inful/pageloader/internal/page"
	"git.home.luguber.info/inful/pageloader/internal/resources"
	"git.home.luguber.info/inful/pageloader/internal/rum"
	"git.home.luguber.info/inful/pageloader/internal/sections"
	"git.home.luguber.info/inful/pageloader/internal/session"
	"git.home.luguber.info/inful/pageloader/internal/source"
	"git.home.luguber.info/inful/pageloader/internal/widgets/doublefeature"
)

// Options tunes rendering.
type Options struct {
	Lifecycle lifecycle.Options
	// ViewportWidth is the simulated layout width.
	ViewportWidth int
	// RevealAll makes every node visible, so every icon is materialized.
	RevealAll bool
	// CheckStyles fetches each linked stylesheet and reports the ones missing.
	CheckStyles bool
}

// Engine renders pages from one source.
type Engine struct {
	Source    source.Source
	Session   session.Backend
	RUM       rum.Sampler
	Scheduler lifecycle.Scheduler
	Reporter  observability.Reporter
	Recorder  metrics.Recorder
	Options   Options
}

// Result is one rendered page.
type Result struct {
	ID    string
	Page  *page.Page
	State *lifecycle.PageState
	// Fingerprint identifies the page source.
	Fingerprint string
	// ETag identifies the decorated markup, so it changes with the
	// fragments and session state the page was decorated with.
	ETag   string
	Markup string
	// Degradations are the failures swallowed while decorating.
	Degradations []error
	Duration     time.Duration
}

// Render loads the page at path, decorates it and waits for the delayed
// phase. Only a page that cannot be loaded at all, or a ctx that ends before
// the page is quiescent, is an error.
func (e *Engine) Render(ctx context.Context, path, sessionID string) (*Result, error) {
	start := time.Now()
	doc, err := e.Source.Document(ctx, path)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	p, err := page.Parse(id, doc.Markup, doc.URL)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryMalformed, "page markup invalid").WithContext("path", path).Build()
	}

	collected := &observability.MemoryReporter{}
	orch := e.wire(p, sessionID, observability.Multi{e.Reporter, collected})
	observability.InfoContext(observability.WithPageID(ctx, id), "Rendering page", logfields.Path(path))
	if err := orch.Load(ctx, p); err != nil {
		return nil, err
	}

	select {
	case <-orch.Delayed():
	case <-ctx.Done():
		return nil, derrors.WrapError(ctx.Err(), derrors.CategoryInternal, "page did not settle").WithContext("path", path).Build()
	}

	markup := p.Render()
	return &Result{
		ID:           id,
		Page:         p,
		State:        orch.State(),
		Fingerprint:  doc.Fingerprint,
		ETag:         source.Fingerprint(nil, markup),
		Markup:       markup,
		Degradations: collected.Errors(),
		Duration:     time.Since(start),
	}, nil
}

// wire builds the collaborators that hold per-page state: the viewport, the
// icon observer and the block registry bound to them.
func (e *Engine) wire(p *page.Page, sessionID string, reporter observability.Reporter) *lifecycle.Orchestrator {
	recorder := e.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	opts := e.Options
	lopts := opts.Lifecycle
	codeBase := lopts.CodeBase

	window := intersect.NewWindow(opts.ViewportWidth, opts.RevealAll)
	materializer := icons.NewMaterializer(intersect.NewObserver(window), e.Source,
		icons.WithReporter(reporter), icons.WithRecorder(recorder))

	styles := &resources.Styles{}
	if opts.CheckStyles {
		styles.Fetcher = e.Source
	}
	structure := sections.Structure{Icons: icons.Decorator{CodeBase: codeBase}, Base: p.URL}

	modules := resources.NewModules()
	df := &doublefeature.Widget{Fetcher: e.Source, Styles: styles}
	modules.Register(codeBase+doublefeature.Path, df.Load)
	modules.Register(codeBase+delayedModulePath(lopts), delayedModule)

	registry := sections.NewRegistry()
	loader := &sections.Loader{
		Registry: registry,
		Styles:   styles,
		Images:   e.Source,
		CodeBase: codeBase,
		Reporter: reporter,
		Recorder: recorder,
	}
	fragments := &fragment.Loader{
		Fetcher:   e.Source,
		Structure: structure,
		Sections:  loader,
		Reporter:  reporter,
		Recorder:  recorder,
	}
	registry.Register("header", (&header.Block{Fragments: fragments, Icons: materializer}).Decorate)
	registry.Register("footer", (&footer.Block{Fragments: fragments, Icons: materializer}).Decorate)
	registry.Register("widget", (&widget.Block{Scripts: modules, CodeBase: codeBase}).Decorate)

	var store session.Store
	if e.Session != nil && sessionID != "" {
		store = e.Session.Session(sessionID)
	}

	return &lifecycle.Orchestrator{
		Options:   lopts,
		Structure: structure,
		Sections:  loader,
		Styles:    styles,
		Scripts:   modules,
		Icons:     materializer,
		RUM:       e.RUM,
		Session:   store,
		Viewport:  window,
		Scheduler: e.Scheduler,
		Reporter:  reporter,
		Recorder:  recorder,
	}
}

func delayedModulePath(o lifecycle.Options) string {
	if o.DelayedModule == "" {
		return lifecycle.DefaultOptions().DelayedModule
	}
	return o.DelayedModule
}

// delayedModule is the stock delayed script: a hook point with no behavior.
func delayedModule(ctx context.Context, p *page.Page) error {
	observability.DebugContext(ctx, "Delayed module loaded", logfields.URL(p.URL.String()))
	return nil
}
