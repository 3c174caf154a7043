// Package lifecycle sequences the Eager, Lazy and Delayed phases of a page.
package lifecycle

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/icons"
	"git.home.luguber.info/inful/pageloader/internal/intersect"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
	"git.home.luguber.info/inful/pageloader/internal/metrics"
	"git.home.luguber.info/inful/pageloader/internal/observability"
	"git.home.luguber.info/inful/pageloader/internal/page"
	"git.home.luguber.info/inful/pageloader/internal/resources"
	"git.home.luguber.info/inful/pageloader/internal/rum"
	"git.home.luguber.info/inful/pageloader/internal/sections"
	"git.home.luguber.info/inful/pageloader/internal/session"
	"git.home.luguber.info/inful/pageloader/internal/transforms"
)

// SectionLoader is the section and block collaborator.
type SectionLoader interface {
	DecorateTemplateAndTheme(p *page.Page)
	LoadSection(ctx context.Context, p *page.Page, section *html.Node, eager sections.SectionCallback) error
	LoadSections(ctx context.Context, p *page.Page, region *html.Node) error
	LoadHeader(ctx context.Context, p *page.Page, header *html.Node) error
	LoadFooter(ctx context.Context, p *page.Page, footer *html.Node) error
	WaitForFirstImage(ctx context.Context, p *page.Page, section *html.Node) error
}

// Options tunes the lifecycle.
type Options struct {
	Language           string
	CodeBase           string
	FontWidthThreshold int
	DelayedAfter       time.Duration
	DelayedModule      string
}

// DefaultOptions returns the stock lifecycle settings.
func DefaultOptions() Options {
	return Options{
		Language:           "en",
		FontWidthThreshold: 900,
		DelayedAfter:       3 * time.Second,
		DelayedModule:      "/scripts/delayed.js",
	}
}

// Orchestrator drives one page through its phases.
type Orchestrator struct {
	Options   Options
	Structure transforms.Collaborators
	Sections  SectionLoader
	Styles    resources.StyleLoader
	Scripts   resources.ScriptLoader
	Icons     icons.Swapper
	RUM       rum.Sampler
	Session   session.Store
	Viewport  intersect.Viewport
	Scheduler Scheduler
	Reporter  observability.Reporter
	Recorder  metrics.Recorder

	state   *PageState
	delayed chan struct{}
}

// State returns the state of the last Load, or nil before the first.
func (o *Orchestrator) State() *PageState { return o.state }

// Delayed is closed once the delayed phase has finished. The page must not be
// mutated or serialized before that. Before Load it returns a closed channel.
func (o *Orchestrator) Delayed() <-chan struct{} {
	if o.delayed == nil {
		c := make(chan struct{})
		close(c)
		return c
	}
	return o.delayed
}

// Load runs Eager, then Lazy, then arms the Delayed timer. Failures inside a
// phase are reported and never stop the page; the only error returned is a
// delayed phase that could not be scheduled.
func (o *Orchestrator) Load(ctx context.Context, p *page.Page) error {
	o.defaults()
	start := time.Now()
	o.state = &PageState{}

	ctx = observability.WithPageID(ctx, p.ID)
	ctx = observability.WithURL(ctx, p.URL.String())

	o.phase(ctx, PhaseEager, func(ctx context.Context) { o.loadEager(ctx, p) })
	o.phase(ctx, PhaseLazy, func(ctx context.Context) { o.loadLazy(ctx, p) })
	err := o.loadDelayed(ctx, p)

	o.Recorder.ObservePageDuration(time.Since(start))
	return err
}

func (o *Orchestrator) defaults() {
	d := DefaultOptions()
	if o.Options.FontWidthThreshold == 0 {
		o.Options.FontWidthThreshold = d.FontWidthThreshold
	}
	if o.Options.DelayedAfter == 0 {
		o.Options.DelayedAfter = d.DelayedAfter
	}
	if o.Options.DelayedModule == "" {
		o.Options.DelayedModule = d.DelayedModule
	}
	if o.Reporter == nil {
		o.Reporter = observability.NopReporter{}
	}
	if o.Recorder == nil {
		o.Recorder = metrics.NoopRecorder{}
	}
	if o.RUM == nil {
		o.RUM = rum.Noop{}
	}
}

func (o *Orchestrator) phase(ctx context.Context, name string, run func(context.Context)) {
	ctx = observability.WithPhase(ctx, name)
	start := time.Now()
	run(ctx)
	d := time.Since(start)
	o.state.record(name, d)
	o.Recorder.ObservePhaseDuration(name, d)
	observability.DebugContext(ctx, "Phase complete", logfields.DurationMS(float64(d.Microseconds())/1000))
}

func (o *Orchestrator) loadEager(ctx context.Context, p *page.Page) {
	o.state.Language = normalizeLanguage(o.Options.Language)
	p.SetLanguage(o.state.Language)
	if o.Sections != nil {
		o.Sections.DecorateTemplateAndTheme(p)
	}

	if main := p.Main(); main != nil {
		if err := o.eagerMain(ctx, p, main); err != nil {
			o.Reporter.Report(ctx, err)
		}
	}

	o.RUM.Enhance(ctx, p)

	if o.wideViewport() || o.fontsLoadedBefore(ctx) {
		o.loadFonts(ctx, p)
	}
}

func (o *Orchestrator) eagerMain(ctx context.Context, p *page.Page, main *html.Node) error {
	if err := transforms.DecorateMain(ctx, main, o.Structure); err != nil {
		return derrors.WrapError(err, derrors.CategoryMalformed, "main decoration failed").Build()
	}
	dom.AddClass(p.Body(), "appear")
	o.state.Appear = true

	if o.Sections == nil {
		return nil
	}
	first := dom.Find(main, dom.And(dom.Tag("div"), dom.Class("section")))
	if first == nil {
		return nil
	}
	if err := o.Sections.LoadSection(ctx, p, first, o.Sections.WaitForFirstImage); err != nil {
		return derrors.WrapError(err, derrors.CategoryResource, "first section failed").Warning().Build()
	}
	o.state.FirstSectionLoaded = true
	return nil
}

func (o *Orchestrator) wideViewport() bool {
	return o.Viewport != nil && o.Viewport.Width() >= o.Options.FontWidthThreshold
}

func (o *Orchestrator) fontsLoadedBefore(ctx context.Context) bool {
	if o.Session == nil {
		return false
	}
	v, ok, err := o.Session.Get(ctx, session.FontsLoadedKey)
	if err != nil {
		o.Reporter.Report(ctx, derrors.WrapError(err, derrors.CategorySession, "session flag unreadable").Warning().
			WithContext("key", session.FontsLoadedKey).Build())
		return false
	}
	return ok && v != ""
}

// loadFonts links the font stylesheet and records in the session that fonts
// were loaded, except on localhost.
func (o *Orchestrator) loadFonts(ctx context.Context, p *page.Page) {
	if o.Styles == nil {
		return
	}
	if err := o.Styles.LoadCSS(ctx, p, o.Options.CodeBase+"/styles/fonts.css"); err != nil {
		o.Reporter.Report(ctx, err)
		return
	}
	o.state.FontsLoaded = true
	if o.Session == nil || strings.Contains(p.Hostname(), "localhost") {
		return
	}
	if err := o.Session.Set(ctx, session.FontsLoadedKey, "true"); err != nil {
		o.Reporter.Report(ctx, derrors.WrapError(err, derrors.CategorySession, "session flag not stored").Warning().
			WithContext("key", session.FontsLoadedKey).Build())
	}
}

func (o *Orchestrator) loadLazy(ctx context.Context, p *page.Page) {
	main := p.Main()
	if o.Sections != nil && main != nil {
		if err := o.Sections.LoadSections(ctx, p, main); err != nil {
			o.Reporter.Report(ctx, err)
		}
	}

	if hash := p.Hash(); hash != "" && o.Viewport != nil {
		if el := dom.ByID(p.Doc, hash); el != nil {
			o.Viewport.ScrollIntoView(el)
		}
	}

	if o.Sections != nil {
		if err := o.Sections.LoadHeader(ctx, p, p.Header()); err != nil {
			o.Reporter.Report(ctx, err)
		}
		if err := o.Sections.LoadFooter(ctx, p, p.Footer()); err != nil {
			o.Reporter.Report(ctx, err)
		}
	}

	if o.Styles != nil {
		if err := o.Styles.LoadCSS(ctx, p, o.Options.CodeBase+"/styles/lazy-styles.css"); err != nil {
			o.Reporter.Report(ctx, err)
		}
	}
	o.loadFonts(ctx, p)

	if o.Icons != nil {
		o.Icons.SwapIcons(ctx, p, main)
	}
}

// loadDelayed arms the delayed timer. The task outlives ctx's cancellation.
func (o *Orchestrator) loadDelayed(ctx context.Context, p *page.Page) error {
	done := make(chan struct{})
	o.delayed = done
	if o.Scheduler == nil {
		close(done)
		return nil
	}
	dctx := observability.WithPhase(context.WithoutCancel(ctx), PhaseDelayed)
	task := func() {
		defer close(done)
		start := time.Now()
		if o.Scripts != nil {
			if err := o.Scripts.LoadScript(dctx, p, o.Options.CodeBase+o.Options.DelayedModule, "module"); err != nil {
				o.Reporter.Report(dctx, err)
			}
		}
		d := time.Since(start)
		o.state.record(PhaseDelayed, d)
		o.Recorder.ObservePhaseDuration(PhaseDelayed, d)
	}
	if err := o.Scheduler.After(o.Options.DelayedAfter, "delayed-"+p.ID, task); err != nil {
		close(done)
		return derrors.WrapError(err, derrors.CategoryInternal, "delayed phase not scheduled").Build()
	}
	return nil
}

// normalizeLanguage returns the canonical BCP 47 form of lang, or "en" when
// lang does not parse.
func normalizeLanguage(lang string) string {
	if lang == "" {
		return "en"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "en"
	}
	return tag.String()
}
