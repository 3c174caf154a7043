package lifecycle

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	"git.home.luguber.info/inful/pageloader/internal/intersect"
	"git.home.luguber.info/inful/pageloader/internal/observability"
	"git.home.luguber.info/inful/pageloader/internal/page"
	"git.home.luguber.info/inful/pageloader/internal/resources"
	"git.home.luguber.info/inful/pageloader/internal/sections"
	"git.home.luguber.info/inful/pageloader/internal/session"
)

const pageMarkup = `<html><head></head><body><header></header><main>
<div><h1 id="top">Hello</h1><p><a href="/go">Go</a></p></div>
<div><h2 id="more">More</h2></div>
</main><footer></footer></body></html>`

type call struct {
	phase string
	what  string
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) add(ctx context.Context, what string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{phase: observability.GetContext(ctx).Phase, what: what})
}

func (r *recorder) list() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func (r *recorder) whats() []string {
	var out []string
	for _, c := range r.list() {
		out = append(out, c.what)
	}
	return out
}

type fakeSections struct {
	rec          *recorder
	firstErr     error
	sectionsSeen []*html.Node
}

func (f *fakeSections) DecorateTemplateAndTheme(*page.Page) {
	f.rec.add(context.Background(), "template")
}

func (f *fakeSections) LoadSection(ctx context.Context, p *page.Page, s *html.Node, eager sections.SectionCallback) error {
	f.rec.add(ctx, "section:"+dom.AttrVal(dom.Find(s, dom.WithAttr("id")), "id"))
	f.sectionsSeen = append(f.sectionsSeen, s)
	if f.firstErr != nil {
		return f.firstErr
	}
	return eager(ctx, p, s)
}

func (f *fakeSections) LoadSections(ctx context.Context, _ *page.Page, _ *html.Node) error {
	f.rec.add(ctx, "sections")
	return nil
}

func (f *fakeSections) LoadHeader(ctx context.Context, _ *page.Page, h *html.Node) error {
	f.rec.add(ctx, "header")
	return nil
}

func (f *fakeSections) LoadFooter(ctx context.Context, _ *page.Page, _ *html.Node) error {
	f.rec.add(ctx, "footer")
	return nil
}

func (f *fakeSections) WaitForFirstImage(ctx context.Context, _ *page.Page, _ *html.Node) error {
	f.rec.add(ctx, "first-image")
	return nil
}

type fakeStyles struct {
	rec *recorder
	err error
}

func (f *fakeStyles) LoadCSS(ctx context.Context, _ *page.Page, href string) error {
	f.rec.add(ctx, "css:"+href)
	return f.err
}

type fakeIcons struct{ rec *recorder }

func (f *fakeIcons) SwapIcons(ctx context.Context, _ *page.Page, _ *html.Node) int {
	f.rec.add(ctx, "icons")
	return 0
}

type fakeRUM struct{ rec *recorder }

func (f *fakeRUM) Enhance(ctx context.Context, _ *page.Page) { f.rec.add(ctx, "rum") }

type fakeScheduler struct {
	delay time.Duration
	name  string
	task  func()
}

func (f *fakeScheduler) After(d time.Duration, name string, task func()) error {
	f.delay, f.name, f.task = d, name, task
	return nil
}

type fixture struct {
	rec       *recorder
	sections  *fakeSections
	styles    *fakeStyles
	window    *intersect.Window
	store     session.Store
	scheduler *fakeScheduler
	modules   *resources.Modules
	reporter  *observability.MemoryReporter
	orch      *Orchestrator
}

func newFixture(width int) *fixture {
	rec := &recorder{}
	f := &fixture{
		rec:       rec,
		sections:  &fakeSections{rec: rec},
		styles:    &fakeStyles{rec: rec},
		window:    intersect.NewWindow(width, false),
		store:     session.NewMemory().Session("s1"),
		scheduler: &fakeScheduler{},
		modules:   resources.NewModules(),
		reporter:  &observability.MemoryReporter{},
	}
	f.modules.Register("/scripts/delayed.js", func(ctx context.Context, _ *page.Page) error {
		rec.add(ctx, "delayed.js")
		return nil
	})
	f.orch = &Orchestrator{
		Options:   DefaultOptions(),
		Structure: sections.Structure{},
		Sections:  f.sections,
		Styles:    f.styles,
		Scripts:   f.modules,
		Icons:     &fakeIcons{rec: rec},
		RUM:       &fakeRUM{rec: rec},
		Session:   f.store,
		Viewport:  f.window,
		Scheduler: f.scheduler,
		Reporter:  f.reporter,
	}
	return f
}

func loadPage(t *testing.T, f *fixture, rawURL string) *page.Page {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	p, err := page.Parse("p1", pageMarkup, u)
	require.NoError(t, err)
	require.NoError(t, f.orch.Load(context.Background(), p))
	return p
}

func eagerFonts(calls []call) bool {
	for _, c := range calls {
		if c.phase == PhaseEager && c.what == "css:/styles/fonts.css" {
			return true
		}
	}
	return false
}

func TestPhaseOrder(t *testing.T) {
	f := newFixture(1200)
	p := loadPage(t, f, "https://example.com/page")

	assert.Equal(t, []string{
		"template", "section:top", "first-image", "rum", "css:/styles/fonts.css",
		"sections", "header", "footer", "css:/styles/lazy-styles.css", "css:/styles/fonts.css", "icons",
	}, f.rec.whats())

	assert.Equal(t, "en", dom.AttrVal(p.HTML(), "lang"))
	assert.True(t, dom.HasClass(p.Body(), "appear"))
	assert.NotNil(t, dom.Find(p.Main(), dom.Class("button-wrapper")))

	state := f.orch.State()
	assert.True(t, state.Appear)
	assert.True(t, state.FirstSectionLoaded)
	assert.Equal(t, []string{PhaseEager, PhaseLazy}, state.PhaseNames())
}

func TestFontsByViewportWidth(t *testing.T) {
	narrow := newFixture(500)
	loadPage(t, narrow, "https://example.com/")
	assert.False(t, eagerFonts(narrow.rec.list()))

	wide := newFixture(1200)
	loadPage(t, wide, "https://example.com/")
	assert.True(t, eagerFonts(wide.rec.list()))
}

func TestFontsBySessionFlag(t *testing.T) {
	f := newFixture(500)
	require.NoError(t, f.store.Set(context.Background(), session.FontsLoadedKey, "true"))
	loadPage(t, f, "https://example.com/")
	assert.True(t, eagerFonts(f.rec.list()))
}

func TestFontsFlagWritten(t *testing.T) {
	f := newFixture(500)
	loadPage(t, f, "https://example.com/")
	v, ok, err := f.store.Get(context.Background(), session.FontsLoadedKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	local := newFixture(500)
	loadPage(t, local, "http://localhost:3000/")
	_, ok, err = local.store.Get(context.Background(), session.FontsLoadedKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFontFailureIsSwallowed(t *testing.T) {
	f := newFixture(1200)
	f.styles.err = errors.New("404")
	loadPage(t, f, "https://example.com/")

	_, ok, _ := f.store.Get(context.Background(), session.FontsLoadedKey)
	assert.False(t, ok)
	assert.False(t, f.orch.State().FontsLoaded)
	assert.GreaterOrEqual(t, f.reporter.Len(), 3)
	assert.Contains(t, f.rec.whats(), "icons")
}

func TestEagerMainFailureContinues(t *testing.T) {
	f := newFixture(1200)
	f.sections.firstErr = errors.New("block exploded")
	loadPage(t, f, "https://example.com/")

	whats := f.rec.whats()
	assert.Contains(t, whats, "rum")
	assert.True(t, eagerFonts(f.rec.list()))
	assert.Contains(t, whats, "sections")
	assert.False(t, f.orch.State().FirstSectionLoaded)
	require.Equal(t, 1, f.reporter.Len())
}

func TestPageWithoutMain(t *testing.T) {
	f := newFixture(1200)
	p, err := page.Parse("p2", `<html><body><p>bare</p></body></html>`, nil)
	require.NoError(t, err)
	require.NoError(t, f.orch.Load(context.Background(), p))
	assert.False(t, dom.HasClass(p.Body(), "appear"))
	assert.NotContains(t, f.rec.whats(), "sections")
}

func TestHashScrollsIntoView(t *testing.T) {
	f := newFixture(1200)
	loadPage(t, f, "https://example.com/page#more")
	require.NotNil(t, f.window.Scrolled())
	assert.Equal(t, "more", dom.AttrVal(f.window.Scrolled(), "id"))

	missing := newFixture(1200)
	loadPage(t, missing, "https://example.com/page#nowhere")
	assert.Nil(t, missing.window.Scrolled())
}

func TestDelayedPhase(t *testing.T) {
	f := newFixture(1200)
	p := loadPage(t, f, "https://example.com/")

	assert.Equal(t, 3*time.Second, f.scheduler.delay)
	assert.Equal(t, "delayed-p1", f.scheduler.name)
	select {
	case <-f.orch.Delayed():
		t.Fatal("delayed phase finished before its timer fired")
	default:
	}
	assert.NotContains(t, f.rec.whats(), "delayed.js")

	f.scheduler.task()
	<-f.orch.Delayed()

	last := f.rec.list()[len(f.rec.list())-1]
	assert.Equal(t, call{phase: PhaseDelayed, what: "delayed.js"}, last)
	assert.NotNil(t, dom.Find(p.Head(), dom.And(dom.Tag("script"), dom.WithAttr("src"))))
	assert.Equal(t, []string{PhaseEager, PhaseLazy, PhaseDelayed}, f.orch.State().PhaseNames())
}

func TestDelayedWithGocron(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	defer s.Stop()

	f := newFixture(1200)
	f.orch.Scheduler = s
	f.orch.Options.DelayedAfter = 10 * time.Millisecond
	loadPage(t, f, "https://example.com/")

	select {
	case <-f.orch.Delayed():
	case <-time.After(5 * time.Second):
		t.Fatal("delayed phase did not run")
	}
	assert.Contains(t, f.rec.whats(), "delayed.js")
}

func TestDelayedBeforeLoad(t *testing.T) {
	o := &Orchestrator{}
	select {
	case <-o.Delayed():
	default:
		t.Fatal("expected closed channel before Load")
	}
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "en-US", normalizeLanguage("EN-us"))
	assert.Equal(t, "de", normalizeLanguage("de"))
	assert.Equal(t, "en", normalizeLanguage(""))
	assert.Equal(t, "en", normalizeLanguage("not a tag!"))
}
