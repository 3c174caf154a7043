package icons

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/intersect"
	"git.home.luguber.info/inful/pageloader/internal/metrics"
	"git.home.luguber.info/inful/pageloader/internal/observability"
	"git.home.luguber.info/inful/pageloader/internal/page"
	"git.home.luguber.info/inful/pageloader/internal/resources"
)

// Materializer replaces placeholder icon images with the inline SVG they
// point at, once each placeholder becomes visible.
type Materializer struct {
	observer *intersect.Observer
	fetcher  resources.Fetcher
	reporter observability.Reporter
	recorder metrics.Recorder
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithReporter sets where swallowed failures go.
func WithReporter(r observability.Reporter) Option {
	return func(m *Materializer) {
		if r != nil {
			m.reporter = r
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(m *Materializer) {
		if r != nil {
			m.recorder = r
		}
	}
}

// NewMaterializer creates a Materializer observing through obs and fetching
// icon sources with fetcher.
func NewMaterializer(obs *intersect.Observer, fetcher resources.Fetcher, opts ...Option) *Materializer {
	m := &Materializer{
		observer: obs,
		fetcher:  fetcher,
		reporter: observability.NopReporter{},
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SwapIcons registers every span.icon > img[src] under root (the whole
// document when root is nil) and runs an intersection pass. It returns the
// number of newly registered placeholders.
func (m *Materializer) SwapIcons(ctx context.Context, p *page.Page, root *html.Node) int {
	if root == nil {
		root = p.Doc
	}
	placeholders := dom.FindAll(root, dom.And(
		dom.ChildOf(dom.And(dom.Tag("span"), dom.Class("icon")), dom.Tag("img")),
		dom.WithAttr("src"),
	))
	registered := 0
	for _, img := range placeholders {
		if m.observer.Register(img, func(ctx context.Context, n *html.Node) { m.swap(ctx, p, n) }) {
			registered++
		}
	}
	m.observer.Check(ctx)
	return registered
}

// Check runs another intersection pass, for example after scrolling.
func (m *Materializer) Check(ctx context.Context) int {
	return m.observer.Check(ctx)
}

func (m *Materializer) swap(ctx context.Context, p *page.Page, img *html.Node) {
	src := dom.AttrVal(img, "src")
	name := dom.AttrVal(img, "data-icon-name")
	fail := func(err error) {
		m.recorder.IncIconSwap(metrics.OutcomeFailed)
		m.reporter.Report(ctx, err)
	}

	u, err := p.Resolve(src)
	if err != nil {
		fail(derrors.WrapError(err, derrors.CategoryMalformed, "invalid icon src").WithContext("icon", name).WithContext("url", src).Build())
		return
	}
	body, err := m.fetcher.Fetch(ctx, u)
	if err != nil {
		fail(derrors.WrapError(err, derrors.CategoryResource, "icon fetch failed").Warning().WithContext("icon", name).WithContext("url", u.String()).Build())
		return
	}
	svg, err := extractSVG(string(body))
	if err != nil {
		fail(derrors.WrapError(err, derrors.CategoryMalformed, "icon source unreadable").WithContext("icon", name).WithContext("url", u.String()).Build())
		return
	}
	if svg == nil {
		fail(derrors.MalformedError("icon source has no svg root").WithContext("icon", name).WithContext("url", u.String()).Build())
		return
	}
	if !inheritsColor(svg) {
		m.recorder.IncIconSwap(metrics.OutcomeSkipped)
		return
	}
	dom.ReplaceWith(img, svg)
	m.recorder.IncIconSwap(metrics.OutcomeSuccess)
}

func extractSVG(markup string) (*html.Node, error) {
	nodes, err := dom.ParseFragment(markup, nil)
	if err != nil {
		return nil, err
	}
	holder := dom.Element("div")
	dom.Append(holder, nodes...)
	svg := dom.Find(holder, dom.Tag("svg"))
	if svg != nil {
		dom.Detach(svg)
	}
	return svg, nil
}

// inheritsColor reports whether the svg may replace a placeholder: its style
// block or first fill attribute references currentColor, or it carries
// neither. An explicit non-inheriting fill or style keeps the placeholder.
func inheritsColor(svg *html.Node) bool {
	style := dom.Find(svg, dom.Tag("style"))
	fill := dom.Find(svg, dom.WithAttr("fill"))
	if style == nil && fill == nil {
		return true
	}
	if style != nil && strings.Contains(strings.ToLower(dom.TextContent(style)), "currentcolor") {
		return true
	}
	return fill != nil && strings.Contains(strings.ToLower(dom.AttrVal(fill, "fill")), "currentcolor")
}

// Swapper swaps placeholder icons under a root; *Materializer implements it.
type Swapper interface {
	SwapIcons(ctx context.Context, p *page.Page, root *html.Node) int
}
