// Package fragment loads auxiliary document fragments and reshapes them into
// labeled regions for the header and footer blocks.
package fragment

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
	"git.home.luguber.info/inful/pageloader/internal/metrics"
	"git.home.luguber.info/inful/pageloader/internal/observability"
	"git.home.luguber.info/inful/pageloader/internal/page"
	"git.home.luguber.info/inful/pageloader/internal/resources"
	"git.home.luguber.info/inful/pageloader/internal/transforms"
)

// OtherRole labels regions beyond the known roles.
const OtherRole = "other"

var htmlSuffix = regexp.MustCompile(`(\.plain)?\.html`)

// SectionLoader loads the sections of a decorated region.
type SectionLoader interface {
	LoadSections(ctx context.Context, p *page.Page, region *html.Node) error
}

// Loader fetches {path}.plain.html and decorates it like the main region.
type Loader struct {
	Fetcher   resources.Fetcher
	Structure transforms.Collaborators
	Sections  SectionLoader
	Reporter  observability.Reporter
	Recorder  metrics.Recorder
}

// LoadFragment returns the decorated fragment as a main element, or nil when
// the fragment is unavailable. Failures are reported, never returned.
func (l *Loader) LoadFragment(ctx context.Context, p *page.Page, path string) *html.Node {
	main, err := l.load(ctx, p, path)
	if err != nil {
		l.recorder().IncFragmentLoad(metrics.OutcomeAbsent)
		if l.Reporter != nil {
			l.Reporter.Report(ctx, err)
		}
		return nil
	}
	l.recorder().IncFragmentLoad(metrics.OutcomeSuccess)
	return main
}

func (l *Loader) recorder() metrics.Recorder {
	if l.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return l.Recorder
}

func (l *Loader) load(ctx context.Context, p *page.Page, path string) (*html.Node, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, derrors.AbsentError("fragment path must be absolute").WithContext("path", path).Build()
	}
	path = htmlSuffix.ReplaceAllString(path, "")
	base, err := p.Resolve(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryAbsent, "invalid fragment path").Warning().WithContext("path", path).Build()
	}
	src, _ := p.Resolve(path + ".plain.html")
	if l.Fetcher == nil {
		return nil, derrors.AbsentError("no fragment fetcher").WithContext("path", path).Build()
	}
	body, err := l.Fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryAbsent, "fragment unavailable").Warning().WithContext("path", path).Build()
	}

	main := dom.Element("main")
	dom.SetHTML(main, string(body))
	rebaseMedia(main, base)

	if err := transforms.DecorateMain(ctx, main, l.Structure); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryMalformed, "fragment decoration failed").Warning().WithContext("path", path).Build()
	}
	if l.Sections != nil {
		if err := l.Sections.LoadSections(ctx, p, main); err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryAbsent, "fragment sections failed").Warning().WithContext("path", path).Build()
		}
	}
	observability.DebugContext(ctx, "Fragment loaded", logfields.Path(path))
	return main, nil
}

// rebaseMedia resolves ./media_ references against the fragment location.
func rebaseMedia(main *html.Node, base *url.URL) {
	for _, target := range []struct{ tag, attr string }{{"img", "src"}, {"source", "srcset"}} {
		for _, el := range dom.FindAll(main, dom.Tag(target.tag)) {
			val := dom.AttrVal(el, target.attr)
			if !strings.HasPrefix(val, "./media_") {
				continue
			}
			ref, err := url.Parse(val)
			if err != nil {
				continue
			}
			dom.SetAttr(el, target.attr, base.ResolveReference(ref).String())
		}
	}
}

// ResolvePath returns the pathname of the metadata value for key resolved
// against the page, or fallback when the value is absent or empty.
func ResolvePath(p *page.Page, key, fallback string) string {
	meta := p.GetMetadata(key)
	if meta == "" {
		return fallback
	}
	path, err := p.ResolvePath(meta)
	if err != nil || path == "" {
		return fallback
	}
	return path
}

// Compose returns the first element child of every top-level child of the
// fragment, in order. A top-level child without one yields a nil region so
// that later regions keep their position.
func Compose(fragment *html.Node) []*html.Node {
	if fragment == nil {
		return nil
	}
	children := dom.Children(fragment)
	out := make([]*html.Node, len(children))
	for i, c := range children {
		out[i] = dom.FirstElementChild(c)
	}
	return out
}

// Label sets the class of each region to {prefix}-{role} by position.
// Regions past the known roles are labeled other. Nil regions consume their
// role and are otherwise ignored.
func Label(regions []*html.Node, prefix string, roles []string) {
	for i, r := range regions {
		if r == nil {
			continue
		}
		role := OtherRole
		if i < len(roles) {
			role = roles[i]
		}
		dom.SetClass(r, prefix+"-"+role)
	}
}

// Provider loads fragments; *Loader is the default implementation.
type Provider interface {
	LoadFragment(ctx context.Context, p *page.Page, path string) *html.Node
}
