package sections

import (
	"context"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
	"git.home.luguber.info/inful/pageloader/internal/metrics"
	"git.home.luguber.info/inful/pageloader/internal/observability"
	"git.home.luguber.info/inful/pageloader/internal/page"
	"git.home.luguber.info/inful/pageloader/internal/resources"
)

// SectionCallback runs once a section's blocks are loaded, before the
// section is marked loaded.
type SectionCallback func(ctx context.Context, p *page.Page, section *html.Node) error

// Loader drives section and block loading.
type Loader struct {
	Registry *Registry
	Styles   resources.StyleLoader
	// Images, when set, is used by WaitForFirstImage to request the first image.
	Images   resources.Fetcher
	CodeBase string
	Reporter observability.Reporter
	Recorder metrics.Recorder
}

func (l *Loader) reporter() observability.Reporter {
	if l.Reporter == nil {
		return observability.NopReporter{}
	}
	return l.Reporter
}

func (l *Loader) recorder() metrics.Recorder {
	if l.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return l.Recorder
}

// LoadBlock links the block stylesheet and runs its decorator. Blocks that
// are loading or loaded are skipped. Stylesheet failures are reported;
// decorator failures mark the block failed and are reported. Neither is
// returned, so one block never stops its siblings.
func (l *Loader) LoadBlock(ctx context.Context, p *page.Page, block *html.Node) error {
	status := BlockStatus(block)
	if status == StatusLoading || status == StatusLoaded {
		return nil
	}
	name := BlockName(block)
	if name == "" {
		return derrors.ValidationError("block is not decorated").Warning().Build()
	}
	dom.SetData(block, blockStatusAttr, string(StatusLoading))
	observability.DebugContext(ctx, "Loading block", logfields.Block(name))

	if l.Styles != nil {
		href := l.CodeBase + "/blocks/" + name + "/" + name + ".css"
		if err := l.Styles.LoadCSS(ctx, p, href); err != nil {
			l.reporter().Report(ctx, derrors.WrapError(err, derrors.CategoryResource, "block stylesheet failed").
				Warning().WithContext("block", name).Build())
		}
	}

	outcome := metrics.OutcomeSkipped
	if l.Registry != nil {
		if decorate, ok := l.Registry.Lookup(name); ok {
			outcome = metrics.OutcomeSuccess
			if err := decorate(ctx, p, block); err != nil {
				dom.SetData(block, blockStatusAttr, string(StatusFailed))
				l.recorder().IncBlockLoad(name, metrics.OutcomeFailed)
				l.reporter().Report(ctx, derrors.WrapError(err, derrors.CategoryModule, "block decoration failed").
					Warning().WithContext("block", name).Build())
				return nil
			}
		}
	}
	dom.SetData(block, blockStatusAttr, string(StatusLoaded))
	l.recorder().IncBlockLoad(name, outcome)
	return nil
}

// LoadSection loads every block of a pending section in document order, then
// runs eager. A failing eager callback marks the section failed and is
// returned.
func (l *Loader) LoadSection(ctx context.Context, p *page.Page, section *html.Node, eager SectionCallback) error {
	if section == nil {
		return nil
	}
	status := SectionStatus(section)
	if status != "" && status != StatusPending {
		return nil
	}
	dom.SetData(section, sectionStatusAttr, string(StatusLoading))
	for _, block := range dom.FindAll(section, dom.And(dom.Tag("div"), dom.Class("block"))) {
		if err := l.LoadBlock(ctx, p, block); err != nil {
			l.reporter().Report(ctx, err)
		}
	}
	if eager != nil {
		if err := eager(ctx, p, section); err != nil {
			dom.SetData(section, sectionStatusAttr, string(StatusFailed))
			return err
		}
	}
	dom.SetData(section, sectionStatusAttr, string(StatusLoaded))
	if dom.AttrVal(section, "style") == hiddenStyle {
		dom.RemoveAttr(section, "style")
	}
	return nil
}

// LoadSections loads every section under region in order.
func (l *Loader) LoadSections(ctx context.Context, p *page.Page, region *html.Node) error {
	for _, section := range dom.FindAll(region, dom.And(dom.Tag("div"), dom.Class("section"))) {
		if err := l.LoadSection(ctx, p, section, nil); err != nil {
			return err
		}
	}
	return nil
}

// LoadHeader builds a header block inside the header element and loads it.
func (l *Loader) LoadHeader(ctx context.Context, p *page.Page, header *html.Node) error {
	return l.loadChrome(ctx, p, header, "header")
}

// LoadFooter builds a footer block inside the footer element and loads it.
func (l *Loader) LoadFooter(ctx context.Context, p *page.Page, footer *html.Node) error {
	return l.loadChrome(ctx, p, footer, "footer")
}

func (l *Loader) loadChrome(ctx context.Context, p *page.Page, container *html.Node, name string) error {
	if container == nil {
		return nil
	}
	block := BuildBlock(name, "")
	dom.Append(container, block)
	DecorateBlock(block)
	return l.LoadBlock(ctx, p, block)
}

// WaitForFirstImage marks the first image of the section for eager loading
// and, with an image fetcher set, waits until it has been requested. A failed
// request does not hold the section back.
func (l *Loader) WaitForFirstImage(ctx context.Context, p *page.Page, section *html.Node) error {
	img := dom.Find(section, dom.Tag("img"))
	if img == nil {
		return nil
	}
	dom.SetAttr(img, "loading", "eager")
	if l.Images == nil {
		return nil
	}
	src := dom.AttrVal(img, "src")
	if src == "" {
		return nil
	}
	u, err := p.Resolve(src)
	if err != nil {
		return nil
	}
	if _, err := l.Images.Fetch(ctx, u); err != nil {
		observability.DebugContext(ctx, "First image failed to load", logfields.URL(u.String()), logfields.Error(err))
	}
	return nil
}

// DecorateTemplateAndTheme applies template and theme metadata to the body.
func (l *Loader) DecorateTemplateAndTheme(p *page.Page) {
	DecorateTemplateAndTheme(p)
}
