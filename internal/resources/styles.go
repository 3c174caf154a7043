package resources

import (
	"context"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/page"
)

// StyleLoader adds stylesheets to a page.
type StyleLoader interface {
	LoadCSS(ctx context.Context, p *page.Page, href string) error
}

// Styles appends <link rel="stylesheet"> elements to the page head. With a
// Fetcher set, the stylesheet is requested once and a failed request is
// reported as a resource error; the link element stays either way.
type Styles struct {
	Fetcher Fetcher
}

func (s *Styles) LoadCSS(ctx context.Context, p *page.Page, href string) error {
	head := p.Head()
	if head == nil {
		return derrors.ResourceError("page has no head").WithContext("href", href).Build()
	}
	if stylesheetLinked(head, href) {
		return nil
	}
	dom.Append(head, dom.CreateEl("link", dom.A("rel", "stylesheet", "href", href), nil))

	if s.Fetcher == nil {
		return nil
	}
	u, err := p.Resolve(href)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryResource, "invalid stylesheet href").Warning().WithContext("href", href).Build()
	}
	if _, err := s.Fetcher.Fetch(ctx, u); err != nil {
		return derrors.WrapError(err, derrors.CategoryResource, "stylesheet failed to load").Warning().WithContext("href", href).Build()
	}
	return nil
}

func stylesheetLinked(head *html.Node, href string) bool {
	for _, l := range dom.Children(head) {
		if l.Data == "link" && dom.AttrVal(l, "href") == href {
			return true
		}
	}
	return false
}
