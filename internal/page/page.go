// Package page holds the document being decorated together with its location,
// metadata and the page-level context values blocks read.
package page

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
)

// Page is one document under decoration. It is not safe for concurrent
// mutation; the lifecycle hands it from phase to phase on one goroutine.
type Page struct {
	ID  string
	Doc *html.Node
	URL *url.URL
}

// New wraps a parsed document located at u.
func New(id string, doc *html.Node, u *url.URL) *Page {
	if u == nil {
		u = &url.URL{Path: "/"}
	}
	return &Page{ID: id, Doc: doc, URL: u}
}

// Parse parses markup and wraps it as a Page.
func Parse(id, markup string, u *url.URL) (*Page, error) {
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, err
	}
	return New(id, doc, u), nil
}

// GetMetadata returns the content of the head <meta> elements for name,
// joined with ", ". Names containing ':' are looked up by property.
func (p *Page) GetMetadata(name string) string {
	head := p.Head()
	if head == nil || name == "" {
		return ""
	}
	attr := "name"
	if strings.Contains(name, ":") {
		attr = "property"
	}
	var values []string
	for _, m := range dom.FindAll(head, dom.Tag("meta")) {
		if dom.AttrVal(m, attr) == name {
			values = append(values, dom.AttrVal(m, "content"))
		}
	}
	return strings.Join(values, ", ")
}

// Resolve resolves ref against the page location.
func (p *Page) Resolve(ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return p.URL.ResolveReference(r), nil
}

// ResolvePath resolves ref against the page location and returns the pathname.
func (p *Page) ResolvePath(ref string) (string, error) {
	u, err := p.Resolve(ref)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

// Hostname returns the host of the page URL without port.
func (p *Page) Hostname() string {
	return p.URL.Hostname()
}

// Hash returns the URL fragment without the leading '#'.
func (p *Page) Hash() string {
	return p.URL.Fragment
}

// HTML returns the <html> element.
func (p *Page) HTML() *html.Node { return dom.DocumentElement(p.Doc) }

// Head returns the <head> element.
func (p *Page) Head() *html.Node { return dom.Head(p.Doc) }

// Body returns the <body> element.
func (p *Page) Body() *html.Node { return dom.Body(p.Doc) }

// Main returns the main content region, or nil when the page has none.
func (p *Page) Main() *html.Node { return dom.Find(p.Doc, dom.Tag("main")) }

// Header returns the <header> element, or nil.
func (p *Page) Header() *html.Node { return dom.Find(p.Doc, dom.Tag("header")) }

// Footer returns the <footer> element, or nil.
func (p *Page) Footer() *html.Node { return dom.Find(p.Doc, dom.Tag("footer")) }

// Section returns the page-wide section context (body data-section).
func (p *Page) Section() string {
	return dom.Data(p.Body(), "section")
}

// SetLanguage sets the lang attribute of the <html> element.
func (p *Page) SetLanguage(lang string) {
	if el := p.HTML(); el != nil {
		dom.SetAttr(el, "lang", lang)
	}
}

// Render serializes the whole document.
func (p *Page) Render() string {
	return dom.Render(p.Doc)
}
