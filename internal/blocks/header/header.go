// Package header renders the header block from the nav fragment.
package header

import (
	"context"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	"git.home.luguber.info/inful/pageloader/internal/fragment"
	"git.home.luguber.info/inful/pageloader/internal/icons"
	"git.home.luguber.info/inful/pageloader/internal/page"
)

const (
	// MetaKey names the metadata entry holding the nav fragment path.
	MetaKey = "nav"
	// DefaultPath is used when the page has no nav metadata.
	DefaultPath = "/nav"
)

// Roles label the nav fragment regions by position.
var Roles = []string{"title", "links", "tools"}

// Block decorates header blocks.
type Block struct {
	Fragments fragment.Provider
	Icons     icons.Swapper
}

// Decorate replaces the block content with a labeled <nav>. Without a nav
// fragment the block is left untouched.
func (b *Block) Decorate(ctx context.Context, p *page.Page, block *html.Node) error {
	if b.Fragments == nil {
		return nil
	}
	frag := b.Fragments.LoadFragment(ctx, p, fragment.ResolvePath(p, MetaKey, DefaultPath))
	if frag == nil {
		return nil
	}

	parts := fragment.Compose(frag)
	fragment.Label(parts, "nav", Roles)
	nav := dom.CreateEl("nav", dom.A("aria-label", "Main navigation"), parts)
	dom.ReplaceChildren(block, nav)

	if title := dom.Find(nav, dom.Class("nav-title")); title != nil {
		decorateTitle(title)
	}
	if b.Icons != nil {
		b.Icons.SwapIcons(ctx, p, block)
	}
	return nil
}

// decorateTitle turns a title without a link into a link to the site root.
func decorateTitle(title *html.Node) {
	if dom.Find(title, dom.Tag("a")) != nil {
		return
	}
	link := dom.CreateEl("a", dom.A("href", "/"), dom.TextContent(title))
	dom.ReplaceWith(title, link)
}
