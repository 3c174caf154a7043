// Package footer renders the footer block from the footer fragment.
package footer

import (
	"context"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	"git.home.luguber.info/inful/pageloader/internal/fragment"
	"git.home.luguber.info/inful/pageloader/internal/icons"
	"git.home.luguber.info/inful/pageloader/internal/page"
)

const (
	// MetaKey names the metadata entry holding the footer fragment path.
	MetaKey = "footer"
	// DefaultPath is used when the page has no footer metadata.
	DefaultPath = "/footer"
)

// Roles label the footer fragment regions by position.
var Roles = []string{"copy", "links"}

// Block decorates footer blocks.
type Block struct {
	Fragments fragment.Provider
	Icons     icons.Swapper
}

// Decorate replaces the block content with a <section> of labeled regions.
// Without a footer fragment the block is left untouched.
func (b *Block) Decorate(ctx context.Context, p *page.Page, block *html.Node) error {
	if b.Fragments == nil {
		return nil
	}
	frag := b.Fragments.LoadFragment(ctx, p, fragment.ResolvePath(p, MetaKey, DefaultPath))
	if frag == nil {
		return nil
	}

	parts := fragment.Compose(frag)
	fragment.Label(parts, "footer", Roles)
	dom.ReplaceChildren(block, dom.CreateEl("section", nil, parts))

	if b.Icons != nil {
		b.Icons.SwapIcons(ctx, p, block)
	}
	return nil
}
