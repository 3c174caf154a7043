// Package widget resolves and loads the module behind a widget block.
package widget

import (
	"context"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	"git.home.luguber.info/inful/pageloader/internal/page"
	"git.home.luguber.info/inful/pageloader/internal/resources"
)

// ModulePath returns /widgets/{section}/{variant}.js, where variant is the
// first class other than block and widget, or index when there is none.
func ModulePath(section string, classes []string) string {
	variant := "index"
	for _, c := range classes {
		if c != "block" && c != "widget" {
			variant = c
			break
		}
	}
	return "/widgets/" + section + "/" + variant + ".js"
}

// Block decorates widget blocks.
type Block struct {
	Scripts  resources.ScriptLoader
	CodeBase string
}

// Decorate marks the block loading and imports the widget module for the
// page section. Pages without a section context load nothing.
func (b *Block) Decorate(ctx context.Context, p *page.Page, block *html.Node) error {
	dom.SetData(block, "widget", "loading")
	section := p.Section()
	if section == "" || b.Scripts == nil {
		return nil
	}
	return b.Scripts.LoadScript(ctx, p, b.CodeBase+ModulePath(section, dom.Classes(block)), "module")
}
