package transforms

import (
	"context"

	"golang.org/x/net/html"
)

const (
	RuleDecorateIcons    = "decorate_icons"
	RuleDecorateImages   = "decorate_images"
	RuleDecorateSections = "decorate_sections"
	RuleDecorateBlocks   = "decorate_blocks"
	RuleDecorateButtons  = "decorate_buttons"
)

// delegateRule hands the region to one of the collaborators.
type delegateRule struct {
	name  string
	after []string
	call  func(Collaborators, *html.Node)
}

func (r delegateRule) Name() string { return r.name }

func (r delegateRule) Dependencies() Dependencies {
	return Dependencies{MustRunAfter: r.after, Delegates: true}
}

func (r delegateRule) Apply(_ context.Context, region *html.Node, c Collaborators) error {
	if c == nil {
		return nil
	}
	r.call(c, region)
	return nil
}

func init() {
	Register(delegateRule{
		name: RuleDecorateIcons,
		call: func(c Collaborators, n *html.Node) { c.DecorateIcons(n) },
	})
	Register(delegateRule{
		name:  RuleDecorateSections,
		after: []string{RuleDecorateImages},
		call:  func(c Collaborators, n *html.Node) { c.DecorateSections(n) },
	})
	Register(delegateRule{
		name:  RuleDecorateBlocks,
		after: []string{RuleDecorateSections},
		call:  func(c Collaborators, n *html.Node) { c.DecorateBlocks(n) },
	})
}
