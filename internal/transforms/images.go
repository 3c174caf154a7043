package transforms

import (
	"context"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
)

// decorateImagesRule marks paragraphs holding an image as image wrappers.
type decorateImagesRule struct{}

func (decorateImagesRule) Name() string { return RuleDecorateImages }

func (decorateImagesRule) Dependencies() Dependencies {
	return Dependencies{MustRunAfter: []string{RuleDecorateIcons}}
}

func (decorateImagesRule) Apply(_ context.Context, region *html.Node, _ Collaborators) error {
	for _, img := range dom.FindAll(region, dom.Within(dom.Tag("p"), dom.Tag("img"))) {
		if p := dom.Closest(img, dom.Tag("p")); p != nil {
			dom.SetClass(p, "img-wrapper")
		}
	}
	return nil
}

func init() {
	Register(decorateImagesRule{})
}
