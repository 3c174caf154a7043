package transforms

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
)

// decorateButtonsRule turns standalone paragraph links into buttons and
// collapses adjacent button wrappers.
type decorateButtonsRule struct{}

func (decorateButtonsRule) Name() string { return RuleDecorateButtons }

func (decorateButtonsRule) Dependencies() Dependencies {
	return Dependencies{MustRunAfter: []string{RuleDecorateBlocks}}
}

func (decorateButtonsRule) Apply(_ context.Context, region *html.Node, c Collaborators) error {
	var base *url.URL
	if c != nil {
		base = c.BaseURL()
	}
	DecorateButtons(region, base)
	return nil
}

// DecorateButtons classifies every link that is the only content of its
// paragraph as a button, then merges adjacent button wrappers. Links whose
// text is their own address, resolved against base, stay links.
func DecorateButtons(region *html.Node, base *url.URL) {
	links := dom.FindAll(region, dom.Within(dom.Tag("p"), dom.And(dom.Tag("a"), dom.WithAttr("href"))))
	for _, a := range links {
		text := dom.TextContent(a)
		if dom.AttrVal(a, "title") == "" {
			dom.SetAttr(a, "title", text)
		}
		p := dom.Closest(a.Parent, dom.Tag("p"))
		if p == nil || dom.HasClass(p, "button-wrapper") {
			continue
		}
		if !standalone(a, p, text, base) {
			continue
		}
		classes := []string{"button"}
		strong := dom.Closest(a.Parent, dom.Tag("strong")) != nil
		em := dom.Closest(a.Parent, dom.Tag("em")) != nil
		switch {
		case strong && em:
			classes = append(classes, "accent")
		case strong:
			classes = append(classes, "emphasis")
		case em:
			classes = append(classes, "outline")
		}
		dom.SetClass(a, strings.Join(classes, " "))
		if first := p.FirstChild; first != a {
			dom.ReplaceWith(first, a)
		}
		dom.SetClass(p, "button-wrapper")
	}
	mergeWrappers(region)
}

// standalone reports whether a is the whole text of p and is not a bare URL.
func standalone(a, p *html.Node, text string, base *url.URL) bool {
	if resolvedHref(a, base) == text {
		return false
	}
	return strings.TrimSpace(dom.TextContent(p)) == strings.TrimSpace(text)
}

// resolvedHref is the absolute link target, or the attribute as written when
// there is no base or it does not parse.
func resolvedHref(a *html.Node, base *url.URL) string {
	href := dom.AttrVal(a, "href")
	if base == nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// mergeWrappers walks the wrappers once, keeping the current merge target.
// A wrapper directly following the target moves its children into it and
// is removed; any other wrapper becomes the new target.
func mergeWrappers(region *html.Node) {
	var target *html.Node
	for _, w := range dom.FindAll(region, dom.And(dom.Tag("p"), dom.Class("button-wrapper"))) {
		if target != nil && dom.NextElementSibling(target) == w {
			dom.Append(target, dom.ChildNodes(w)...)
			dom.Detach(w)
			continue
		}
		target = w
	}
}

func init() {
	Register(decorateButtonsRule{})
}
