// Package icons expands icon shorthand into placeholder images and swaps
// visible placeholders for inline SVG.
package icons

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
)

var shorthand = regexp.MustCompile(`:([a-z][a-z0-9-]*):`)

// Decorator turns icon spans into placeholders pointing at
// {CodeBase}{Prefix}/icons/{name}.svg.
type Decorator struct {
	CodeBase string
	Prefix   string
}

// Name returns the icon name carried by an icon-* class, or "".
func Name(span *html.Node) string {
	for _, c := range dom.Classes(span) {
		if strings.HasPrefix(c, "icon-") && len(c) > len("icon-") {
			return strings.TrimPrefix(c, "icon-")
		}
	}
	return ""
}

// DecorateIcon appends the placeholder image to span. Spans without a name or
// with an image already are left alone.
func (d Decorator) DecorateIcon(span *html.Node, alt string) {
	name := Name(span)
	if name == "" || dom.Find(span, dom.Tag("img")) != nil {
		return
	}
	img := dom.CreateEl("img", dom.A(
		"data-icon-name", name,
		"src", d.CodeBase+d.Prefix+"/icons/"+name+".svg",
		"alt", alt,
		"loading", "lazy",
	), nil)
	dom.Append(span, img)
}

// DecorateIcons expands :name: shorthand in text under root and decorates
// every span.icon found.
func (d Decorator) DecorateIcons(root *html.Node) {
	if root == nil {
		return
	}
	expandShorthand(root)
	for _, span := range dom.FindAll(root, dom.And(dom.Tag("span"), dom.Class("icon"))) {
		d.DecorateIcon(span, "")
	}
}

// BuildIcon creates a decorated span.icon.icon-{name}, with an optional
// modifier class.
func (d Decorator) BuildIcon(name, modifier string) *html.Node {
	class := "icon icon-" + name
	if modifier != "" {
		class += " " + modifier
	}
	span := dom.CreateEl("span", dom.A("class", class), nil)
	d.DecorateIcon(span, "")
	return span
}

var skipText = map[string]bool{"code": true, "pre": true, "script": true, "style": true, "textarea": true}

func expandShorthand(root *html.Node) {
	var texts []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				if shorthand.MatchString(c.Data) {
					texts = append(texts, c)
				}
			case html.ElementNode:
				if !skipText[c.Data] {
					walk(c)
				}
			}
		}
	}
	walk(root)

	for _, t := range texts {
		parent := t.Parent
		rest := t.Data
		matches := shorthand.FindAllStringSubmatchIndex(rest, -1)
		last := 0
		for _, m := range matches {
			if m[0] > last {
				parent.InsertBefore(dom.Text(rest[last:m[0]]), t)
			}
			name := rest[m[2]:m[3]]
			parent.InsertBefore(dom.CreateEl("span", dom.A("class", "icon icon-"+name), nil), t)
			last = m[1]
		}
		if last < len(rest) {
			parent.InsertBefore(dom.Text(rest[last:]), t)
		}
		parent.RemoveChild(t)
	}
}
