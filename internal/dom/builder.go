package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Reserved attribute keys understood by CreateEl.
const (
	KeyClass = "class"
	KeyText  = "text"
	KeyHTML  = "html"
)

// Attr is one key/value pair passed to CreateEl.
type Attr struct {
	Key string
	Val string
}

// Attrs is an ordered attribute list. Order is kept so rendered output is stable.
type Attrs []Attr

// A builds an Attrs list from alternating key/value strings. A trailing key
// without a value is ignored.
func A(kv ...string) Attrs {
	out := make(Attrs, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Attr{Key: kv[i], Val: kv[i+1]})
	}
	return out
}

// CreateEl constructs an element from a tag name, attributes and children.
//
// Reserved keys: "class" sets the class attribute, "text" sets plain text
// content and "html" sets parsed markup content. Any other key becomes a
// literal attribute. children may be nil, a string, a *html.Node, or a slice
// of those; a single value is treated as a one-element sequence and nil as
// empty. Malformed values are passed through unchanged.
func CreateEl(tag string, attrs Attrs, children any) *html.Node {
	el := Element(tag)
	for _, a := range attrs {
		switch a.Key {
		case KeyClass:
			SetAttr(el, "class", a.Val)
		case KeyText:
			SetText(el, a.Val)
		case KeyHTML:
			SetHTML(el, a.Val)
		default:
			SetAttr(el, a.Key, a.Val)
		}
	}
	for _, child := range normalizeChildren(children) {
		Append(el, child)
	}
	return el
}

func normalizeChildren(children any) []*html.Node {
	switch c := children.(type) {
	case nil:
		return nil
	case *html.Node:
		if c == nil {
			return nil
		}
		return []*html.Node{c}
	case string:
		return []*html.Node{Text(c)}
	case []*html.Node:
		out := make([]*html.Node, 0, len(c))
		for _, n := range c {
			if n != nil {
				out = append(out, n)
			}
		}
		return out
	case []string:
		out := make([]*html.Node, 0, len(c))
		for _, s := range c {
			out = append(out, Text(s))
		}
		return out
	case []any:
		out := make([]*html.Node, 0, len(c))
		for _, item := range c {
			out = append(out, normalizeChildren(item)...)
		}
		return out
	default:
		return []*html.Node{Text(fmt.Sprint(c))}
	}
}

// Element returns a detached element node.
func Element(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// Text returns a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// SetText replaces all children of n with a single text node.
func SetText(n *html.Node, s string) {
	RemoveChildren(n)
	if s != "" {
		n.AppendChild(Text(s))
	}
}

// SetHTML replaces all children of n with the parsed markup. Markup that
// cannot be parsed leaves n empty.
func SetHTML(n *html.Node, markup string) {
	RemoveChildren(n)
	nodes, err := ParseFragment(markup, n)
	if err != nil {
		return
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
}
