package dom

import (
	"golang.org/x/net/html"
)

// Matcher selects element nodes.
type Matcher func(*html.Node) bool

// Tag matches elements by tag name.
func Tag(name string) Matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

// Class matches elements carrying a class token.
func Class(name string) Matcher {
	return func(n *html.Node) bool {
		return HasClass(n, name)
	}
}

// WithAttr matches elements that have the attribute.
func WithAttr(key string) Matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && HasAttr(n, key)
	}
}

// ID matches the element with the given id.
func ID(id string) Matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && AttrVal(n, "id") == id
	}
}

// And matches when every matcher does.
func And(ms ...Matcher) Matcher {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if !m(n) {
				return false
			}
		}
		return true
	}
}

// ChildOf matches elements whose parent matches parent.
func ChildOf(parent Matcher, child Matcher) Matcher {
	return func(n *html.Node) bool {
		return child(n) && n.Parent != nil && parent(n.Parent)
	}
}

// Within matches elements that have an ancestor matching ancestor.
func Within(ancestor Matcher, m Matcher) Matcher {
	return func(n *html.Node) bool {
		if !m(n) {
			return false
		}
		return n.Parent != nil && Closest(n.Parent, ancestor) != nil
	}
}

// FindAll returns every descendant of root (root excluded) matching m, in
// document order. The result is a static snapshot.
func FindAll(root *html.Node, m Matcher) []*html.Node {
	var out []*html.Node
	if root == nil {
		return out
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && m(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// Find returns the first descendant of root matching m, or nil.
func Find(root *html.Node, m Matcher) *html.Node {
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && m(c) {
			return c
		}
		if found := Find(c, m); found != nil {
			return found
		}
	}
	return nil
}

// Closest walks from n up through its ancestors and returns the first match.
func Closest(n *html.Node, m Matcher) *html.Node {
	for x := n; x != nil; x = x.Parent {
		if x.Type == html.ElementNode && m(x) {
			return x
		}
	}
	return nil
}
