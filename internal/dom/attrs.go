package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// GetAttr returns the value of key and whether it is present.
func GetAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrVal returns the value of key or "".
func AttrVal(n *html.Node, key string) string {
	v, _ := GetAttr(n, key)
	return v
}

// HasAttr reports whether key is present on n.
func HasAttr(n *html.Node, key string) bool {
	_, ok := GetAttr(n, key)
	return ok
}

// SetAttr sets key to val, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes key from n.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// Classes returns the class tokens of n in order.
func Classes(n *html.Node) []string {
	return strings.Fields(AttrVal(n, "class"))
}

// HasClass reports whether n carries the class token.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

// SetClass replaces the whole class attribute.
func SetClass(n *html.Node, class string) {
	SetAttr(n, "class", class)
}

// AddClass appends class tokens that are not present yet.
func AddClass(n *html.Node, classes ...string) {
	current := Classes(n)
	changed := false
	for _, c := range classes {
		if c == "" || contains(current, c) {
			continue
		}
		current = append(current, c)
		changed = true
	}
	if changed {
		SetAttr(n, "class", strings.Join(current, " "))
	}
}

// RemoveClass removes class tokens.
func RemoveClass(n *html.Node, classes ...string) {
	current := Classes(n)
	out := current[:0]
	for _, c := range current {
		if !contains(classes, c) {
			out = append(out, c)
		}
	}
	SetAttr(n, "class", strings.Join(out, " "))
}

// Data returns the value of data-{name}.
func Data(n *html.Node, name string) string {
	return AttrVal(n, "data-"+name)
}

// SetData sets data-{name}.
func SetData(n *html.Node, name, val string) {
	SetAttr(n, "data-"+name, val)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
