package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse parses a full HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// ParseString parses a full HTML document from a string.
func ParseString(s string) (*html.Node, error) {
	return html.Parse(strings.NewReader(s))
}

// DocumentElement returns the <html> element of a document node.
func DocumentElement(doc *html.Node) *html.Node {
	if doc != nil && doc.Type == html.ElementNode && doc.Data == "html" {
		return doc
	}
	return Find(doc, Tag("html"))
}

// Head returns the <head> element of a document.
func Head(doc *html.Node) *html.Node { return Find(doc, Tag("head")) }

// Body returns the <body> element of a document.
func Body(doc *html.Node) *html.Node { return Find(doc, Tag("body")) }

// ByID returns the element with the given id under root.
func ByID(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	return Find(root, ID(id))
}
