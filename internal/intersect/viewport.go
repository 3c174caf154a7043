// Package intersect models viewport visibility and one-shot visibility
// callbacks for a server-side DOM.
package intersect

import (
	"sync"

	"golang.org/x/net/html"
)

// Viewport answers visibility questions about nodes of one page.
type Viewport interface {
	// Width is the layout width in CSS pixels.
	Width() int
	// Intersects reports whether any part of n is inside the viewport.
	Intersects(n *html.Node) bool
	// ScrollIntoView brings n into the viewport.
	ScrollIntoView(n *html.Node)
}

// Window is a Viewport with a fixed width. With all set, every node is
// visible; otherwise only subtrees that were revealed or scrolled into view are.
type Window struct {
	mu       sync.Mutex
	width    int
	all      bool
	revealed []*html.Node
	scrolled *html.Node
}

// NewWindow returns a window of the given width.
func NewWindow(width int, all bool) *Window {
	return &Window{width: width, all: all}
}

func (w *Window) Width() int { return w.width }

// Reveal marks the subtree rooted at n as visible.
func (w *Window) Reveal(n *html.Node) {
	if n == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.revealed = append(w.revealed, n)
}

func (w *Window) ScrollIntoView(n *html.Node) {
	if n == nil {
		return
	}
	w.mu.Lock()
	w.scrolled = n
	w.mu.Unlock()
	w.Reveal(n)
}

// Scrolled returns the node most recently scrolled into view.
func (w *Window) Scrolled() *html.Node {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scrolled
}

func (w *Window) Intersects(n *html.Node) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.all {
		return true
	}
	for x := n; x != nil; x = x.Parent {
		for _, r := range w.revealed {
			if r == x {
				return true
			}
		}
	}
	return false
}
