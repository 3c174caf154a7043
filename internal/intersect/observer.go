package intersect

import (
	"context"
	"sync"

	"golang.org/x/net/html"
)

// Callback runs when an observed node first intersects the viewport.
type Callback func(ctx context.Context, n *html.Node)

type registration struct {
	node *html.Node
	cb   Callback
}

// Observer fires each registration at most once: a registration is removed
// before its callback runs, and a node that was ever registered cannot be
// registered again.
type Observer struct {
	mu       sync.Mutex
	viewport Viewport
	pending  []registration
	seen     map[*html.Node]struct{}
}

// NewObserver creates an observer bound to a viewport.
func NewObserver(v Viewport) *Observer {
	return &Observer{viewport: v, seen: make(map[*html.Node]struct{})}
}

// Register observes n. It returns false when n was registered before.
func (o *Observer) Register(n *html.Node, cb Callback) bool {
	if n == nil || cb == nil {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.seen[n]; ok {
		return false
	}
	o.seen[n] = struct{}{}
	o.pending = append(o.pending, registration{node: n, cb: cb})
	return true
}

// Check evaluates every pending registration against the viewport and runs
// the callbacks of those that intersect, in registration order. It returns
// how many callbacks ran.
func (o *Observer) Check(ctx context.Context) int {
	o.mu.Lock()
	var due []registration
	remaining := o.pending[:0]
	for _, r := range o.pending {
		if o.viewport.Intersects(r.node) {
			due = append(due, r)
		} else {
			remaining = append(remaining, r)
		}
	}
	o.pending = remaining
	o.mu.Unlock()

	for _, r := range due {
		r.cb(ctx, r.node)
	}
	return len(due)
}

// Pending returns the number of registrations still waiting to intersect.
func (o *Observer) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Viewport returns the viewport the observer evaluates against.
func (o *Observer) Viewport() Viewport { return o.viewport }
