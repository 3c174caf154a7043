package sections

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/page"
)

// Decorator renders one block in place.
type Decorator func(ctx context.Context, p *page.Page, block *html.Node) error

// Registry binds block names to decorators.
type Registry struct {
	mu         sync.RWMutex
	decorators map[string]Decorator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{decorators: make(map[string]Decorator)}
}

// Register binds name to d, replacing any previous binding.
func (r *Registry) Register(name string, d Decorator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decorators[name] = d
}

// Lookup returns the decorator bound to name.
func (r *Registry) Lookup(name string) (Decorator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decorators[name]
	return d, ok
}

// Names lists the registered block names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.decorators))
	for n := range r.decorators {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
