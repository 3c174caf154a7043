package resources

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/page"
)

// Module is the Go side of a dynamically imported script.
type Module func(ctx context.Context, p *page.Page) error

// ScriptLoader loads a script module into a page.
type ScriptLoader interface {
	LoadScript(ctx context.Context, p *page.Page, src, typ string) error
}

// Modules maps resolved script paths to Go modules. Loading a script adds a
// <script> element to the head and runs the module once per page.
type Modules struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewModules creates an empty module registry.
func NewModules() *Modules {
	return &Modules{modules: make(map[string]Module)}
}

// Register binds a module to a path such as /widgets/movies/index.js.
func (m *Modules) Register(path string, mod Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modules[path] = mod
}

// Paths lists registered module paths in sorted order.
func (m *Modules) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.modules))
	for p := range m.modules {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (m *Modules) lookup(path string) (Module, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mod, ok := m.modules[path]
	return mod, ok
}

// LoadScript resolves src against the page, links it in the head and runs the
// registered module. A script already linked is not run again. Unknown paths
// and module failures are returned as module errors.
func (m *Modules) LoadScript(ctx context.Context, p *page.Page, src, typ string) error {
	u, err := p.Resolve(src)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryModule, "invalid module src").WithContext("module", src).Build()
	}
	head := p.Head()
	if head != nil && scriptLinked(head, src) {
		return nil
	}
	mod, ok := m.lookup(u.Path)
	if !ok {
		return derrors.ModuleError("module not found").WithContext("module", u.Path).Build()
	}
	if head != nil {
		attrs := dom.A("src", src)
		if typ != "" {
			attrs = append(attrs, dom.Attr{Key: "type", Val: typ})
		}
		dom.Append(head, dom.CreateEl("script", attrs, nil))
	}
	if err := mod(ctx, p); err != nil {
		return derrors.WrapError(err, derrors.CategoryModule, "module failed").WithContext("module", u.Path).Build()
	}
	return nil
}

func scriptLinked(head *html.Node, src string) bool {
	for _, s := range dom.Children(head) {
		if s.Data == "script" && dom.AttrVal(s, "src") == src {
			return true
		}
	}
	return false
}
