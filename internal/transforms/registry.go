package transforms

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/net/html"
)

var (
	regMu sync.RWMutex
	reg   = map[string]Rule{}
)

// Register adds a rule (idempotent by name). Intended to be called from init()
// of rule files.
func Register(r Rule) {
	if r == nil {
		return
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, ok := reg[r.Name()]; !ok {
		reg[r.Name()] = r
	}
}

// Registered returns the registered rules sorted by name.
func Registered() []Rule {
	regMu.RLock()
	defer regMu.RUnlock()
	items := make([]Rule, 0, len(reg))
	for _, r := range reg {
		items = append(items, r)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name() < items[j].Name() })
	return items
}

// List returns the registered rules in execution order.
func List() ([]Rule, error) {
	return BuildPipeline(Registered())
}

// DecorateMain applies every registered rule to region, in dependency order.
func DecorateMain(ctx context.Context, region *html.Node, c Collaborators) error {
	if region == nil {
		return nil
	}
	rules, err := List()
	if err != nil {
		return err
	}
	return Apply(ctx, rules, region, c)
}

// Apply runs rules in the given order and stops at the first failure.
func Apply(ctx context.Context, rules []Rule, region *html.Node, c Collaborators) error {
	for _, r := range rules {
		if err := r.Apply(ctx, region, c); err != nil {
			return fmt.Errorf("rule %s: %w", r.Name(), err)
		}
	}
	return nil
}

// snapshotRegistry returns a shallow copy for test isolation.
func snapshotRegistry() map[string]Rule {
	regMu.RLock()
	defer regMu.RUnlock()
	cp := make(map[string]Rule, len(reg))
	for k, v := range reg {
		cp[k] = v
	}
	return cp
}

// restoreRegistry replaces the registry map (test only).
func restoreRegistry(cp map[string]Rule) {
	regMu.Lock()
	defer regMu.Unlock()
	reg = cp
}
