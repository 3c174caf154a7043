package transforms

import (
	"fmt"
	"slices"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

// edge is one ordering constraint: from runs before to.
type edge struct{ from, to string }

// edges flattens MustRunAfter and MustRunBefore into before->after pairs.
// Constraints naming rules outside the set are dropped when known is non-nil.
func edges(rules []Rule, known map[string]Rule) []edge {
	var out []edge
	keep := func(name string) bool {
		if known == nil {
			return true
		}
		_, ok := known[name]
		return ok
	}
	for _, r := range rules {
		deps := r.Dependencies()
		for _, dep := range deps.MustRunAfter {
			if keep(dep) {
				out = append(out, edge{dep, r.Name()})
			}
		}
		for _, next := range deps.MustRunBefore {
			if keep(next) {
				out = append(out, edge{r.Name(), next})
			}
		}
	}
	return out
}

// topologicalSort orders rules so every constraint holds. Among rules that are
// ready at the same time the alphabetically first runs first.
func topologicalSort(rules []Rule) ([]Rule, error) {
	byName := make(map[string]Rule, len(rules))
	for _, r := range rules {
		if _, dup := byName[r.Name()]; dup {
			return nil, derrors.ValidationError(fmt.Sprintf("duplicate rule name: %q", r.Name())).Build()
		}
		byName[r.Name()] = r
	}

	pending := make(map[string]int, len(rules))
	successors := make(map[string][]string, len(rules))
	for _, e := range edges(rules, byName) {
		successors[e.from] = append(successors[e.from], e.to)
		pending[e.to]++
	}

	var ready []string
	for name := range byName {
		if pending[name] == 0 {
			ready = append(ready, name)
		}
	}

	ordered := make([]Rule, 0, len(rules))
	for len(ready) > 0 {
		slices.Sort(ready)
		name := ready[0]
		ready = ready[1:]
		ordered = append(ordered, byName[name])
		delete(byName, name)
		for _, next := range successors[name] {
			if pending[next]--; pending[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(byName) > 0 {
		stuck := make([]string, 0, len(byName))
		for name := range byName {
			stuck = append(stuck, name)
		}
		slices.Sort(stuck)
		return nil, derrors.ValidationError(fmt.Sprintf("circular dependency detected involving rules: %v", stuck)).Build()
	}
	return ordered, nil
}

// BuildPipeline returns rules in execution order.
func BuildPipeline(rules []Rule) ([]Rule, error) {
	return topologicalSort(rules)
}

// ValidateDependencies fails when a constraint names an unknown rule or the
// constraints form a cycle.
func ValidateDependencies(rules []Rule) error {
	names := make(map[string]bool, len(rules))
	for _, r := range rules {
		names[r.Name()] = true
	}
	for _, e := range edges(rules, nil) {
		for _, n := range [2]string{e.from, e.to} {
			if !names[n] {
				return derrors.ValidationError(fmt.Sprintf("rule dependency on missing rule %q", n)).Build()
			}
		}
	}
	_, err := BuildPipeline(rules)
	return err
}
