package transforms

import (
	"fmt"
	"strings"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

// VisualizationFormat selects how VisualizePipeline renders the rule graph.
type VisualizationFormat string

const (
	FormatText    VisualizationFormat = "text"
	FormatMermaid VisualizationFormat = "mermaid"
	FormatDOT     VisualizationFormat = "dot"
)

// VisualizePipeline renders the registered rules in execution order.
func VisualizePipeline(format VisualizationFormat) (string, error) {
	rules, err := List()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	switch format {
	case FormatText, "":
		writeText(&sb, rules)
	case FormatMermaid:
		writeGraph(&sb, rules, "```mermaid\ngraph TD\n", "```\n",
			func(n string) string { return fmt.Sprintf("%s[%q]", mermaidID(n), n) },
			func(e edge) string { return mermaidID(e.from) + " --> " + mermaidID(e.to) })
	case FormatDOT:
		writeGraph(&sb, rules, "digraph ContentRules {\n    rankdir=TB;\n    node [shape=box, style=rounded];\n", "}\n",
			func(n string) string { return fmt.Sprintf("%q;", n) },
			func(e edge) string { return fmt.Sprintf("%q -> %q;", e.from, e.to) })
	default:
		return "", derrors.ValidationError(fmt.Sprintf("unsupported format: %s", format)).Build()
	}
	return sb.String(), nil
}

func writeText(sb *strings.Builder, rules []Rule) {
	sb.WriteString("Content transform rules\n\n")
	for i, r := range rules {
		deps := r.Dependencies()
		fmt.Fprintf(sb, "%d. %s", i+1, r.Name())
		if deps.Delegates {
			sb.WriteString(" (delegated)")
		}
		sb.WriteByte('\n')
		if len(deps.MustRunAfter) > 0 {
			fmt.Fprintf(sb, "   after: %s\n", strings.Join(deps.MustRunAfter, ", "))
		}
		if len(deps.MustRunBefore) > 0 {
			fmt.Fprintf(sb, "   before: %s\n", strings.Join(deps.MustRunBefore, ", "))
		}
	}
	fmt.Fprintf(sb, "\n%d rules\n", len(rules))
}

// writeGraph emits one node line per rule and one edge line per constraint
// between header and footer.
func writeGraph(sb *strings.Builder, rules []Rule, header, footer string, node func(string) string, link func(edge) string) {
	sb.WriteString(header)
	for _, r := range rules {
		sb.WriteString("    " + node(r.Name()) + "\n")
	}
	for _, e := range edges(rules, nil) {
		sb.WriteString("    " + link(e) + "\n")
	}
	sb.WriteString(footer)
}

func mermaidID(name string) string {
	return strings.NewReplacer("_", "", "-", "").Replace(name)
}
