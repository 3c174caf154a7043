package commands

import (
	"fmt"
	"log/slog"
	"os"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
	"git.home.luguber.info/inful/pageloader/internal/transforms"
)

// RulesCmd implements the 'rules' command.
type RulesCmd struct {
	Format string `short:"f" help:"Output format: text, mermaid, dot" default:"text" enum:"text,mermaid,dot"`
	Output string `short:"o" help:"Output file path (prints to stdout if not specified)"`
}

// Run executes the rules command.
func (r *RulesCmd) Run(_ *Global, _ *CLI) error {
	output, err := transforms.VisualizePipeline(transforms.VisualizationFormat(r.Format))
	if err != nil {
		return err
	}
	if r.Output == "" {
		fmt.Print(output)
		return nil
	}
	if err := os.WriteFile(r.Output, []byte(output), 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write output file").
			WithContext("path", r.Output).Build()
	}
	slog.Info("Rule order written", logfields.File(r.Output), slog.String("format", r.Format))
	return nil
}
