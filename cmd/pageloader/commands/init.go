package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/pageloader/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

// Run executes the init command.
func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	slog.Info("Configuration written", slog.String("path", root.Config))
	fmt.Printf("Wrote %s. Point site.content_dir at your pages and run:\n\n", root.Config)
	fmt.Printf("  pageloader -c %s serve\n", root.Config)
	return nil
}
