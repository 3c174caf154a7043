package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pageloader/cmd/pageloader/commands"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("pageloader"),
		kong.Description("Progressively decorate sections-and-blocks pages."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)
	global := &commands.Global{Logger: slog.Default()}
	err := parser.Run(global, &cli)
	os.Exit(derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
}
