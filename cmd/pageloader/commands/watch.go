package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
	"git.home.luguber.info/inful/pageloader/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	ContentDir string        `short:"d" name:"content-dir" help:"Local content directory (overrides site.content_dir)"`
	Paths      []string      `arg:"" optional:"" help:"Page paths to keep rendered (default: /)"`
	Output     string        `short:"o" required:"" help:"Output directory"`
	Debounce   time.Duration `help:"Quiet period before re-rendering" default:"300ms"`
}

// Run executes the watch command.
func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig(SourceFlags{ContentDir: w.ContentDir})
	if err != nil {
		return err
	}
	if cfg.Site.ContentDir == "" {
		return derrors.ConfigError("watch needs a local content directory").Build()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, cl, err := buildEngine(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cl.Close(); cerr != nil {
			slog.Warn("Failed to release resources", logfields.Error(cerr))
		}
	}()

	paths := w.Paths
	if len(paths) == 0 {
		paths = []string{"/"}
	}
	rerender := func(changed []string) {
		targets := affectedPages(changed, paths)
		if _, err := renderAll(ctx, engine, cfg, targets, w.Output, os.Stdout); err != nil {
			slog.Error("Re-render failed", logfields.Error(err))
		}
	}
	rerender(nil)

	watcher, err := watch.New(cfg.Site.ContentDir, w.Debounce, func(changed []string) {
		slog.Info("Content changed", slog.Any("files", changed))
		rerender(changed)
	})
	if err != nil {
		return err
	}
	slog.Info("Watching content", logfields.Path(cfg.Site.ContentDir))
	return watcher.Run(ctx)
}

// affectedPages returns the page paths to re-render for the changed content
// files. A changed page only re-renders itself; anything else (fragments,
// icons, data) may be shared, so every watched page is re-rendered.
func affectedPages(changed, watched []string) []string {
	if len(changed) == 0 {
		return watched
	}
	index := make(map[string]bool, len(watched))
	for _, p := range watched {
		index[p] = true
	}
	var pages []string
	for _, f := range changed {
		p, ok := pagePath(f)
		if !ok || !index[p] {
			return watched
		}
		pages = append(pages, p)
	}
	return pages
}

// pagePath maps a content file to the page it renders. Plain fragments and
// non-page files report false.
func pagePath(file string) (string, bool) {
	ext := path.Ext(file)
	if (ext != ".md" && ext != ".html") || strings.HasSuffix(file, ".plain.html") {
		return "", false
	}
	p := "/" + strings.TrimSuffix(file, ext)
	if p == "/index" {
		return "/", true
	}
	if strings.HasSuffix(p, "/index") {
		return strings.TrimSuffix(p, "index"), true
	}
	return p, true
}
