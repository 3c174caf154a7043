package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pageloader/internal/config"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
	"git.home.luguber.info/inful/pageloader/internal/render"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	SourceFlags
	Paths  []string `arg:"" optional:"" help:"Page paths to render (default: /)"`
	Output string   `short:"o" help:"Output directory; pages are printed to stdout when empty"`
	Strict bool     `help:"Fail when any page rendered with degradations"`
}

// Run executes the render command.
func (r *RenderCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig(r.SourceFlags)
	if err != nil {
		return err
	}
	ctx := context.Background()
	engine, cl, err := buildEngine(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cl.Close(); cerr != nil {
			slog.Warn("Failed to release resources", logfields.Error(cerr))
		}
	}()

	paths := r.Paths
	if len(paths) == 0 {
		paths = []string{"/"}
	}
	degraded, err := renderAll(ctx, engine, cfg, paths, r.Output, os.Stdout)
	if err != nil {
		return err
	}
	if r.Strict && degraded > 0 {
		return derrors.NewError(derrors.CategoryModule, "pages rendered with degradations").
			WithContext("pages", degraded).Build()
	}
	return nil
}

// renderAll renders every path and writes it to outDir, or to stdout when
// outDir is empty. It returns the number of degraded pages.
func renderAll(ctx context.Context, engine *render.Engine, cfg *config.Config, paths []string, outDir string, stdout io.Writer) (int, error) {
	degraded := 0
	sessionID := uuid.NewString()
	for _, p := range paths {
		renderCtx, cancel := context.WithTimeout(ctx, cfg.Server.RenderTimeout)
		res, err := engine.Render(renderCtx, p, sessionID)
		cancel()
		if err != nil {
			return degraded, err
		}
		if len(res.Degradations) > 0 {
			degraded++
		}
		slog.Info("Rendered page",
			logfields.Path(p),
			logfields.PageID(res.ID),
			logfields.DurationMS(float64(res.Duration.Microseconds())/1000),
			slog.Int("degradations", len(res.Degradations)))

		if outDir == "" {
			if _, err := fmt.Fprintln(stdout, res.Markup); err != nil {
				return degraded, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write page").Build()
			}
			continue
		}
		if err := writePage(outDir, p, res.Markup); err != nil {
			return degraded, err
		}
	}
	return degraded, nil
}

// outputFile maps a page path to a file under dir: "/" and "/docs/" become
// index.html files, other paths get a .html suffix.
func outputFile(dir, p string) string {
	clean := path.Clean("/" + p)
	switch {
	case clean == "/":
		clean = "/index.html"
	case strings.HasSuffix(p, "/"):
		clean += "/index.html"
	case !strings.HasSuffix(clean, ".html"):
		clean += ".html"
	}
	return filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}

func writePage(dir, p, markup string) error {
	file := outputFile(dir, p)
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(file)).Build()
	}
	if err := os.WriteFile(file, []byte(markup), 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write page").
			WithContext("path", file).Build()
	}
	slog.Debug("Page written", logfields.File(file))
	return nil
}
