package source

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

const plainSuffix = ".plain.html"

// Dir serves a content directory. Pages are .html documents or .md sources;
// fragment requests ({path}.plain.html) are answered from either shape.
type Dir struct {
	fsys fs.FS
	base *url.URL
}

// NewDir serves fsys as if it were hosted at base.
func NewDir(fsys fs.FS, base *url.URL) *Dir {
	if base == nil {
		base = &url.URL{Scheme: "http", Host: "localhost"}
	}
	return &Dir{fsys: fsys, base: base}
}

// OpenDir serves the directory at root.
func OpenDir(root string, base *url.URL) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "content directory not accessible").
			WithContext("path", root).Build()
	}
	if !info.IsDir() {
		return nil, derrors.ValidationError("content path is not a directory").WithContext("path", root).Build()
	}
	return NewDir(os.DirFS(root), base), nil
}

// Document loads the page at p. "/" and paths ending in "/" resolve to index.
func (d *Dir) Document(_ context.Context, p string) (*Document, error) {
	name := fsName(p)
	if name == "" || strings.HasSuffix(p, "/") {
		name = path.Join(name, "index")
	}
	name = strings.TrimSuffix(name, ".html")
	u := d.base.ResolveReference(&url.URL{Path: "/" + strings.TrimPrefix(p, "/")})

	if raw, err := fs.ReadFile(d.fsys, name+".html"); err == nil {
		return &Document{URL: u, Markup: string(raw), Fingerprint: Fingerprint(nil, string(raw))}, nil
	}
	raw, err := fs.ReadFile(d.fsys, name+".md")
	if err != nil {
		return nil, notFound(err, p)
	}
	plain, err := RenderMarkdown(raw)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryMalformed, "markdown source invalid").WithContext("path", p).Build()
	}
	markup := Page(plain)
	return &Document{URL: u, Markup: markup, Fingerprint: Fingerprint(plain.Meta, plain.Markup())}, nil
}

// Fetch reads the file behind u.Path. A .plain.html request without such a
// file falls back to the markdown source of the same path.
func (d *Dir) Fetch(_ context.Context, u *url.URL) ([]byte, error) {
	name := fsName(u.Path)
	raw, err := fs.ReadFile(d.fsys, name)
	if err == nil {
		return raw, nil
	}
	if !strings.HasSuffix(name, plainSuffix) {
		return nil, notFound(err, u.Path)
	}
	src, mdErr := fs.ReadFile(d.fsys, strings.TrimSuffix(name, plainSuffix)+".md")
	if mdErr != nil {
		return nil, notFound(err, u.Path)
	}
	plain, err := RenderMarkdown(src)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryMalformed, "markdown source invalid").WithContext("path", u.Path).Build()
	}
	return []byte(plain.Markup()), nil
}

// fsName maps a URL path onto an fs.FS name. Paths escaping the root map to
// an invalid name that never resolves.
func fsName(p string) string {
	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	if clean == "" {
		return ""
	}
	if !fs.ValidPath(clean) {
		return "\x00"
	}
	return clean
}

func notFound(err error, p string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return derrors.NotFoundError("no such page or resource").WithContext("path", p).Build()
	}
	return derrors.WrapError(err, derrors.CategoryFileSystem, "read failed").WithContext("path", p).Build()
}
