// Package source loads undecorated pages and the resources they reference,
// either from a local content directory or from a remote origin.
package source

import (
	"context"
	"net/url"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/pageloader/internal/frontmatter"
	"git.home.luguber.info/inful/pageloader/internal/resources"
)

// Document is a page as delivered, before decoration.
type Document struct {
	URL         *url.URL
	Markup      string
	Fingerprint string
}

// Source serves documents by path and resources by URL.
type Source interface {
	resources.Fetcher
	Document(ctx context.Context, path string) (*Document, error)
}

// Fingerprint hashes page metadata and body into a stable content id.
func Fingerprint(meta frontmatter.Meta, body string) string {
	canonical, err := frontmatter.Canonical(meta)
	if err != nil {
		canonical = ""
	}
	return mdfp.CalculateFingerprintFromParts(canonical, body)
}
