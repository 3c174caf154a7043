// Package transforms holds the content transform rules applied to a freshly
// parsed content region, ordered by declared dependencies.
package transforms

import (
	"context"
	"net/url"

	"golang.org/x/net/html"
)

// Collaborators performs the structural decorations the rules delegate.
type Collaborators interface {
	DecorateIcons(region *html.Node)
	DecorateSections(region *html.Node)
	DecorateBlocks(region *html.Node)
	// BaseURL is the document location links resolve against. Nil leaves
	// hrefs as written.
	BaseURL() *url.URL
}

// Rule is one in-place rewrite of a content region.
type Rule interface {
	// Name returns the unique identifier for this rule (lowercase snake_case)
	Name() string

	// Dependencies declares ordering constraints
	Dependencies() Dependencies

	// Apply rewrites region in place
	Apply(ctx context.Context, region *html.Node, c Collaborators) error
}

// Dependencies declares explicit ordering constraints between rules.
type Dependencies struct {
	// MustRunAfter lists rule names that must complete before this one.
	MustRunAfter []string

	// MustRunBefore lists rule names that must run after this one.
	MustRunBefore []string

	// Delegates indicates the rule hands the region to a collaborator.
	Delegates bool
}
