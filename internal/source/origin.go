package source

import (
	"context"
	"net/url"
	"strings"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/resources"
	"git.home.luguber.info/inful/pageloader/internal/retry"
)

// Origin serves pages and resources from a remote site. Retry applies to the
// page document only; resources fetched while decorating get one attempt.
type Origin struct {
	Retry   retry.Policy
	base    *url.URL
	fetcher resources.Fetcher
}

// NewOrigin serves pages from base through fetcher.
func NewOrigin(base string, fetcher resources.Fetcher) (*Origin, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, derrors.ConfigError("origin must be an absolute URL").WithContext("origin", base).Build()
	}
	if fetcher == nil {
		fetcher = resources.NewHTTPFetcher(0)
	}
	return &Origin{base: u, fetcher: fetcher}, nil
}

// Document fetches the page at p from the origin.
func (o *Origin) Document(ctx context.Context, p string) (*Document, error) {
	ref, err := url.Parse("/" + strings.TrimPrefix(p, "/"))
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryValidation, "invalid page path").WithContext("path", p).Build()
	}
	u := o.base.ResolveReference(ref)
	var raw []byte
	err = o.Retry.Do(ctx, func() error {
		var ferr error
		raw, ferr = o.fetcher.Fetch(ctx, u)
		return ferr
	})
	if err != nil {
		return nil, err
	}
	return &Document{URL: u, Markup: string(raw), Fingerprint: Fingerprint(nil, string(raw))}, nil
}

// Fetch fetches u from the origin host regardless of the host u names.
func (o *Origin) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	target := *u
	target.Scheme, target.Host = o.base.Scheme, o.base.Host
	return o.fetcher.Fetch(ctx, &target)
}
