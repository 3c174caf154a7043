// Package resources loads the things a page pulls in after the initial
// document: fetched bytes, stylesheets and script modules.
package resources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

// Fetcher retrieves the body of a same-origin resource.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, u *url.URL) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, u *url.URL) ([]byte, error) { return f(ctx, u) }

// maxBodyBytes bounds fetched documents, icons and data files.
const maxBodyBytes = 8 << 20

// HTTPFetcher fetches over HTTP(S).
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a fetcher with a bounded client timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}, UserAgent: "pageloader"}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryValidation, "invalid request").WithContext("url", u.String()).Build()
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNetwork, "fetch failed").Transient().WithContext("url", u.String()).Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return nil, derrors.NotFoundError("resource not found").WithContext("url", u.String()).Build()
	}
	if resp.StatusCode >= 500 {
		return nil, derrors.NetworkError(fmt.Sprintf("unexpected status %d", resp.StatusCode)).WithContext("url", u.String()).Build()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, derrors.NewError(derrors.CategoryNetwork, fmt.Sprintf("unexpected status %d", resp.StatusCode)).WithContext("url", u.String()).Build()
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNetwork, "read body failed").Transient().WithContext("url", u.String()).Build()
	}
	return body, nil
}
