package resources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/page"
)

func newPage(t *testing.T) *page.Page {
	t.Helper()
	u, err := url.Parse("https://example.com/movies/page")
	require.NoError(t, err)
	p, err := page.Parse("t", `<html><head></head><body></body></html>`, u)
	require.NoError(t, err)
	return p
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("hello"))
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(0)
	base, _ := url.Parse(srv.URL)

	body, err := f.Fetch(context.Background(), base.ResolveReference(&url.URL{Path: "/ok"}))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	_, err = f.Fetch(context.Background(), base.ResolveReference(&url.URL{Path: "/missing"}))
	assert.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))

	_, err = f.Fetch(context.Background(), base.ResolveReference(&url.URL{Path: "/boom"}))
	assert.True(t, derrors.HasCategory(err, derrors.CategoryNetwork))
}

func TestLoadCSSAppendsOnce(t *testing.T) {
	p := newPage(t)
	s := &Styles{}
	require.NoError(t, s.LoadCSS(context.Background(), p, "/styles/lazy-styles.css"))
	require.NoError(t, s.LoadCSS(context.Background(), p, "/styles/lazy-styles.css"))

	links := dom.FindAll(p.Head(), dom.Tag("link"))
	require.Len(t, links, 1)
	assert.Equal(t, "stylesheet", dom.AttrVal(links[0], "rel"))
}

func TestLoadCSSReportsFailedFetch(t *testing.T) {
	p := newPage(t)
	s := &Styles{Fetcher: FetcherFunc(func(context.Context, *url.URL) ([]byte, error) {
		return nil, errors.New("404")
	})}
	err := s.LoadCSS(context.Background(), p, "/styles/fonts.css")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryResource))
	// The link element stays, like a browser keeps a failed <link>.
	assert.Len(t, dom.FindAll(p.Head(), dom.Tag("link")), 1)
}

func TestModulesLoadScript(t *testing.T) {
	p := newPage(t)
	m := NewModules()
	runs := 0
	m.Register("/widgets/movies/index.js", func(context.Context, *page.Page) error {
		runs++
		return nil
	})
	m.Register("/widgets/movies/broken.js", func(context.Context, *page.Page) error {
		return errors.New("boom")
	})

	require.NoError(t, m.LoadScript(context.Background(), p, "/widgets/movies/index.js", "module"))
	require.NoError(t, m.LoadScript(context.Background(), p, "/widgets/movies/index.js", "module"))
	assert.Equal(t, 1, runs)

	script := dom.Find(p.Head(), dom.Tag("script"))
	require.NotNil(t, script)
	assert.Equal(t, "module", dom.AttrVal(script, "type"))

	err := m.LoadScript(context.Background(), p, "../widgets/movies/missing.js", "module")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryModule))
	assert.True(t, strings.Contains(err.Error(), "module not found"))

	err = m.LoadScript(context.Background(), p, "/widgets/movies/broken.js", "module")
	assert.True(t, derrors.HasCategory(err, derrors.CategoryModule))

	assert.Equal(t, []string{"/widgets/movies/broken.js", "/widgets/movies/index.js"}, m.Paths())
}
