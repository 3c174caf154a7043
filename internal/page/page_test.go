package page

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `<!DOCTYPE html><html><head>
<meta name="nav" content="/global/nav">
<meta name="keywords" content="a">
<meta name="keywords" content="b">
<meta property="og:title" content="Movies">
</head><body data-section="movies"><header></header><main><div></div></main><footer></footer></body></html>`

func newPage(t *testing.T, raw string) *Page {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	p, err := Parse("test", doc, u)
	require.NoError(t, err)
	return p
}

func TestGetMetadata(t *testing.T) {
	p := newPage(t, "https://example.com/en/page")
	assert.Equal(t, "/global/nav", p.GetMetadata("nav"))
	assert.Equal(t, "a, b", p.GetMetadata("keywords"))
	assert.Equal(t, "Movies", p.GetMetadata("og:title"))
	assert.Equal(t, "", p.GetMetadata("footer"))
	assert.Equal(t, "", p.GetMetadata(""))
}

func TestResolvePath(t *testing.T) {
	p := newPage(t, "https://example.com/en/page#top")

	path, err := p.ResolvePath("/global/footer-en")
	require.NoError(t, err)
	assert.Equal(t, "/global/footer-en", path)

	path, err = p.ResolvePath("https://example.com/abs/nav?x=1")
	require.NoError(t, err)
	assert.Equal(t, "/abs/nav", path)

	path, err = p.ResolvePath("nav")
	require.NoError(t, err)
	assert.Equal(t, "/en/nav", path)

	assert.Equal(t, "top", p.Hash())
	assert.Equal(t, "example.com", p.Hostname())
}

func TestRegions(t *testing.T) {
	p := newPage(t, "http://localhost:3000/")
	assert.NotNil(t, p.Main())
	assert.NotNil(t, p.Header())
	assert.NotNil(t, p.Footer())
	assert.Equal(t, "movies", p.Section())
	p.SetLanguage("en")
	assert.Contains(t, p.Render(), `<html lang="en">`)
	assert.Equal(t, "localhost", p.Hostname())
}
