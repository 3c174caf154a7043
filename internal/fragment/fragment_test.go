package fragment

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/observability"
	"git.home.luguber.info/inful/pageloader/internal/page"
	"git.home.luguber.info/inful/pageloader/internal/resources"
	"git.home.luguber.info/inful/pageloader/internal/sections"
)

const navMarkup = `<div><p><a href="/">Brand</a></p></div><div><ul><li>One</li></ul></div><div><p><img src="./media_logo.png"></p></div>`

func testPage(t *testing.T, head string) *page.Page {
	t.Helper()
	u, _ := url.Parse("https://example.com/en/docs/page")
	p, err := page.Parse("t", `<html><head>`+head+`</head><body><header></header><main></main></body></html>`, u)
	require.NoError(t, err)
	return p
}

func TestResolvePath(t *testing.T) {
	p := testPage(t, "")
	assert.Equal(t, "/nav", ResolvePath(p, "nav", "/nav"))

	p = testPage(t, `<meta name="footer" content="/global/footer-en">`)
	assert.Equal(t, "/global/footer-en", ResolvePath(p, "footer", "/footer"))

	p = testPage(t, `<meta name="nav" content="https://example.com/shared/nav?x=1">`)
	assert.Equal(t, "/shared/nav", ResolvePath(p, "nav", "/nav"))

	p = testPage(t, `<meta name="nav" content="local-nav">`)
	assert.Equal(t, "/en/docs/local-nav", ResolvePath(p, "nav", "/nav"))
}

func TestLoadFragment(t *testing.T) {
	p := testPage(t, "")
	var requested []string
	l := &Loader{
		Fetcher: resources.FetcherFunc(func(_ context.Context, u *url.URL) ([]byte, error) {
			requested = append(requested, u.String())
			return []byte(navMarkup), nil
		}),
		Structure: sections.Structure{},
		Sections:  &sections.Loader{},
	}

	frag := l.LoadFragment(context.Background(), p, "/nav.plain.html")
	require.NotNil(t, frag)
	assert.Equal(t, []string{"https://example.com/nav.plain.html"}, requested)
	assert.Equal(t, "main", frag.Data)

	secs := dom.Children(frag)
	require.Len(t, secs, 3)
	for _, s := range secs {
		assert.Equal(t, sections.StatusLoaded, sections.SectionStatus(s))
	}
	img := dom.Find(frag, dom.Tag("img"))
	assert.Equal(t, "https://example.com/media_logo.png", dom.AttrVal(img, "src"))

	parts := Compose(frag)
	require.Len(t, parts, 3)
	for _, part := range parts {
		assert.True(t, dom.HasClass(part, "default-content-wrapper"))
	}
}

func TestLoadFragmentAbsent(t *testing.T) {
	p := testPage(t, "")
	cases := map[string]struct {
		path    string
		fetcher resources.Fetcher
	}{
		"relative path": {"nav", resources.FetcherFunc(func(context.Context, *url.URL) ([]byte, error) { return nil, nil })},
		"fetch failure": {"/nav", resources.FetcherFunc(func(context.Context, *url.URL) ([]byte, error) {
			return nil, derrors.NotFoundError("missing").Build()
		})},
		"no fetcher": {"/nav", nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rep := &observability.MemoryReporter{}
			l := &Loader{Fetcher: tc.fetcher, Reporter: rep}
			assert.Nil(t, l.LoadFragment(context.Background(), p, tc.path))
			require.Equal(t, 1, rep.Len())
			assert.True(t, derrors.HasCategory(rep.Errors()[0], derrors.CategoryAbsent))
		})
	}
}

func TestComposeKeepsPositions(t *testing.T) {
	nodes, err := dom.ParseFragment(`<div><p>a</p></div><div>text only</div><div><ul></ul><p>ignored</p></div>`, nil)
	require.NoError(t, err)
	frag := dom.Element("main")
	dom.Append(frag, nodes...)

	parts := Compose(frag)
	require.Len(t, parts, 3)
	assert.Equal(t, "p", parts[0].Data)
	assert.Nil(t, parts[1])
	assert.Equal(t, "ul", parts[2].Data)
	assert.Nil(t, Compose(nil))
}

func TestLabel(t *testing.T) {
	regions := []*html.Node{dom.Element("div"), dom.Element("div"), dom.Element("div"), dom.Element("div")}
	Label(regions, "nav", []string{"title", "links", "tools"})
	var got []string
	for _, r := range regions {
		got = append(got, dom.AttrVal(r, "class"))
	}
	assert.Equal(t, []string{"nav-title", "nav-links", "nav-tools", "nav-other"}, got)
}

func TestLabelSkipsMissingRegions(t *testing.T) {
	links, tools := dom.Element("ul"), dom.Element("p")
	Label([]*html.Node{nil, links, tools}, "nav", []string{"title", "links", "tools"})
	assert.Equal(t, "nav-links", dom.AttrVal(links, "class"))
	assert.Equal(t, "nav-tools", dom.AttrVal(tools, "class"))
}
