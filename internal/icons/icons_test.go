package icons

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/intersect"
	"git.home.luguber.info/inful/pageloader/internal/observability"
	"git.home.luguber.info/inful/pageloader/internal/page"
	"git.home.luguber.info/inful/pageloader/internal/resources"
)

func TestDecorateIconsExpandsShorthand(t *testing.T) {
	p, err := page.Parse("t", `<main><p>Call :phone: now</p><pre>:code:</pre><span class="icon icon-mail"></span></main>`, nil)
	require.NoError(t, err)

	Decorator{}.DecorateIcons(p.Main())

	imgs := dom.FindAll(p.Main(), dom.Tag("img"))
	require.Len(t, imgs, 2)
	assert.Equal(t, "/icons/phone.svg", dom.AttrVal(imgs[0], "src"))
	assert.Equal(t, "phone", dom.AttrVal(imgs[0], "data-icon-name"))
	assert.Equal(t, "lazy", dom.AttrVal(imgs[0], "loading"))
	assert.Equal(t, "/icons/mail.svg", dom.AttrVal(imgs[1], "src"))
	assert.Equal(t, "Call  now", dom.TextContent(dom.Find(p.Main(), dom.Tag("p"))))
	assert.Equal(t, ":code:", dom.TextContent(dom.Find(p.Main(), dom.Tag("pre"))))

	// Running again adds nothing.
	Decorator{}.DecorateIcons(p.Main())
	assert.Len(t, dom.FindAll(p.Main(), dom.Tag("img")), 2)
}

func TestBuildIcon(t *testing.T) {
	span := Decorator{CodeBase: "/cb"}.BuildIcon("star", "large")
	assert.Equal(t, []string{"icon", "icon-star", "large"}, dom.Classes(span))
	img := dom.FirstElementChild(span)
	require.NotNil(t, img)
	assert.Equal(t, "/cb/icons/star.svg", dom.AttrVal(img, "src"))

	plain := Decorator{}.BuildIcon("star", "")
	assert.Equal(t, "icon icon-star", dom.AttrVal(plain, "class"))
}

func TestInheritsColor(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		want   bool
	}{
		{"bare", `<svg><path d="M0"/></svg>`, true},
		{"currentcolor fill", `<svg><path fill="currentColor"/></svg>`, true},
		{"currentcolor style", `<svg><style>path{fill:currentColor}</style><path/></svg>`, true},
		{"explicit fill", `<svg><path fill="#f00"/></svg>`, false},
		{"explicit style", `<svg><style>path{fill:red}</style><path/></svg>`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svg, err := extractSVG(tc.markup)
			require.NoError(t, err)
			require.NotNil(t, svg)
			assert.Equal(t, tc.want, inheritsColor(svg))
		})
	}
}

func iconPage(t *testing.T) *page.Page {
	t.Helper()
	u, _ := url.Parse("https://example.com/docs/")
	p, err := page.Parse("t", `<html><body><main><p><span class="icon icon-star"><img data-icon-name="star" src="/icons/star.svg"></span></p></main></body></html>`, u)
	require.NoError(t, err)
	return p
}

func TestSwapIconsSingleFetch(t *testing.T) {
	p := iconPage(t)
	var fetches atomic.Int32
	fetcher := resources.FetcherFunc(func(_ context.Context, u *url.URL) ([]byte, error) {
		fetches.Add(1)
		assert.Equal(t, "https://example.com/icons/star.svg", u.String())
		return []byte(`<svg viewBox="0 0 1 1"><path fill="currentColor"/></svg>`), nil
	})
	m := NewMaterializer(intersect.NewObserver(intersect.NewWindow(1200, true)), fetcher)

	assert.Equal(t, 1, m.SwapIcons(context.Background(), p, nil))
	assert.Equal(t, 0, m.SwapIcons(context.Background(), p, nil))
	m.Check(context.Background())

	assert.Equal(t, int32(1), fetches.Load())
	span := dom.Find(p.Doc, dom.Class("icon"))
	svg := dom.FirstElementChild(span)
	require.NotNil(t, svg)
	assert.Equal(t, "svg", svg.Data)
}

func TestSwapIconsWaitsUntilVisible(t *testing.T) {
	p := iconPage(t)
	var fetches atomic.Int32
	fetcher := resources.FetcherFunc(func(context.Context, *url.URL) ([]byte, error) {
		fetches.Add(1)
		return []byte(`<svg></svg>`), nil
	})
	w := intersect.NewWindow(500, false)
	m := NewMaterializer(intersect.NewObserver(w), fetcher)

	m.SwapIcons(context.Background(), p, p.Main())
	assert.Equal(t, int32(0), fetches.Load())

	w.Reveal(p.Main())
	m.Check(context.Background())
	m.Check(context.Background())
	assert.Equal(t, int32(1), fetches.Load())
}

func TestSwapIconsFailuresLeavePlaceholder(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		err      error
		category derrors.ErrorCategory
	}{
		{"fetch error", "", errors.New("boom"), derrors.CategoryResource},
		{"no svg root", "<p>not an icon</p>", nil, derrors.CategoryMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := iconPage(t)
			fetcher := resources.FetcherFunc(func(context.Context, *url.URL) ([]byte, error) {
				return []byte(tc.body), tc.err
			})
			rep := &observability.MemoryReporter{}
			m := NewMaterializer(intersect.NewObserver(intersect.NewWindow(1200, true)), fetcher, WithReporter(rep))

			m.SwapIcons(context.Background(), p, nil)

			require.Equal(t, 1, rep.Len())
			assert.True(t, derrors.HasCategory(rep.Errors()[0], tc.category))
			assert.NotNil(t, dom.Find(p.Doc, dom.Tag("img")))
		})
	}
}

func TestSwapIconsSkipsExplicitFill(t *testing.T) {
	p := iconPage(t)
	fetcher := resources.FetcherFunc(func(context.Context, *url.URL) ([]byte, error) {
		return []byte(`<svg><path fill="#123456"/></svg>`), nil
	})
	rep := &observability.MemoryReporter{}
	m := NewMaterializer(intersect.NewObserver(intersect.NewWindow(1200, true)), fetcher, WithReporter(rep))

	m.SwapIcons(context.Background(), p, nil)
	assert.NotNil(t, dom.Find(p.Doc, dom.Tag("img")))
	assert.Nil(t, dom.Find(p.Doc, dom.Tag("svg")))
	assert.Equal(t, 0, rep.Len())
}
