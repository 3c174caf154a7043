package transforms

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
)

type recordingCollaborators struct {
	calls []string
	base  *url.URL
}

func (r *recordingCollaborators) DecorateIcons(*html.Node)    { r.calls = append(r.calls, "icons") }
func (r *recordingCollaborators) DecorateSections(*html.Node) { r.calls = append(r.calls, "sections") }
func (r *recordingCollaborators) DecorateBlocks(*html.Node)   { r.calls = append(r.calls, "blocks") }
func (r *recordingCollaborators) BaseURL() *url.URL           { return r.base }

func region(t *testing.T, markup string) *html.Node {
	t.Helper()
	nodes, err := dom.ParseFragment(markup, nil)
	require.NoError(t, err)
	main := dom.Element("main")
	dom.Append(main, nodes...)
	return main
}

func TestDecorateMainCallsCollaboratorsInOrder(t *testing.T) {
	c := &recordingCollaborators{}
	main := region(t, `<p><img src="a.png"></p>`)
	require.NoError(t, DecorateMain(context.Background(), main, c))
	assert.Equal(t, []string{"icons", "sections", "blocks"}, c.calls)
	assert.True(t, dom.HasClass(dom.Find(main, dom.Tag("p")), "img-wrapper"))
}

func TestDecorateMainNilRegion(t *testing.T) {
	assert.NoError(t, DecorateMain(context.Background(), nil, nil))
}

func TestDecorateImages(t *testing.T) {
	main := region(t, `<p class="x"><picture><img src="a.png"></picture></p><p>text</p><div><img src="b.png"></div>`)
	require.NoError(t, decorateImagesRule{}.Apply(context.Background(), main, nil))
	ps := dom.FindAll(main, dom.Tag("p"))
	assert.Equal(t, "img-wrapper", dom.AttrVal(ps[0], "class"))
	assert.False(t, dom.HasAttr(ps[1], "class"))
}

func TestStandaloneLinkBecomesButton(t *testing.T) {
	main := region(t, `<p><a href="/x">Go</a></p>`)
	DecorateButtons(main, nil)

	p := dom.Find(main, dom.Tag("p"))
	a := dom.Find(main, dom.Tag("a"))
	assert.Equal(t, "button-wrapper", dom.AttrVal(p, "class"))
	assert.Equal(t, "button", dom.AttrVal(a, "class"))
	assert.Equal(t, "Go", dom.AttrVal(a, "title"))
}

func TestButtonTextComparedWithResolvedHref(t *testing.T) {
	base, _ := url.Parse("https://example.com/docs/")

	main := region(t, `<p><a href="/x">/x</a></p>`)
	DecorateButtons(main, base)
	assert.Equal(t, "button", dom.AttrVal(dom.Find(main, dom.Tag("a")), "class"))

	main = region(t, `<p><a href="/x">https://example.com/x</a></p>`)
	DecorateButtons(main, base)
	assert.Nil(t, dom.Find(main, dom.Class("button")))

	main = region(t, `<p><a href="guide">https://example.com/docs/guide</a></p>`)
	c := &recordingCollaborators{base: base}
	require.NoError(t, decorateButtonsRule{}.Apply(context.Background(), main, c))
	assert.Nil(t, dom.Find(main, dom.Class("button")))
}

func TestButtonVariants(t *testing.T) {
	cases := []struct {
		markup string
		class  string
	}{
		{`<p><strong><em><a href="/x">Go</a></em></strong></p>`, "button accent"},
		{`<p><em><strong><a href="/x">Go</a></strong></em></p>`, "button accent"},
		{`<p><strong><a href="/x">Go</a></strong></p>`, "button emphasis"},
		{`<p><em><a href="/x">Go</a></em></p>`, "button outline"},
	}
	for _, tc := range cases {
		t.Run(tc.class, func(t *testing.T) {
			main := region(t, tc.markup)
			DecorateButtons(main, nil)
			p := dom.Find(main, dom.Tag("p"))
			a := dom.FirstElementChild(p)
			require.NotNil(t, a)
			assert.Equal(t, "a", a.Data)
			assert.Equal(t, tc.class, dom.AttrVal(a, "class"))
			assert.Equal(t, `<p class="button-wrapper"><a href="/x" title="Go" class="`+tc.class+`">Go</a></p>`, dom.Render(p))
		})
	}
}

func TestLinksThatStayLinks(t *testing.T) {
	cases := map[string]string{
		"inline":     `<p>Read <a href="/x">the docs</a> first</p>`,
		"bare url":   `<p><a href="https://example.com">https://example.com</a></p>`,
		"two links":  `<p><a href="/a">A</a> <a href="/b">B</a></p>`,
		"no para":    `<div><a href="/x">Go</a></div>`,
		"title kept": `<p>see <a href="/x" title="keep">Go</a></p>`,
	}
	for name, markup := range cases {
		t.Run(name, func(t *testing.T) {
			main := region(t, markup)
			DecorateButtons(main, nil)
			assert.Nil(t, dom.Find(main, dom.Class("button")))
			assert.Nil(t, dom.Find(main, dom.Class("button-wrapper")))
		})
	}

	main := region(t, cases["title kept"])
	DecorateButtons(main, nil)
	assert.Equal(t, "keep", dom.AttrVal(dom.Find(main, dom.Tag("a")), "title"))
}

func TestButtonDecorationIsIdempotent(t *testing.T) {
	markup := `<p><strong><a href="/a">A</a></strong></p><p><a href="/b">B</a></p><p>Plain <a href="/c">C</a></p><div><p><em><a href="/d">D</a></em></p></div>`
	once := region(t, markup)
	DecorateButtons(once, nil)
	first := dom.InnerHTML(once)

	DecorateButtons(once, nil)
	assert.Equal(t, first, dom.InnerHTML(once))
}

func TestAdjacentWrappersMerge(t *testing.T) {
	main := region(t, `<p><a href="/1">One</a></p><p><a href="/2">Two</a></p><p><a href="/3">Three</a></p><h2>Break</h2><p><a href="/4">Four</a></p>`)
	DecorateButtons(main, nil)

	wrappers := dom.FindAll(main, dom.Class("button-wrapper"))
	require.Len(t, wrappers, 2)

	var texts []string
	for _, a := range dom.FindAll(wrappers[0], dom.Tag("a")) {
		texts = append(texts, dom.TextContent(a))
	}
	assert.Equal(t, []string{"One", "Two", "Three"}, texts)
	assert.Len(t, dom.FindAll(wrappers[1], dom.Tag("a")), 1)
	assert.Len(t, dom.FindAll(main, dom.Tag("p")), 2)
}

func TestVisualizePipeline(t *testing.T) {
	text, err := VisualizePipeline(FormatText)
	require.NoError(t, err)
	assert.True(t, strings.Index(text, RuleDecorateIcons) < strings.Index(text, RuleDecorateButtons))
	assert.Contains(t, text, "\n5 rules\n")

	mermaid, err := VisualizePipeline(FormatMermaid)
	require.NoError(t, err)
	assert.Contains(t, mermaid, "decorateblocks --> decoratebuttons")

	dot, err := VisualizePipeline(FormatDOT)
	require.NoError(t, err)
	assert.Contains(t, dot, `"decorate_sections" -> "decorate_blocks";`)

	_, err = VisualizePipeline("svg")
	assert.Error(t, err)
}
