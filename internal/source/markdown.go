package source

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	"git.home.luguber.info/inful/pageloader/internal/frontmatter"
	"git.home.luguber.info/inful/pageloader/internal/sections"
)

// metadataBlock is the table name whose rows become page metadata.
const metadataBlock = "metadata"

var md = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// rawHTML keeps the inline markup authors use in page sources (pictures,
// classed spans, tables) and drops scripts, handlers and styles.
var rawHTML = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("class").Globally()
	p.AllowElements("picture", "source", "div", "span")
	p.AllowAttrs("srcset", "media", "type").OnElements("source")
	return p
}()

// Plain is a page body in the sections-and-blocks shape: one div per section.
type Plain struct {
	Meta     frontmatter.Meta
	Sections []*html.Node
}

// Markup serializes the sections as a .plain.html body.
func (p *Plain) Markup() string {
	var b strings.Builder
	for _, s := range p.Sections {
		b.WriteString(dom.Render(s))
	}
	return b.String()
}

// RenderMarkdown converts a markdown source into sections. Thematic breaks
// split sections; a table whose header names a block becomes that block, and
// a "Metadata" block is folded into the page metadata. Raw HTML is
// sanitized.
func RenderMarkdown(content []byte) (*Plain, error) {
	meta, body, err := frontmatter.Parse(content)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, err
	}
	nodes, err := dom.ParseFragment(rawHTML.Sanitize(buf.String()), nil)
	if err != nil {
		return nil, err
	}

	plain := &Plain{Meta: meta}
	current := dom.Element("div")
	flush := func() {
		if current.FirstChild != nil {
			plain.Sections = append(plain.Sections, current)
		}
		current = dom.Element("div")
	}
	for _, n := range nodes {
		switch {
		case n.Type == html.ElementNode && n.Data == "hr":
			flush()
		case n.Type == html.ElementNode && n.Data == "table":
			name, rows := tableBlock(n)
			if name == "" {
				dom.Append(current, n)
				continue
			}
			if name == metadataBlock {
				for _, row := range rows {
					if len(row) >= 2 {
						meta[sections.ToClassName(dom.TextContent(row[0]))] = strings.TrimSpace(dom.TextContent(row[1]))
					}
				}
				continue
			}
			dom.Append(current, blockFromRows(name, rows))
		case n.Type == html.TextNode && strings.TrimSpace(n.Data) == "":
		default:
			dom.Append(current, n)
		}
	}
	flush()
	return plain, nil
}

// tableBlock reads a table whose first header cell names a block.
func tableBlock(table *html.Node) (string, [][]*html.Node) {
	head := dom.FindAll(table, dom.Within(dom.Tag("thead"), dom.Tag("th")))
	if len(head) == 0 {
		return "", nil
	}
	name := blockClasses(dom.TextContent(head[0]))
	if name == "" {
		return "", nil
	}
	var rows [][]*html.Node
	for _, tr := range dom.FindAll(table, dom.Within(dom.Tag("tbody"), dom.Tag("tr"))) {
		rows = append(rows, dom.FindAll(tr, dom.Tag("td")))
	}
	return name, rows
}

// blockClasses turns "Name (variant, other)" into "name variant other".
func blockClasses(header string) string {
	name, variants, _ := strings.Cut(header, "(")
	classes := []string{sections.ToClassName(name)}
	if classes[0] == "" {
		return ""
	}
	for _, v := range strings.Split(strings.TrimSuffix(strings.TrimSpace(variants), ")"), ",") {
		if c := sections.ToClassName(v); c != "" {
			classes = append(classes, c)
		}
	}
	return strings.Join(classes, " ")
}

func blockFromRows(name string, rows [][]*html.Node) *html.Node {
	block := dom.CreateEl("div", dom.A("class", name), nil)
	for _, cells := range rows {
		row := dom.Element("div")
		for _, td := range cells {
			cell := dom.Element("div")
			dom.Append(cell, dom.ChildNodes(td)...)
			dom.Append(row, cell)
		}
		dom.Append(block, row)
	}
	return block
}

// Page wraps plain sections into a complete document with the metadata in
// the head and empty header and footer landmarks.
func Page(plain *Plain) string {
	doc, _ := dom.ParseString("<!DOCTYPE html><html><head></head><body><header></header><main></main><footer></footer></body></html>")
	head := dom.Head(doc)
	if title, ok := plain.Meta["title"]; ok {
		dom.Append(head, dom.CreateEl("title", nil, title))
	}
	for _, k := range plain.Meta.Keys() {
		attr := "name"
		if strings.Contains(k, ":") {
			attr = "property"
		}
		dom.Append(head, dom.CreateEl("meta", dom.A(attr, k, "content", plain.Meta[k]), nil))
	}
	if section := plain.Meta["section"]; section != "" {
		dom.SetData(dom.Body(doc), "section", section)
	}
	dom.Append(dom.Find(doc, dom.Tag("main")), plain.Sections...)
	return dom.Render(doc)
}
