// Package doublefeature is the double-feature widget: a list of movie pairs
// read from the JSON sheet linked inside the widget block.
package doublefeature

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/page"
	"git.home.luguber.info/inful/pageloader/internal/resources"
)

// Path is where the widget module is registered.
const Path = "/widgets/double-feature/index.js"

// StylesPath is the widget stylesheet.
const StylesPath = "/widgets/double-feature/styles.css"

// Row is one entry of the sheet.
type Row struct {
	Connection string `json:"connection"`
	Choice     string `json:"choice"`
	Title      string `json:"title"`
}

type sheet struct {
	Data []Row `json:"data"`
}

// Widget renders the double-feature widget.
type Widget struct {
	Fetcher resources.Fetcher
	Styles  resources.StyleLoader
}

// Load is the widget module: it replaces the widget block content with one
// row per sheet entry and marks the block loaded once its stylesheet is in.
func (w *Widget) Load(ctx context.Context, p *page.Page) error {
	block := dom.Find(p.Doc, dom.And(dom.Class("block"), dom.Class("widget")))
	if block == nil {
		return derrors.MalformedError("no widget block on page").Build()
	}
	link := dom.Find(block, dom.And(dom.Tag("a"), dom.WithAttr("href")))
	if link == nil {
		return derrors.MalformedError("widget has no data link").WithContext("block", "widget").Build()
	}
	rows, err := w.fetch(ctx, p, dom.AttrVal(link, "href"))
	if err != nil {
		return err
	}

	dom.ReplaceChildren(block, BuildRows(rows)...)

	if w.Styles != nil {
		if err := w.Styles.LoadCSS(ctx, p, StylesPath); err != nil {
			return err
		}
	}
	dom.SetData(block, "widget", "loaded")
	return nil
}

func (w *Widget) fetch(ctx context.Context, p *page.Page, href string) ([]Row, error) {
	u, err := p.Resolve(href)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryMalformed, "invalid widget data link").WithContext("url", href).Build()
	}
	if w.Fetcher == nil {
		return nil, derrors.ResourceError("no fetcher for widget data").WithContext("url", u.String()).Build()
	}
	body, err := w.Fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryResource, "widget data unavailable").Warning().WithContext("url", u.String()).Build()
	}
	var s sheet
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryMalformed, "widget data is not a sheet").WithContext("url", u.String()).Build()
	}
	return s.Data, nil
}

// BuildRows renders one element per row.
func BuildRows(rows []Row) []*html.Node {
	out := make([]*html.Node, 0, len(rows))
	for _, r := range rows {
		out = append(out, BuildRow(r))
	}
	return out
}

// BuildRow renders the connection placeholders and the movie title of r. A
// connection list with an empty entry is dropped entirely.
func BuildRow(r Row) *html.Node {
	var children []*html.Node
	if connection := buildConnection(r.Connection); connection != nil {
		children = append(children, connection)
	}

	attrs := dom.A("class", "movie")
	if choice, _ := utf8.DecodeRuneInString(r.Choice); choice != utf8.RuneError {
		attrs = append(attrs, dom.Attr{Key: "data-choice", Val: string(choice)})
	}
	movie := dom.CreateEl("div", attrs, dom.CreateEl("h2", dom.A("class", "title"), r.Title))
	children = append(children, movie)

	return dom.CreateEl("div", nil, children)
}

func buildConnection(list string) *html.Node {
	connection := dom.CreateEl("div", dom.A("class", "connection"), nil)
	for _, c := range strings.Split(list, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil
		}
		dom.Append(connection, dom.CreateEl("div", dom.A("class", "image-wrapper"), c))
	}
	return connection
}
