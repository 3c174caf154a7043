package sections

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
	"git.home.luguber.info/inful/pageloader/internal/icons"
	"git.home.luguber.info/inful/pageloader/internal/page"
)

// Status is the load state of a section or block.
type Status string

const (
	StatusPending Status = "pending"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

const (
	sectionStatusAttr = "section-status"
	blockStatusAttr   = "block-status"
	hiddenStyle       = "display: none;"
)

var nonAlnum = regexp.MustCompile(`[^0-9a-z]+`)

// ToClassName lowercases name and collapses every run of other characters
// into a single dash.
func ToClassName(name string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// SectionStatus returns the status of a section element.
func SectionStatus(section *html.Node) Status {
	return Status(dom.Data(section, sectionStatusAttr))
}

// BlockStatus returns the status of a block element.
func BlockStatus(block *html.Node) Status {
	return Status(dom.Data(block, blockStatusAttr))
}

// BlockName returns the name a block was decorated with.
func BlockName(block *html.Node) string {
	return dom.Data(block, "block-name")
}

// DecorateSections turns every direct div child of main into a section.
// Consecutive default content is grouped in a default-content-wrapper and
// every nested div gets a wrapper of its own. A section-metadata block is
// applied to the section and removed.
func DecorateSections(main *html.Node) {
	if main == nil {
		return
	}
	for _, section := range dom.Children(main) {
		if section.Data != "div" || dom.HasClass(section, "section") {
			continue
		}
		var wrappers []*html.Node
		defaultContent := false
		for _, e := range dom.Children(section) {
			if e.Data == "div" || !defaultContent {
				wrapper := dom.Element("div")
				wrappers = append(wrappers, wrapper)
				defaultContent = e.Data != "div"
				if defaultContent {
					dom.SetClass(wrapper, "default-content-wrapper")
				}
			}
			dom.Append(wrappers[len(wrappers)-1], e)
		}
		dom.Append(section, wrappers...)
		dom.AddClass(section, "section")
		dom.SetData(section, sectionStatusAttr, string(StatusPending))
		dom.SetAttr(section, "style", hiddenStyle)

		if meta := dom.Find(section, dom.And(dom.Tag("div"), dom.Class("section-metadata"))); meta != nil {
			applySectionMetadata(section, ReadBlockConfig(meta))
			dom.Detach(meta.Parent)
		}
	}
}

func applySectionMetadata(section *html.Node, meta map[string]string) {
	for key, val := range meta {
		if key == "style" {
			for _, s := range strings.Split(val, ",") {
				if c := ToClassName(strings.TrimSpace(s)); c != "" {
					dom.AddClass(section, c)
				}
			}
			continue
		}
		dom.SetData(section, key, val)
	}
}

// ReadBlockConfig reads a two-column key/value block. Keys are class-name
// normalized; values are the trimmed text of the second column.
func ReadBlockConfig(block *html.Node) map[string]string {
	cfg := make(map[string]string)
	for _, row := range dom.Children(block) {
		cols := dom.Children(row)
		if len(cols) < 2 {
			continue
		}
		key := ToClassName(dom.TextContent(cols[0]))
		if key == "" {
			continue
		}
		cfg[key] = strings.TrimSpace(dom.TextContent(cols[1]))
	}
	return cfg
}

// DecorateBlock marks a block element with its name and pending status, and
// tags its wrapper and section. Already decorated blocks are left alone.
func DecorateBlock(block *html.Node) {
	classes := dom.Classes(block)
	if len(classes) == 0 || BlockStatus(block) != "" {
		return
	}
	name := classes[0]
	dom.AddClass(block, "block")
	dom.SetData(block, "block-name", name)
	dom.SetData(block, blockStatusAttr, string(StatusPending))
	if wrapper := block.Parent; wrapper != nil && wrapper.Type == html.ElementNode {
		dom.AddClass(wrapper, name+"-wrapper")
	}
	if section := dom.Closest(block, dom.Class("section")); section != nil {
		dom.AddClass(section, name+"-container")
	}
}

// DecorateBlocks decorates every div.section > div > div under main.
func DecorateBlocks(main *html.Node) {
	isSection := dom.And(dom.Tag("div"), dom.Class("section"))
	candidates := dom.FindAll(main, dom.ChildOf(dom.ChildOf(isSection, dom.Tag("div")), dom.Tag("div")))
	for _, block := range candidates {
		DecorateBlock(block)
	}
}

// BuildBlock creates a block element. content may be a single cell or rows of
// cells. String cells are parsed as markup; other cells are appended the way
// dom.CreateEl appends children.
func BuildBlock(name string, content any) *html.Node {
	var rows [][]any
	switch c := content.(type) {
	case nil:
	case [][]any:
		rows = c
	default:
		rows = [][]any{{c}}
	}
	block := dom.CreateEl("div", dom.A("class", name), nil)
	for _, row := range rows {
		rowEl := dom.Element("div")
		for _, col := range row {
			cell := dom.Element("div")
			switch v := col.(type) {
			case string:
				if v != "" {
					dom.SetHTML(cell, v)
				}
			case nil:
			default:
				cell = dom.CreateEl("div", nil, v)
			}
			dom.Append(rowEl, cell)
		}
		dom.Append(block, rowEl)
	}
	return block
}

// DecorateTemplateAndTheme adds the template and theme metadata values as
// body classes.
func DecorateTemplateAndTheme(p *page.Page) {
	body := p.Body()
	if body == nil {
		return
	}
	for _, key := range []string{"template", "theme"} {
		val := p.GetMetadata(key)
		if val == "" {
			continue
		}
		for _, c := range strings.Split(val, ",") {
			if name := ToClassName(strings.TrimSpace(c)); name != "" {
				dom.AddClass(body, name)
			}
		}
	}
}

// Structure performs the structural decorations the content rules delegate.
// Base is the page location buttons resolve their links against.
type Structure struct {
	Icons icons.Decorator
	Base  *url.URL
}

func (s Structure) BaseURL() *url.URL { return s.Base }

func (s Structure) DecorateIcons(region *html.Node)    { s.Icons.DecorateIcons(region) }
func (s Structure) DecorateSections(region *html.Node) { DecorateSections(region) }
func (s Structure) DecorateBlocks(region *html.Node)   { DecorateBlocks(region) }
