package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsgrab"
)

var (
	_ newsgrab.SourceAdapter = (*ParagraphAdapter)(nil)
	_ newsgrab.SourceAdapter = (*TableAdapter)(nil)
)

// ParagraphAdapter reads the body as the paragraphs of a fixed container.
// Other fields follow Layout; its Content rule is ignored.
//
// When StopMarker is set, the first paragraph whose inner markup contains
// it ends the body. Sites use such a marker to introduce an editor's-picks
// or promotion block that follows the article.
type ParagraphAdapter struct {
	Layout     newsgrab.Layout
	Container  string
	StopMarker string
}

// NewParagraphAdapter creates a ParagraphAdapter.
func NewParagraphAdapter(layout newsgrab.Layout, container, stopMarker string) *ParagraphAdapter {
	return &ParagraphAdapter{Layout: layout, Container: container, StopMarker: stopMarker}
}

// Extract reads the layout fields and the paragraph body.
func (a *ParagraphAdapter) Extract(ctx context.Context, page newsgrab.Page, spec newsgrab.FieldSpec) (*newsgrab.RawFields, error) {
	return extractWithBody(ctx, page, spec, a.Layout, func(doc *goquery.Document) string {
		container := doc.Find(a.Container).First()
		var parts []string
		container.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			if a.StopMarker != "" {
				if inner, err := p.Html(); err == nil && strings.Contains(inner, a.StopMarker) {
					return false
				}
			}
			parts = append(parts, strings.TrimSpace(p.Text()))
			return true
		})
		return strings.Join(parts, "\n")
	})
}

// TableAdapter reads the body from layout tables nested in a fixed
// container, one block of text per table.
type TableAdapter struct {
	Layout    newsgrab.Layout
	Container string
	Blocks    string
}

// NewTableAdapter creates a TableAdapter reading blocks (e.g. "tr > td > table")
// inside container.
func NewTableAdapter(layout newsgrab.Layout, container, blocks string) *TableAdapter {
	return &TableAdapter{Layout: layout, Container: container, Blocks: blocks}
}

// Extract reads the layout fields and the table body.
func (a *TableAdapter) Extract(ctx context.Context, page newsgrab.Page, spec newsgrab.FieldSpec) (*newsgrab.RawFields, error) {
	return extractWithBody(ctx, page, spec, a.Layout, func(doc *goquery.Document) string {
		blocks := doc.Find(a.Container).First().Find(a.Blocks)
		return strings.Join(blocks.Map(func(_ int, s *goquery.Selection) string {
			return strings.TrimSpace(s.Text())
		}), "\n")
	})
}

// extractWithBody runs the generic layout without a content rule and
// fills Content from body, evaluated over the parsed page.
func extractWithBody(ctx context.Context, page newsgrab.Page, spec newsgrab.FieldSpec, layout newsgrab.Layout, body func(*goquery.Document) string) (*newsgrab.RawFields, error) {
	layout.Content = newsgrab.FieldRule{}
	raw, err := newsgrab.NewGenericAdapter(layout).Extract(ctx, page, spec)
	if err != nil {
		return nil, err
	}

	doc, err := documentOf(page)
	if err != nil {
		return nil, err
	}
	raw.Content = body(doc)
	return raw, nil
}

// documentOf returns a goquery document for page, reusing the parsed
// document of a static page.
func documentOf(page newsgrab.Page) (*goquery.Document, error) {
	if p, ok := page.(*Page); ok {
		return p.doc, nil
	}
	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, newsgrab.WrapError(err, newsgrab.ERENDER, "failed to parse HTML")
	}
	return doc, nil
}
