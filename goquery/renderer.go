// Package goquery implements the page renderer port over static HTML and
// the custom adapters for sources whose markup needs structural traversal.
package goquery

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/newsgrab"
)

var (
	_ newsgrab.Renderer = (*Renderer)(nil)
	_ newsgrab.Page     = (*Page)(nil)
)

// Renderer builds pages from static HTML. It does not run JavaScript, so it
// suits stored snapshots and server-rendered sites.
type Renderer struct {
	fetcher newsgrab.Fetcher
}

// NewRenderer creates a Renderer that downloads remote pages with fetcher.
// A nil fetcher limits the Renderer to LoadDocument.
func NewRenderer(fetcher newsgrab.Fetcher) *Renderer {
	return &Renderer{fetcher: fetcher}
}

// Navigate fetches url and parses the response.
func (r *Renderer) Navigate(ctx context.Context, url string) (newsgrab.Page, error) {
	if r.fetcher == nil {
		return nil, newsgrab.Errorf(newsgrab.EINVALID, "static renderer has no fetcher")
	}
	html, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		if newsgrab.ErrorCode(err) == newsgrab.EINTERNAL {
			return nil, newsgrab.WrapError(err, newsgrab.ERENDER, "fetch %s", url)
		}
		return nil, err
	}
	return r.LoadDocument(ctx, html)
}

// LoadDocument parses rawHTML into a page.
func (r *Renderer) LoadDocument(ctx context.Context, rawHTML string) (newsgrab.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := NewPage(rawHTML)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Close is a no-op; the Renderer holds no resources.
func (r *Renderer) Close() error {
	return nil
}

// Page is a parsed static document.
type Page struct {
	doc    *goquery.Document
	closed atomic.Bool
}

// NewPage parses rawHTML.
func NewPage(rawHTML string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, newsgrab.WrapError(err, newsgrab.ERENDER, "failed to parse HTML")
	}
	return &Page{doc: doc}, nil
}

// Document returns the underlying goquery document.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// HTML returns the serialized document.
func (p *Page) HTML() (string, error) {
	if p.closed.Load() {
		return "", newsgrab.Errorf(newsgrab.ERENDER, "page closed")
	}
	return p.doc.Html()
}

// QueryText returns the text content of the first match.
func (p *Page) QueryText(selector string) (string, bool, error) {
	sel, err := p.find(selector)
	if err != nil || sel.Length() == 0 {
		return "", false, err
	}
	return sel.First().Text(), true, nil
}

// QueryAttribute returns attribute name of the first match.
func (p *Page) QueryAttribute(selector, name string) (string, bool, error) {
	sel, err := p.find(selector)
	if err != nil || sel.Length() == 0 {
		return "", false, err
	}
	v, ok := sel.First().Attr(name)
	return v, ok, nil
}

// QueryAllText returns the text content of every match.
func (p *Page) QueryAllText(selector string) ([]string, error) {
	sel, err := p.find(selector)
	if err != nil {
		return nil, err
	}
	return sel.Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	}), nil
}

// QueryAllAttribute returns attribute name of every match that has it.
func (p *Page) QueryAllAttribute(selector, name string) ([]string, error) {
	sel, err := p.find(selector)
	if err != nil {
		return nil, err
	}
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(name); ok {
			out = append(out, v)
		}
	})
	return out, nil
}

// QueryAllMarkup returns the inner markup of every match.
func (p *Page) QueryAllMarkup(selector string) ([]string, error) {
	sel, err := p.find(selector)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, sel.Length())
	var renderErr error
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		html, err := s.Html()
		if err != nil {
			renderErr = newsgrab.WrapError(err, newsgrab.ERENDER, "render %q", selector)
			return false
		}
		out = append(out, html)
		return true
	})
	if renderErr != nil {
		return nil, renderErr
	}
	return out, nil
}

// Close marks the page closed. Later queries fail with ERENDER.
func (p *Page) Close() error {
	p.closed.Store(true)
	return nil
}

// find compiles selector and returns its matches. Unlike goquery.Find it
// reports malformed selectors instead of matching nothing.
func (p *Page) find(selector string) (*goquery.Selection, error) {
	if p.closed.Load() {
		return nil, newsgrab.Errorf(newsgrab.ERENDER, "page closed")
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, newsgrab.WrapError(err, newsgrab.ESELECTOR, "invalid selector %q", selector)
	}
	return p.doc.FindMatcher(m), nil
}
