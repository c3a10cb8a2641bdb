package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var (
	_ newsgrab.Renderer = (*Renderer)(nil)
	_ newsgrab.Page     = (*Page)(nil)
)

// Renderer is a mock implementation of newsgrab.Renderer.
type Renderer struct {
	NavigateFn     func(ctx context.Context, url string) (newsgrab.Page, error)
	LoadDocumentFn func(ctx context.Context, rawHTML string) (newsgrab.Page, error)
	CloseFn        func() error
}

func (r *Renderer) Navigate(ctx context.Context, url string) (newsgrab.Page, error) {
	return r.NavigateFn(ctx, url)
}

func (r *Renderer) LoadDocument(ctx context.Context, rawHTML string) (newsgrab.Page, error) {
	return r.LoadDocumentFn(ctx, rawHTML)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

// Page is a mock implementation of newsgrab.Page.
type Page struct {
	HTMLFn              func() (string, error)
	QueryTextFn         func(selector string) (string, bool, error)
	QueryAttributeFn    func(selector, name string) (string, bool, error)
	QueryAllTextFn      func(selector string) ([]string, error)
	QueryAllAttributeFn func(selector, name string) ([]string, error)
	QueryAllMarkupFn    func(selector string) ([]string, error)
	CloseFn             func() error
}

func (p *Page) HTML() (string, error) {
	return p.HTMLFn()
}

func (p *Page) QueryText(selector string) (string, bool, error) {
	return p.QueryTextFn(selector)
}

func (p *Page) QueryAttribute(selector, name string) (string, bool, error) {
	return p.QueryAttributeFn(selector, name)
}

func (p *Page) QueryAllText(selector string) ([]string, error) {
	return p.QueryAllTextFn(selector)
}

func (p *Page) QueryAllAttribute(selector, name string) ([]string, error) {
	return p.QueryAllAttributeFn(selector, name)
}

func (p *Page) QueryAllMarkup(selector string) ([]string, error) {
	return p.QueryAllMarkupFn(selector)
}

func (p *Page) Close() error {
	return p.CloseFn()
}
