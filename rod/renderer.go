// Package rod implements the page renderer port with a Chrome browser
// driven by go-rod, for sites that render articles with JavaScript.
package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultPageTimeout bounds a page load and each DOM query.
const DefaultPageTimeout = 30 * time.Second

var (
	_ newsgrab.Renderer = (*Renderer)(nil)
	_ newsgrab.Page     = (*Page)(nil)
)

// Renderer opens every page in its own incognito browser context so no
// cookies or storage leak between items.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager *BrowserManager
	timeout time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPageTimeout sets the timeout for page loads and DOM queries.
// Defaults to DefaultPageTimeout if not specified.
func WithPageTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// NewRenderer creates a Renderer on top of manager. The Renderer takes
// ownership of manager and closes it in Close.
func NewRenderer(manager *BrowserManager, opts ...Option) *Renderer {
	r := &Renderer{
		manager: manager,
		timeout: DefaultPageTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Navigate opens url and waits for the load event.
func (r *Renderer) Navigate(ctx context.Context, url string) (newsgrab.Page, error) {
	p, err := r.open(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.withTimeout(ctx, func(pg *rod.Page) error {
		if err := pg.Navigate(url); err != nil {
			return err
		}
		return pg.WaitLoad()
	}); err != nil {
		_ = p.Close()
		return nil, renderError(err, "navigate %s", url)
	}
	return p, nil
}

// LoadDocument replaces the content of a blank page with rawHTML.
func (r *Renderer) LoadDocument(ctx context.Context, rawHTML string) (newsgrab.Page, error) {
	p, err := r.open(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.withTimeout(ctx, func(pg *rod.Page) error {
		return pg.SetDocumentContent(rawHTML)
	}); err != nil {
		_ = p.Close()
		return nil, renderError(err, "load document")
	}
	return p, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	return r.manager.Close()
}

// open creates an incognito context and a blank page in it.
func (r *Renderer) open(ctx context.Context) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.manager.Acquire()
	if err != nil {
		return nil, err
	}

	incognito, err := browser.Incognito()
	if err != nil {
		r.manager.Release()
		return nil, renderError(err, "open browser context")
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		r.manager.Release()
		return nil, renderError(err, "open page")
	}

	return &Page{
		page:    page,
		context: incognito,
		manager: r.manager,
		timeout: r.timeout,
	}, nil
}

// Page is a browser tab in a private browser context.
type Page struct {
	page    *rod.Page
	context *rod.Browser
	manager *BrowserManager
	timeout time.Duration
	closed  bool
}

// HTML returns the rendered document markup.
func (p *Page) HTML() (string, error) {
	var html string
	err := p.withTimeout(context.Background(), func(pg *rod.Page) error {
		var err error
		html, err = pg.HTML()
		return err
	})
	if err != nil {
		return "", renderError(err, "read markup")
	}
	return html, nil
}

// QueryText returns the textContent of the first match.
func (p *Page) QueryText(selector string) (string, bool, error) {
	var text string
	var found bool
	err := p.query(selector, func(els rod.Elements) error {
		if len(els) == 0 {
			return nil
		}
		var err error
		text, found, err = property(els[0], "textContent")
		return err
	})
	return text, found, err
}

// QueryAttribute returns attribute name of the first match.
func (p *Page) QueryAttribute(selector, name string) (string, bool, error) {
	var value string
	var found bool
	err := p.query(selector, func(els rod.Elements) error {
		if len(els) == 0 {
			return nil
		}
		v, err := els[0].Attribute(name)
		if err != nil || v == nil {
			return err
		}
		value, found = *v, true
		return nil
	})
	return value, found, err
}

// QueryAllText returns the textContent of every match.
func (p *Page) QueryAllText(selector string) ([]string, error) {
	return p.all(selector, "textContent")
}

// QueryAllAttribute returns attribute name of every match that has it.
func (p *Page) QueryAllAttribute(selector, name string) ([]string, error) {
	var out []string
	err := p.query(selector, func(els rod.Elements) error {
		for _, el := range els {
			v, err := el.Attribute(name)
			if err != nil {
				return err
			}
			if v != nil {
				out = append(out, *v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QueryAllMarkup returns the innerHTML of every match.
func (p *Page) QueryAllMarkup(selector string) ([]string, error) {
	return p.all(selector, "innerHTML")
}

// Close closes the tab and disposes its browser context. Close is safe to
// call multiple times.
func (p *Page) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	defer p.manager.Release()

	err := p.page.Close()
	if cerr := p.context.Close(); err == nil {
		err = cerr
	}
	return err
}

func (p *Page) all(selector, prop string) ([]string, error) {
	var out []string
	err := p.query(selector, func(els rod.Elements) error {
		out = make([]string, 0, len(els))
		for _, el := range els {
			v, _, err := property(el, prop)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// query evaluates selector on the current document without waiting for
// matches to appear and hands the elements to fn within the page timeout.
func (p *Page) query(selector string, fn func(els rod.Elements) error) error {
	err := p.withTimeout(context.Background(), func(pg *rod.Page) error {
		els, err := pg.Elements(selector)
		if err != nil {
			return err
		}
		return fn(els)
	})
	if err != nil {
		return queryError(err, selector)
	}
	return nil
}

func property(el *rod.Element, name string) (string, bool, error) {
	v, err := el.Property(name)
	if err != nil {
		return "", false, err
	}
	if v.Nil() {
		return "", false, nil
	}
	return v.Str(), true, nil
}

// withTimeout runs fn against the page bound to ctx and the page timeout.
func (p *Page) withTimeout(ctx context.Context, fn func(pg *rod.Page) error) error {
	if p.closed {
		return newsgrab.Errorf(newsgrab.ERENDER, "page closed")
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return fn(p.page.Context(ctx))
}

// queryError maps a DOM query failure. Script exceptions come from the
// browser rejecting the selector.
func queryError(err error, selector string) error {
	var evalErr *rod.EvalError
	if errors.As(err, &evalErr) {
		return newsgrab.WrapError(err, newsgrab.ESELECTOR, "invalid selector %q", selector)
	}
	return renderError(err, "query %q", selector)
}

func renderError(err error, format string, args ...any) error {
	if newsgrab.ErrorCode(err) != newsgrab.EINTERNAL {
		return err
	}
	return newsgrab.WrapError(err, newsgrab.ERENDER, format, args...)
}
