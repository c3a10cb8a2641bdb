// Package readability extracts the main article body with go-readability.
package readability

import (
	"context"
	"strings"

	"github.com/fwojciec/newsgrab"
	"github.com/go-shiori/go-readability"
)

// Ensure ArticleAdapter implements newsgrab.SourceAdapter at compile time.
var _ newsgrab.SourceAdapter = (*ArticleAdapter)(nil)

// ArticleAdapter reads the layout fields from configured selectors and the
// body from readability's main-content detection. It suits social and
// video pages whose description block moves between page versions.
type ArticleAdapter struct {
	Layout newsgrab.Layout
}

// NewArticleAdapter creates an ArticleAdapter.
func NewArticleAdapter(layout newsgrab.Layout) *ArticleAdapter {
	return &ArticleAdapter{Layout: layout}
}

// Extract reads the layout fields and the detected body. A page readability
// cannot parse keeps an empty body. An empty title is filled from the
// detected article title.
func (a *ArticleAdapter) Extract(ctx context.Context, page newsgrab.Page, spec newsgrab.FieldSpec) (*newsgrab.RawFields, error) {
	layout := a.Layout
	layout.Content = newsgrab.FieldRule{}
	raw, err := newsgrab.NewGenericAdapter(layout).Extract(ctx, page, spec)
	if err != nil {
		return nil, err
	}

	markup, err := page.HTML()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(markup) == "" {
		return raw, nil
	}

	article, err := readability.FromReader(strings.NewReader(markup), nil)
	if err != nil {
		return raw, nil
	}

	raw.Content = article.Content
	if strings.TrimSpace(raw.Title) == "" {
		raw.Title = article.Title
	}
	return raw, nil
}
