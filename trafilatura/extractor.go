// Package trafilatura detects the main article body of pages whose
// markup has no stable content selector.
package trafilatura

import (
	"bytes"
	"context"
	"strings"

	"github.com/fwojciec/newsgrab"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure ArticleAdapter implements newsgrab.SourceAdapter at compile time.
var _ newsgrab.SourceAdapter = (*ArticleAdapter)(nil)

// ArticleAdapter reads the layout fields from configured selectors and
// the body from go-trafilatura's content detection. The configured
// content selector is ignored.
type ArticleAdapter struct {
	Layout newsgrab.Layout
}

// NewArticleAdapter creates an ArticleAdapter.
func NewArticleAdapter(layout newsgrab.Layout) *ArticleAdapter {
	return &ArticleAdapter{Layout: layout}
}

// Extract reads the layout fields and the detected body. When detection
// finds nothing the body is empty. An empty title is filled from the
// page metadata.
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

	result, err := trafilatura.Extract(strings.NewReader(markup), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil || result == nil {
		return raw, nil
	}

	if result.ContentNode != nil {
		content, err := renderNode(result.ContentNode)
		if err != nil {
			return nil, newsgrab.WrapError(err, newsgrab.EINTERNAL, "render detected content")
		}
		raw.Content = content
	}
	if strings.TrimSpace(raw.Title) == "" {
		raw.Title = result.Metadata.Title
	}
	return raw, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
