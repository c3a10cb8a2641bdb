package newsgrab

import "context"

// Renderer loads pages and exposes their DOM for queries.
// Implementations may use browser automation to execute JavaScript.
type Renderer interface {
	// Navigate loads the page at url.
	// The context controls timeout and cancellation of the load.
	Navigate(ctx context.Context, url string) (Page, error)

	// LoadDocument uses rawHTML as the page content.
	LoadDocument(ctx context.Context, rawHTML string) (Page, error)

	// Close releases renderer resources.
	// Must be called when the Renderer is no longer needed.
	Close() error
}

// Page is one rendered document. A Page is owned by a single item and
// must be closed after use.
//
// Query methods return ESELECTOR for malformed selectors. A selector that
// matches nothing is not an error.
type Page interface {
	// HTML returns the serialized markup of the whole document.
	HTML() (string, error)

	// QueryText returns the text content of the first match.
	// The boolean is false when nothing matches.
	QueryText(selector string) (string, bool, error)

	// QueryAttribute returns an attribute of the first match.
	// The boolean is false when nothing matches or the attribute is missing.
	QueryAttribute(selector, name string) (string, bool, error)

	// QueryAllText returns the text content of every match in document order.
	QueryAllText(selector string) ([]string, error)

	// QueryAllAttribute returns an attribute of every match in document
	// order. Matches without the attribute are skipped.
	QueryAllAttribute(selector, name string) ([]string, error)

	// QueryAllMarkup returns the inner markup of every match in document order.
	QueryAllMarkup(selector string) ([]string, error)

	// Close releases the page and its browsing session.
	Close() error
}
