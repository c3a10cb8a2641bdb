package newsgrab

import "context"

// Fetcher retrieves raw HTML over the network without rendering it.
type Fetcher interface {
	// Fetch returns the response body for url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}
