package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Ensure LoggingRenderer implements newsgrab.Renderer.
var _ newsgrab.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging of page loads.
type LoggingRenderer struct {
	next   newsgrab.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next newsgrab.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Navigate logs the URL and how long rendering took.
func (r *LoggingRenderer) Navigate(ctx context.Context, url string) (page newsgrab.Page, err error) {
	defer func(begin time.Time) {
		r.logger.Info("navigate",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Navigate(ctx, url)
}

// LoadDocument logs the document size and how long loading took.
func (r *LoggingRenderer) LoadDocument(ctx context.Context, rawHTML string) (page newsgrab.Page, err error) {
	defer func(begin time.Time) {
		r.logger.Info("load document",
			"bytes", len(rawHTML),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.LoadDocument(ctx, rawHTML)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
