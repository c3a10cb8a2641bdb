package slog

import (
	"log/slog"

	"github.com/fwojciec/newsgrab"
)

// Ensure LoggingRegistry implements newsgrab.AdapterRegistry.
var _ newsgrab.AdapterRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an AdapterRegistry and logs failed resolutions.
type LoggingRegistry struct {
	next   newsgrab.AdapterRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next newsgrab.AdapterRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Resolve delegates to the wrapped registry and logs unknown sources.
func (r *LoggingRegistry) Resolve(sourceID string) (newsgrab.SourceAdapter, error) {
	adapter, err := r.next.Resolve(sourceID)
	if err != nil {
		r.logger.Warn("adapter resolution", "source", sourceID, "err", err)
	}
	return adapter, err
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(sourceID string, adapter newsgrab.SourceAdapter) {
	r.next.Register(sourceID, adapter)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []string {
	return r.next.List()
}
