package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var (
	_ newsgrab.SourceAdapter   = (*SourceAdapter)(nil)
	_ newsgrab.AdapterRegistry = (*AdapterRegistry)(nil)
)

// SourceAdapter is a mock implementation of newsgrab.SourceAdapter.
type SourceAdapter struct {
	ExtractFn func(ctx context.Context, page newsgrab.Page, spec newsgrab.FieldSpec) (*newsgrab.RawFields, error)
}

func (a *SourceAdapter) Extract(ctx context.Context, page newsgrab.Page, spec newsgrab.FieldSpec) (*newsgrab.RawFields, error) {
	return a.ExtractFn(ctx, page, spec)
}

// AdapterRegistry is a mock implementation of newsgrab.AdapterRegistry.
type AdapterRegistry struct {
	ResolveFn  func(sourceID string) (newsgrab.SourceAdapter, error)
	RegisterFn func(sourceID string, adapter newsgrab.SourceAdapter)
	ListFn     func() []string
}

func (r *AdapterRegistry) Resolve(sourceID string) (newsgrab.SourceAdapter, error) {
	return r.ResolveFn(sourceID)
}

func (r *AdapterRegistry) Register(sourceID string, adapter newsgrab.SourceAdapter) {
	r.RegisterFn(sourceID, adapter)
}

func (r *AdapterRegistry) List() []string {
	return r.ListFn()
}
