package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var _ newsgrab.BacklogService = (*BacklogService)(nil)

// BacklogService is a mock implementation of newsgrab.BacklogService.
type BacklogService struct {
	SelectPendingFn  func(ctx context.Context, filter newsgrab.PendingFilter) ([]*newsgrab.WorkItem, error)
	CreateSourceFn   func(ctx context.Context, source *newsgrab.Source) error
	FindSourceByIDFn func(ctx context.Context, id string) (*newsgrab.Source, error)
	FindSourcesFn    func(ctx context.Context) ([]*newsgrab.Source, error)
	CreateItemFn     func(ctx context.Context, item *newsgrab.Item) error
}

func (s *BacklogService) SelectPending(ctx context.Context, filter newsgrab.PendingFilter) ([]*newsgrab.WorkItem, error) {
	return s.SelectPendingFn(ctx, filter)
}

func (s *BacklogService) CreateSource(ctx context.Context, source *newsgrab.Source) error {
	return s.CreateSourceFn(ctx, source)
}

func (s *BacklogService) FindSourceByID(ctx context.Context, id string) (*newsgrab.Source, error) {
	return s.FindSourceByIDFn(ctx, id)
}

func (s *BacklogService) FindSources(ctx context.Context) ([]*newsgrab.Source, error) {
	return s.FindSourcesFn(ctx)
}

func (s *BacklogService) CreateItem(ctx context.Context, item *newsgrab.Item) error {
	return s.CreateItemFn(ctx, item)
}
