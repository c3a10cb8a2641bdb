package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var _ newsgrab.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of newsgrab.SnapshotStore.
type SnapshotStore struct {
	LookupFn       func(itemID string) (string, bool)
	SaveSnapshotFn func(ctx context.Context, itemID, markup string) error
}

func (s *SnapshotStore) Lookup(itemID string) (string, bool) {
	return s.LookupFn(itemID)
}

func (s *SnapshotStore) SaveSnapshot(ctx context.Context, itemID, markup string) error {
	return s.SaveSnapshotFn(ctx, itemID, markup)
}
