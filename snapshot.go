package newsgrab

import "context"

// SnapshotStore keeps the raw markup of rendered pages so items can be
// extracted again without network access.
type SnapshotStore interface {
	// Lookup returns the path of the stored snapshot for itemID.
	Lookup(itemID string) (path string, ok bool)

	// SaveSnapshot stores markup for itemID, replacing any earlier snapshot.
	SaveSnapshot(ctx context.Context, itemID, markup string) error
}
