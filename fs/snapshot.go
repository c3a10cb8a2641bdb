package fs

import (
	"context"
	"os"

	"github.com/fwojciec/newsgrab"
)

// Ensure SnapshotStore implements newsgrab.SnapshotStore at compile time.
var _ newsgrab.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps page markup as <dir>/<itemID>.html.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates a SnapshotStore rooted at dir.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// Lookup returns the snapshot path for itemID if a regular file exists there.
func (s *SnapshotStore) Lookup(itemID string) (string, bool) {
	path, err := itemPath(s.dir, itemID, ".html")
	if err != nil {
		return "", false
	}
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

// SaveSnapshot writes markup for itemID.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, itemID, markup string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := itemPath(s.dir, itemID, ".html")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(markup))
}
