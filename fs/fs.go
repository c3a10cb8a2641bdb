// Package fs stores record text files and page snapshots on disk, one file
// per item, named after the item ID.
package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/newsgrab"
)

// itemPath returns the file for itemID inside dir. IDs that would escape
// dir are rejected.
func itemPath(dir, itemID, ext string) (string, error) {
	if itemID == "" {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "item ID required")
	}
	if itemID == "." || itemID == ".." || strings.ContainsAny(itemID, `/\`) {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "item ID %q is not a valid file name", itemID)
	}
	return filepath.Join(dir, itemID+ext), nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
