package fs

import (
	"context"
	"strings"

	"github.com/fwojciec/newsgrab"
)

// FormatRecord renders a record as labelled plain-text sections.
func FormatRecord(rec *newsgrab.ExtractedRecord) string {
	var b strings.Builder
	sections := []struct {
		label string
		value string
	}{
		{"DATA ID", rec.ItemID},
		{"Title", rec.Title},
		{"Keywords", rec.Keywords},
		{"Description", rec.Description},
		{"Summary", rec.Summary},
		{"Content", rec.Content},
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.label)
		b.WriteString(":\n")
		b.WriteString(s.value)
	}
	b.WriteString("\n")
	return b.String()
}

// Ensure Writer implements newsgrab.RecordWriter at compile time.
var _ newsgrab.RecordWriter = (*Writer)(nil)

// Writer writes records as text files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteRecord writes rec to <baseDir>/<itemID>.txt, replacing any earlier file.
func (w *Writer) WriteRecord(ctx context.Context, rec *newsgrab.ExtractedRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := itemPath(w.baseDir, rec.ItemID, ".txt")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(FormatRecord(rec)))
}
