package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var _ newsgrab.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of newsgrab.RecordWriter.
type RecordWriter struct {
	WriteRecordFn func(ctx context.Context, rec *newsgrab.ExtractedRecord) error
}

func (w *RecordWriter) WriteRecord(ctx context.Context, rec *newsgrab.ExtractedRecord) error {
	return w.WriteRecordFn(ctx, rec)
}
