package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Ensure LoggingRecordService implements newsgrab.RecordService.
var _ newsgrab.RecordService = (*LoggingRecordService)(nil)

// LoggingRecordService wraps a RecordService with debug logging of writes.
// Reads are delegated without logging.
type LoggingRecordService struct {
	next   newsgrab.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next newsgrab.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

// UpsertRecord logs the stored record and delegates.
func (s *LoggingRecordService) UpsertRecord(ctx context.Context, rec *newsgrab.ExtractedRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("upsert record",
			"item", rec.ItemID,
			"hash", rec.ContentHash,
			"bytes", len(rec.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertRecord(ctx, rec)
}

// FindRecordByID delegates to the wrapped service.
func (s *LoggingRecordService) FindRecordByID(ctx context.Context, itemID string) (*newsgrab.ExtractedRecord, error) {
	return s.next.FindRecordByID(ctx, itemID)
}

// FindRecords delegates to the wrapped service.
func (s *LoggingRecordService) FindRecords(ctx context.Context, filter newsgrab.RecordFilter) ([]*newsgrab.ExtractedRecord, error) {
	return s.next.FindRecords(ctx, filter)
}

// DeleteRecord logs the deletion and delegates.
func (s *LoggingRecordService) DeleteRecord(ctx context.Context, itemID string) (err error) {
	defer func() {
		s.logger.Info("delete record", "item", itemID, "err", err)
	}()
	return s.next.DeleteRecord(ctx, itemID)
}
