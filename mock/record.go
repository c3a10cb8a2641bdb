package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var (
	_ newsgrab.RecordService = (*RecordService)(nil)
	_ newsgrab.RunService    = (*RunService)(nil)
)

// RecordService is a mock implementation of newsgrab.RecordService.
type RecordService struct {
	UpsertRecordFn   func(ctx context.Context, rec *newsgrab.ExtractedRecord) error
	FindRecordByIDFn func(ctx context.Context, itemID string) (*newsgrab.ExtractedRecord, error)
	FindRecordsFn    func(ctx context.Context, filter newsgrab.RecordFilter) ([]*newsgrab.ExtractedRecord, error)
	DeleteRecordFn   func(ctx context.Context, itemID string) error
}

func (s *RecordService) UpsertRecord(ctx context.Context, rec *newsgrab.ExtractedRecord) error {
	return s.UpsertRecordFn(ctx, rec)
}

func (s *RecordService) FindRecordByID(ctx context.Context, itemID string) (*newsgrab.ExtractedRecord, error) {
	return s.FindRecordByIDFn(ctx, itemID)
}

func (s *RecordService) FindRecords(ctx context.Context, filter newsgrab.RecordFilter) ([]*newsgrab.ExtractedRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) DeleteRecord(ctx context.Context, itemID string) error {
	return s.DeleteRecordFn(ctx, itemID)
}

// RunService is a mock implementation of newsgrab.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context) (*newsgrab.Run, error)
	FinishRunFn func(ctx context.Context, id string, total, succeeded, failed int) error
	FindRunsFn  func(ctx context.Context, limit int) ([]*newsgrab.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context) (*newsgrab.Run, error) {
	return s.CreateRunFn(ctx)
}

func (s *RunService) FinishRun(ctx context.Context, id string, total, succeeded, failed int) error {
	return s.FinishRunFn(ctx, id, total, succeeded, failed)
}

func (s *RunService) FindRuns(ctx context.Context, limit int) ([]*newsgrab.Run, error) {
	return s.FindRunsFn(ctx, limit)
}
