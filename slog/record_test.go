package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/mock"
	ngslog "github.com/fwojciec/newsgrab/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRecordService_UpsertRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.RecordService{
		UpsertRecordFn: func(_ context.Context, rec *newsgrab.ExtractedRecord) error {
			rec.ContentHash = "abc123"
			return nil
		},
	}

	svc := ngslog.NewLoggingRecordService(inner, logger)
	err := svc.UpsertRecord(context.Background(), &newsgrab.ExtractedRecord{ItemID: "a1", Content: "Hi"})

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, `msg="upsert record"`)
	assert.Contains(t, output, "item=a1")
	assert.Contains(t, output, "hash=abc123")
	assert.Contains(t, output, "bytes=2")
}

func TestLoggingRecordService_DeleteRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.RecordService{
		DeleteRecordFn: func(context.Context, string) error {
			return newsgrab.Errorf(newsgrab.ENOTFOUND, "record not found")
		},
	}

	svc := ngslog.NewLoggingRecordService(inner, logger)
	err := svc.DeleteRecord(context.Background(), "a1")

	assert.Equal(t, newsgrab.ENOTFOUND, newsgrab.ErrorCode(err))
	assert.Contains(t, buf.String(), "item=a1")
}

func TestLoggingRecordService_Reads(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	want := &newsgrab.ExtractedRecord{ItemID: "a1"}
	inner := &mock.RecordService{
		FindRecordByIDFn: func(context.Context, string) (*newsgrab.ExtractedRecord, error) {
			return want, nil
		},
		FindRecordsFn: func(context.Context, newsgrab.RecordFilter) ([]*newsgrab.ExtractedRecord, error) {
			return []*newsgrab.ExtractedRecord{want}, nil
		},
	}

	svc := ngslog.NewLoggingRecordService(inner, slog.New(slog.NewTextHandler(&buf, nil)))

	got, err := svc.FindRecordByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Same(t, want, got)

	list, err := svc.FindRecords(context.Background(), newsgrab.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Empty(t, buf.String())
}
