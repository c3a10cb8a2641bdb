package newsgrab

import (
	"context"
	"time"
)

// ExtractedRecord is the normalized output of one successful extraction.
// There is at most one stored record per ItemID.
type ExtractedRecord struct {
	ItemID      string    `json:"itemId"`
	Title       string    `json:"title"`
	Keywords    string    `json:"keywords"`
	Description string    `json:"description"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	ProcessedAt time.Time `json:"processedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ExtractedRecord) Validate() error {
	if r.ItemID == "" {
		return Errorf(EINVALID, "record item ID required")
	}
	return nil
}

// RecordService represents the result store.
type RecordService interface {
	// UpsertRecord inserts the record, or replaces the mutable fields and
	// processing time of the record already stored under the same item ID.
	UpsertRecord(ctx context.Context, rec *ExtractedRecord) error

	// FindRecordByID retrieves a record by item ID.
	// Returns ENOTFOUND if no record exists.
	FindRecordByID(ctx context.Context, itemID string) (*ExtractedRecord, error)

	// FindRecords retrieves records ordered by most recently processed.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*ExtractedRecord, error)

	// DeleteRecord removes a record so the item is selected again.
	// Returns ENOTFOUND if no record exists.
	DeleteRecord(ctx context.Context, itemID string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	SourceID *string `json:"sourceId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordWriter writes a plain-text rendering of a record outside the store.
type RecordWriter interface {
	WriteRecord(ctx context.Context, rec *ExtractedRecord) error
}

// Run is the ledger entry of one batch.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
}

// RunService records batch runs.
type RunService interface {
	// CreateRun starts a run and assigns its ID and start time.
	CreateRun(ctx context.Context) (*Run, error)

	// FinishRun stores the final counts of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, id string, total, succeeded, failed int) error

	// FindRuns returns the most recent runs first.
	FindRuns(ctx context.Context, limit int) ([]*Run, error)
}
