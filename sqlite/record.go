package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/newsgrab"
)

// Compile-time interface verification.
var _ newsgrab.RecordService = (*RecordService)(nil)

// RecordService implements newsgrab.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// UpsertRecord stores rec under its item ID. A second upsert for the same
// item replaces the fields and processing time; it never adds a row.
func (s *RecordService) UpsertRecord(ctx context.Context, rec *newsgrab.ExtractedRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now().UTC()
	}
	rec.ContentHash = hashContent(rec.Content)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (item_id, title, keywords, description, summary, content, content_hash, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			title = excluded.title,
			keywords = excluded.keywords,
			description = excluded.description,
			summary = excluded.summary,
			content = excluded.content,
			content_hash = excluded.content_hash,
			processed_at = excluded.processed_at
	`, rec.ItemID, rec.Title, rec.Keywords, rec.Description, rec.Summary, rec.Content,
		rec.ContentHash, rec.ProcessedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return newsgrab.WrapError(err, newsgrab.EPERSIST, "upsert record %s", rec.ItemID)
	}
	return nil
}

// FindRecordByID retrieves a record by item ID.
func (s *RecordService) FindRecordByID(ctx context.Context, itemID string) (*newsgrab.ExtractedRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT item_id, title, keywords, description, summary, content, content_hash, processed_at
		FROM records
		WHERE item_id = ?
	`, itemID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, newsgrab.Errorf(newsgrab.ENOTFOUND, "record not found")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindRecords retrieves records matching the filter, most recently
// processed first.
func (s *RecordService) FindRecords(ctx context.Context, filter newsgrab.RecordFilter) ([]*newsgrab.ExtractedRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT r.item_id, r.title, r.keywords, r.description, r.summary, r.content,
			r.content_hash, r.processed_at
		FROM records r`)

	if filter.SourceID != nil {
		query.WriteString(" JOIN items i ON i.id = r.item_id WHERE i.source_id = ?")
		args = append(args, *filter.SourceID)
	}

	query.WriteString(" ORDER BY r.processed_at DESC, r.item_id")
	if filter.Offset > 0 && filter.Limit <= 0 {
		// SQLite requires a LIMIT before OFFSET.
		query.WriteString(" LIMIT -1")
	}
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*newsgrab.ExtractedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteRecord removes the record for itemID.
func (s *RecordService) DeleteRecord(ctx context.Context, itemID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE item_id = ?", itemID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return newsgrab.Errorf(newsgrab.ENOTFOUND, "record not found")
	}
	return nil
}

func scanRecord(row scanner) (*newsgrab.ExtractedRecord, error) {
	var rec newsgrab.ExtractedRecord
	var processedAt string
	if err := row.Scan(&rec.ItemID, &rec.Title, &rec.Keywords, &rec.Description, &rec.Summary,
		&rec.Content, &rec.ContentHash, &processedAt); err != nil {
		return nil, err
	}

	var err error
	rec.ProcessedAt, err = parseRFC3339(processedAt, "processed_at")
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
