package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Compile-time interface verification.
var _ newsgrab.BacklogService = (*BacklogService)(nil)

// BacklogService implements newsgrab.BacklogService using SQLite.
type BacklogService struct {
	db *DB
}

// NewBacklogService creates a new BacklogService.
func NewBacklogService(db *DB) *BacklogService {
	return &BacklogService{db: db}
}

// CreateSource registers a source. An empty title selector is stored as
// newsgrab.DefaultTitleSelector.
func (s *BacklogService) CreateSource(ctx context.Context, source *newsgrab.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(source.FieldSpec.TitleSelector) == "" {
		source.FieldSpec.TitleSelector = newsgrab.DefaultTitleSelector
	}
	source.CreatedAt = time.Now().UTC()

	spec := source.FieldSpec
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (id, name, title_selector, keyword_selector, description_selector,
			summary_selector, content_selector, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, source.ID, source.Name, spec.TitleSelector, spec.KeywordSelector, spec.DescriptionSelector,
		spec.SummarySelector, spec.ContentSelector, source.CreatedAt.Format(time.RFC3339))

	if isConstraint(err) {
		return newsgrab.Errorf(newsgrab.ECONFLICT, "source %q already exists", source.ID)
	}
	return err
}

// FindSourceByID retrieves a source by ID.
func (s *BacklogService) FindSourceByID(ctx context.Context, id string) (*newsgrab.Source, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, title_selector, keyword_selector, description_selector,
			summary_selector, content_selector, created_at
		FROM sources
		WHERE id = ?
	`, id)

	source, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, newsgrab.Errorf(newsgrab.ENOTFOUND, "source not found")
	}
	if err != nil {
		return nil, err
	}
	return source, nil
}

// FindSources returns all sources ordered by ID.
func (s *BacklogService) FindSources(ctx context.Context) ([]*newsgrab.Source, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, title_selector, keyword_selector, description_selector,
			summary_selector, content_selector, created_at
		FROM sources
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*newsgrab.Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

// CreateItem adds an item to the end of the backlog.
func (s *BacklogService) CreateItem(ctx context.Context, item *newsgrab.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	if _, err := s.FindSourceByID(ctx, item.SourceID); err != nil {
		return err
	}

	item.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, source_id, locator, created_at)
		VALUES (?, ?, ?, ?)
	`, item.ID, item.SourceID, strings.TrimSpace(item.Locator), item.CreatedAt.Format(time.RFC3339))

	if isConstraint(err) {
		return newsgrab.Errorf(newsgrab.ECONFLICT, "item %q already exists", item.ID)
	}
	return err
}

// SelectPending returns backlog items with a locator and no stored record,
// in insertion order, joined with their source's selectors.
func (s *BacklogService) SelectPending(ctx context.Context, filter newsgrab.PendingFilter) ([]*newsgrab.WorkItem, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT i.id, i.locator, s.id, s.title_selector, s.keyword_selector,
			s.description_selector, s.summary_selector, s.content_selector
		FROM items i
		JOIN sources s ON s.id = i.source_id
		WHERE TRIM(i.locator) <> ''
		AND NOT EXISTS (SELECT 1 FROM records r WHERE r.item_id = i.id)`)

	if filter.SourceID != nil {
		query.WriteString(" AND i.source_id = ?")
		args = append(args, *filter.SourceID)
	}

	query.WriteString(" ORDER BY i.seq")
	appendPagination(&query, &args, filter.Limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*newsgrab.WorkItem
	for rows.Next() {
		var item newsgrab.WorkItem
		var locator string
		spec := &item.FieldSpec
		if err := rows.Scan(&item.ItemID, &locator, &item.SourceID, &spec.TitleSelector,
			&spec.KeywordSelector, &spec.DescriptionSelector, &spec.SummarySelector,
			&spec.ContentSelector); err != nil {
			return nil, err
		}
		item.Locator = newsgrab.ParseLocator(locator)
		items = append(items, &item)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSource(row scanner) (*newsgrab.Source, error) {
	var source newsgrab.Source
	var createdAt string
	spec := &source.FieldSpec
	if err := row.Scan(&source.ID, &source.Name, &spec.TitleSelector, &spec.KeywordSelector,
		&spec.DescriptionSelector, &spec.SummarySelector, &spec.ContentSelector, &createdAt); err != nil {
		return nil, err
	}

	var err error
	source.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &source, nil
}
