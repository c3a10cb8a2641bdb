package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ newsgrab.RunService = (*RunService)(nil)

// RunService implements newsgrab.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun starts a run.
func (s *RunService) CreateRun(ctx context.Context) (*newsgrab.Run, error) {
	run := &newsgrab.Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at) VALUES (?, ?)
	`, run.ID, run.StartedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun stores the final counts of a run and stamps its finish time.
func (s *RunService) FinishRun(ctx context.Context, id string, total, succeeded, failed int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, total = ?, succeeded = ?, failed = ?
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), total, succeeded, failed, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return newsgrab.Errorf(newsgrab.ENOTFOUND, "run not found")
	}
	return nil
}

// FindRuns returns up to limit runs, newest first. A limit of zero or
// less returns every run.
func (s *RunService) FindRuns(ctx context.Context, limit int) ([]*newsgrab.Run, error) {
	query := `
		SELECT id, started_at, finished_at, total, succeeded, failed
		FROM runs
		ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*newsgrab.Run
	for rows.Next() {
		var run newsgrab.Run
		var startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Total, &run.Succeeded, &run.Failed); err != nil {
			return nil, err
		}
		run.StartedAt, err = parseRFC3339(startedAt, "started_at")
		if err != nil {
			return nil, err
		}
		if finishedAt != "" {
			run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at")
			if err != nil {
				return nil, err
			}
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
