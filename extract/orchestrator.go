package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fwojciec/newsgrab"
	"golang.org/x/sync/errgroup"
)

// Stage is a step of processing a single item.
type Stage string

// Stages in processing order. Done and Failed are terminal.
const (
	StagePending     Stage = "pending"
	StageRendering   Stage = "rendering"
	StageExtracting  Stage = "extracting"
	StageNormalizing Stage = "normalizing"
	StagePersisting  Stage = "persisting"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// ItemError reports the failure of one item and the stage it failed in.
type ItemError struct {
	ItemID string
	Stage  Stage
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %s: %s: %v", e.ItemID, e.Stage, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Orchestrator extracts work items and stores their records.
type Orchestrator struct {
	Renderer newsgrab.Renderer
	Adapters newsgrab.AdapterRegistry
	Records  newsgrab.RecordService

	// Writer receives a plain-text copy of each stored record. Optional;
	// write failures are logged and do not fail the item.
	Writer newsgrab.RecordWriter

	Logger *slog.Logger

	// Snapshots, when set, is consulted before rendering. A stored
	// snapshot replaces the item's locator.
	Snapshots newsgrab.SnapshotStore

	// ArchiveSnapshots saves the markup of remotely rendered pages to
	// Snapshots. Save failures are logged and do not fail the item.
	ArchiveSnapshots bool

	// RetryDelays are the waits between navigation attempts.
	// Nil means a single attempt.
	RetryDelays []time.Duration

	// Concurrency is the number of items Run processes at once.
	// Values below 1 mean sequential processing.
	Concurrency int

	// Now returns the processing time. Defaults to time.Now in UTC.
	Now func() time.Time
}

// Process runs one item through rendering, extraction, normalization and
// storage. Every failure is returned as an *ItemError wrapping a coded
// error; the page is closed on every path.
func (o *Orchestrator) Process(ctx context.Context, item *newsgrab.WorkItem) (rec *newsgrab.ExtractedRecord, err error) {
	stage := StagePending
	defer func() {
		if r := recover(); r != nil {
			err = newsgrab.Errorf(newsgrab.EINTERNAL, "panic: %v", r)
		}
		if err != nil {
			rec = nil
			err = &ItemError{ItemID: item.ItemID, Stage: stage, Err: err}
			o.logger().Error("extract failed",
				"item", item.ItemID,
				"source", item.SourceID,
				"stage", string(stage),
				"code", newsgrab.ErrorCode(err),
				"err", err,
			)
		}
	}()

	adapter, err := o.Adapters.Resolve(item.SourceID)
	if err != nil {
		return nil, err
	}

	stage = StageRendering
	page, err := o.render(ctx, item)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			o.logger().Warn("close page", "item", item.ItemID, "err", cerr)
		}
	}()

	markup, err := page.HTML()
	if err != nil {
		return nil, newsgrab.WrapError(err, newsgrab.ERENDER, "read page markup")
	}
	if err := ValidateMarkup(markup); err != nil {
		return nil, err
	}
	if o.ArchiveSnapshots && o.Snapshots != nil && item.Locator.Kind == newsgrab.LocatorRemote {
		if _, ok := o.Snapshots.Lookup(item.ItemID); !ok {
			if err := o.Snapshots.SaveSnapshot(ctx, item.ItemID, markup); err != nil {
				o.logger().Warn("save snapshot", "item", item.ItemID, "err", err)
			}
		}
	}

	stage = StageExtracting
	raw, err := adapter.Extract(ctx, page, item.FieldSpec)
	if err != nil {
		if newsgrab.ErrorCode(err) == newsgrab.EINTERNAL {
			err = newsgrab.WrapError(err, newsgrab.ERENDER, "extract fields")
		}
		return nil, err
	}
	for _, fe := range raw.FieldErrors {
		o.logger().Warn("field degraded to empty",
			"item", item.ItemID,
			"field", string(fe.Field),
			"err", fe.Err,
		)
	}

	stage = StageNormalizing
	rec = newsgrab.Clean(item.ItemID, raw, o.now())

	stage = StagePersisting
	if err := o.Records.UpsertRecord(ctx, rec); err != nil {
		if newsgrab.ErrorCode(err) == newsgrab.EINTERNAL {
			err = newsgrab.WrapError(err, newsgrab.EPERSIST, "store record")
		}
		return nil, err
	}
	if o.Writer != nil {
		if err := o.Writer.WriteRecord(ctx, rec); err != nil {
			o.logger().Warn("write record file", "item", item.ItemID, "err", err)
		}
	}

	stage = StageDone
	o.logger().Debug("extracted", "item", item.ItemID, "source", item.SourceID, "bytes", len(rec.Content))
	return rec, nil
}

// render obtains the page for item from its locator or a stored snapshot.
func (o *Orchestrator) render(ctx context.Context, item *newsgrab.WorkItem) (newsgrab.Page, error) {
	loc := item.Locator
	if o.Snapshots != nil {
		if path, ok := o.Snapshots.Lookup(item.ItemID); ok {
			loc = newsgrab.Local(path)
		}
	}

	switch loc.Kind {
	case newsgrab.LocatorRemote:
		var page newsgrab.Page
		err := retry(ctx, o.RetryDelays, func() error {
			var err error
			page, err = o.Renderer.Navigate(ctx, loc.Value)
			return err
		}, func(attempt int, err error) {
			o.logger().Info("retry navigate", "item", item.ItemID, "url", loc.Value, "attempt", attempt, "err", err)
		})
		if err != nil {
			return nil, asRenderError(err, "navigate %s", loc.Value)
		}
		return page, nil

	case newsgrab.LocatorLocal:
		b, err := os.ReadFile(loc.Value)
		if errors.Is(err, os.ErrNotExist) {
			return nil, newsgrab.Errorf(newsgrab.EINVALIDLOCATOR, "local document %q does not exist", loc.Value)
		} else if err != nil {
			return nil, newsgrab.WrapError(err, newsgrab.EINVALIDLOCATOR, "read local document %q", loc.Value)
		}
		page, err := o.Renderer.LoadDocument(ctx, string(b))
		if err != nil {
			return nil, asRenderError(err, "load document %s", loc.Value)
		}
		return page, nil

	default:
		return nil, newsgrab.Errorf(newsgrab.EINVALIDLOCATOR, "empty locator")
	}
}

func asRenderError(err error, format string, args ...any) error {
	if newsgrab.ErrorCode(err) != newsgrab.EINTERNAL {
		return err
	}
	return newsgrab.WrapError(err, newsgrab.ERENDER, format, args...)
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}

// Result holds the outcome of a batch.
type Result struct {
	Total     int
	Succeeded int
	Failed    int

	// Skipped counts items never started because the batch was canceled.
	Skipped int
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	ItemID    string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
// Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// Run processes items and reports per-item outcomes. One item's failure
// never stops the batch. When ctx is canceled no further items are
// started, items in flight run to a terminal state, and ctx.Err() is
// returned together with the partial result.
func (o *Orchestrator) Run(ctx context.Context, items []*newsgrab.WorkItem, progress ProgressFunc) (*Result, error) {
	result := &Result{Total: len(items)}

	var mu sync.Mutex
	emit := func(event ProgressEvent) {
		if progress != nil {
			progress(event)
		}
	}

	emit(ProgressEvent{Type: ProgressStarted, Total: len(items)})

	concurrency := o.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	// Items finish even if the batch is canceled mid-item.
	itemCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(concurrency)

	dispatched := 0
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		dispatched++
		g.Go(func() error {
			// A slot may free up only after the batch was canceled.
			if ctx.Err() != nil {
				mu.Lock()
				result.Skipped++
				mu.Unlock()
				return nil
			}

			_, err := o.Process(itemCtx, item)

			mu.Lock()
			defer mu.Unlock()
			event := ProgressEvent{Total: len(items), ItemID: item.ItemID, Error: err}
			if err != nil {
				result.Failed++
				event.Type = ProgressFailed
			} else {
				result.Succeeded++
				event.Type = ProgressCompleted
			}
			event.Completed = result.Succeeded + result.Failed
			emit(event)
			return nil
		})
	}
	_ = g.Wait()

	result.Skipped += len(items) - dispatched
	emit(ProgressEvent{Type: ProgressFinished, Completed: result.Succeeded + result.Failed, Total: len(items)})

	if result.Skipped > 0 {
		return result, ctx.Err()
	}
	return result, nil
}
