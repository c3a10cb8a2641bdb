package extract_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/extract"
	"github.com/fwojciec/newsgrab/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory result store keyed by item ID.
type memStore struct {
	mu      sync.Mutex
	records map[string]*newsgrab.ExtractedRecord
	upserts int
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*newsgrab.ExtractedRecord)}
}

func (s *memStore) service() *mock.RecordService {
	return &mock.RecordService{
		UpsertRecordFn: func(_ context.Context, rec *newsgrab.ExtractedRecord) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.upserts++
			cp := *rec
			s.records[rec.ItemID] = &cp
			return nil
		},
	}
}

func (s *memStore) get(id string) (*newsgrab.ExtractedRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	return rec, ok
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// pageTracker hands out mock pages and counts how many are still open.
type pageTracker struct {
	open atomic.Int64
}

func (pt *pageTracker) page(markup string, content []string) *mock.Page {
	pt.open.Add(1)
	var closed atomic.Bool
	return &mock.Page{
		HTMLFn: func() (string, error) { return markup, nil },
		QueryTextFn: func(selector string) (string, bool, error) {
			if selector == "title" {
				return "  Headline  ", true, nil
			}
			return "", false, nil
		},
		QueryAttributeFn: func(string, string) (string, bool, error) { return "", false, nil },
		QueryAllTextFn:   func(string) ([]string, error) { return nil, nil },
		QueryAllMarkupFn: func(selector string) ([]string, error) {
			if selector == "div.body" {
				return content, nil
			}
			return nil, nil
		},
		CloseFn: func() error {
			if closed.CompareAndSwap(false, true) {
				pt.open.Add(-1)
			}
			return nil
		},
	}
}

const pageHTML = "<html><body><div class=body><b>Hi</b></div><div class=body>there</div></body></html>"

func newRegistry() *extract.Registry {
	reg := extract.NewRegistry()
	reg.Register("X", newsgrab.NewGenericAdapter(newsgrab.StandardLayout()))
	return reg
}

func workItem(id string, loc newsgrab.Locator) *newsgrab.WorkItem {
	return &newsgrab.WorkItem{
		ItemID:   id,
		SourceID: "X",
		Locator:  loc,
		FieldSpec: newsgrab.FieldSpec{
			TitleSelector:   "title",
			ContentSelector: "div.body",
		},
	}
}

func TestOrchestrator_Process(t *testing.T) {
	t.Parallel()

	t.Run("extracts normalizes and stores a remote item", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		tracker := &pageTracker{}
		var navigated string
		processedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(_ context.Context, url string) (newsgrab.Page, error) {
					navigated = url
					return tracker.page(pageHTML, []string{"<b>Hi</b>", "there"}), nil
				},
			},
			Adapters: newRegistry(),
			Records:  store.service(),
			Now:      func() time.Time { return processedAt },
		}

		rec, err := o.Process(context.Background(), workItem("a", newsgrab.Remote("https://example/a")))

		require.NoError(t, err)
		assert.Equal(t, "https://example/a", navigated)
		assert.Equal(t, "a", rec.ItemID)
		assert.Equal(t, "Hi\nthere", rec.Content)
		assert.Equal(t, "Headline", rec.Title)
		assert.Empty(t, rec.Keywords)
		assert.Empty(t, rec.Summary)
		assert.Equal(t, processedAt, rec.ProcessedAt)

		stored, ok := store.get("a")
		require.True(t, ok)
		assert.Equal(t, "Hi\nthere", stored.Content)
		assert.Zero(t, tracker.open.Load(), "page must be closed")
	})

	t.Run("loads local documents through the renderer", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.html")
		require.NoError(t, os.WriteFile(path, []byte(pageHTML), 0644))

		store := newMemStore()
		tracker := &pageTracker{}
		var loaded string

		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				LoadDocumentFn: func(_ context.Context, rawHTML string) (newsgrab.Page, error) {
					loaded = rawHTML
					return tracker.page(rawHTML, []string{"local"}), nil
				},
			},
			Adapters: newRegistry(),
			Records:  store.service(),
		}

		rec, err := o.Process(context.Background(), workItem("a", newsgrab.Local(path)))

		require.NoError(t, err)
		assert.Equal(t, pageHTML, loaded)
		assert.Equal(t, "local", rec.Content)
		assert.Zero(t, tracker.open.Load())
	})

	t.Run("unknown source fails without rendering or storing", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					t.Fatal("renderer must not be called")
					return nil, nil
				},
			},
			Adapters: newRegistry(),
			Records:  store.service(),
		}

		item := workItem("a", newsgrab.Remote("https://example/a"))
		item.SourceID = "missing"
		_, err := o.Process(context.Background(), item)

		require.Error(t, err)
		assert.Equal(t, newsgrab.EUNKNOWNSOURCE, newsgrab.ErrorCode(err))
		_, ok := store.get("a")
		assert.False(t, ok)

		var itemErr *extract.ItemError
		require.ErrorAs(t, err, &itemErr)
		assert.Equal(t, "a", itemErr.ItemID)
		assert.Equal(t, extract.StagePending, itemErr.Stage)
	})

	t.Run("empty locator fails with EINVALIDLOCATOR", func(t *testing.T) {
		t.Parallel()

		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{},
			Adapters: newRegistry(),
			Records:  newMemStore().service(),
		}

		_, err := o.Process(context.Background(), workItem("a", newsgrab.Locator{}))

		require.Error(t, err)
		assert.Equal(t, newsgrab.EINVALIDLOCATOR, newsgrab.ErrorCode(err))
	})

	t.Run("missing local file fails with EINVALIDLOCATOR", func(t *testing.T) {
		t.Parallel()

		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{},
			Adapters: newRegistry(),
			Records:  newMemStore().service(),
		}

		_, err := o.Process(context.Background(), workItem("a", newsgrab.Local(filepath.Join(t.TempDir(), "missing.html"))))

		require.Error(t, err)
		assert.Equal(t, newsgrab.EINVALIDLOCATOR, newsgrab.ErrorCode(err))
		var itemErr *extract.ItemError
		require.ErrorAs(t, err, &itemErr)
		assert.Equal(t, extract.StageRendering, itemErr.Stage)
	})

	t.Run("implausible markup fails with EINVALIDDOCUMENT and closes the page", func(t *testing.T) {
		t.Parallel()

		tracker := &pageTracker{}
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					return tracker.page("502 Bad Gateway", nil), nil
				},
			},
			Adapters: newRegistry(),
			Records:  newMemStore().service(),
		}

		_, err := o.Process(context.Background(), workItem("a", newsgrab.Remote("https://example/a")))

		require.Error(t, err)
		assert.Equal(t, newsgrab.EINVALIDDOCUMENT, newsgrab.ErrorCode(err))
		assert.Zero(t, tracker.open.Load())
	})

	t.Run("navigation failure is a render error", func(t *testing.T) {
		t.Parallel()

		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					return nil, errors.New("net::ERR_NAME_NOT_RESOLVED")
				},
			},
			Adapters: newRegistry(),
			Records:  newMemStore().service(),
		}

		_, err := o.Process(context.Background(), workItem("a", newsgrab.Remote("https://example/a")))

		require.Error(t, err)
		assert.Equal(t, newsgrab.ERENDER, newsgrab.ErrorCode(err))
	})

	t.Run("retries navigation before giving up", func(t *testing.T) {
		t.Parallel()

		tracker := &pageTracker{}
		var attempts atomic.Int32
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					if attempts.Add(1) < 3 {
						return nil, errors.New("timeout")
					}
					return tracker.page(pageHTML, []string{"ok"}), nil
				},
			},
			Adapters:    newRegistry(),
			Records:     newMemStore().service(),
			RetryDelays: []time.Duration{time.Millisecond, time.Millisecond},
		}

		rec, err := o.Process(context.Background(), workItem("a", newsgrab.Remote("https://example/a")))

		require.NoError(t, err)
		assert.Equal(t, "ok", rec.Content)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("store failure is a persist error and closes the page", func(t *testing.T) {
		t.Parallel()

		tracker := &pageTracker{}
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					return tracker.page(pageHTML, nil), nil
				},
			},
			Adapters: newRegistry(),
			Records: &mock.RecordService{
				UpsertRecordFn: func(context.Context, *newsgrab.ExtractedRecord) error {
					return errors.New("disk full")
				},
			},
		}

		_, err := o.Process(context.Background(), workItem("a", newsgrab.Remote("https://example/a")))

		require.Error(t, err)
		assert.Equal(t, newsgrab.EPERSIST, newsgrab.ErrorCode(err))
		var itemErr *extract.ItemError
		require.ErrorAs(t, err, &itemErr)
		assert.Equal(t, extract.StagePersisting, itemErr.Stage)
		assert.Zero(t, tracker.open.Load())
	})

	t.Run("selector errors degrade to empty fields", func(t *testing.T) {
		t.Parallel()

		tracker := &pageTracker{}
		page := tracker.page(pageHTML, nil)
		page.QueryAllMarkupFn = func(string) ([]string, error) {
			return nil, newsgrab.Errorf(newsgrab.ESELECTOR, "bad selector")
		}
		store := newMemStore()
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) { return page, nil },
			},
			Adapters: newRegistry(),
			Records:  store.service(),
		}

		rec, err := o.Process(context.Background(), workItem("a", newsgrab.Remote("https://example/a")))

		require.NoError(t, err)
		assert.Empty(t, rec.Content)
		assert.Equal(t, "Headline", rec.Title)
		assert.Equal(t, 1, store.len())
	})

	t.Run("adapter panic becomes an internal error and closes the page", func(t *testing.T) {
		t.Parallel()

		tracker := &pageTracker{}
		reg := extract.NewRegistry()
		reg.Register("X", &mock.SourceAdapter{
			ExtractFn: func(context.Context, newsgrab.Page, newsgrab.FieldSpec) (*newsgrab.RawFields, error) {
				panic("boom")
			},
		})
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					return tracker.page(pageHTML, nil), nil
				},
			},
			Adapters: reg,
			Records:  newMemStore().service(),
		}

		_, err := o.Process(context.Background(), workItem("a", newsgrab.Remote("https://example/a")))

		require.Error(t, err)
		assert.Equal(t, newsgrab.EINTERNAL, newsgrab.ErrorCode(err))
		var itemErr *extract.ItemError
		require.ErrorAs(t, err, &itemErr)
		assert.Equal(t, extract.StageExtracting, itemErr.Stage)
		assert.Zero(t, tracker.open.Load())
	})

	t.Run("processing twice keeps one record", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		tracker := &pageTracker{}
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					return tracker.page(pageHTML, []string{"body"}), nil
				},
			},
			Adapters: newRegistry(),
			Records:  store.service(),
		}
		item := workItem("a", newsgrab.Remote("https://example/a"))

		_, err := o.Process(context.Background(), item)
		require.NoError(t, err)
		_, err = o.Process(context.Background(), item)
		require.NoError(t, err)

		assert.Equal(t, 1, store.len())
		assert.Equal(t, 2, store.upserts)
	})

	t.Run("writer failure does not fail the item", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		tracker := &pageTracker{}
		var written string
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					return tracker.page(pageHTML, []string{"body"}), nil
				},
			},
			Adapters: newRegistry(),
			Records:  store.service(),
			Writer: &mock.RecordWriter{
				WriteRecordFn: func(_ context.Context, rec *newsgrab.ExtractedRecord) error {
					written = rec.ItemID
					return errors.New("read-only file system")
				},
			},
		}

		_, err := o.Process(context.Background(), workItem("a", newsgrab.Remote("https://example/a")))

		require.NoError(t, err)
		assert.Equal(t, "a", written)
		assert.Equal(t, 1, store.len())
	})
}

// memSnapshots is an in-memory SnapshotStore backed by files in a temp dir.
type memSnapshots struct {
	dir   string
	mu    sync.Mutex
	saved map[string]string
}

func (s *memSnapshots) store() *mock.SnapshotStore {
	return &mock.SnapshotStore{
		LookupFn: func(itemID string) (string, bool) {
			path := filepath.Join(s.dir, itemID+".html")
			if _, err := os.Stat(path); err != nil {
				return "", false
			}
			return path, true
		},
		SaveSnapshotFn: func(_ context.Context, itemID, markup string) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.saved[itemID] = markup
			return nil
		},
	}
}

func TestOrchestrator_Snapshots(t *testing.T) {
	t.Parallel()

	t.Run("stored snapshot replaces the remote locator", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte(pageHTML), 0644))
		snapshots := &memSnapshots{dir: dir, saved: map[string]string{}}

		tracker := &pageTracker{}
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					t.Fatal("navigate must not be called when a snapshot exists")
					return nil, nil
				},
				LoadDocumentFn: func(_ context.Context, rawHTML string) (newsgrab.Page, error) {
					return tracker.page(rawHTML, []string{"from snapshot"}), nil
				},
			},
			Adapters:         newRegistry(),
			Records:          newMemStore().service(),
			Snapshots:        snapshots.store(),
			ArchiveSnapshots: true,
		}

		rec, err := o.Process(context.Background(), workItem("a", newsgrab.Remote("https://example/a")))

		require.NoError(t, err)
		assert.Equal(t, "from snapshot", rec.Content)
		assert.Empty(t, snapshots.saved)
	})

	t.Run("archives remotely rendered markup", func(t *testing.T) {
		t.Parallel()

		snapshots := &memSnapshots{dir: t.TempDir(), saved: map[string]string{}}
		tracker := &pageTracker{}
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					return tracker.page(pageHTML, []string{"body"}), nil
				},
			},
			Adapters:         newRegistry(),
			Records:          newMemStore().service(),
			Snapshots:        snapshots.store(),
			ArchiveSnapshots: true,
		}

		_, err := o.Process(context.Background(), workItem("a", newsgrab.Remote("https://example/a")))

		require.NoError(t, err)
		assert.Equal(t, pageHTML, snapshots.saved["a"])
	})
}

func TestOrchestrator_Run(t *testing.T) {
	t.Parallel()

	t.Run("failed item does not stop the batch", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		tracker := &pageTracker{}
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					return tracker.page(pageHTML, []string{"body"}), nil
				},
			},
			Adapters: newRegistry(),
			Records:  store.service(),
		}

		items := []*newsgrab.WorkItem{
			workItem("a", newsgrab.Remote("https://example/a")),
			workItem("b", newsgrab.Locator{}),
			workItem("c", newsgrab.Remote("https://example/c")),
			workItem("d", newsgrab.Remote("https://example/d")),
		}

		var events []extract.ProgressEvent
		result, err := o.Run(context.Background(), items, func(e extract.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, 4, result.Total)
		assert.Equal(t, 3, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		assert.Zero(t, result.Skipped)
		assert.Equal(t, 3, store.len())
		_, ok := store.get("b")
		assert.False(t, ok)

		require.Len(t, events, 6)
		assert.Equal(t, extract.ProgressStarted, events[0].Type)
		assert.Equal(t, extract.ProgressFailed, events[2].Type)
		assert.Equal(t, "b", events[2].ItemID)
		assert.Equal(t, extract.ProgressFinished, events[5].Type)
		assert.Equal(t, 4, events[5].Completed)
		assert.Zero(t, tracker.open.Load())
	})

	t.Run("concurrent workers process every item once", func(t *testing.T) {
		t.Parallel()

		const n = 20
		store := newMemStore()
		tracker := &pageTracker{}
		var inFlight, maxInFlight atomic.Int32

		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					cur := inFlight.Add(1)
					for {
						prev := maxInFlight.Load()
						if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
							break
						}
					}
					time.Sleep(2 * time.Millisecond)
					inFlight.Add(-1)
					return tracker.page(pageHTML, []string{"body"}), nil
				},
			},
			Adapters:    newRegistry(),
			Records:     store.service(),
			Concurrency: 4,
		}

		items := make([]*newsgrab.WorkItem, n)
		for i := range items {
			items[i] = workItem(fmt.Sprintf("item-%d", i), newsgrab.Remote(fmt.Sprintf("https://example/%d", i)))
		}

		result, err := o.Run(context.Background(), items, nil)

		require.NoError(t, err)
		assert.Equal(t, n, result.Succeeded)
		assert.Equal(t, n, store.len())
		assert.LessOrEqual(t, maxInFlight.Load(), int32(4))
		assert.Zero(t, tracker.open.Load())
	})

	t.Run("cancellation stops dispatch and finishes in-flight items", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store := newMemStore()
		tracker := &pageTracker{}
		o := &extract.Orchestrator{
			Renderer: &mock.Renderer{
				NavigateFn: func(context.Context, string) (newsgrab.Page, error) {
					cancel()
					return tracker.page(pageHTML, []string{"body"}), nil
				},
			},
			Adapters: newRegistry(),
			Records:  store.service(),
		}

		items := []*newsgrab.WorkItem{
			workItem("a", newsgrab.Remote("https://example/a")),
			workItem("b", newsgrab.Remote("https://example/b")),
			workItem("c", newsgrab.Remote("https://example/c")),
		}

		result, err := o.Run(ctx, items, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, result.Succeeded)
		assert.Equal(t, 2, result.Skipped)
		_, ok := store.get("a")
		assert.True(t, ok, "in-flight item must reach a terminal state")
		assert.Zero(t, tracker.open.Load())
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		o := &extract.Orchestrator{Adapters: newRegistry(), Records: newMemStore().service()}

		result, err := o.Run(context.Background(), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, &extract.Result{}, result)
	})
}
