package newsgrab

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// LocatorKind identifies how a page is obtained.
type LocatorKind int

const (
	// LocatorNone is an empty or unusable locator.
	LocatorNone LocatorKind = iota
	// LocatorRemote is an http(s) URL loaded by navigation.
	LocatorRemote
	// LocatorLocal is a path to a stored HTML document.
	LocatorLocal
)

var remotePattern = regexp.MustCompile(`(?i)^https?://`)

// Locator is where a page lives: either a remote URL or a local document path.
type Locator struct {
	Kind  LocatorKind
	Value string
}

// Remote returns a locator for a remote URL.
func Remote(url string) Locator {
	return Locator{Kind: LocatorRemote, Value: url}
}

// Local returns a locator for a stored document on disk.
func Local(path string) Locator {
	return Locator{Kind: LocatorLocal, Value: path}
}

// ParseLocator classifies a stored locator string. Values starting with
// http:// or https:// (any case) are remote; any other non-blank value is
// treated as a local path.
func ParseLocator(s string) Locator {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Locator{}
	case remotePattern.MatchString(s):
		return Remote(s)
	default:
		return Local(s)
	}
}

// String returns the raw locator value.
func (l Locator) String() string {
	return l.Value
}

// FieldSpec holds the configured selectors for a source. Every selector is
// optional; how each one is evaluated is decided by the source's adapter.
type FieldSpec struct {
	TitleSelector       string `json:"titleSelector"`
	KeywordSelector     string `json:"keywordSelector"`
	DescriptionSelector string `json:"descriptionSelector"`
	SummarySelector     string `json:"summarySelector"`
	ContentSelector     string `json:"contentSelector"`
}

// WorkItem is one article awaiting extraction. It is built by the work
// selector and is not modified while it is processed.
type WorkItem struct {
	ItemID    string    `json:"itemId"`
	Locator   Locator   `json:"locator"`
	SourceID  string    `json:"sourceId"`
	FieldSpec FieldSpec `json:"fieldSpec"`
}

// WorkSelector produces the items that have no stored result yet.
type WorkSelector interface {
	// SelectPending returns backlog items with a non-empty locator whose
	// ID is absent from the result store, in backlog insertion order.
	SelectPending(ctx context.Context, filter PendingFilter) ([]*WorkItem, error)
}

// PendingFilter narrows SelectPending.
type PendingFilter struct {
	SourceID *string `json:"sourceId"`
	Limit    int     `json:"limit"`
}

// DefaultTitleSelector is used when a source does not configure a title selector.
const DefaultTitleSelector = "title"

// Source is a news site registered in the backlog together with its
// configured field selectors.
type Source struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FieldSpec FieldSpec `json:"fieldSpec"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.ID == "" {
		return Errorf(EINVALID, "source ID required")
	}
	return nil
}

// Item is a backlog row: an article known to exist but not necessarily extracted.
type Item struct {
	ID        string    `json:"id"`
	SourceID  string    `json:"sourceId"`
	Locator   string    `json:"locator"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the item contains invalid fields.
func (i *Item) Validate() error {
	if i.ID == "" {
		return Errorf(EINVALID, "item ID required")
	}
	if i.SourceID == "" {
		return Errorf(EINVALID, "item source ID required")
	}
	return nil
}

// BacklogService manages sources and the items awaiting extraction.
type BacklogService interface {
	WorkSelector

	// CreateSource registers a source. Returns ECONFLICT if the ID is taken.
	CreateSource(ctx context.Context, source *Source) error

	// FindSourceByID retrieves a source by ID.
	// Returns ENOTFOUND if the source does not exist.
	FindSourceByID(ctx context.Context, id string) (*Source, error)

	// FindSources returns all sources ordered by ID.
	FindSources(ctx context.Context) ([]*Source, error)

	// CreateItem adds an item to the backlog.
	// Returns ENOTFOUND if the source does not exist and ECONFLICT if the ID is taken.
	CreateItem(ctx context.Context, item *Item) error
}
