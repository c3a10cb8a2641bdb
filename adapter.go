package newsgrab

import (
	"context"
	"strings"
)

// Field names an extracted article field.
type Field string

// Field constants.
const (
	FieldTitle       Field = "title"
	FieldKeywords    Field = "keywords"
	FieldDescription Field = "description"
	FieldSummary     Field = "summary"
	FieldContent     Field = "content"
)

// RawFields holds field values as read from the page, before normalization.
type RawFields struct {
	Title       string
	Keywords    string
	Description string
	Summary     string
	Content     string

	// FieldErrors lists fields that degraded to an empty value because
	// their selector could not be evaluated.
	FieldErrors []*FieldError
}

// FieldError records a field that could not be extracted.
type FieldError struct {
	Field Field
	Err   error
}

func (e *FieldError) Error() string {
	return string(e.Field) + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// SourceAdapter extracts raw fields from a rendered page for one or more sources.
type SourceAdapter interface {
	// Extract reads the fields of page. An unmatched or unset selector
	// yields an empty field, never an error.
	Extract(ctx context.Context, page Page, spec FieldSpec) (*RawFields, error)
}

// AdapterRegistry maps source IDs to adapters.
type AdapterRegistry interface {
	// Resolve returns the adapter for a source.
	// Returns EUNKNOWNSOURCE if no adapter is registered.
	Resolve(sourceID string) (SourceAdapter, error)

	// Register adds an adapter for a source, replacing any existing one.
	Register(sourceID string, adapter SourceAdapter)

	// List returns all registered source IDs in sorted order.
	List() []string
}

// FieldMode selects how a selector is evaluated.
type FieldMode int

const (
	// ModeNone leaves the field empty regardless of configuration.
	ModeNone FieldMode = iota
	// ModeTextOfOne reads the text content of the first match.
	ModeTextOfOne
	// ModeAttributeOfOne reads an attribute of the first match.
	ModeAttributeOfOne
	// ModeJoinTextOfMany joins the trimmed text of every match.
	ModeJoinTextOfMany
	// ModeJoinMarkupOfMany joins the inner markup of every match.
	ModeJoinMarkupOfMany
	// ModeJoinAttributeOfMany joins an attribute of every match.
	ModeJoinAttributeOfMany
)

// FieldRule describes how one field is read.
type FieldRule struct {
	Mode FieldMode

	// Attr is the attribute name for ModeAttributeOfOne and
	// ModeJoinAttributeOfMany.
	Attr string

	// Separator joins matches in the ModeJoin* modes.
	Separator string

	// TrimPrefix is removed from each trimmed match in ModeJoinTextOfMany.
	TrimPrefix string

	// Selector, when set, replaces the configured selector. It pins sources
	// whose markup fixes the element regardless of configuration.
	Selector string
}

// Text returns a rule reading the text of the first match.
func Text() FieldRule {
	return FieldRule{Mode: ModeTextOfOne}
}

// Attribute returns a rule reading an attribute of the first match.
func Attribute(name string) FieldRule {
	return FieldRule{Mode: ModeAttributeOfOne, Attr: name}
}

// JoinText returns a rule joining the text of every match.
func JoinText(sep string) FieldRule {
	return FieldRule{Mode: ModeJoinTextOfMany, Separator: sep}
}

// JoinAttribute returns a rule joining an attribute of every match.
func JoinAttribute(name, sep string) FieldRule {
	return FieldRule{Mode: ModeJoinAttributeOfMany, Attr: name, Separator: sep}
}

// JoinMarkup returns a rule joining the inner markup of every match.
func JoinMarkup(sep string) FieldRule {
	return FieldRule{Mode: ModeJoinMarkupOfMany, Separator: sep}
}

// ExtractField evaluates rule against page using selector. It returns an
// empty string when the rule is ModeNone, the selector is empty, or
// nothing matches. Errors come from the page, typically ESELECTOR.
func ExtractField(page Page, selector string, rule FieldRule) (string, error) {
	if rule.Selector != "" {
		selector = rule.Selector
	}
	if rule.Mode == ModeNone || strings.TrimSpace(selector) == "" {
		return "", nil
	}

	switch rule.Mode {
	case ModeTextOfOne:
		s, _, err := page.QueryText(selector)
		return s, err
	case ModeAttributeOfOne:
		s, _, err := page.QueryAttribute(selector, rule.Attr)
		return s, err
	case ModeJoinTextOfMany:
		texts, err := page.QueryAllText(selector)
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, len(texts))
		for _, t := range texts {
			t = strings.TrimSpace(t)
			if rule.TrimPrefix != "" {
				t = strings.TrimPrefix(t, rule.TrimPrefix)
			}
			parts = append(parts, t)
		}
		return strings.Join(parts, rule.Separator), nil
	case ModeJoinMarkupOfMany:
		markup, err := page.QueryAllMarkup(selector)
		if err != nil {
			return "", err
		}
		return strings.Join(markup, rule.Separator), nil
	case ModeJoinAttributeOfMany:
		values, err := page.QueryAllAttribute(selector, rule.Attr)
		if err != nil {
			return "", err
		}
		return strings.Join(values, rule.Separator), nil
	default:
		return "", Errorf(EINVALID, "unknown field mode %d", rule.Mode)
	}
}

// Layout assigns a rule to every field.
type Layout struct {
	Title       FieldRule
	Keywords    FieldRule
	Description FieldRule
	Summary     FieldRule
	Content     FieldRule
}

// StandardLayout is the layout most sources share: the document title,
// keywords and description from meta tags, no summary, and the inner
// markup of every content match joined by newlines.
func StandardLayout() Layout {
	return Layout{
		Title:       Text(),
		Keywords:    Attribute("content"),
		Description: Attribute("content"),
		Content:     JoinMarkup("\n"),
	}
}

// Ensure GenericAdapter implements SourceAdapter at compile time.
var _ SourceAdapter = (*GenericAdapter)(nil)

// GenericAdapter applies a source's configured selectors according to a Layout.
type GenericAdapter struct {
	Layout Layout
}

// NewGenericAdapter returns a GenericAdapter for layout.
func NewGenericAdapter(layout Layout) *GenericAdapter {
	return &GenericAdapter{Layout: layout}
}

// Extract reads every field. A selector error empties its field and is
// reported in RawFields.FieldErrors; a canceled context aborts extraction.
func (a *GenericAdapter) Extract(ctx context.Context, page Page, spec FieldSpec) (*RawFields, error) {
	raw := &RawFields{}
	fields := []struct {
		name     Field
		selector string
		rule     FieldRule
		dst      *string
	}{
		{FieldTitle, spec.TitleSelector, a.Layout.Title, &raw.Title},
		{FieldKeywords, spec.KeywordSelector, a.Layout.Keywords, &raw.Keywords},
		{FieldDescription, spec.DescriptionSelector, a.Layout.Description, &raw.Description},
		{FieldSummary, spec.SummarySelector, a.Layout.Summary, &raw.Summary},
		{FieldContent, spec.ContentSelector, a.Layout.Content, &raw.Content},
	}
	for _, f := range fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := ExtractField(page, f.selector, f.rule)
		if err != nil {
			if ErrorCode(err) != ESELECTOR {
				return nil, err
			}
			raw.FieldErrors = append(raw.FieldErrors, &FieldError{Field: f.name, Err: err})
			continue
		}
		*f.dst = v
	}
	return raw, nil
}
