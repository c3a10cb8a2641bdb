package newsgrab

import (
	"html"
	"regexp"
	"strings"
	"time"
)

var (
	tagPattern      = regexp.MustCompile(`</?[^>]+(>|$)`)
	newlinesPattern = regexp.MustCompile(`\n+`)
)

// Normalize turns raw field markup into plain text. It decodes HTML
// entities, strips tags, collapses runs of newlines into one and trims
// surrounding whitespace. Decoding and stripping repeat until the text
// stops changing, so escaped markup such as "&lt;b&gt;" is removed too and
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := raw
	for {
		next := tagPattern.ReplaceAllString(html.UnescapeString(s), "")
		if next == s {
			break
		}
		s = next
	}
	s = newlinesPattern.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// Clean builds the record for itemID from raw fields. Titles and keywords
// are expected to be plain text already and are only trimmed; the other
// fields may carry markup and are normalized.
func Clean(itemID string, raw *RawFields, now time.Time) *ExtractedRecord {
	return &ExtractedRecord{
		ItemID:      itemID,
		Title:       strings.TrimSpace(raw.Title),
		Keywords:    strings.TrimSpace(raw.Keywords),
		Description: Normalize(raw.Description),
		Summary:     Normalize(raw.Summary),
		Content:     Normalize(raw.Content),
		ProcessedAt: now,
	}
}
