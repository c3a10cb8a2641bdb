package extract

import (
	"io"
	"strings"

	"github.com/fwojciec/newsgrab"
	"golang.org/x/net/html"
)

// ValidateMarkup returns EINVALIDDOCUMENT unless markup contains at least
// one element opened and later closed with a matching end tag. Rendered
// pages always pass; error pages served as plain text or truncated
// responses do not.
func ValidateMarkup(markup string) error {
	z := html.NewTokenizer(strings.NewReader(markup))
	open := make(map[string]bool)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return newsgrab.WrapError(err, newsgrab.EINVALIDDOCUMENT, "unreadable markup")
			}
			return newsgrab.Errorf(newsgrab.EINVALIDDOCUMENT, "no matched element in markup")
		case html.StartTagToken:
			name, _ := z.TagName()
			open[string(name)] = true
		case html.EndTagToken:
			name, _ := z.TagName()
			if open[string(name)] {
				return nil
			}
		}
	}
}
