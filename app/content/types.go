package content

import (
	"errors"
)

// ErrSubmit is wrapped by every reply submission failure (transport, auth or platform policy).
var ErrSubmit = errors.New("reply submission failed")

// Item is a single piece of content fetched from the source.
type Item struct {
	ID          string
	Text        string // Title and body joined by a single space
	Origin      string // Grouping label, e.g. the subreddit name
	Author      string // Empty when the author account was deleted
	URL         string
	Score       int
	NumComments int
}

// Preview returns at most n runes of the item text for logging.
func (i Item) Preview(n int) string {
	runes := []rune(i.Text)
	if len(runes) <= n {
		return i.Text
	}
	return string(runes[:n]) + "..."
}
