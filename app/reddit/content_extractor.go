package reddit

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

const blockElements = "p, li, br, h1, h2, h3, h4, h5, h6, pre, blockquote, tr"

// ContentExtractor turns submission HTML into plain text. Reddit self posts carry
// their body in a div.md block; other documents go through readability.
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Run returns an empty string for link posts and other HTML without a body.
func (e *ContentExtractor) Run(data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if body := doc.Find("div.md").First(); body.Length() > 0 {
		return selectionText(body), nil
	}

	// Link posts only carry the "submitted by" table.
	doc.Find("table, script, style").Remove()
	if doc.Find("p").Length() == 0 {
		return "", nil
	}

	article, err := readability.FromReader(bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := collapseSpace(article.TextContent)

	slog.Debug("Content extracted with readability",
		"title", article.Title,
		"content_length", len(text))

	return text, nil
}

func selectionText(sel *goquery.Selection) string {
	sel.Find(blockElements).AfterHtml(" ")
	return collapseSpace(sel.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
