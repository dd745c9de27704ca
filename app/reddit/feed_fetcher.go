package reddit

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/reply-comb/app/content"
)

// FeedFetcher reads the public Atom feed of new submissions. It needs no credentials
// and cannot post, so it only serves dry runs.
type FeedFetcher struct {
	opts         Options
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	extractor    *ContentExtractor
}

func NewFeedFetcher(opts Options) *FeedFetcher {
	opts = opts.withDefaults()

	return &FeedFetcher{
		opts:         opts,
		httpClient:   NewHTTPClient(opts.Timeout, opts.MaxRetries),
		gofeedParser: gofeed.NewParser(),
		extractor:    NewContentExtractor(),
	}
}

func (f *FeedFetcher) FetchRecent(ctx context.Context, selector string, limit int) ([]content.Item, error) {
	endpoint := fmt.Sprintf("%s/r/%s/new/.rss?limit=%s", f.opts.PublicURL, url.PathEscape(selector), formatLimit(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch r/%s feed: %w", selector, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch r/%s feed: %w", selector, statusError(resp))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}

	items, err := f.Parse(data)
	if err != nil {
		return nil, err
	}

	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

// SubmitReply always fails: the public feed is read-only.
func (f *FeedFetcher) SubmitReply(ctx context.Context, itemID, text string) (string, error) {
	return "", fmt.Errorf("%w: %s: %w", content.ErrSubmit, itemID, ErrReadOnly)
}

// Parse converts a Reddit Atom feed into items, skipping removed submissions.
func (f *FeedFetcher) Parse(data []byte) ([]content.Item, error) {
	feed, err := f.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]content.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		body, err := f.extractor.Run([]byte(cmp.Or(entry.Content, entry.Description)))
		if err != nil {
			slog.Warn("Failed to extract submission body", "id", entry.GUID, "error", err)
		}
		if isRemovedBody(body) {
			slog.Debug("Skipping removed submission", "id", entry.GUID)
			continue
		}

		items = append(items, content.Item{
			ID:     strings.TrimPrefix(cmp.Or(entry.GUID, entry.Link), "t3_"),
			Text:   joinText(entry.Title, body),
			Origin: f.extractOrigin(entry),
			Author: f.extractAuthor(entry),
			URL:    entry.Link,
		})
	}

	return items, nil
}

func (f *FeedFetcher) extractAuthor(entry *gofeed.Item) string {
	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		return normalizeAuthor(entry.Authors[0].Name)
	}
	if entry.Author != nil {
		return normalizeAuthor(entry.Author.Name)
	}
	return ""
}

func (f *FeedFetcher) extractOrigin(entry *gofeed.Item) string {
	if len(entry.Categories) > 0 {
		return strings.TrimPrefix(entry.Categories[0], "r/")
	}
	return ""
}
