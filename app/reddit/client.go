package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/reply-comb/app/content"
)

// Client talks to the authenticated Reddit API. It fetches new submissions and posts
// replies as the configured account.
type Client struct {
	credentials  Credentials
	opts         Options
	httpClient   *http.Client
	submitClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(credentials Credentials, opts Options) *Client {
	opts = opts.withDefaults()

	return &Client{
		credentials:  credentials,
		opts:         opts,
		httpClient:   NewHTTPClient(opts.Timeout, opts.MaxRetries),
		submitClient: NewSubmitHTTPClient(opts.Timeout),
	}
}

// Username is the identity replies are posted under.
func (c *Client) Username() string {
	return c.credentials.Username
}

// FetchRecent returns up to limit of the newest submissions for a "+"-joined subreddit
// selector. Submissions whose body was deleted or removed are skipped.
func (c *Client) FetchRecent(ctx context.Context, selector string, limit int) ([]content.Item, error) {
	endpoint := fmt.Sprintf("%s/r/%s/new?limit=%s&raw_json=1", c.opts.APIURL, url.PathEscape(selector), formatLimit(limit))

	resp, err := c.do(ctx, c.httpClient, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch r/%s: %w", selector, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch r/%s: %w", selector, statusError(resp))
	}

	var page listing
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	items := make([]content.Item, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		post := child.Data
		if isRemovedBody(post.Selftext) {
			slog.Debug("Skipping removed submission", "id", post.ID)
			continue
		}

		items = append(items, content.Item{
			ID:          post.ID,
			Text:        joinText(post.Title, post.Selftext),
			Origin:      post.Subreddit,
			Author:      normalizeAuthor(post.Author),
			URL:         permalinkBase + post.Permalink,
			Score:       post.Score,
			NumComments: post.NumComments,
		})
	}

	return items, nil
}

// SubmitReply posts text as a top-level comment on the submission and returns the
// new comment's fullname. All failures wrap content.ErrSubmit.
func (c *Client) SubmitReply(ctx context.Context, itemID, text string) (string, error) {
	form := url.Values{
		"api_type": {"json"},
		"thing_id": {"t3_" + strings.TrimPrefix(itemID, "t3_")},
		"text":     {text},
	}

	// Sent once: a retry after a gateway error could post the comment twice.
	resp, err := c.do(ctx, c.submitClient, http.MethodPost, c.opts.APIURL+"/api/comment", form)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", content.ErrSubmit, itemID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s: %w", content.ErrSubmit, itemID, statusError(resp))
	}

	var result commentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %s: failed to decode response: %w", content.ErrSubmit, itemID, err)
	}

	if len(result.JSON.Errors) > 0 {
		return "", fmt.Errorf("%w: %s: %s", content.ErrSubmit, itemID, formatAPIErrors(result.JSON.Errors))
	}

	if len(result.JSON.Data.Things) == 0 {
		return "", fmt.Errorf("%w: %s: response contained no comment", content.ErrSubmit, itemID)
	}

	comment := result.JSON.Data.Things[0].Data
	slog.Info("Comment posted", "id", itemID, "comment", comment.Name, "url", permalinkBase+comment.Permalink)

	return comment.Name, nil
}

func (c *Client) do(ctx context.Context, httpClient *http.Client, method, endpoint string, form url.Values) (*http.Response, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("User-Agent", c.opts.UserAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateToken()
	}

	return resp, nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type": {"password"},
		"username":   {c.credentials.Username},
		"password":   {c.credentials.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.credentials.ClientID, c.credentials.ClientSecret)
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %w", ErrAuth, statusError(resp))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: failed to decode token: %w", ErrAuth, err)
	}
	if token.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrAuth, token.Error)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuth)
	}

	// Refresh a minute early so a token never expires mid-request.
	ttl := time.Duration(token.ExpiresIn)*time.Second - time.Minute
	if ttl <= 0 {
		ttl = time.Duration(token.ExpiresIn) * time.Second
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(ttl)

	slog.Debug("Reddit access token obtained", "user", c.credentials.Username, "expires_in", token.ExpiresIn)

	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.tokenExpiry = time.Time{}
}

func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, msg)
}

// formatAPIErrors renders Reddit's [code, message, field] triples.
func formatAPIErrors(errs [][]any) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		fields := make([]string, 0, len(e))
		for _, f := range e {
			if s, ok := f.(string); ok && s != "" {
				fields = append(fields, s)
			}
		}
		parts = append(parts, strings.Join(fields, ": "))
	}
	return strings.Join(parts, "; ")
}

func formatLimit(limit int) string {
	return strconv.Itoa(max(limit, 1))
}
