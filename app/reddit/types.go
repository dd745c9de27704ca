package reddit

import (
	"errors"
	"strings"
	"time"
)

const (
	DefaultAuthURL   = "https://www.reddit.com/api/v1/access_token"
	DefaultAPIURL    = "https://oauth.reddit.com"
	DefaultPublicURL = "https://www.reddit.com"
	DefaultUserAgent = "reply-comb/1.0"

	permalinkBase = "https://reddit.com"
)

var (
	ErrAuth     = errors.New("reddit authentication failed")
	ErrReadOnly = errors.New("source is read-only")
)

// Credentials for the OAuth password grant of a Reddit script app.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

func (c Credentials) IsComplete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Username != "" && c.Password != ""
}

type Options struct {
	AuthURL    string
	APIURL     string
	PublicURL  string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
}

func (o Options) withDefaults() Options {
	if o.AuthURL == "" {
		o.AuthURL = DefaultAuthURL
	}
	if o.APIURL == "" {
		o.APIURL = DefaultAPIURL
	}
	if o.PublicURL == "" {
		o.PublicURL = DefaultPublicURL
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	o.AuthURL = strings.TrimRight(o.AuthURL, "/")
	o.APIURL = strings.TrimRight(o.APIURL, "/")
	o.PublicURL = strings.TrimRight(o.PublicURL, "/")
	return o
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []struct {
			Kind string `json:"kind"`
			Data link   `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type link struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Selftext    string `json:"selftext"`
	Subreddit   string `json:"subreddit"`
	Author      string `json:"author"`
	Permalink   string `json:"permalink"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
}

type commentResponse struct {
	JSON struct {
		Errors [][]any `json:"errors"`
		Data   struct {
			Things []struct {
				Data struct {
					ID        string `json:"id"`
					Name      string `json:"name"`
					Permalink string `json:"permalink"`
				} `json:"data"`
			} `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

// Placeholder bodies and author names the platform uses for removed content.
const (
	deletedMarker = "[deleted]"
	removedMarker = "[removed]"
)

func isRemovedBody(text string) bool {
	text = strings.TrimSpace(text)
	return text == deletedMarker || text == removedMarker
}

func normalizeAuthor(author string) string {
	author = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(author), "/u/"))
	if author == deletedMarker {
		return ""
	}
	return author
}

func joinText(title, body string) string {
	return title + " " + body
}
