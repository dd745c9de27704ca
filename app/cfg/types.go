package cfg

import (
	"time"
)

type Cfg struct {
	// Reddit account
	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string

	// Run behaviour
	Subreddits         string
	BatchSize          int
	MaxReplies         int
	Live               bool
	NoConfirm          bool
	Cooldown           time.Duration
	SentimentThreshold float64

	// Eligibility conditions
	Keywords       []string
	Origins        []string
	OnlyNegative   bool
	ConditionsFile string

	// Ledger
	LedgerDriver    string
	LedgerPath      string
	LedgerOnCorrupt string

	// Daemon mode
	Schedule     string
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	Timezone   string
	Debug      bool
	Version    string
}

// DryRun is the default; replies are only posted with --live.
func (c *Cfg) DryRun() bool {
	return !c.Live
}

func (c *Cfg) IsDaemon() bool {
	return c.Schedule != ""
}
