package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/reply-comb/app/filter"
	"github.com/lysyi3m/reply-comb/app/ledger"
	"github.com/lysyi3m/reply-comb/app/reddit"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Reddit account
	RedditClientID     string `long:"reddit-client-id" env:"REDDIT_CLIENT_ID" description:"Reddit script app client ID"`
	RedditClientSecret string `long:"reddit-client-secret" env:"REDDIT_CLIENT_SECRET" description:"Reddit script app client secret"`
	RedditUsername     string `long:"reddit-username" env:"REDDIT_USERNAME" description:"Account replies are posted as"`
	RedditPassword     string `long:"reddit-password" env:"REDDIT_PASSWORD" description:"Password of the posting account"`

	// Run behaviour
	Subreddits         string        `long:"subreddits" env:"SUBREDDITS" default:"AskReddit+explainlikeimfive" description:"Subreddits to watch, joined with '+'"`
	BatchSize          int           `long:"batch-size" env:"BATCH_SIZE" default:"10" description:"Number of newest submissions fetched per run"`
	MaxReplies         int           `long:"max-replies" env:"MAX_REPLIES" default:"3" description:"Maximum replies per run"`
	Live               bool          `long:"live" env:"LIVE" description:"Post replies (default is a dry run that posts nothing)"`
	NoConfirm          bool          `long:"no-confirm" env:"NO_CONFIRM" description:"Post without asking for confirmation on the console"`
	Cooldown           time.Duration `long:"cooldown" env:"COOLDOWN" default:"30s" description:"Pause between posted replies"`
	SentimentThreshold float64       `long:"sentiment-threshold" env:"SENTIMENT_THRESHOLD" default:"-0.1" description:"Score below which text counts as negative"`

	// Eligibility conditions
	Keywords       []string `long:"keyword" env:"KEYWORDS" env-delim:"," description:"Required keyword, at least one must appear (repeatable)"`
	Origins        []string `long:"origin" env:"ORIGINS" env-delim:"," description:"Allowed subreddit (repeatable)"`
	OnlyNegative   bool     `long:"only-negative" env:"ONLY_NEGATIVE" description:"Only reply to negative submissions"`
	ConditionsFile string   `long:"conditions" env:"CONDITIONS_FILE" description:"YAML file with eligibility conditions"`

	// Ledger
	LedgerDriver    string `long:"ledger-driver" env:"LEDGER_DRIVER" default:"file" choice:"file" choice:"sqlite" description:"Ledger storage backend"`
	LedgerPath      string `long:"ledger-path" env:"LEDGER_PATH" default:"replied_posts.json" description:"Ledger file or SQLite database path"`
	LedgerOnCorrupt string `long:"ledger-on-corrupt" env:"LEDGER_ON_CORRUPT" default:"abort" choice:"abort" choice:"reset" description:"What to do when the ledger cannot be read"`

	// Daemon mode
	Schedule     string `long:"schedule" env:"SCHEDULE" description:"Cron schedule for recurring runs (one-shot run when empty)"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port in daemon mode"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent  string        `long:"user-agent" env:"USER_AGENT" default:"reply-comb/1.0" description:"User agent string for HTTP requests"`
	Timeout    time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"HTTP request timeout"`
	MaxRetries int           `long:"max-retries" env:"MAX_RETRIES" default:"3" description:"Retries for failed HTTP requests"`
	Timezone   string        `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug      bool          `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return load(nil)
}

// load parses args, or the process arguments when args is nil.
func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		RedditClientID:     raw.RedditClientID,
		RedditClientSecret: raw.RedditClientSecret,
		RedditUsername:     raw.RedditUsername,
		RedditPassword:     raw.RedditPassword,
		Subreddits:         raw.Subreddits,
		BatchSize:          raw.BatchSize,
		MaxReplies:         raw.MaxReplies,
		Live:               raw.Live,
		NoConfirm:          raw.NoConfirm,
		Cooldown:           raw.Cooldown,
		SentimentThreshold: raw.SentimentThreshold,
		Keywords:           raw.Keywords,
		Origins:            raw.Origins,
		OnlyNegative:       raw.OnlyNegative,
		ConditionsFile:     raw.ConditionsFile,
		LedgerDriver:       raw.LedgerDriver,
		LedgerPath:         raw.LedgerPath,
		LedgerOnCorrupt:    raw.LedgerOnCorrupt,
		Schedule:           strings.TrimSpace(raw.Schedule),
		Port:               raw.Port,
		APIAccessKey:       raw.APIAccessKey,
		UserAgent:          raw.UserAgent,
		Timeout:            raw.Timeout,
		MaxRetries:         raw.MaxRetries,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}


func (c *Cfg) validate() error {
	var errs []error

	if c.MaxReplies < 0 {
		errs = append(errs, fmt.Errorf("max-replies must not be negative, got %d", c.MaxReplies))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch-size must be positive, got %d", c.BatchSize))
	}
	if c.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("cooldown must not be negative, got %s", c.Cooldown))
	}
	if c.SentimentThreshold < -1 || c.SentimentThreshold > 1 {
		errs = append(errs, fmt.Errorf("sentiment-threshold must be within [-1, 1], got %g", c.SentimentThreshold))
	}
	if _, err := ledger.ParseCorruptPolicy(c.LedgerOnCorrupt); err != nil {
		errs = append(errs, err)
	}

	if c.Live {
		if !c.Credentials().IsComplete() {
			errs = append(errs, errors.New("live mode requires REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USERNAME and REDDIT_PASSWORD"))
		}
		if c.IsDaemon() && !c.NoConfirm {
			errs = append(errs, errors.New("live scheduled runs cannot prompt for confirmation, add --no-confirm"))
		}
	}

	return errors.Join(errs...)
}

func (c *Cfg) Credentials() reddit.Credentials {
	return reddit.Credentials{
		ClientID:     c.RedditClientID,
		ClientSecret: c.RedditClientSecret,
		Username:     c.RedditUsername,
		Password:     c.RedditPassword,
	}
}

// Conditions combines the conditions file with the command-line rules, which take
// precedence. It returns nil when no rule is configured.
func (c *Cfg) Conditions() (*filter.Conditions, error) {
	var base *filter.Conditions
	if c.ConditionsFile != "" {
		loaded, err := filter.LoadConditions(c.ConditionsFile)
		if err != nil {
			return nil, err
		}
		base = loaded
	}

	override := &filter.Conditions{
		RequiredKeywords:      c.Keywords,
		OnlyNegativeSentiment: c.OnlyNegative,
		AllowedOrigins:        c.Origins,
	}
	if err := override.Validate(); err != nil {
		return nil, err
	}

	merged := base.Merge(override)
	if merged.IsEmpty() {
		return nil, nil
	}

	return merged, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
