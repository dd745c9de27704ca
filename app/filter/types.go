package filter

import (
	"fmt"
	"strings"
)

// Reason explains why an item was accepted or rejected.
type Reason string

const (
	ReasonOK                   Reason = "OK"
	ReasonSelfAuthored         Reason = "SELF_AUTHORED"
	ReasonAlreadyReplied       Reason = "ALREADY_REPLIED"
	ReasonKeywordsMissing      Reason = "KEYWORDS_MISSING"
	ReasonSentimentNotNegative Reason = "SENTIMENT_NOT_NEGATIVE"
	ReasonOriginNotAllowed     Reason = "ORIGIN_NOT_ALLOWED"
)

const DefaultSentimentThreshold = -0.1

// Conditions narrows which items receive a reply. A nil list means the rule is not applied.
type Conditions struct {
	RequiredKeywords      []string `yaml:"required_keywords"`
	OnlyNegativeSentiment bool     `yaml:"only_negative_sentiment"`
	AllowedOrigins        []string `yaml:"allowed_origins"`
}

func (c *Conditions) IsEmpty() bool {
	return c == nil || (c.RequiredKeywords == nil && !c.OnlyNegativeSentiment && c.AllowedOrigins == nil)
}

func (c *Conditions) String() string {
	if c.IsEmpty() {
		return "none"
	}

	var parts []string
	if c.RequiredKeywords != nil {
		parts = append(parts, fmt.Sprintf("required_keywords=[%s]", strings.Join(c.RequiredKeywords, ", ")))
	}
	if c.OnlyNegativeSentiment {
		parts = append(parts, "only_negative_sentiment=true")
	}
	if c.AllowedOrigins != nil {
		parts = append(parts, fmt.Sprintf("allowed_origins=[%s]", strings.Join(c.AllowedOrigins, ", ")))
	}
	return strings.Join(parts, " ")
}

// Scorer rates text polarity in [-1, 1].
type Scorer interface {
	Score(text string) float64
}

// ReplyLedger reports whether an item was already answered.
type ReplyLedger interface {
	Contains(id string) bool
}
