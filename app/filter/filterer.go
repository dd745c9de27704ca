package filter

import (
	"slices"
	"strings"

	"github.com/lysyi3m/reply-comb/app/content"
)

type Filterer struct {
	scorer    Scorer
	threshold float64
}

func NewFilterer(scorer Scorer, threshold float64) *Filterer {
	return &Filterer{
		scorer:    scorer,
		threshold: threshold,
	}
}

// ShouldReply applies the rules in a fixed order and stops at the first rejection.
// Identity and dedup checks run before any text analysis.
func (f *Filterer) ShouldReply(item content.Item, conditions *Conditions, botIdentity string, ledger ReplyLedger) (bool, Reason) {
	if f.isSelfAuthored(item, botIdentity) {
		return false, ReasonSelfAuthored
	}

	if f.isAlreadyReplied(item, ledger) {
		return false, ReasonAlreadyReplied
	}

	if conditions == nil {
		return true, ReasonOK
	}

	if conditions.RequiredKeywords != nil && !f.containsKeywords(item.Text, conditions.RequiredKeywords) {
		return false, ReasonKeywordsMissing
	}

	if conditions.OnlyNegativeSentiment && !f.hasNegativeSentiment(item.Text) {
		return false, ReasonSentimentNotNegative
	}

	if conditions.AllowedOrigins != nil && !f.isOriginAllowed(item.Origin, conditions.AllowedOrigins) {
		return false, ReasonOriginNotAllowed
	}

	return true, ReasonOK
}

func (f *Filterer) isSelfAuthored(item content.Item, botIdentity string) bool {
	return botIdentity != "" && item.Author == botIdentity
}

func (f *Filterer) isAlreadyReplied(item content.Item, ledger ReplyLedger) bool {
	return ledger != nil && ledger.Contains(item.ID)
}

func (f *Filterer) containsKeywords(text string, keywords []string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func (f *Filterer) hasNegativeSentiment(text string) bool {
	if f.scorer == nil {
		return false
	}
	return f.scorer.Score(text) < f.threshold
}

func (f *Filterer) isOriginAllowed(origin string, allowed []string) bool {
	return slices.Contains(allowed, origin)
}
