package governor

import (
	"context"

	"github.com/lysyi3m/reply-comb/app/content"
	"github.com/lysyi3m/reply-comb/app/filter"
)

// Source fetches items and submits replies on the content platform.
// SubmitReply errors wrap content.ErrSubmit.
type Source interface {
	FetchRecent(ctx context.Context, selector string, limit int) ([]content.Item, error)
	SubmitReply(ctx context.Context, itemID, text string) (string, error)
}

type TopicSelector interface {
	SelectTopic(text string) (string, bool)
}

type ReplyComposer interface {
	Compose(word string) (string, error)
}

type Eligibility interface {
	ShouldReply(item content.Item, conditions *filter.Conditions, botIdentity string, ledger filter.ReplyLedger) (bool, filter.Reason)
}

type Ledger interface {
	Contains(id string) bool
	Record(id string) error
}

var _ Eligibility = (*filter.Filterer)(nil)
