package governor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/reply-comb/app/filter"
)

type State string

const (
	StateFetching             State = "FETCHING"
	StateEvaluating           State = "EVALUATING"
	StateSelectingTopic       State = "SELECTING_TOPIC"
	StateComposing            State = "COMPOSING"
	StateAwaitingConfirmation State = "AWAITING_CONFIRMATION"
	StateSubmitting           State = "SUBMITTING"
	StateRecording            State = "RECORDING"
	StateDone                 State = "DONE"
)

// Per-item outcomes tallied next to the eligibility rejections.
const (
	ReasonNoTopicFound     filter.Reason = "NO_TOPIC_FOUND"
	ReasonInvalidTopic     filter.Reason = "INVALID_TOPIC"
	ReasonSubmitFailed     filter.Reason = "SUBMIT_FAILED"
	ReasonOperatorDeclined filter.Reason = "OPERATOR_DECLINED"
)

const (
	DefaultBatchSize      = 10
	DefaultCooldown       = 30 * time.Second
	DefaultOriginSelector = "AskReddit+explainlikeimfive"
)

type Decision int

const (
	Decline Decision = iota
	Approve
	Quit
)

func (d Decision) String() string {
	switch d {
	case Approve:
		return "approve"
	case Quit:
		return "quit"
	default:
		return "decline"
	}
}

// ConfirmFunc asks an operator whether a proposed reply may be posted.
type ConfirmFunc func(ctx context.Context, proposal Proposal) (Decision, error)

type RunOptions struct {
	Conditions *filter.Conditions
	DryRun     bool
	MaxReplies int
	Confirm    ConfirmFunc
}

// Proposal is a composed reply for one item.
type Proposal struct {
	ItemID    string `json:"item_id"`
	Origin    string `json:"origin"`
	URL       string `json:"url"`
	Topic     string `json:"topic"`
	Text      string `json:"text"`
	Simulated bool   `json:"simulated"`
	ReplyID   string `json:"reply_id,omitempty"`
}

type RunReport struct {
	DryRun          bool                  `json:"dry_run"`
	MaxReplies      int                   `json:"max_replies"`
	RepliesMade     int                   `json:"replies_made"`
	ItemsFetched    int                   `json:"items_fetched"`
	ItemsSeen       int                   `json:"items_seen"`
	Rejections      map[filter.Reason]int `json:"rejections"`
	Proposals       []Proposal            `json:"proposals"`
	Quit            bool                  `json:"quit"`
	BudgetExhausted bool                  `json:"budget_exhausted"`
	StartedAt       time.Time             `json:"started_at"`
	Duration        time.Duration         `json:"duration"`
}

func newRunReport(opts RunOptions) *RunReport {
	return &RunReport{
		DryRun:     opts.DryRun,
		MaxReplies: opts.MaxReplies,
		Rejections: make(map[filter.Reason]int),
		Proposals:  []Proposal{},
		StartedAt:  time.Now().UTC(),
	}
}

func (r *RunReport) reject(reason filter.Reason) {
	r.Rejections[reason]++
	itemsRejected.WithLabelValues(string(reason)).Inc()
}

// SimulatedReplies counts the dry-run replies included in RepliesMade.
func (r *RunReport) SimulatedReplies() int {
	count := 0
	for _, p := range r.Proposals {
		if p.Simulated {
			count++
		}
	}
	return count
}

func (r *RunReport) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Bool("dry_run", r.DryRun),
		slog.Int("replies", r.RepliesMade),
		slog.Int("simulated", r.SimulatedReplies()),
		slog.Int("max_replies", r.MaxReplies),
		slog.Int("fetched", r.ItemsFetched),
		slog.Int("seen", r.ItemsSeen),
		slog.Bool("quit", r.Quit),
		slog.Bool("budget_exhausted", r.BudgetExhausted),
		slog.Duration("duration", r.Duration),
	}
	for reason, count := range r.Rejections {
		attrs = append(attrs, slog.Int(string(reason), count))
	}
	return slog.GroupValue(attrs...)
}

// RunError is a failure that halted the run.
type RunError struct {
	Stage  State
	ItemID string
	Err    error
}

func (e *RunError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("run halted at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("run halted at %s for item %s: %v", e.Stage, e.ItemID, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
