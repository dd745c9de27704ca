package governor

import (
	"context"
	"log/slog"
	"time"
)

type Config struct {
	BotIdentity    string
	OriginSelector string
	BatchSize      int
	Cooldown       time.Duration
	// Sleep pauses between live submissions; nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Governor runs fetch, filter, compose, confirm, submit and record for one batch of items.
// Runs are strictly sequential; the ledger is owned by the governor while a run is active.
type Governor struct {
	source   Source
	filterer Eligibility
	selector TopicSelector
	composer ReplyComposer
	ledger   Ledger
	cfg      Config
}

func NewGovernor(source Source, filterer Eligibility, selector TopicSelector, composer ReplyComposer, ledger Ledger, cfg Config) *Governor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.OriginSelector == "" {
		cfg.OriginSelector = DefaultOriginSelector
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}

	return &Governor{
		source:   source,
		filterer: filterer,
		selector: selector,
		composer: composer,
		ledger:   ledger,
		cfg:      cfg,
	}
}

func (g *Governor) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	report := newRunReport(opts)
	defer func() {
		report.Duration = time.Since(report.StartedAt)
	}()

	slog.Info("Run started",
		"dry_run", opts.DryRun,
		"max_replies", opts.MaxReplies,
		"selector", g.cfg.OriginSelector,
		"conditions", opts.Conditions.String(),
		"interactive", opts.Confirm != nil && !opts.DryRun)

	g.enter(StateFetching, "")
	items, err := g.source.FetchRecent(ctx, g.cfg.OriginSelector, g.cfg.BatchSize)
	if err != nil {
		runsTotal.WithLabelValues("failed").Inc()
		return report, &RunError{Stage: StateFetching, Err: err}
	}
	report.ItemsFetched = len(items)
	slog.Info("Items fetched", "count", len(items))

	for i, item := range items {
		if report.RepliesMade >= opts.MaxReplies {
			slog.Info("Reached max replies limit", "max_replies", opts.MaxReplies)
			break
		}
		if err := ctx.Err(); err != nil {
			runsTotal.WithLabelValues("canceled").Inc()
			return report, err
		}

		report.ItemsSeen++
		itemsSeen.Inc()

		g.enter(StateEvaluating, item.ID)
		slog.Debug("Evaluating item",
			"position", i+1,
			"total", len(items),
			"id", item.ID,
			"origin", item.Origin,
			"author", item.Author,
			"score", item.Score,
			"comments", item.NumComments,
			"text", item.Preview(200))

		ok, reason := g.filterer.ShouldReply(item, opts.Conditions, g.cfg.BotIdentity, g.ledger)
		if !ok {
			slog.Info("Item skipped", "id", item.ID, "reason", reason)
			report.reject(reason)
			continue
		}

		g.enter(StateSelectingTopic, item.ID)
		word, found := g.selector.SelectTopic(item.Text)
		if !found {
			slog.Info("Item skipped", "id", item.ID, "reason", ReasonNoTopicFound)
			report.reject(ReasonNoTopicFound)
			continue
		}

		g.enter(StateComposing, item.ID)
		text, err := g.composer.Compose(word)
		if err != nil {
			slog.Warn("Item skipped", "id", item.ID, "reason", ReasonInvalidTopic, "topic", word, "error", err)
			report.reject(ReasonInvalidTopic)
			continue
		}

		proposal := Proposal{
			ItemID: item.ID,
			Origin: item.Origin,
			URL:    item.URL,
			Topic:  word,
			Text:   text,
		}
		slog.Info("Proposed reply", "id", item.ID, "origin", item.Origin, "url", item.URL, "reply", text)

		if !opts.DryRun && opts.Confirm != nil {
			g.enter(StateAwaitingConfirmation, item.ID)
			decision, err := opts.Confirm(ctx, proposal)
			if err != nil {
				runsTotal.WithLabelValues("failed").Inc()
				return report, &RunError{Stage: StateAwaitingConfirmation, ItemID: item.ID, Err: err}
			}

			switch decision {
			case Quit:
				slog.Info("Run stopped by operator", "id", item.ID)
				report.Quit = true
				runsTotal.WithLabelValues("quit").Inc()
				return report, nil
			case Decline:
				slog.Info("Item skipped", "id", item.ID, "reason", ReasonOperatorDeclined)
				report.reject(ReasonOperatorDeclined)
				continue
			}
		}

		g.enter(StateSubmitting, item.ID)
		if opts.DryRun {
			slog.Info("DRY RUN - would reply", "id", item.ID, "reply", text)
			proposal.Simulated = true
			report.Proposals = append(report.Proposals, proposal)
			report.RepliesMade++
			repliesTotal.WithLabelValues("dry_run").Inc()
			continue
		}

		replyID, err := g.source.SubmitReply(ctx, item.ID, text)
		if err != nil {
			slog.Warn("Failed to submit reply", "id", item.ID, "error", err)
			report.reject(ReasonSubmitFailed)
			continue
		}

		g.enter(StateRecording, item.ID)
		if err := g.ledger.Record(item.ID); err != nil {
			slog.Error("Reply submitted but not recorded in ledger", "id", item.ID, "reply_id", replyID, "error", err)
			runsTotal.WithLabelValues("failed").Inc()
			return report, &RunError{Stage: StateRecording, ItemID: item.ID, Err: err}
		}

		proposal.ReplyID = replyID
		report.Proposals = append(report.Proposals, proposal)
		report.RepliesMade++
		repliesTotal.WithLabelValues("live").Inc()
		slog.Info("Reply submitted", "id", item.ID, "reply_id", replyID)

		if report.RepliesMade < opts.MaxReplies && i < len(items)-1 {
			slog.Info("Waiting before next reply", "cooldown", g.cfg.Cooldown)
			if err := g.cfg.Sleep(ctx, g.cfg.Cooldown); err != nil {
				runsTotal.WithLabelValues("canceled").Inc()
				return report, err
			}
		}
	}

	report.BudgetExhausted = report.RepliesMade >= opts.MaxReplies
	g.enter(StateDone, "")
	runsTotal.WithLabelValues("completed").Inc()

	slog.Info("Run completed", "report", report)

	return report, nil
}

func (g *Governor) enter(state State, itemID string) {
	slog.Debug("Governor state", "state", state, "id", itemID)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
