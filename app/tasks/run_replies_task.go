package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/reply-comb/app/governor"
)

type RunRepliesTask struct {
	Task
	Options  governor.RunOptions
	runner   Runner
	recorder ReportRecorder
}

func NewRunRepliesTask(trigger Trigger, opts governor.RunOptions, runner Runner, recorder ReportRecorder) *RunRepliesTask {
	return &RunRepliesTask{
		Task:     NewTask(TaskTypeRunReplies, trigger),
		Options:  opts,
		runner:   runner,
		recorder: recorder,
	}
}

func (t *RunRepliesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	slog.Debug("Starting reply run", "id", t.ID, "trigger", t.Trigger, "dry_run", t.Options.DryRun)

	report, err := t.runner.Run(ctx, t.Options)

	if t.recorder != nil {
		t.recorder.Record(t, report, err)
	}

	if err != nil {
		return fmt.Errorf("reply run failed: %w", err)
	}

	return nil
}
