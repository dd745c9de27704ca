package tasks

import (
	"context"

	"github.com/lysyi3m/reply-comb/app/governor"
)

// TaskSchedulerInterface is what the entrypoint and the status API need from the scheduler.
//
//	scheduler, err := NewScheduler(gov, history, opts, "*/15 * * * *")
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueRun(TriggerAPI, true)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueRun(trigger Trigger, forceDryRun bool) (string, error)
	Fatal() <-chan error
}

// Runner executes one reply run.
type Runner interface {
	Run(ctx context.Context, opts governor.RunOptions) (*governor.RunReport, error)
}

// ReportRecorder receives the outcome of every finished run.
type ReportRecorder interface {
	Record(task TaskInterface, report *governor.RunReport, err error)
}
