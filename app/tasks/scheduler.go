package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/lysyi3m/reply-comb/app/governor"
	"github.com/lysyi3m/reply-comb/app/ledger"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

var ErrQueueFull = errors.New("a run is already queued")

// Scheduler triggers reply runs on a cron schedule and executes them on a single
// worker, so two runs never overlap.
type Scheduler struct {
	runner    Runner
	recorder  ReportRecorder
	opts      governor.RunOptions
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
	fatal     chan error
}

func NewScheduler(runner Runner, recorder ReportRecorder, opts governor.RunOptions, schedule string) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		runner:    runner,
		recorder:  recorder,
		opts:      opts,
		cron:      cron.New(cron.WithLogger(cronLogger{inner: slog.Default().With("subsystem", "cron")})),
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, 1),
		fatal:     make(chan error, 1),
	}

	if _, err := s.cron.AddFunc(schedule, s.enqueueScheduled); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	if _, err := s.EnqueueRun(TriggerStartup, false); err != nil {
		slog.Warn("Failed to enqueue startup run", "error", err)
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
	s.wg.Wait()
}

// Fatal delivers the error that made the scheduler stop processing runs.
func (s *Scheduler) Fatal() <-chan error {
	return s.fatal
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return ErrQueueFull
	}
}

// EnqueueRun queues a run with the configured options. forceDryRun can only make a
// run safer: it never turns a dry-run configuration into a live one.
func (s *Scheduler) EnqueueRun(trigger Trigger, forceDryRun bool) (string, error) {
	opts := s.opts
	opts.DryRun = opts.DryRun || forceDryRun

	task := NewRunRepliesTask(trigger, opts, s.runner, s.recorder)
	if err := s.EnqueueTask(task); err != nil {
		return "", err
	}

	slog.Debug("Run enqueued", "id", task.GetID(), "trigger", trigger, "dry_run", opts.DryRun)
	return task.GetID(), nil
}

func (s *Scheduler) enqueueScheduled() {
	if _, err := s.EnqueueRun(TriggerSchedule, false); err != nil {
		slog.Warn("Skipping scheduled run", "error", err)
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			if !s.executeTask(task) {
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// executeTask returns false once a fatal error means no further run may start.
func (s *Scheduler) executeTask(task TaskInterface) bool {
	task.Start()

	err := task.Execute(s.ctx)
	if err == nil {
		slog.Info("Task completed", "type", string(task.GetType()), "id", task.GetID(), "duration", task.GetDuration().String())
		return true
	}

	if errors.Is(err, context.Canceled) && s.ctx.Err() != nil {
		slog.Info("Task interrupted by shutdown", "type", string(task.GetType()), "id", task.GetID())
		return false
	}

	if isFatal(err) {
		slog.Error("Task failed fatally, stopping scheduler", "type", string(task.GetType()), "id", task.GetID(), "error", err)
		s.cancel()
		select {
		case s.fatal <- err:
		default:
		}
		return false
	}

	slog.Warn("Task failed, waiting for next schedule", "type", string(task.GetType()), "id", task.GetID(), "error", err)
	return true
}

// isFatal reports errors after which the ledger may no longer reflect posted replies.
func isFatal(err error) bool {
	if errors.Is(err, ledger.ErrStorageWrite) {
		return true
	}

	var runErr *governor.RunError
	return errors.As(err, &runErr) && runErr.Stage == governor.StateRecording
}

type cronLogger struct {
	inner *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.inner.Error(msg, append(keysAndValues, "error", err)...)
}
