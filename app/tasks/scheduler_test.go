package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lysyi3m/reply-comb/app/governor"
	"github.com/lysyi3m/reply-comb/app/ledger"
)

type mockRunner struct {
	started chan governor.RunOptions
	release chan struct{}
	err     error
}

func newMockRunner() *mockRunner {
	return &mockRunner{
		started: make(chan governor.RunOptions, 10),
		release: make(chan struct{}),
	}
}

func (m *mockRunner) Run(ctx context.Context, opts governor.RunOptions) (*governor.RunReport, error) {
	m.started <- opts
	select {
	case <-m.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return &governor.RunReport{DryRun: opts.DryRun, MaxReplies: opts.MaxReplies, RepliesMade: 1}, nil
}

func waitStarted(t *testing.T, runner *mockRunner) governor.RunOptions {
	t.Helper()

	select {
	case opts := <-runner.started:
		return opts
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for run to start")
		return governor.RunOptions{}
	}
}

func TestNewSchedulerInvalidSchedule(t *testing.T) {
	_, err := NewScheduler(newMockRunner(), nil, governor.RunOptions{}, "not a schedule")
	if err == nil {
		t.Error("Expected error for invalid schedule")
	}
}

func TestSchedulerRunsOnStartup(t *testing.T) {
	runner := newMockRunner()
	history := NewRunHistory()

	scheduler, err := NewScheduler(runner, history, governor.RunOptions{MaxReplies: 3}, "@every 1h")
	if err != nil {
		t.Fatal(err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	opts := waitStarted(t, runner)
	if opts.MaxReplies != 3 {
		t.Errorf("Expected configured options to be passed, got %+v", opts)
	}
	close(runner.release)

	deadline := time.Now().Add(5 * time.Second)
	for history.Last() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	last := history.Last()
	if last == nil {
		t.Fatal("Expected run to be recorded")
	}
	if last.Trigger != TriggerStartup {
		t.Errorf("Expected startup trigger, got %s", last.Trigger)
	}
	runs, failures, replies := history.Counts()
	if runs != 1 || failures != 0 || replies != 1 {
		t.Errorf("Expected 1 run, 0 failures, 1 reply, got %d/%d/%d", runs, failures, replies)
	}
}

func TestSchedulerSingleQueuedRun(t *testing.T) {
	runner := newMockRunner()

	scheduler, err := NewScheduler(runner, nil, governor.RunOptions{}, "@every 1h")
	if err != nil {
		t.Fatal(err)
	}
	scheduler.Start()
	defer func() {
		close(runner.release)
		scheduler.Stop()
	}()

	waitStarted(t, runner)

	if _, err := scheduler.EnqueueRun(TriggerAPI, false); err != nil {
		t.Fatalf("Expected one run to be queued behind the active one, got %v", err)
	}
	if _, err := scheduler.EnqueueRun(TriggerAPI, false); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}
}

func TestSchedulerForceDryRun(t *testing.T) {
	runner := newMockRunner()
	close(runner.release)

	scheduler, err := NewScheduler(runner, nil, governor.RunOptions{DryRun: false}, "@every 1h")
	if err != nil {
		t.Fatal(err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if opts := waitStarted(t, runner); opts.DryRun {
		t.Error("Startup run should keep the configured live mode")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := scheduler.EnqueueRun(TriggerAPI, true); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Timed out enqueueing run")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if opts := waitStarted(t, runner); !opts.DryRun {
		t.Error("Expected forced dry run")
	}
}

func TestSchedulerStopsOnFatalError(t *testing.T) {
	runner := newMockRunner()
	runner.err = &governor.RunError{Stage: governor.StateRecording, ItemID: "p1", Err: ledger.ErrStorageWrite}
	close(runner.release)

	scheduler, err := NewScheduler(runner, nil, governor.RunOptions{}, "@every 1h")
	if err != nil {
		t.Fatal(err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	select {
	case err := <-scheduler.Fatal():
		if !errors.Is(err, ledger.ErrStorageWrite) {
			t.Errorf("Expected ErrStorageWrite, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for fatal error")
	}

	if _, err := scheduler.EnqueueRun(TriggerAPI, false); err == nil {
		t.Error("Expected scheduler to refuse runs after a fatal error")
	}
}

func TestSchedulerContinuesAfterFetchFailure(t *testing.T) {
	runner := newMockRunner()
	runner.err = &governor.RunError{Stage: governor.StateFetching, Err: errors.New("503")}
	close(runner.release)
	history := NewRunHistory()

	scheduler, err := NewScheduler(runner, history, governor.RunOptions{}, "@every 1h")
	if err != nil {
		t.Fatal(err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	waitStarted(t, runner)

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := scheduler.EnqueueRun(TriggerAPI, false); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Expected scheduler to keep accepting runs after a fetch failure")
		}
		time.Sleep(10 * time.Millisecond)
	}

	waitStarted(t, runner)

	select {
	case err := <-scheduler.Fatal():
		t.Errorf("Fetch failure must not be fatal, got %v", err)
	default:
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"recording", &governor.RunError{Stage: governor.StateRecording, Err: errors.New("disk")}, true},
		{"ledger write", ledger.ErrStorageWrite, true},
		{"fetching", &governor.RunError{Stage: governor.StateFetching, Err: errors.New("timeout")}, false},
		{"confirmation", &governor.RunError{Stage: governor.StateAwaitingConfirmation, Err: errors.New("eof")}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		if got := isFatal(tt.err); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
