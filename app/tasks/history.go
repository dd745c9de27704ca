package tasks

import (
	"sync"
	"time"

	"github.com/lysyi3m/reply-comb/app/governor"
)

type RunRecord struct {
	TaskID     string              `json:"task_id"`
	Trigger    Trigger             `json:"trigger"`
	Report     *governor.RunReport `json:"report,omitempty"`
	Error      string              `json:"error,omitempty"`
	FinishedAt time.Time           `json:"finished_at"`
}

// RunHistory keeps counters and the most recent run for the status API.
type RunHistory struct {
	mu       sync.RWMutex
	runs     int
	failures int
	replies  int
	last     *RunRecord
}

func NewRunHistory() *RunHistory {
	return &RunHistory{}
}

func (h *RunHistory) Record(task TaskInterface, report *governor.RunReport, err error) {
	record := &RunRecord{
		TaskID:     task.GetID(),
		Trigger:    task.GetTrigger(),
		Report:     report,
		FinishedAt: time.Now().UTC(),
	}
	if err != nil {
		record.Error = err.Error()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.runs++
	if err != nil {
		h.failures++
	}
	if report != nil && !report.DryRun {
		h.replies += report.RepliesMade
	}
	h.last = record
}

// Last returns nil before the first run finishes.
func (h *RunHistory) Last() *RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.last == nil {
		return nil
	}
	record := *h.last
	return &record
}

// Counts returns finished runs, failed runs and live replies posted since start.
func (h *RunHistory) Counts() (runs, failures, replies int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.runs, h.failures, h.replies
}
