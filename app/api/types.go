package api

import (
	"github.com/lysyi3m/reply-comb/app/ledger"
	"github.com/lysyi3m/reply-comb/app/tasks"
)

// LedgerView is the read side of the reply ledger.
type LedgerView interface {
	IDs() []string
	Len() int
}

var _ LedgerView = (*ledger.Ledger)(nil)

type HistoryView interface {
	Last() *tasks.RunRecord
	Counts() (runs, failures, replies int)
}

var _ HistoryView = (*tasks.RunHistory)(nil)

// Settings describes how the service is configured, for the stats endpoint.
type Settings struct {
	Version    string `json:"version"`
	DryRun     bool   `json:"dry_run"`
	MaxReplies int    `json:"max_replies"`
	Selector   string `json:"selector"`
	Schedule   string `json:"schedule"`
	Conditions string `json:"conditions"`
	Ledger     string `json:"ledger"`
}

type Handler struct {
	ledger    LedgerView
	history   HistoryView
	scheduler tasks.TaskSchedulerInterface
	settings  Settings
}

type runRequest struct {
	DryRun bool `json:"dry_run"`
}
