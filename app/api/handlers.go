package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/reply-comb/app/tasks"
)

func NewHandler(ledger LedgerView, history HistoryView, scheduler tasks.TaskSchedulerInterface, settings Settings) *Handler {
	return &Handler{
		ledger:    ledger,
		history:   history,
		scheduler: scheduler,
		settings:  settings,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().In(time.Local).Format(time.RFC3339),
		"version":     h.settings.Version,
		"ledger_size": h.ledger.Len(),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	runs, failures, replies := h.history.Counts()

	stats := gin.H{
		"settings":       h.settings,
		"ledger_size":    h.ledger.Len(),
		"runs":           runs,
		"failed_runs":    failures,
		"replies_posted": replies,
	}

	if last := h.history.Last(); last != nil {
		stats["last_run"] = last
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListReplies(c *gin.Context) {
	ids := h.ledger.IDs()
	total := len(ids)

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		if limit < len(ids) {
			ids = ids[:limit]
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"replied": ids,
		"total":   total,
	})
}

func (h *Handler) APITriggerRun(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler is not running"})
		return
	}

	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	taskID, err := h.scheduler.EnqueueRun(tasks.TriggerAPI, req.DryRun)
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, tasks.ErrQueueFull) {
			status = http.StatusConflict
		}
		slog.Warn("Failed to enqueue run", "error", err)
		c.JSON(status, gin.H{
			"error":   "Failed to enqueue run",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task": gin.H{
			"id":      taskID,
			"type":    tasks.TaskTypeRunReplies,
			"dry_run": h.settings.DryRun || req.DryRun,
		},
	})
}
