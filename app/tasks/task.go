package tasks

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

type TaskType string

const (
	TaskTypeRunReplies TaskType = "run_replies"
)

// Trigger records what caused a task to be enqueued.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerSchedule Trigger = "schedule"
	TriggerAPI      Trigger = "api"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetTrigger() Trigger
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID        string
	Type      TaskType
	Trigger   Trigger
	StartedAt *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetTrigger() Trigger {
	return t.Trigger
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, trigger Trigger) Task {
	uniqueID := fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.IntN(10000))

	return Task{
		ID:      uniqueID,
		Type:    taskType,
		Trigger: trigger,
	}
}
