package tasks

import (
	"context"
	"fmt"
	"time"
)

type TaskType string

const TaskTypeRefreshSource TaskType = "RefreshSource"

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetSourceName() string
	Start()
	GetDuration() time.Duration
	GetRetryCount() int
	GetMaxRetries() int
	CanRetry() bool
	IncrementRetryCount()
}

// Task carries the bookkeeping shared by all task types.
type Task struct {
	ID         string
	Type       TaskType
	SourceName string
	startedAt  time.Time
	retryCount int
	maxRetries int
}

func NewTask(taskType TaskType, sourceName string) Task {
	return Task{
		ID:         fmt.Sprintf("%s-%s-%d", taskType, sourceName, time.Now().UnixNano()),
		Type:       taskType,
		SourceName: sourceName,
		maxRetries: 3,
	}
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetSourceName() string {
	return t.SourceName
}

func (t *Task) Start() {
	t.startedAt = time.Now()
}

func (t *Task) GetDuration() time.Duration {
	if t.startedAt.IsZero() {
		return 0
	}
	return time.Since(t.startedAt)
}

func (t *Task) GetRetryCount() int {
	return t.retryCount
}

func (t *Task) GetMaxRetries() int {
	return t.maxRetries
}

func (t *Task) CanRetry() bool {
	return t.retryCount < t.maxRetries
}

func (t *Task) IncrementRetryCount() {
	t.retryCount++
}
