package report

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manually triggered report runs execute through the Runner instead of a
// detached goroutine, so callers can observe completion or failure.

type TaskStatus string

const (
	TaskRunning   TaskStatus = "RUNNING"
	TaskSucceeded TaskStatus = "SUCCEEDED"
	TaskFailed    TaskStatus = "FAILED"
)

type Task struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     TaskStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

type Runner struct {
	mu     sync.RWMutex
	tasks  map[string]*Task
	logger *slog.Logger
}

func NewRunner() *Runner {
	return &Runner{
		tasks:  make(map[string]*Task),
		logger: slog.With("component", "tasks"),
	}
}

// Run starts fn in the background and returns the tracking task. The task
// transitions to SUCCEEDED or FAILED exactly once when fn returns.
func (r *Runner) Run(name string, timeout time.Duration, fn func(ctx context.Context) error) Task {
	task := &Task{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    TaskRunning,
		StartedAt: time.Now(),
	}

	r.mu.Lock()
	r.tasks[task.ID] = task
	r.mu.Unlock()

	snapshot := *task

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := fn(ctx)

		now := time.Now()
		r.mu.Lock()
		task.FinishedAt = &now
		if err != nil {
			task.Status = TaskFailed
			task.Error = err.Error()
		} else {
			task.Status = TaskSucceeded
		}
		r.mu.Unlock()

		if err != nil {
			r.logger.Error("Task failed", "task_id", task.ID, "name", name, "error", err)
		} else {
			r.logger.Info("Task finished", "task_id", task.ID, "name", name)
		}
	}()

	return snapshot
}

// Get returns a snapshot of the task.
func (r *Runner) Get(id string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}
