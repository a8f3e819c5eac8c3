package executor

import (
	"context"
	"fmt"

	"github.com/grouplet/grouplet/queue"
)

// JobHandler processes a specific type of job
type JobHandler interface {
	Handle(ctx context.Context, job queue.Job) error
}

// JobExecutor dispatches claimed jobs to their handlers
type JobExecutor interface {
	Execute(ctx context.Context, job queue.Job) error
}

// DefaultExecutor is the concrete implementation of JobExecutor
type DefaultExecutor struct {
	registry map[string]JobHandler // Maps job types to handlers
}

// NewExecutor creates an executor with the given handlers
func NewExecutor(handlers map[string]JobHandler) *DefaultExecutor {
	return &DefaultExecutor{
		registry: handlers,
	}
}

// Execute implements the JobExecutor interface
func (e *DefaultExecutor) Execute(ctx context.Context, job queue.Job) error {
	handler, exists := e.registry[job.JobType]
	if !exists {
		return fmt.Errorf("no handler registered for job type: %s", job.JobType)
	}

	return handler.Handle(ctx, job)
}
