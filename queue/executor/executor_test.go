package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/grouplet/grouplet/queue"
)

type fakeHandler struct {
	called bool
	err    error
}

func (f *fakeHandler) Handle(ctx context.Context, job queue.Job) error {
	f.called = true
	return f.err
}

func TestExecuteDispatchesByJobType(t *testing.T) {
	h := &fakeHandler{}
	e := NewExecutor(map[string]JobHandler{
		queue.JobTypeRegistrationOtp: h,
	})

	err := e.Execute(context.Background(), queue.Job{JobType: queue.JobTypeRegistrationOtp})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !h.called {
		t.Error("expected handler to be called")
	}
}

func TestExecuteUnknownJobType(t *testing.T) {
	e := NewExecutor(map[string]JobHandler{})

	err := e.Execute(context.Background(), queue.Job{JobType: "unknown"})
	if err == nil {
		t.Error("expected error for unregistered job type")
	}
}

func TestExecutePropagatesHandlerError(t *testing.T) {
	wantErr := errors.New("smtp down")
	e := NewExecutor(map[string]JobHandler{
		queue.JobTypePasswordResetOtp: &fakeHandler{err: wantErr},
	})

	err := e.Execute(context.Background(), queue.Job{JobType: queue.JobTypePasswordResetOtp})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected handler error, got %v", err)
	}
}
