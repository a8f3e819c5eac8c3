package zombiezen

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/queue"
)

func TestJobLifecycle(t *testing.T) {
	testDB := newTestDB(t)

	err := testDB.InsertJob(queue.Job{
		JobType: queue.JobTypeRegistrationOtp,
		Payload: json.RawMessage(`{"email":"a@example.com","cooldown_bucket":1}`),
	})
	if err != nil {
		t.Fatalf("InsertJob failed: %v", err)
	}

	jobs, err := testDB.Claim(10)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 claimed job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.Status != queue.StatusProcessing {
		t.Errorf("expected status processing, got %q", job.Status)
	}
	if job.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", job.Attempts)
	}

	// a second claim finds nothing while the job is locked
	jobs, err = testDB.Claim(10)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected no claimable jobs, got %d", len(jobs))
	}

	if err := testDB.MarkCompleted(job.ID); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}
}

func TestInsertJobDeduplication(t *testing.T) {
	testDB := newTestDB(t)

	payload := json.RawMessage(`{"email":"a@example.com","cooldown_bucket":42}`)
	err := testDB.InsertJob(queue.Job{JobType: queue.JobTypeRegistrationOtp, Payload: payload})
	if err != nil {
		t.Fatalf("InsertJob failed: %v", err)
	}

	// same (job_type, payload) while pending
	err = testDB.InsertJob(queue.Job{JobType: queue.JobTypeRegistrationOtp, Payload: payload})
	if !errors.Is(err, db.ErrConstraintUnique) {
		t.Errorf("expected ErrConstraintUnique, got %v", err)
	}

	// a different bucket is a different payload
	err = testDB.InsertJob(queue.Job{
		JobType: queue.JobTypeRegistrationOtp,
		Payload: json.RawMessage(`{"email":"a@example.com","cooldown_bucket":43}`),
	})
	if err != nil {
		t.Errorf("expected insert in new bucket to succeed, got %v", err)
	}
}

func TestInsertJobValidation(t *testing.T) {
	testDB := newTestDB(t)

	err := testDB.InsertJob(queue.Job{})
	if !errors.Is(err, db.ErrMissingFields) {
		t.Errorf("expected ErrMissingFields for empty job type, got %v", err)
	}

	err = testDB.InsertJob(queue.Job{JobType: queue.JobTypePurgeExpired, Recurrent: true})
	if !errors.Is(err, db.ErrMissingFields) {
		t.Errorf("expected ErrMissingFields for recurrent job without interval, got %v", err)
	}
}

func TestMarkFailedAndRetry(t *testing.T) {
	testDB := newTestDB(t)

	err := testDB.InsertJob(queue.Job{
		JobType:     queue.JobTypePasswordResetOtp,
		Payload:     json.RawMessage(`{"email":"a@example.com","cooldown_bucket":1}`),
		MaxAttempts: 2,
	})
	if err != nil {
		t.Fatalf("InsertJob failed: %v", err)
	}

	jobs, err := testDB.Claim(1)
	if err != nil || len(jobs) != 1 {
		t.Fatalf("Claim failed: jobs=%d err=%v", len(jobs), err)
	}

	if err := testDB.MarkFailed(jobs[0].ID, "smtp unavailable"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	// failed jobs with attempts left are claimable again
	jobs, err = testDB.Claim(1)
	if err != nil || len(jobs) != 1 {
		t.Fatalf("expected failed job to be retried: jobs=%d err=%v", len(jobs), err)
	}
	if jobs[0].Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", jobs[0].Attempts)
	}
	if jobs[0].LastError != "smtp unavailable" {
		t.Errorf("expected last error recorded, got %q", jobs[0].LastError)
	}

	if err := testDB.MarkFailed(jobs[0].ID, "smtp unavailable"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	// attempts exhausted
	jobs, err = testDB.Claim(1)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected no claimable jobs after max attempts, got %d", len(jobs))
	}
}

func TestClaimRespectsSchedule(t *testing.T) {
	testDB := newTestDB(t)

	err := testDB.InsertJob(queue.Job{
		JobType:      queue.JobTypePurgeExpired,
		ScheduledFor: time.Now().Add(time.Hour),
		Recurrent:    true,
		Interval:     time.Hour,
	})
	if err != nil {
		t.Fatalf("InsertJob failed: %v", err)
	}

	jobs, err := testDB.Claim(10)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected future job to stay unclaimed, got %d", len(jobs))
	}
}

func TestMarkRecurrentCompleted(t *testing.T) {
	testDB := newTestDB(t)

	err := testDB.InsertJob(queue.Job{
		JobType:   queue.JobTypePurgeExpired,
		Recurrent: true,
		Interval:  time.Hour,
	})
	if err != nil {
		t.Fatalf("InsertJob failed: %v", err)
	}

	jobs, err := testDB.Claim(1)
	if err != nil || len(jobs) != 1 {
		t.Fatalf("Claim failed: jobs=%d err=%v", len(jobs), err)
	}

	next := queue.Job{
		JobType:      queue.JobTypePurgeExpired,
		ScheduledFor: time.Now().Add(time.Hour),
		Recurrent:    true,
		Interval:     time.Hour,
	}
	if err := testDB.MarkRecurrentCompleted(jobs[0].ID, next); err != nil {
		t.Fatalf("MarkRecurrentCompleted failed: %v", err)
	}

	// the next occurrence exists but is not yet due
	jobs, err = testDB.Claim(10)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected next occurrence to be scheduled in the future, got %d claimable", len(jobs))
	}
}
