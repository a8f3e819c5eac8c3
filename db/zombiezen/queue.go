package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/queue"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const jobColumns = `id, job_type, payload, payload_extra, status, attempts, max_attempts,
	created_at, updated_at, scheduled_for, locked_at, completed_at, last_error, recurrent, interval_ns`

// validateQueueJob checks for required fields in a job before insertion.
func validateQueueJob(job queue.Job) error {
	var missingFields []string
	if job.JobType == "" {
		missingFields = append(missingFields, "JobType")
	}
	if job.Recurrent && job.Interval <= 0 {
		missingFields = append(missingFields, "Interval")
	}
	// Payload and PayloadExtra are optional

	if len(missingFields) > 0 {
		return fmt.Errorf("%w: %s", db.ErrMissingFields, strings.Join(missingFields, ", "))
	}
	return nil
}

// newJobFromStmt creates a Job struct from a SQLite statement row.
func newJobFromStmt(stmt *sqlite.Stmt) (*queue.Job, error) {
	createdAt, err := db.TimeParse(stmt.GetText("created_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created_at time: %w", err)
	}

	updatedAt, err := db.TimeParse(stmt.GetText("updated_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated_at time: %w", err)
	}

	// Optional time fields are stored as empty strings when unset
	var scheduledFor time.Time
	if s := stmt.GetText("scheduled_for"); s != "" {
		scheduledFor, err = db.TimeParse(s)
		if err != nil {
			return nil, fmt.Errorf("error parsing scheduled_for time: %w", err)
		}
	}

	var lockedAt time.Time
	if s := stmt.GetText("locked_at"); s != "" {
		lockedAt, err = db.TimeParse(s)
		if err != nil {
			return nil, fmt.Errorf("error parsing locked_at time: %w", err)
		}
	}

	var completedAt time.Time
	if s := stmt.GetText("completed_at"); s != "" {
		completedAt, err = db.TimeParse(s)
		if err != nil {
			return nil, fmt.Errorf("error parsing completed_at time: %w", err)
		}
	}

	return &queue.Job{
		ID:           stmt.GetInt64("id"),
		JobType:      stmt.GetText("job_type"),
		Payload:      json.RawMessage(stmt.GetText("payload")),
		PayloadExtra: json.RawMessage(stmt.GetText("payload_extra")),
		Status:       stmt.GetText("status"),
		Attempts:     int(stmt.GetInt64("attempts")),
		MaxAttempts:  int(stmt.GetInt64("max_attempts")),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		ScheduledFor: scheduledFor,
		LockedAt:     lockedAt,
		CompletedAt:  completedAt,
		LastError:    stmt.GetText("last_error"),
		Recurrent:    stmt.GetInt64("recurrent") != 0,
		Interval:     time.Duration(stmt.GetInt64("interval_ns")),
	}, nil
}

func insertJob(conn *sqlite.Conn, job queue.Job) error {
	scheduledFor := ""
	if !job.ScheduledFor.IsZero() {
		scheduledFor = db.TimeFormatString(job.ScheduledFor)
	}

	maxAttempts := job.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	err := sqlitex.Execute(conn, `INSERT INTO job_queue
		(job_type, payload, payload_extra, attempts, max_attempts, scheduled_for, recurrent, interval_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{
				job.JobType,
				string(job.Payload),
				string(job.PayloadExtra),
				job.Attempts,
				maxAttempts,
				scheduledFor,
				job.Recurrent,
				int64(job.Interval),
			},
		})

	if err != nil {
		if isUniqueConstraint(err) {
			return db.ErrConstraintUnique
		}
		return fmt.Errorf("queue insert failed: %w", err)
	}
	return nil
}

// InsertJob adds a new job to the queue. A duplicate pending
// (job_type, payload) pair returns db.ErrConstraintUnique, which is how
// cooldown-bucket deduplication surfaces.
func (d *Db) InsertJob(job queue.Job) error {
	if err := validateQueueJob(job); err != nil {
		return err
	}

	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("queue insert failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	return insertJob(conn, job)
}

// Claim locks and returns up to limit due jobs for processing.
// The jobs are marked as 'processing'.
func (d *Db) Claim(limit int) ([]*queue.Job, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get connection for claim: %w", err)
	}
	defer d.pool.Put(conn)

	var jobs []*queue.Job
	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET status = 'processing',
			locked_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now'),
			attempts = attempts + 1,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id IN (
			SELECT id
			FROM job_queue
			WHERE status IN ('pending', 'failed')
				AND attempts < max_attempts
				AND (scheduled_for = '' OR scheduled_for <= strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
			ORDER BY id ASC
			LIMIT ?
		)
		RETURNING `+jobColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				job, err := newJobFromStmt(stmt)
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
				return nil
			},
			Args: []interface{}{limit},
		})

	if err != nil {
		return nil, fmt.Errorf("failed to claim jobs: %w", err)
	}

	return jobs, nil
}

func (d *Db) MarkCompleted(jobID int64) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET status = 'completed',
			completed_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now'),
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now'),
			locked_at = ''
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{jobID},
		})
	if err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return nil
}

func (d *Db) MarkFailed(jobID int64, errMsg string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET status = 'failed',
			last_error = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now'),
			locked_at = ''
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{errMsg, jobID},
		})
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

// MarkRecurrentCompleted completes a recurrent job and inserts its next
// occurrence inside a savepoint, so the chain cannot be broken by a crash
// between the two writes.
func (d *Db) MarkRecurrentCompleted(completedJobID int64, newJob queue.Job) error {
	if err := validateQueueJob(newJob); err != nil {
		return err
	}

	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET status = 'completed',
			completed_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now'),
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now'),
			locked_at = ''
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{completedJobID},
		})
	if err != nil {
		return fmt.Errorf("failed to mark recurrent job completed: %w", err)
	}

	err = insertJob(conn, newJob)
	if err != nil {
		return fmt.Errorf("failed to insert next recurrent job: %w", err)
	}

	return nil
}
