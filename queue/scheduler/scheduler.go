package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/grouplet/grouplet/config"
	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/queue"
	"github.com/grouplet/grouplet/queue/executor"
	"golang.org/x/sync/errgroup"
)

// jobTimeout bounds a single job execution.
const jobTimeout = 10 * time.Minute

// Scheduler claims due jobs on a ticker and runs them through the executor
// with bounded concurrency.
type Scheduler struct {
	configProvider *config.Provider
	db             db.DbQueue
	executor       executor.JobExecutor
	logger         *slog.Logger
	ctx            context.Context
	cancel         context.CancelFunc
	shutdownDone   chan struct{}
}

func NewScheduler(configProvider *config.Provider, dbQueue db.DbQueue, exec executor.JobExecutor, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		configProvider: configProvider,
		db:             dbQueue,
		executor:       exec,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		shutdownDone:   make(chan struct{}),
	}
}

// Start begins scheduler operation in a long running goroutine.
func (s *Scheduler) Start() {
	go func() {
		interval := s.configProvider.Get().Scheduler.Interval.Duration
		s.logger.Info("starting job scheduler", "interval", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info("job scheduler received shutdown signal")
				close(s.shutdownDone)
				return
			case <-ticker.C:
				s.processJobs()
			}
		}
	}()
}

// Stop signals the scheduler to stop and waits for the current batch to
// finish or the context to be canceled, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("stopping job scheduler")
	s.cancel()

	select {
	case <-s.shutdownDone:
		s.logger.Info("job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Info("job scheduler shutdown timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) processJobs() {
	cfg := s.configProvider.Get()

	jobs, err := s.db.Claim(cfg.Scheduler.MaxJobsPerTick)
	if err != nil {
		s.logger.Error("failed to claim jobs", "err", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	s.logger.Info("claimed jobs", "count", len(jobs))

	// The scheduler's context is the parent so jobs receive the shutdown
	// signal.
	g, ctx := errgroup.WithContext(s.ctx)
	g.SetLimit(runtime.NumCPU() * cfg.Scheduler.ConcurrencyMultiplier)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()

			err := s.executor.Execute(jobCtx, *job)
			s.finishJob(job, err)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Info("job batch interrupted due to scheduler shutdown")
		} else {
			s.logger.Error("error executing job batch", "err", err)
		}
	}
}

// finishJob records the job outcome. A successful recurrent job schedules
// its next occurrence in the same transaction as the completion.
func (s *Scheduler) finishJob(job *queue.Job, err error) {
	switch {
	case err == nil && job.Recurrent:
		next := queue.Job{
			JobType:      job.JobType,
			Payload:      job.Payload,
			PayloadExtra: job.PayloadExtra,
			ScheduledFor: time.Now().Add(job.Interval),
			Recurrent:    true,
			Interval:     job.Interval,
			MaxAttempts:  job.MaxAttempts,
		}
		if updateErr := s.db.MarkRecurrentCompleted(job.ID, next); updateErr != nil {
			s.logger.Error("failed to mark recurrent job completed", "jobID", job.ID, "err", updateErr)
		}
	case err == nil:
		if updateErr := s.db.MarkCompleted(job.ID); updateErr != nil {
			s.logger.Error("failed to mark job completed", "jobID", job.ID, "err", updateErr)
		}
	case errors.Is(err, context.DeadlineExceeded):
		if updateErr := s.db.MarkFailed(job.ID, "job timeout: "+err.Error()); updateErr != nil {
			s.logger.Error("failed to mark job timed out", "jobID", job.ID, "err", updateErr)
		}
	case errors.Is(err, context.Canceled):
		if updateErr := s.db.MarkFailed(job.ID, "scheduler shutdown: "+err.Error()); updateErr != nil {
			s.logger.Error("failed to mark job interrupted", "jobID", job.ID, "err", updateErr)
		}
		s.logger.Info("job interrupted", "jobID", job.ID)
	default:
		if updateErr := s.db.MarkFailed(job.ID, err.Error()); updateErr != nil {
			s.logger.Error("failed to mark job failed", "jobID", job.ID, "err", updateErr)
		}
	}
}
