package handlers

import (
	"context"
	"log/slog"

	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/queue"
)

// PurgeExpiredHandler removes expired pending registrations, password
// resets and stories. It runs as a recurrent job.
type PurgeExpiredHandler struct {
	dbAuth db.DbAuth
	logger *slog.Logger
}

func NewPurgeExpiredHandler(dbAuth db.DbAuth, logger *slog.Logger) *PurgeExpiredHandler {
	return &PurgeExpiredHandler{
		dbAuth: dbAuth,
		logger: logger,
	}
}

// Handle implements the executor.JobHandler interface.
func (h *PurgeExpiredHandler) Handle(ctx context.Context, job queue.Job) error {
	purged, err := h.dbAuth.PurgeExpired()
	if err != nil {
		return err
	}

	if purged > 0 {
		h.logger.Info("purged expired rows", "count", purged)
	}
	return nil
}
