package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/mail"
	"github.com/grouplet/grouplet/queue"
)

// PasswordResetOtpHandler emails the one-time code that starts a password
// reset.
type PasswordResetOtpHandler struct {
	dbAuth db.DbAuth
	mailer mail.MailerInterface
}

func NewPasswordResetOtpHandler(dbAuth db.DbAuth, mailer mail.MailerInterface) *PasswordResetOtpHandler {
	return &PasswordResetOtpHandler{
		dbAuth: dbAuth,
		mailer: mailer,
	}
}

// Handle implements the executor.JobHandler interface.
func (h *PasswordResetOtpHandler) Handle(ctx context.Context, job queue.Job) error {
	var payload queue.PayloadPasswordResetOtp
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse password reset otp payload: %w", err)
	}

	var extra queue.PayloadOtpExtra
	if err := json.Unmarshal(job.PayloadExtra, &extra); err != nil {
		return fmt.Errorf("failed to parse password reset otp extra payload: %w", err)
	}

	user, err := h.dbAuth.GetUserByEmail(payload.Email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		// No account for this address. The request handler answered with
		// the generic acknowledgment; not sending keeps the silence.
		return nil
	}

	if err := h.mailer.SendPasswordResetOtp(ctx, payload.Email, extra.Otp); err != nil {
		return fmt.Errorf("failed to send password reset otp email: %w", err)
	}

	return nil
}
