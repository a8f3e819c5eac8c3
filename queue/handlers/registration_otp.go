package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/mail"
	"github.com/grouplet/grouplet/queue"
)

// RegistrationOtpHandler emails the one-time code for a pending signup.
type RegistrationOtpHandler struct {
	dbAuth db.DbAuth
	mailer mail.MailerInterface
}

func NewRegistrationOtpHandler(dbAuth db.DbAuth, mailer mail.MailerInterface) *RegistrationOtpHandler {
	return &RegistrationOtpHandler{
		dbAuth: dbAuth,
		mailer: mailer,
	}
}

// Handle implements the executor.JobHandler interface.
func (h *RegistrationOtpHandler) Handle(ctx context.Context, job queue.Job) error {
	var payload queue.PayloadRegistrationOtp
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse registration otp payload: %w", err)
	}

	var extra queue.PayloadOtpExtra
	if err := json.Unmarshal(job.PayloadExtra, &extra); err != nil {
		return fmt.Errorf("failed to parse registration otp extra payload: %w", err)
	}

	// The code might already be consumed or expired; sending is pointless
	// then but also harmless, so only a confirmed registration skips it.
	user, err := h.dbAuth.GetUserByEmail(payload.Email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user != nil {
		return nil // already registered, nothing to verify
	}

	if err := h.mailer.SendRegistrationOtp(ctx, payload.Email, extra.Otp); err != nil {
		return fmt.Errorf("failed to send registration otp email: %w", err)
	}

	return nil
}
