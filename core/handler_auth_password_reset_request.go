package core

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/grouplet/grouplet/crypto"
	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/queue"
)

// RequestPasswordResetHandler starts the forgot-password flow.
// Endpoint: POST /api/forget-password
// Authenticated: No
// Allowed Mimetype: application/json
//
// The response is the same whether or not the email maps to an account, so
// the endpoint cannot be used to enumerate users.
func (a *App) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if errs := a.Validator().Struct(&req); len(errs) > 0 {
		writeJsonValidationErrors(w, errs)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonValidationErrors(w, []string{"The email must be a valid email address"})
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}

	if user != nil {
		cfg := a.Config()

		otp, err := crypto.RandomOtp(cfg.Otp.Length)
		if err != nil {
			WriteJsonError(w, errorInternal)
			return
		}

		now := time.Now().UTC()
		reset := db.PasswordReset{
			Email:     req.Email,
			Otp:       otp,
			Created:   now,
			ExpiresAt: now.Add(cfg.Otp.Expiry.Duration),
		}

		if err := a.DbAuth().InsertPasswordReset(reset); err != nil {
			a.Logger().Error("failed to store password reset", "error", err)
			WriteJsonError(w, errorInternal)
			return
		}

		if err := a.enqueueOtpEmail(queue.JobTypePasswordResetOtp, req.Email, otp, cfg.RateLimits.PasswordResetOtpCooldown.Duration); err != nil {
			a.Logger().Error("failed to enqueue password reset otp job", "error", err)
			WriteJsonError(w, errorInternal)
			return
		}
	}

	writeJSONResponse(w, okPasswordResetAck)
}
