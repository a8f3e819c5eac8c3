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

// RegisterHandler starts an OTP-gated registration.
// Endpoint: POST /api/register
// Authenticated: No
// Allowed Mimetype: application/json
//
// The account is not created here. A pending registration row holds the
// submitted fields until the emailed code is confirmed.
func (a *App) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Name            string `json:"name" validate:"required,max=255"`
		Email           string `json:"email" validate:"required,email"`
		Phone           string `json:"phone" validate:"omitempty,max=32"`
		Password        string `json:"password" validate:"required,min=6"`
		PasswordConfirm string `json:"password_confirmation" validate:"required,eqfield=Password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	// All rule violations are reported at once, not just the first.
	errs := a.Validator().Struct(&req)

	existing, err := a.DbAuth().GetUserByEmailOrPhone(req.Email, req.Phone)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if existing != nil {
		if existing.Email == req.Email {
			errs = append(errs, "The email is already registered")
		}
		if req.Phone != "" && existing.Phone == req.Phone {
			errs = append(errs, "The phone number is already registered")
		}
	}

	if len(errs) > 0 {
		writeJsonValidationErrors(w, errs)
		return
	}

	cfg := a.Config()

	otp, err := crypto.RandomOtp(cfg.Otp.Length)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}

	hashed, err := crypto.GenerateHash(req.Password)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}

	now := time.Now().UTC()
	pending := db.PendingRegistration{
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		Password:  hashed,
		Otp:       otp,
		Created:   now,
		ExpiresAt: now.Add(cfg.Otp.Expiry.Duration),
	}

	if err := a.DbAuth().InsertPendingRegistration(pending); err != nil {
		a.Logger().Error("failed to store pending registration", "error", err)
		WriteJsonError(w, errorInternal)
		return
	}

	if err := a.enqueueOtpEmail(queue.JobTypeRegistrationOtp, req.Email, otp, cfg.RateLimits.RegistrationOtpCooldown.Duration); err != nil {
		a.Logger().Error("failed to enqueue registration otp job", "error", err)
		WriteJsonError(w, errorInternal)
		return
	}

	writeJSONResponse(w, okRegistrationOtpSent)
}
