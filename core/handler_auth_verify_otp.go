package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/grouplet/grouplet/crypto"
	"github.com/grouplet/grouplet/db"
)

// VerifyOtpHandler confirms a pending registration and creates the account.
// Endpoint: POST /api/verify-otp
// Authenticated: No
// Allowed Mimetype: application/json
//
// A second submission of the same code finds no pending row (already
// consumed) and reports the code invalid rather than creating a duplicate.
func (a *App) VerifyOtpHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email" validate:"required,email"`
		Otp   string `json:"otp" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Otp = strings.TrimSpace(req.Otp)

	if errs := a.Validator().Struct(&req); len(errs) > 0 {
		writeJsonValidationErrors(w, errs)
		return
	}

	pending, err := a.DbAuth().GetPendingRegistration(req.Email, req.Otp)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if pending == nil {
		WriteJsonError(w, errorInvalidOrExpiredOtp)
		return
	}

	// A user may have claimed the email or phone while the code was in
	// flight. The pending row is left untouched so the conflict is stable.
	existing, err := a.DbAuth().GetUserByEmailOrPhone(pending.Email, pending.Phone)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if existing != nil {
		WriteJsonError(w, errorIdentityConflict)
		return
	}

	id, err := crypto.RandomHex(8)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}

	user, err := a.DbAuth().ConfirmRegistration(pending.ID, db.User{
		ID:       id,
		Name:     pending.Name,
		Email:    pending.Email,
		Phone:    pending.Phone,
		Password: pending.Password,
		Verified: true,
	})
	if err != nil {
		// Lost the race against a concurrent registration.
		if errors.Is(err, db.ErrConstraintUnique) {
			WriteJsonError(w, errorIdentityConflict)
			return
		}
		a.Logger().Error("failed to confirm registration", "error", err)
		WriteJsonError(w, errorInternal)
		return
	}

	token, expiry, err := a.newSessionToken(user)
	if err != nil {
		WriteJsonError(w, errorTokenGeneration)
		return
	}

	writeAuthResponse(w, "Registration completed successfully", token, expiry, user)
}
