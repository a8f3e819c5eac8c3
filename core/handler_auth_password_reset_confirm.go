package core

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/grouplet/grouplet/crypto"
)

// ConfirmPasswordResetHandler sets a new password using a reset token.
// Endpoint: POST /api/reset-password
// Authenticated: No
// Allowed Mimetype: application/json
//
// The reset row is deleted with a rows-affected check, so two concurrent
// submissions of the same token cannot both succeed.
func (a *App) ConfirmPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Email           string `json:"email" validate:"required,email"`
		ResetToken      string `json:"reset_token" validate:"required"`
		Password        string `json:"password" validate:"required,min=6"`
		PasswordConfirm string `json:"password_confirmation" validate:"required,eqfield=Password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.ResetToken = strings.TrimSpace(req.ResetToken)

	if errs := a.Validator().Struct(&req); len(errs) > 0 {
		writeJsonValidationErrors(w, errs)
		return
	}

	reset, err := a.DbAuth().GetPasswordResetByToken(req.Email, req.ResetToken)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if reset == nil {
		WriteJsonError(w, errorInvalidOrExpiredResetToken)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if user == nil {
		// The account vanished while the reset was in flight. Same response
		// as a bad token, nothing to learn here.
		WriteJsonError(w, errorInvalidOrExpiredResetToken)
		return
	}

	hashed, err := crypto.GenerateHash(req.Password)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}

	if err := a.DbAuth().UpdatePassword(user.ID, hashed); err != nil {
		a.Logger().Error("failed to update password", "error", err)
		WriteJsonError(w, errorInternal)
		return
	}

	consumed, err := a.DbAuth().ConsumePasswordReset(reset.ID)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if !consumed {
		WriteJsonError(w, errorInvalidOrExpiredResetToken)
		return
	}

	// No auto-login. The password change rotated the signing key, so old
	// sessions are dead and the user signs in fresh.
	writeJSONResponse(w, okPasswordReset)
}
