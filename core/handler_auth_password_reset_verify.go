package core

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/grouplet/grouplet/crypto"
)

// VerifyPasswordResetHandler exchanges a reset OTP for a reset token.
// Endpoint: POST /api/verify-forget-password
// Authenticated: No
// Allowed Mimetype: application/json
//
// No session is issued here. The returned token only authorizes setting a
// new password on the same reset row.
func (a *App) VerifyPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
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

	reset, err := a.DbAuth().GetPasswordResetByOtp(req.Email, req.Otp)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if reset == nil {
		WriteJsonError(w, errorInvalidOrExpiredOtp)
		return
	}

	cfg := a.Config()
	token, err := crypto.RandomString(cfg.Otp.ResetTokenLength, crypto.AlphanumericAlphabet)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}

	if err := a.DbAuth().SetPasswordResetToken(reset.ID, token); err != nil {
		a.Logger().Error("failed to store reset token", "error", err)
		WriteJsonError(w, errorInternal)
		return
	}

	writeJsonWithData(w, http.StatusOK, "OTP verified. Use the reset token to set a new password.", map[string]string{
		"reset_token": token,
	})
}
