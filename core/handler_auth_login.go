package core

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/grouplet/grouplet/crypto"
)

// LoginHandler authenticates with email and password.
// Endpoint: POST /api/login
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
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

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}

	// Unknown email and wrong password share one response; bcrypt's
	// comparison keeps the password check timing-safe.
	if user == nil || !crypto.CheckPassword(req.Password, user.Password) {
		WriteJsonError(w, errorInvalidCredentials)
		return
	}

	token, expiry, err := a.newSessionToken(user)
	if err != nil {
		WriteJsonError(w, errorTokenGeneration)
		return
	}

	writeAuthResponse(w, "Login successful", token, expiry, user)
}
