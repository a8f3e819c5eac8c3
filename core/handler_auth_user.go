package core

import (
	"net/http"
)

// UserHandler returns the authenticated caller's account record.
// Endpoint: GET /api/user
// Authenticated: Yes
func (a *App) UserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteJsonError(w, errorNoAuthHeader)
		return
	}

	writeJsonWithData(w, http.StatusOK, "User retrieved successfully", newAuthRecord(user))
}
