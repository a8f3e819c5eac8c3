package core

import (
	"net/http"
	"time"

	"github.com/grouplet/grouplet/db"
)

// AuthRecord is the public projection of a user returned to clients. The
// password hash never leaves the server.
type AuthRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Verified bool   `json:"verified"`
	Created  string `json:"created"`
	Updated  string `json:"updated"`
}

// AuthData is the payload of a successful authentication response.
type AuthData struct {
	TokenType   string     `json:"token_type"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
	Record      AuthRecord `json:"record"`
}

func newAuthRecord(user *db.User) AuthRecord {
	return AuthRecord{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
		Verified: user.Verified,
		Created:  db.TimeFormatString(user.Created),
		Updated:  db.TimeFormatString(user.Updated),
	}
}

func writeAuthResponse(w http.ResponseWriter, message, token string, expiry time.Time, user *db.User) {
	data := AuthData{
		TokenType:   "Bearer",
		AccessToken: token,
		ExpiresIn:   int64(time.Until(expiry).Seconds()),
		Record:      newAuthRecord(user),
	}
	writeJsonWithData(w, http.StatusOK, message, data)
}
