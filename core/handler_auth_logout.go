package core

import (
	"net/http"
	"strings"
	"time"

	"github.com/grouplet/grouplet/crypto"
)

// LogoutHandler revokes the presented session token.
// Endpoint: POST /api/logout
// Authenticated: Yes
//
// Only this token is invalidated. It goes on the blocklist until its own
// expiry, so the cache entry never outlives the token it blocks.
func (a *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")

	// The middleware already verified the token; the claims are only
	// re-read here to bound the blocklist TTL.
	claims, err := crypto.ParseJwtUnverified(token)
	if err != nil {
		WriteJsonError(w, errorJwtInvalidToken)
		return
	}
	expiry, err := crypto.TokenExpiry(claims)
	if err != nil {
		WriteJsonError(w, errorJwtInvalidToken)
		return
	}

	ttl := time.Until(expiry)
	if ttl > 0 {
		a.Cache().SetWithTTL(blocklistKey(token), true, 1, ttl)
	}

	writeJSONResponse(w, okLogout)
}
