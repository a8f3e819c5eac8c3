package core

import (
	"context"
	"net/http"

	"github.com/grouplet/grouplet/db"
)

type ctxKey int

const userContextKey ctxKey = 0

// RequireAuth rejects unauthenticated requests and stores the authenticated
// user in the request context for the wrapped handler.
func (a *App) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err, resp := a.authenticator.Authenticate(r)
		if err != nil {
			writeJSONResponse(w, resp)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user stored by RequireAuth.
// Handlers behind the middleware can rely on ok being true.
func UserFromContext(ctx context.Context) (*db.User, bool) {
	user, ok := ctx.Value(userContextKey).(*db.User)
	return user, ok
}
