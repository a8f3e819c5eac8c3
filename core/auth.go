package core

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/grouplet/grouplet/cache"
	"github.com/grouplet/grouplet/config"
	"github.com/grouplet/grouplet/crypto"
	"github.com/grouplet/grouplet/db"
)

// Authenticator defines the interface for authentication operations
type Authenticator interface {
	// Authenticate validates the request's Authorization header and returns
	// the authenticated user.
	// Returns:
	// - *db.User: the authenticated user if successful
	// - error: any error that occurred
	// - jsonResponse: precomputed error response if authentication failed
	Authenticate(r *http.Request) (*db.User, error, jsonResponse)
}

// DefaultAuthenticator is the standard implementation of the Authenticator interface
type DefaultAuthenticator struct {
	dbAuth         db.DbAuth
	cache          cache.Cache[string, any]
	logger         *slog.Logger
	configProvider *config.Provider
}

func NewDefaultAuthenticator(dbAuth db.DbAuth, c cache.Cache[string, any], logger *slog.Logger, configProvider *config.Provider) *DefaultAuthenticator {
	return &DefaultAuthenticator{
		dbAuth:         dbAuth,
		cache:          c,
		logger:         logger,
		configProvider: configProvider,
	}
}

// blocklistKey is the cache key for a revoked token. The raw token never
// enters the cache.
func blocklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked:" + hex.EncodeToString(sum[:])
}

// Authenticate verifies the Bearer token of the request.
//
// The token is signed with a per-user key derived from the user's
// credentials, so the claims must be read unverified first to locate the
// user, and only then can the signature be checked.
func (a *DefaultAuthenticator) Authenticate(r *http.Request) (*db.User, error, jsonResponse) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header"), errorNoAuthHeader
	}

	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || tokenString == "" {
		return nil, errors.New("invalid authorization format"), errorInvalidTokenFormat
	}

	unverifiedClaims, err := crypto.ParseJwtUnverified(tokenString)
	if err != nil {
		return nil, err, errorJwtInvalidToken
	}

	if err := crypto.ValidateSessionClaims(unverifiedClaims); err != nil {
		if errors.Is(err, crypto.ErrJwtTokenExpired) {
			return nil, err, errorJwtTokenExpired
		}
		return nil, err, errorJwtInvalidToken
	}

	if _, revoked := a.cache.Get(blocklistKey(tokenString)); revoked {
		return nil, errors.New("token revoked"), errorTokenRevoked
	}

	userID := unverifiedClaims[crypto.ClaimUserID].(string)
	user, err := a.dbAuth.GetUserById(userID)
	if err != nil {
		a.logger.Error("auth: user lookup failed", "user_id", userID, "err", err)
		return nil, err, errorAuthDatabaseError
	}
	if user == nil {
		return nil, errors.New("user not found"), errorJwtInvalidToken
	}

	cfg := a.configProvider.Get()
	signingKey, err := crypto.NewJwtSigningKeyWithCredentials(user.Email, user.Password, []byte(cfg.Jwt.AuthSecret))
	if err != nil {
		a.logger.Error("auth: signing key derivation failed", "err", err)
		return nil, err, errorInternal
	}

	if _, err := crypto.ParseJwt(tokenString, signingKey); err != nil {
		switch {
		case errors.Is(err, crypto.ErrJwtTokenExpired):
			return nil, err, errorJwtTokenExpired
		case errors.Is(err, crypto.ErrJwtInvalidSigningMethod):
			return nil, err, errorJwtInvalidSignMethod
		default:
			return nil, err, errorJwtInvalidToken
		}
	}

	return user, nil, jsonResponse{}
}
