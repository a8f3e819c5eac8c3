package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidClaimFormat is returned when a required claim is missing or has
// the wrong type.
var ErrInvalidClaimFormat = errors.New("invalid claim format")

// ValidateSessionClaims checks the application-required claims on a token
// whose signature has not been verified yet. The parser only validates
// standard claim values when they are present, so presence is enforced
// here: iat, exp and user_id must all exist.
func ValidateSessionClaims(claims jwt.MapClaims) error {
	if _, ok := claims[ClaimIssuedAt].(float64); !ok {
		return fmt.Errorf("%w: missing iat claim", ErrInvalidClaimFormat)
	}

	exp, ok := claims[ClaimExpiresAt].(float64)
	if !ok {
		return fmt.Errorf("%w: missing exp claim", ErrInvalidClaimFormat)
	}
	if time.Now().After(time.Unix(int64(exp), 0)) {
		return ErrJwtTokenExpired
	}

	userID, ok := claims[ClaimUserID].(string)
	if !ok || userID == "" {
		return fmt.Errorf("%w: missing user_id claim", ErrInvalidClaimFormat)
	}

	return nil
}

// TokenExpiry returns the exp claim as a time. Used to bound how long a
// revoked token needs to stay on the blocklist.
func TokenExpiry(claims jwt.MapClaims) (time.Time, error) {
	exp, ok := claims[ClaimExpiresAt].(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrInvalidClaimFormat)
	}
	return time.Unix(int64(exp), 0), nil
}
