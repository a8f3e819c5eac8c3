package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test_secret_32_bytes_long_xxxxxx")

func TestNewJwtAndParse(t *testing.T) {
	token, expiry, err := NewJwt(jwt.MapClaims{ClaimUserID: "u1"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJwt failed: %v", err)
	}
	if time.Until(expiry) < 59*time.Minute {
		t.Errorf("unexpected expiry %v", expiry)
	}

	claims, err := ParseJwt(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJwt failed: %v", err)
	}
	if claims[ClaimUserID] != "u1" {
		t.Errorf("expected user_id claim u1, got %v", claims[ClaimUserID])
	}
}

func TestNewJwtShortKey(t *testing.T) {
	_, _, err := NewJwt(jwt.MapClaims{}, []byte("short"), time.Hour)
	if !errors.Is(err, ErrJwtInvalidSecretLength) {
		t.Errorf("expected ErrJwtInvalidSecretLength, got %v", err)
	}
}

func TestParseJwtWrongKey(t *testing.T) {
	token, _, err := NewJwt(jwt.MapClaims{ClaimUserID: "u1"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJwt failed: %v", err)
	}

	otherKey := []byte("another_secret_32_bytes_long_xxx")
	if _, err := ParseJwt(token, otherKey); err == nil {
		t.Error("expected error for wrong verification key")
	}
}

func TestParseJwtExpired(t *testing.T) {
	token, _, err := NewJwt(jwt.MapClaims{ClaimUserID: "u1"}, testSecret, -time.Hour)
	if err != nil {
		t.Fatalf("NewJwt failed: %v", err)
	}

	_, err = ParseJwt(token, testSecret)
	if !errors.Is(err, ErrJwtTokenExpired) {
		t.Errorf("expected ErrJwtTokenExpired, got %v", err)
	}
}

func TestParseJwtUnverified(t *testing.T) {
	token, _, err := NewJwt(jwt.MapClaims{ClaimUserID: "u1"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJwt failed: %v", err)
	}

	claims, err := ParseJwtUnverified(token)
	if err != nil {
		t.Fatalf("ParseJwtUnverified failed: %v", err)
	}
	if claims[ClaimUserID] != "u1" {
		t.Errorf("expected user_id claim u1, got %v", claims[ClaimUserID])
	}

	if _, err := ParseJwtUnverified("garbage"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestSigningKeyChangesWithCredentials(t *testing.T) {
	k1, err := NewJwtSigningKeyWithCredentials("a@example.com", "hash1", testSecret)
	if err != nil {
		t.Fatalf("NewJwtSigningKeyWithCredentials failed: %v", err)
	}
	k2, err := NewJwtSigningKeyWithCredentials("a@example.com", "hash2", testSecret)
	if err != nil {
		t.Fatalf("NewJwtSigningKeyWithCredentials failed: %v", err)
	}
	if string(k1) == string(k2) {
		t.Error("expected key to change when password hash changes")
	}

	if _, err := NewJwtSigningKeyWithCredentials("", "hash", testSecret); err == nil {
		t.Error("expected error for empty email")
	}
	if _, err := NewJwtSigningKeyWithCredentials("a@example.com", "hash", []byte("short")); err == nil {
		t.Error("expected error for short secret")
	}
}

func TestValidateSessionClaims(t *testing.T) {
	now := float64(time.Now().Unix())
	future := float64(time.Now().Add(time.Hour).Unix())
	past := float64(time.Now().Add(-time.Hour).Unix())

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		wantErr error
	}{
		{"valid", jwt.MapClaims{ClaimIssuedAt: now, ClaimExpiresAt: future, ClaimUserID: "u1"}, nil},
		{"missing iat", jwt.MapClaims{ClaimExpiresAt: future, ClaimUserID: "u1"}, ErrInvalidClaimFormat},
		{"missing exp", jwt.MapClaims{ClaimIssuedAt: now, ClaimUserID: "u1"}, ErrInvalidClaimFormat},
		{"expired", jwt.MapClaims{ClaimIssuedAt: now, ClaimExpiresAt: past, ClaimUserID: "u1"}, ErrJwtTokenExpired},
		{"missing user_id", jwt.MapClaims{ClaimIssuedAt: now, ClaimExpiresAt: future}, ErrInvalidClaimFormat},
		{"empty user_id", jwt.MapClaims{ClaimIssuedAt: now, ClaimExpiresAt: future, ClaimUserID: ""}, ErrInvalidClaimFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSessionClaims(tc.claims)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
