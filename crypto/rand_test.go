package crypto

import (
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	s, err := RandomString(10, AlphanumericAlphabet)
	if err != nil {
		t.Fatalf("RandomString failed: %v", err)
	}
	if len(s) != 10 {
		t.Errorf("expected length 10, got %d", len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune(AlphanumericAlphabet, c) {
			t.Errorf("character %q not in alphabet", c)
		}
	}

	if _, err := RandomString(0, AlphanumericAlphabet); err == nil {
		t.Error("expected error for zero length")
	}
	if _, err := RandomString(5, ""); err == nil {
		t.Error("expected error for empty alphabet")
	}
}

func TestRandomOtp(t *testing.T) {
	otp, err := RandomOtp(6)
	if err != nil {
		t.Fatalf("RandomOtp failed: %v", err)
	}
	if len(otp) != 6 {
		t.Errorf("expected 6 digits, got %q", otp)
	}
	for _, c := range otp {
		if c < '0' || c > '9' {
			t.Errorf("expected only digits, got %q", otp)
		}
	}

	if _, err := RandomOtp(0); err == nil {
		t.Error("expected error for zero digits")
	}
}

func TestRandomHex(t *testing.T) {
	s, err := RandomHex(16)
	if err != nil {
		t.Fatalf("RandomHex failed: %v", err)
	}
	if len(s) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(s))
	}
}

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := GenerateHash("secret123")
	if err != nil {
		t.Fatalf("GenerateHash failed: %v", err)
	}
	if !CheckPassword("secret123", hash) {
		t.Error("expected password to match its hash")
	}
	if CheckPassword("wrong", hash) {
		t.Error("expected wrong password to fail")
	}
}
