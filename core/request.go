package core

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateEmail checks if the provided email address is valid according to RFC 5322
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email format")
	}

	// ParseAddress accepts display names ("Bob <bob@example.com>"),
	// we only want the bare address.
	if addr.Address != strings.TrimSpace(email) {
		return errors.New("invalid email format")
	}

	return nil
}
