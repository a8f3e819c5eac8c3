package db

import "errors"

var (
	// ErrConstraintUnique is returned when an insert or update violates a
	// unique constraint (duplicate email/phone, duplicate membership,
	// duplicate queued job in the same cooldown bucket).
	ErrConstraintUnique = errors.New("unique constraint violation")

	// ErrUserNotFound is returned by lookups that require an existing user.
	ErrUserNotFound = errors.New("user not found")

	// ErrGroupNotFound is returned by lookups that require an existing group.
	ErrGroupNotFound = errors.New("group not found")

	// ErrMemberNotFound is returned when a (group, user) membership row is absent.
	ErrMemberNotFound = errors.New("group member not found")

	// ErrMissingFields is returned when a record is missing required fields
	// before insertion.
	ErrMissingFields = errors.New("missing required fields")
)
