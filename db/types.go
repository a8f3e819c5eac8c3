package db

import "time"

// User represents an activated account.
// Timestamps (Created and Updated) use RFC3339 format in UTC timezone.
// Example: "2024-03-07T15:04:05Z"
type User struct {
	ID    string
	Name  string
	Email string
	// Phone is optional. Empty string means no phone on record; non-empty
	// values are unique across users.
	Phone    string
	Password string
	Verified bool
	Created  time.Time
	Updated  time.Time
}

// PendingRegistration is a signup waiting for OTP confirmation. Several
// historical rows may exist for the same email; only non-expired rows are
// ever considered and the newest match wins.
type PendingRegistration struct {
	ID        int64
	Email     string
	Name      string
	Phone     string
	Password  string
	Otp       string
	Created   time.Time
	ExpiresAt time.Time
}

// PasswordReset is an in-flight forgot-password transaction. ResetToken is
// empty until the OTP has been verified.
type PasswordReset struct {
	ID         int64
	Email      string
	Otp        string
	ResetToken string
	Created    time.Time
	ExpiresAt  time.Time
}

type Group struct {
	ID          int64
	Name        string
	Description string
	CreatedBy   string
	IsShared    bool
	ShareCode   string
	Created     time.Time
	Updated     time.Time
}

type GroupMember struct {
	ID            int64
	GroupID       int64
	UserID        string
	JoinedViaCode bool
	// IsShared controls whether the member's items are surfaced to the
	// rest of the group by default.
	IsShared bool
	Created  time.Time
}

// MemberInfo is the member listing projection (membership joined with the
// user record).
type MemberInfo struct {
	UserID   string
	Name     string
	Email    string
	IsShared bool
}

type Post struct {
	ID         int64
	GroupID    int64
	UserID     string
	AuthorName string
	Content    string
	Created    time.Time
}

type Story struct {
	ID         int64
	GroupID    int64
	UserID     string
	AuthorName string
	Content    string
	Type       string
	ExpiresAt  time.Time
	Created    time.Time
}
