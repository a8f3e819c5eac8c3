package queue

import (
	"encoding/json"
	"time"
)

// Job represents a job in the processing queue
type Job struct {
	ID           int64           `json:"id"`
	JobType      string          `json:"job_type"`
	Payload      json.RawMessage `json:"payload"`       // unique payload part
	PayloadExtra json.RawMessage `json:"payload_extra"` // non-unique payload part
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	MaxAttempts  int             `json:"max_attempts"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	LockedAt     time.Time       `json:"locked_at,omitempty"`
	CompletedAt  time.Time       `json:"completed_at,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
	Recurrent    bool            `json:"recurrent"`
	Interval     time.Duration   `json:"interval"`
}

// Job types
const (
	JobTypeRegistrationOtp  = "job_type_registration_otp"
	JobTypePasswordResetOtp = "job_type_password_reset_otp"
	JobTypePurgeExpired     = "job_type_purge_expired"
)

// Job statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// PayloadRegistrationOtp identifies a registration OTP email dispatch.
//
// CooldownBucket is the current Unix time divided by the cooldown duration,
// rounded down. Together with the unique constraint on (job_type, payload)
// it limits dispatch to one email per address per bucket: a second request
// in the same bucket produces an identical payload and the insert fails.
type PayloadRegistrationOtp struct {
	Email          string `json:"email"`
	CooldownBucket int    `json:"cooldown_bucket"`
}

// PayloadPasswordResetOtp identifies a password reset OTP email dispatch.
// Deduplication works the same way as for registration OTPs.
type PayloadPasswordResetOtp struct {
	Email          string `json:"email"`
	CooldownBucket int    `json:"cooldown_bucket"`
}

// PayloadOtpExtra carries the non-unique part of an OTP email job: the
// code itself. It lives outside the deduplicated payload so two requests in
// different buckets may carry different codes.
type PayloadOtpExtra struct {
	Otp string `json:"otp"`
}

// CoolDownBucket returns the bucket number for t given a cooldown duration.
func CoolDownBucket(cooldown time.Duration, t time.Time) int {
	return int(t.Unix() / int64(cooldown.Seconds()))
}
