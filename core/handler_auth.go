package core

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/grouplet/grouplet/crypto"
	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/queue"
)

// newSessionToken issues the bearer token for a user. The signing key is
// derived from the user's credentials, so a password change invalidates
// every outstanding session.
func (a *App) newSessionToken(user *db.User) (string, time.Time, error) {
	cfg := a.Config()

	signingKey, err := crypto.NewJwtSigningKeyWithCredentials(user.Email, user.Password, []byte(cfg.Jwt.AuthSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	claims := jwt.MapClaims{crypto.ClaimUserID: user.ID}
	return crypto.NewJwt(claims, signingKey, cfg.Jwt.AuthTokenDuration.Duration)
}

// enqueueOtpEmail inserts an OTP dispatch job. A duplicate inside the
// current cooldown bucket trips the queue's unique index and is dropped
// silently; the earlier job's email is still on its way.
func (a *App) enqueueOtpEmail(jobType, email, otp string, cooldown time.Duration) error {
	bucket := queue.CoolDownBucket(cooldown, time.Now())

	var payload []byte
	switch jobType {
	case queue.JobTypeRegistrationOtp:
		payload, _ = json.Marshal(queue.PayloadRegistrationOtp{Email: email, CooldownBucket: bucket})
	default:
		payload, _ = json.Marshal(queue.PayloadPasswordResetOtp{Email: email, CooldownBucket: bucket})
	}
	extra, _ := json.Marshal(queue.PayloadOtpExtra{Otp: otp})

	err := a.dbQueue.InsertJob(queue.Job{
		JobType:      jobType,
		Payload:      payload,
		PayloadExtra: extra,
	})
	if errors.Is(err, db.ErrConstraintUnique) {
		a.logger.Debug("otp email deduplicated", "job_type", jobType, "bucket", bucket)
		return nil
	}
	return err
}
