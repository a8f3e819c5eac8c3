package config

import (
	"fmt"

	"github.com/grouplet/grouplet/crypto"
)

// Validate checks the invariants the application relies on at runtime.
func Validate(cfg *Config) error {
	if cfg.DBFile == "" {
		return fmt.Errorf("db_file must be set")
	}

	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr must be set")
	}

	if len(cfg.Jwt.AuthSecret) < crypto.MinKeyLength {
		return fmt.Errorf("jwt.auth_secret must be at least %d characters", crypto.MinKeyLength)
	}
	if cfg.Jwt.AuthTokenDuration.Duration <= 0 {
		return fmt.Errorf("jwt.auth_token_duration must be positive")
	}

	if cfg.Otp.Length < 4 {
		return fmt.Errorf("otp.length must be at least 4")
	}
	if cfg.Otp.Expiry.Duration <= 0 {
		return fmt.Errorf("otp.expiry must be positive")
	}
	if cfg.Otp.ResetTokenLength < 32 {
		return fmt.Errorf("otp.reset_token_length must be at least 32")
	}

	if cfg.Smtp.Host == "" || cfg.Smtp.Port <= 0 {
		return fmt.Errorf("smtp.host and smtp.port must be set")
	}

	if cfg.Scheduler.Interval.Duration <= 0 {
		return fmt.Errorf("scheduler.interval must be positive")
	}
	if cfg.Scheduler.MaxJobsPerTick <= 0 {
		return fmt.Errorf("scheduler.max_jobs_per_tick must be positive")
	}
	if cfg.Scheduler.ConcurrencyMultiplier <= 0 {
		return fmt.Errorf("scheduler.concurrency_multiplier must be positive")
	}

	if cfg.RateLimits.RegistrationOtpCooldown.Duration <= 0 ||
		cfg.RateLimits.PasswordResetOtpCooldown.Duration <= 0 {
		return fmt.Errorf("rate limit cooldowns must be positive")
	}

	if cfg.Maintenance.PurgeInterval.Duration <= 0 {
		return fmt.Errorf("maintenance.purge_interval must be positive")
	}

	return nil
}
