package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration so values can be written as "45m" or "2h"
// in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Server struct {
	Addr                    string   `toml:"addr"`
	ShutdownGracefulTimeout Duration `toml:"shutdown_graceful_timeout"`
	ReadTimeout             Duration `toml:"read_timeout"`
	ReadHeaderTimeout       Duration `toml:"read_header_timeout"`
	WriteTimeout            Duration `toml:"write_timeout"`
	IdleTimeout             Duration `toml:"idle_timeout"`
}

type Jwt struct {
	// AuthSecret is the server half of the per-user signing key. Must be
	// at least 32 characters.
	AuthSecret        string   `toml:"auth_secret"`
	AuthTokenDuration Duration `toml:"auth_token_duration"`
}

// Otp governs one-time codes for registration and password reset.
type Otp struct {
	Length int      `toml:"length"`
	Expiry Duration `toml:"expiry"`

	// ResetTokenLength is the length of the random credential handed out
	// after a successful reset OTP verification.
	ResetTokenLength int `toml:"reset_token_length"`
}

type Smtp struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

type Scheduler struct {
	Interval              Duration `toml:"interval"`
	MaxJobsPerTick        int      `toml:"max_jobs_per_tick"`
	ConcurrencyMultiplier int      `toml:"concurrency_multiplier"`
}

// RateLimits holds the cooldown windows for outbound email jobs. A second
// request for the same address inside a window is dropped by the queue's
// deduplication.
type RateLimits struct {
	RegistrationOtpCooldown  Duration `toml:"registration_otp_cooldown"`
	PasswordResetOtpCooldown Duration `toml:"password_reset_otp_cooldown"`
}

// Maintenance configures the recurring cleanup of expired rows.
type Maintenance struct {
	PurgeInterval Duration `toml:"purge_interval"`
}

type Config struct {
	DBFile      string      `toml:"db_file"`
	Server      Server      `toml:"server"`
	Jwt         Jwt         `toml:"jwt"`
	Otp         Otp         `toml:"otp"`
	Smtp        Smtp        `toml:"smtp"`
	Scheduler   Scheduler   `toml:"scheduler"`
	RateLimits  RateLimits  `toml:"rate_limits"`
	Maintenance Maintenance `toml:"maintenance"`
}
