package config

import (
	"time"

	"github.com/grouplet/grouplet/crypto"
)

func randomSecret(n int) string {
	s, err := crypto.RandomString(n, crypto.AlphanumericAlphabet)
	if err != nil {
		panic(err) // crypto/rand failure, nothing sensible to do
	}
	return s
}

// NewDefaultConfig creates a new Config with sensible defaults.
// All secret values are randomly generated.
func NewDefaultConfig() *Config {
	return &Config{
		DBFile: "grouplet.db",
		Server: Server{
			Addr:                    ":8080",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 2 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 3 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
		},
		Jwt: Jwt{
			AuthSecret:        randomSecret(32),
			AuthTokenDuration: Duration{Duration: 45 * time.Minute},
		},
		Otp: Otp{
			Length:           6,
			Expiry:           Duration{Duration: 5 * time.Minute},
			ResetTokenLength: 64,
		},
		Smtp: Smtp{
			Host: "localhost",
			Port: 587,
			From: "no-reply@localhost",
		},
		Scheduler: Scheduler{
			Interval:              Duration{Duration: 15 * time.Second},
			MaxJobsPerTick:        10,
			ConcurrencyMultiplier: 2,
		},
		RateLimits: RateLimits{
			RegistrationOtpCooldown:  Duration{Duration: 1 * time.Minute},
			PasswordResetOtpCooldown: Duration{Duration: 1 * time.Minute},
		},
		Maintenance: Maintenance{
			PurgeInterval: Duration{Duration: 1 * time.Hour},
		},
	}
}
