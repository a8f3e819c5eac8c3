package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
	"github.com/grouplet/grouplet/config"
)

// MailerInterface lets job handlers swap in a fake during tests.
type MailerInterface interface {
	SendRegistrationOtp(ctx context.Context, email, otp string) error
	SendPasswordResetOtp(ctx context.Context, email, otp string) error
}

// Mailer sends transactional email over SMTP. Connection settings are read
// per send so configuration updates apply without a restart.
type Mailer struct {
	configProvider *config.Provider
}

func New(configProvider *config.Provider) (*Mailer, error) {
	cfg := configProvider.Get()
	if cfg.Smtp.Host == "" || cfg.Smtp.Port <= 0 {
		return nil, fmt.Errorf("smtp is not configured")
	}
	return &Mailer{configProvider: configProvider}, nil
}

func (m *Mailer) newMail() (*mailyak.MailYak, string) {
	cfg := m.configProvider.Get()

	var auth smtp.Auth
	if cfg.Smtp.Username != "" {
		auth = smtp.PlainAuth("", cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.Host)
	}

	mail := mailyak.New(fmt.Sprintf("%s:%d", cfg.Smtp.Host, cfg.Smtp.Port), auth)
	return mail, cfg.Smtp.From
}

// send delivers the message in a goroutine so the context deadline bounds
// the SMTP round trip.
func send(ctx context.Context, mail *mailyak.MailYak) error {
	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// SendRegistrationOtp sends the one-time code that completes a signup.
func (m *Mailer) SendRegistrationOtp(ctx context.Context, email, otp string) error {
	mail, from := m.newMail()

	mail.To(email)
	mail.From(from)
	mail.Subject("Your verification code")
	mail.Plain().Set(fmt.Sprintf(
		"Your verification code is %s.\n\nIt expires in a few minutes. If you did not request it, ignore this message.\n", otp))

	if err := send(ctx, mail); err != nil {
		return fmt.Errorf("failed to send registration otp: %w", err)
	}
	return nil
}

// SendPasswordResetOtp sends the one-time code that starts a password reset.
func (m *Mailer) SendPasswordResetOtp(ctx context.Context, email, otp string) error {
	mail, from := m.newMail()

	mail.To(email)
	mail.From(from)
	mail.Subject("Your password reset code")
	mail.Plain().Set(fmt.Sprintf(
		"Your password reset code is %s.\n\nIt expires in a few minutes. If you did not request it, ignore this message.\n", otp))

	if err := send(ctx, mail); err != nil {
		return fmt.Errorf("failed to send password reset otp: %w", err)
	}
	return nil
}
