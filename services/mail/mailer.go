package mail

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/config"
)

// Mailer sends outbound email. Callers depend on this interface so tests and
// environments without an SMTP relay can substitute a no-op.
type Mailer interface {
	SendVerificationCode(to, code string) error
}

// GenerateCode returns a 6-digit confirmation code drawn from crypto/rand
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SMTPMailer delivers mail through a configured SMTP relay
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTP-backed mailer
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// SendVerificationCode emails a confirmation code to the recipient
func (m *SMTPMailer) SendVerificationCode(to, code string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Email Verification\r\n\r\nYour verification code is: %s\r\nIt expires in 10 minutes.\r\n",
		m.cfg.Sender, to, code,
	))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.Sender, []string{to}, msg); err != nil {
		m.logger.Error("failed to send verification email",
			zap.String("to", to),
			zap.Error(err))
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	m.logger.Debug("verification email sent", zap.String("to", to))
	return nil
}

// NoopMailer drops mail on the floor. Used in development when no relay is
// configured; the code still lands in the database for manual verification.
type NoopMailer struct {
	logger *zap.Logger
}

// NewNoopMailer creates a mailer that logs instead of sending
func NewNoopMailer(logger *zap.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// SendVerificationCode logs the code without sending anything
func (m *NoopMailer) SendVerificationCode(to, code string) error {
	m.logger.Info("mail delivery disabled, verification code not sent",
		zap.String("to", to))
	return nil
}
