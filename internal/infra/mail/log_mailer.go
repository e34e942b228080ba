// Package mail implements outbound mail delivery.
package mail

import (
	"context"
	"log/slog"

	"orderdesk/config"
	"orderdesk/internal/domain/service"
)

// logMailer writes outbound mail to the structured log instead of an SMTP
// relay. Local and test environments run with this implementation; a real
// provider slots in behind the same service.Mailer interface.
type logMailer struct {
	from   string
	logger *slog.Logger
}

// NewLogMailer is the constructor for logMailer.
func NewLogMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	from := ""
	if cfg.Mail != nil {
		from = cfg.Mail.From
	}

	return &logMailer{from: from, logger: logger}
}

// SendVerificationCode logs the email verification code.
func (m *logMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	m.logger.InfoContext(ctx, "verification code issued",
		slog.String("from", m.from),
		slog.String("to", email),
		slog.String("code", code))

	return nil
}

// SendPasswordResetCode logs the password reset code.
func (m *logMailer) SendPasswordResetCode(ctx context.Context, email, code string) error {
	m.logger.InfoContext(ctx, "password reset code issued",
		slog.String("from", m.from),
		slog.String("to", email),
		slog.String("code", code))

	return nil
}
