package services

import (
	"context"
	"log/slog"
)

// LogEmailSender writes the passcode to the log instead of delivering it.
// Development only: keeps local signup usable without SES or SMTP
// credentials.
type LogEmailSender struct {
	logger *slog.Logger
}

func NewLogEmailSender(logger *slog.Logger) *LogEmailSender {
	return &LogEmailSender{logger: logger}
}

func (s *LogEmailSender) SendPasscode(_ context.Context, email, _, code string) error {
	s.logger.Info("passcode (log sender, not delivered)",
		slog.String("email", email),
		slog.String("code", code))
	return nil
}
