package notify

import (
	"context"

	"github.com/dtroode/levelkeeper/internal/logger"
)

var _ MailSender = (*LogSender)(nil)

// LogSender writes messages to the log instead of delivering them.
// It is used when no SMTP relay is configured.
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("Mail: delivery disabled, message dropped",
		"to", msg.To,
		"subject", msg.Subject)
	return nil
}
