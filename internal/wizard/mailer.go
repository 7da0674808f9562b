package wizard

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/logging"
)

// Mailer delivers verification codes
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// LogMailer writes codes to the log instead of sending mail. It is used until
// an email provider is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logging.Component(logger, "mailer")}
}

func (m *LogMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.logger.Info("verification code issued", zap.String("email", email), zap.String("code", code))
	return nil
}
