package adapter

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

type logMailRelay struct {
	logger *logger.Logger
}

// NewLogMailRelay returns a [MailRelay] that only logs. The mail text goes to
// debug level: it carries reset links.
func NewLogMailRelay(logger *logger.Logger) MailRelay {
	return &logMailRelay{logger: logger}
}

func (l *logMailRelay) Deliver(ctx context.Context, mail models.Mail) error {
	l.logger.Info().
		Str("func", "*logMailRelay.Deliver").
		Str("to", mail.To).
		Str("subject", mail.Subject).
		Msg("mail relay not configured, mail logged")
	l.logger.Debug().Str("to", mail.To).Str("text", mail.Text).Msg("mail text")
	return nil
}
