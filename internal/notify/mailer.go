// AngelaMos | 2026
// mailer.go

package notify

import (
	"context"
	"log/slog"
)

// Mailer delivers transactional messages to users. There is no SMTP
// integration; deliveries land in the structured log, which is where
// operators read them during demos.
type Mailer interface {
	Send(ctx context.Context, msg Message)
}

type Message struct {
	To      string
	Subject string
	Body    string
}

type logMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) Send(ctx context.Context, msg Message) {
	m.logger.InfoContext(ctx, "email sent",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
}
