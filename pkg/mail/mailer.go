// Package mail, başvuru sahiplerine giden bildirimlerin gönderimini soyutlar.
// SMTP driver gerçek gönderim yapar; Log driver mesajı yalnızca log'a yazar
// (development ve test).
package mail

import (
	"context"
	"strings"
)

// Mailer, email gönderim driver'larının ortak arayüzü.
type Mailer interface {
	Send(ctx context.Context, message *Message) error
}

// Logger interface - dependency injection için
type Logger interface {
	Printf(format string, v ...interface{})
}

// LogMailer, mesajı göndermeden log'a yazar.
type LogMailer struct {
	logger Logger
	from   Address
}

func NewLogMailer(from Address, logger Logger) *LogMailer {
	return &LogMailer{logger: logger, from: from}
}

func (m *LogMailer) Send(ctx context.Context, message *Message) error {
	if message.FromAddr.Email == "" {
		message.FromAddr = m.from
	}
	if err := message.Validate(); err != nil {
		return err
	}

	to := make([]string, len(message.ToAddrs))
	for i, addr := range message.ToAddrs {
		to[i] = addr.String()
	}

	body := message.TextBody
	if body == "" {
		body = message.HTMLBody
	}

	m.logger.Printf("📧 [log mailer] %s → %s | %s\n%s",
		message.FromAddr.String(), strings.Join(to, ", "), message.Subj, body)
	return nil
}
