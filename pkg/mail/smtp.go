package mail

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"sort"
	"strings"
	"time"
)

// SMTPConfig, SMTP bağlantı ayarları. Username boşsa AUTH yapılmaz
// (örn. Mailhog: localhost:1025).
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     Address
}

// SMTPMailer, net/smtp ile gönderim yapar. STARTTLS sunucu destekliyorsa
// smtp.SendMail tarafından otomatik kullanılır.
type SMTPMailer struct {
	config SMTPConfig
	logger Logger

	// send, testlerde değiştirilebilir.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(config SMTPConfig, logger Logger) *SMTPMailer {
	return &SMTPMailer{config: config, logger: logger, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(ctx context.Context, message *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if message.FromAddr.Email == "" {
		message.FromAddr = m.config.From
	}
	if err := message.Validate(); err != nil {
		return err
	}

	raw, err := buildMIME(message)
	if err != nil {
		return fmt.Errorf("mail: mesaj oluşturulamadı: %w", err)
	}

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	recipients := make([]string, len(message.ToAddrs))
	for i, addr := range message.ToAddrs {
		recipients[i] = addr.Email
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	if err := m.send(addr, auth, message.FromAddr.Email, recipients, raw); err != nil {
		m.logger.Printf("❌ SMTP gönderim hatası (%s): %v", message.Subj, err)
		return fmt.Errorf("mail: smtp gönderimi başarısız: %w", err)
	}

	m.logger.Printf("📧 Email gönderildi: %s → %s", message.Subj, strings.Join(recipients, ", "))
	return nil
}

// buildMIME, mesajı multipart/alternative gövdeli RFC 5322 metnine çevirir.
func buildMIME(message *Message) ([]byte, error) {
	var buf bytes.Buffer

	to := make([]string, len(message.ToAddrs))
	for i, addr := range message.ToAddrs {
		to[i] = addr.String()
	}

	date := message.Date
	if date.IsZero() {
		date = time.Now()
	}

	fmt.Fprintf(&buf, "From: %s\r\n", message.FromAddr.String())
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	if message.ReplyTo != nil {
		fmt.Fprintf(&buf, "Reply-To: %s\r\n", message.ReplyTo.String())
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", message.Subj))
	fmt.Fprintf(&buf, "Date: %s\r\n", date.Format(time.RFC1123Z))

	keys := make([]string, 0, len(message.Headers))
	for k := range message.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s: %s\r\n", textproto.CanonicalMIMEHeaderKey(k), message.Headers[k])
	}

	buf.WriteString("MIME-Version: 1.0\r\n")

	writer := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", writer.Boundary())

	parts := []struct{ contentType, body string }{
		{"text/plain; charset=utf-8", message.TextBody},
		{"text/html; charset=utf-8", message.HTMLBody},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		w, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
