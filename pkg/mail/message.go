package mail

import (
	"errors"
	"fmt"
	netmail "net/mail"
	"time"
)

// Address, email adresi ve opsiyonel görünen isim.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// String, RFC 5322 formatında ("Ad Soyad" <a@b.c>) döndürür. ASCII dışı
// isimler encode edilir.
func (a Address) String() string {
	return (&netmail.Address{Name: a.Name, Address: a.Email}).String()
}

var (
	ErrNoRecipient = errors.New("mail: en az bir alıcı gerekli")
	ErrNoSubject   = errors.New("mail: konu boş olamaz")
	ErrNoBody      = errors.New("mail: text veya html gövde gerekli")
)

// Message, gönderilecek email. Alanlar JSON ile taşınabilir; queue
// job'ları mesajı payload olarak saklar.
//
//	msg := mail.NewMessage().
//	    To("ayesha@example.com", "Ayesha Khan").
//	    Subject("Application #1042 received").
//	    Text(body)
type Message struct {
	FromAddr Address           `json:"from"`
	ToAddrs  []Address         `json:"to"`
	ReplyTo  *Address          `json:"reply_to,omitempty"`
	Subj     string            `json:"subject"`
	TextBody string            `json:"text,omitempty"`
	HTMLBody string            `json:"html,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	Date     time.Time         `json:"date"`
}

func NewMessage() *Message {
	return &Message{Date: time.Now()}
}

func (m *Message) From(email, name string) *Message {
	m.FromAddr = Address{Email: email, Name: name}
	return m
}

func (m *Message) To(email, name string) *Message {
	m.ToAddrs = append(m.ToAddrs, Address{Email: email, Name: name})
	return m
}

func (m *Message) Reply(email, name string) *Message {
	m.ReplyTo = &Address{Email: email, Name: name}
	return m
}

func (m *Message) Subject(subject string) *Message {
	m.Subj = subject
	return m
}

func (m *Message) Text(body string) *Message {
	m.TextBody = body
	return m
}

func (m *Message) HTML(body string) *Message {
	m.HTMLBody = body
	return m
}

// Header, özel bir header ekler (örn. X-Form-No).
func (m *Message) Header(key, value string) *Message {
	if m.Headers == nil {
		m.Headers = make(map[string]string)
	}
	m.Headers[key] = value
	return m
}

// Validate, gönderimden önce zorunlu alanları ve adres formatlarını kontrol eder.
func (m *Message) Validate() error {
	if len(m.ToAddrs) == 0 {
		return ErrNoRecipient
	}
	for _, addr := range m.ToAddrs {
		if _, err := netmail.ParseAddress(addr.Email); err != nil {
			return fmt.Errorf("mail: geçersiz alıcı %q: %w", addr.Email, err)
		}
	}
	if m.Subj == "" {
		return ErrNoSubject
	}
	if m.TextBody == "" && m.HTMLBody == "" {
		return ErrNoBody
	}
	return nil
}
