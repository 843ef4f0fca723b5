package queue

import (
	"context"
	"encoding/json"
	"time"
)

// Job, kuyruktaki bir iş. Job struct'ı JSON ile serialize edilir; bu yüzden
// taşınacak alanlar export edilmeli, bağımlılıklar (mailer vb.) ise Registry
// factory'si ile enjekte edilmelidir.
type Job interface {
	// Name, Registry'deki kayıt adı (örn. "applicant.mail").
	Name() string

	Handle(ctx context.Context) error

	// Failed, deneme hakkı bittiğinde bir kez çağrılır.
	Failed(err error)

	Meta() *BaseJob
}

// BaseJob, job metadata'sı. Job'lar bu struct'ı gömer.
type BaseJob struct {
	ID          string `json:"-"`
	Queue       string `json:"-"`
	Attempts    int    `json:"-"`
	MaxAttempts int    `json:"-"`
}

func (b *BaseJob) Meta() *BaseJob {
	return b
}

// Tries, maksimum deneme sayısı; sıfırsa 3.
func (b *BaseJob) Tries() int {
	if b.MaxAttempts <= 0 {
		return 3
	}
	return b.MaxAttempts
}

// envelope, Redis'te saklanan job kaydı.
type envelope struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Queue       string          `json:"queue"`
	Payload     json.RawMessage `json:"payload"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	CreatedAt   time.Time       `json:"created_at"`
	AvailableAt time.Time       `json:"available_at"`
}
